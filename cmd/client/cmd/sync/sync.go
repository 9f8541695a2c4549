package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"edusync/cmd/client/cmd/cli"
	"edusync/internal/app/client"
	domainSync "edusync/internal/domain/sync"
	"edusync/internal/infrastructure/metrics"
)

var (
	syncStatus bool
	resetStats bool
	autoSync   bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync [collection...]",
	Short: "Загрузить данные с сервера",
	Long: `Загружает коллекции с сервера в локальную базу. Без аргументов синхронизируются все.

Данные сервера перезаписывают локальные копии с тем же ID. Записи, которых нет
на сервере, остаются в локальной базе.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.App(cmd)
		if err != nil {
			return err
		}
		p := cli.PrinterFor(cmd)

		switch {
		case syncStatus:
			return showSyncStatus(cmd.Context(), p, app)
		case resetStats:
			app.GetSyncService().ResetStats()
			p.Success("Статистика синхронизации сброшена")
			return nil
		case autoSync:
			p.Println("Автосинхронизация запущена, Ctrl+C для остановки")
			app.RunAutoSync(cmd.Context())
			if cmd.Context().Err() == nil {
				return fmt.Errorf("интервал автосинхронизации не задан (SYNC_INTERVAL_SECONDS)")
			}
			return nil
		}

		return runSync(cmd.Context(), p, app, args)
	},
}

func runSync(ctx context.Context, p *cli.Printer, app *client.App, collections []string) error {
	result, err := app.Sync(ctx, collections...)
	if err != nil {
		if errors.Is(err, domainSync.ErrSyncInProgress) {
			return fmt.Errorf("синхронизация уже выполняется")
		}
		return fmt.Errorf("ошибка синхронизации: %w", err)
	}

	counts, err := app.RemoteCounts()
	if err != nil {
		return err
	}

	if p.JSON() {
		return p.Encode(struct {
			*client.SyncResult
			RemoteOperations []metrics.RemoteCount `json:"remote_operations"`
		}{SyncResult: result, RemoteOperations: counts})
	}

	for _, r := range result.Reports {
		switch {
		case r.Err != nil:
			p.Fail("%-14s сервер %s: %v", r.Collection, r.Remote, r.Err)
		case r.Failed > 0:
			p.Warn("%-14s загружено %d, пропущено %d, ошибок %d", r.Collection, r.Downloaded, r.Skipped, r.Failed)
		default:
			p.Success("%-14s загружено %d, пропущено %d", r.Collection, r.Downloaded, r.Skipped)
		}
	}

	p.Println()
	if result.Success {
		p.Success("Синхронизация завершена за %v", result.Duration.Round(time.Millisecond))
	} else {
		p.Warn("Синхронизация завершена с ошибками за %v", result.Duration.Round(time.Millisecond))
	}
	p.Printf("Загружено с сервера: %d записей\n", result.Downloaded)
	p.Println()
	p.RemoteCounts(counts)
	return nil
}

func showSyncStatus(ctx context.Context, p *cli.Printer, app *client.App) error {
	stats := app.GetSyncService().GetStats()
	connErr := app.CheckConnection(ctx)

	if p.JSON() {
		return p.Encode(struct {
			client.SyncStats
			Online bool `json:"online"`
		}{SyncStats: stats, Online: connErr == nil})
	}

	p.Println("Статистика:")
	p.Printf("  Всего синхронизаций: %d\n", stats.TotalSyncs)
	p.Printf("  С ошибками: %d\n", stats.TotalErrors)
	p.Printf("  Загружено с сервера: %d записей\n", stats.TotalDownloaded)
	p.Printf("  Пропущено: %d записей\n", stats.TotalSkipped)
	p.Printf("  Среднее время: %.2f сек\n", stats.AvgSyncDuration)

	if !stats.LastSuccessful.IsZero() {
		p.Printf("  Последняя успешная: %s\n", stats.LastSuccessful.Local().Format(time.DateTime))
	}
	if !stats.LastFailed.IsZero() {
		p.Printf("  Последняя неудачная: %s\n", stats.LastFailed.Local().Format(time.DateTime))
	}

	p.Println()
	if connErr != nil {
		p.Fail("Сервер недоступен: %v", connErr)
	} else {
		p.Success("Сервер доступен")
	}
	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "показать статус синхронизации")
	SyncCmd.Flags().BoolVar(&resetStats, "reset", false, "сбросить статистику синхронизации")
	SyncCmd.Flags().BoolVar(&autoSync, "auto", false, "синхронизировать периодически (SYNC_INTERVAL_SECONDS)")
}
