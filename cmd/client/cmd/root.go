package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"edusync/cmd/client/cmd/cli"
	"edusync/internal/app/client"
	"edusync/internal/app/client/config"
	"edusync/internal/utils/logger"
)

var (
	cfgFile    string
	cfg        *config.Config
	log        *slog.Logger
	app        *client.App
	debug      bool
	jsonOutput bool
	serverAddr string
)

var rootCmd = &cobra.Command{
	Use:   "edusync",
	Short: "edusync - офлайн-клиент школьных данных",
	Long: `edusync хранит учеников, начисления, счета, платежи, посещаемость и тесты
в локальной базе и синхронизирует их с сервером документов.

Запись всегда сначала попадает в локальную базу, затем на сервер. Если сервер
недоступен, данные остаются локально до следующей синхронизации.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if app != nil {
		if cerr := app.Close(); cerr != nil && log != nil {
			log.Error("close app", "error", cerr)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Переопределяем настройки из флагов командной строки
	if serverAddr != "" {
		cfg.ServerAddress = serverAddr
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}

	// Логи в stderr, чтобы не смешивать их с выводом команд
	log = logger.NewWriter(os.Stderr, cfg.Env, level)
	cli.SetupColor(os.Stdout)

	app, err = client.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	cmd.SetContext(cli.WithApp(cmd.Context(), app))
	return nil
}

func init() {
	// Глобальные флаги
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "", "адрес сервера документов (host:port)")

	// Команды будут добавлены в init() соответствующих файлов
}
