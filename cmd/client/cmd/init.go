package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"edusync/cmd/client/cmd/cli"
	"edusync/cmd/client/cmd/fee"
	"edusync/cmd/client/cmd/record"
	"edusync/cmd/client/cmd/student"
	"edusync/cmd/client/cmd/sync"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние локальной базы и соединения с сервером",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := cli.App(cmd)
		if err != nil {
			return err
		}
		p := cli.PrinterFor(cmd)

		counts, err := app.LocalCounts(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка подсчета записей: %w", err)
		}
		connErr := app.CheckConnection(cmd.Context())

		if p.JSON() {
			out := struct {
				Server string         `json:"server"`
				Online bool           `json:"online"`
				Counts map[string]int `json:"counts"`
			}{Server: cfg.ServerAddress, Online: connErr == nil, Counts: counts}
			return p.Encode(out)
		}

		if connErr != nil {
			p.Warn("Сервер %s недоступен: %v", cfg.ServerAddress, connErr)
		} else {
			p.Success("Сервер %s доступен", cfg.ServerAddress)
		}
		p.Println()
		for _, name := range app.Collections() {
			p.Printf("  %-14s %d\n", name, counts[name])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	// Добавляем команды работы с записями
	rootCmd.AddCommand(record.RecordCmd)
	record.RecordCmd.AddCommand(record.ListCmd)
	record.RecordCmd.AddCommand(record.GetCmd)
	record.RecordCmd.AddCommand(record.DeleteCmd)
	record.RecordCmd.AddCommand(record.CountCmd)
	record.RecordCmd.AddCommand(record.WatchCmd)

	rootCmd.AddCommand(student.StudentCmd)
	student.StudentCmd.AddCommand(student.AddCmd)

	rootCmd.AddCommand(fee.FeeCmd)
	fee.FeeCmd.AddCommand(fee.AddCmd)
	fee.FeeCmd.AddCommand(fee.PayCmd)

	rootCmd.AddCommand(sync.SyncCmd)
}
