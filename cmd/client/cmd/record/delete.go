package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"edusync/cmd/client/cmd/cli"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <collection> <id>",
	Short: "Удалить запись",
	Long: `Удаляет запись на сервере, затем в локальной базе.
Локальная копия удаляется, даже если сервер недоступен.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.App(cmd)
		if err != nil {
			return err
		}
		recs, err := app.Records(args[0])
		if err != nil {
			return err
		}

		outcome, err := recs.Delete(cmd.Context(), args[1])
		if err != nil {
			return fmt.Errorf("ошибка удаления записи: %w", err)
		}

		p := cli.PrinterFor(cmd)
		if p.JSON() {
			return p.Encode(map[string]any{"id": args[1], "remote": outcome})
		}
		p.Outcome("Запись "+args[1]+" удалена локально,", outcome, nil)
		return nil
	},
}
