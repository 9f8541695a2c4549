package record

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"edusync/cmd/client/cmd/cli"
)

var WatchCmd = &cobra.Command{
	Use:   "watch <collection>",
	Short: "Следить за изменениями коллекции",
	Long:  `Печатает содержимое коллекции при каждом изменении в локальной базе до Ctrl+C.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.App(cmd)
		if err != nil {
			return err
		}
		recs, err := app.Records(args[0])
		if err != nil {
			return err
		}
		filters, err := buildFilters()
		if err != nil {
			return err
		}

		sub, err := recs.Watch(cmd.Context(), filters...)
		if err != nil {
			return fmt.Errorf("ошибка подписки: %w", err)
		}
		defer sub.Cancel()

		p := cli.PrinterFor(cmd)
		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case list, ok := <-sub.Updates():
				if !ok {
					return nil
				}
				if !p.JSON() {
					p.Printf("--- %s: %d записей\n", time.Now().Format(time.TimeOnly), len(list))
				}
				if err := printRecords(p, list); err != nil {
					return err
				}
			}
		}
	},
}

func init() {
	addFilterFlags(WatchCmd)
}
