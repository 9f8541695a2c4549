package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"edusync/cmd/client/cmd/cli"
)

var ListCmd = &cobra.Command{
	Use:   "list <collection>",
	Short: "Список записей коллекции",
	Long: `Список записей из локальной базы в порядке создания.

Примеры:
  edusync record list fees --field student_id --value S1
  edusync record list fees --field due_date --from 2024-09-01 --to 2024-12-31`,
	Args: cobra.ExactArgs(1),
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

		list, err := recs.List(cmd.Context(), filters...)
		if err != nil {
			return fmt.Errorf("ошибка получения списка записей: %w", err)
		}
		return printRecords(cli.PrinterFor(cmd), list)
	},
}

var CountCmd = &cobra.Command{
	Use:   "count <collection>",
	Short: "Количество записей коллекции",
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

		n, err := recs.Count(cmd.Context(), filters...)
		if err != nil {
			return fmt.Errorf("ошибка подсчета записей: %w", err)
		}

		p := cli.PrinterFor(cmd)
		if p.JSON() {
			return p.Encode(map[string]int{"count": n})
		}
		p.Printf("%d\n", n)
		return nil
	},
}

func init() {
	addFilterFlags(ListCmd)
	addFilterFlags(CountCmd)
}
