package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"edusync/cmd/client/cmd/cli"
	"edusync/internal/domain/school"
	"edusync/internal/domain/sync"
)

var GetCmd = &cobra.Command{
	Use:   "get <collection> <id>",
	Short: "Просмотреть запись",
	Long: `Запись по ID: сначала из локальной базы, затем с сервера.
Выводится самое свежее значение и источник, откуда оно получено.`,
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

		found, err := recs.Get(cmd.Context(), args[1])
		if err != nil {
			return fmt.Errorf("ошибка получения записи: %w", err)
		}
		return printLookup(cli.PrinterFor(cmd), args[1], found)
	},
}

func printLookup(p *cli.Printer, id string, found sync.Lookup[school.Record]) error {
	if p.JSON() {
		out := struct {
			Found  bool          `json:"found"`
			Source sync.Source   `json:"source"`
			Record school.Record `json:"record,omitempty"`
		}{Found: found.Found, Source: found.Source}
		if found.Found {
			out.Record = found.Value
		}
		return p.Encode(out)
	}

	if !found.Found {
		p.Fail("Запись %s не найдена", id)
		return nil
	}
	if found.Source == sync.SourceLocal {
		p.Warn("Сервер не подтвердил запись, показана локальная копия")
	}
	return p.Encode(found.Value)
}
