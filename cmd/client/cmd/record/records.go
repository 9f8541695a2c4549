package record

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"edusync/cmd/client/cmd/cli"
	"edusync/internal/domain/school"
	"edusync/internal/model"
)

// RecordCmd - родительская команда для всех операций с записями
var RecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Просмотр и удаление записей любой коллекции",
	Long: `Чтение записей из локальной базы, удаление и наблюдение за изменениями.

Коллекции: students, vendors, products, fees, invoices, transactions, attendance, quizzes.`,
}

var (
	filterField string
	filterValue string
	filterFrom  string
	filterTo    string
)

// addFilterFlags флаги фильтра для list, count и watch
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterField, "field", "", "поле для фильтра (например student_id)")
	cmd.Flags().StringVar(&filterValue, "value", "", "значение поля для фильтра по равенству")
	cmd.Flags().StringVar(&filterFrom, "from", "", "начало диапазона дат (2006-01-02 или RFC3339)")
	cmd.Flags().StringVar(&filterTo, "to", "", "конец диапазона дат (2006-01-02 или RFC3339)")
}

func buildFilters() ([]model.Filter, error) {
	if filterField == "" {
		if filterValue != "" || filterFrom != "" || filterTo != "" {
			return nil, fmt.Errorf("для --value, --from и --to нужен --field")
		}
		return nil, nil
	}

	if filterFrom != "" || filterTo != "" {
		if filterFrom == "" || filterTo == "" {
			return nil, fmt.Errorf("диапазон требует и --from, и --to")
		}
		from, err := parseDate(filterFrom)
		if err != nil {
			return nil, err
		}
		to, err := parseDate(filterTo)
		if err != nil {
			return nil, err
		}
		return []model.Filter{model.Between(filterField, from, to)}, nil
	}

	return []model.Filter{model.Eq(filterField, parseValue(filterValue))}, nil
}

// parseValue значения true/false сравниваются как булевы, остальное как строки
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("неверная дата %q: ожидается 2006-01-02 или RFC3339", s)
	}
	return t, nil
}

func printRecords(p *cli.Printer, recs []school.Record) error {
	if p.JSON() {
		return p.Encode(recs)
	}
	if len(recs) == 0 {
		p.Println("Записи не найдены")
		return nil
	}

	for _, rec := range recs {
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("ошибка кодирования записи %s: %w", rec.GetID(), err)
		}
		p.Printf("%s  %s\n", rec.GetID(), b)
	}
	p.Printf("\nВсего записей: %d\n", len(recs))
	return nil
}
