package fee

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"edusync/cmd/client/cmd/cli"
	"edusync/internal/domain/school"
)

var FeeCmd = &cobra.Command{
	Use:   "fee",
	Short: "Начисления и оплаты",
}

var (
	studentID string
	amount    string
	title     string
	term      string
	due       string
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Выставить начисление ученику",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := cli.App(cmd)
		if err != nil {
			return err
		}

		sum, err := decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("неверная сумма %q: %w", amount, err)
		}
		f := &school.Fee{
			StudentID: studentID,
			Title:     title,
			Term:      term,
			Amount:    sum,
		}
		if due != "" {
			f.DueDate, err = time.Parse(time.DateOnly, due)
			if err != nil {
				return fmt.Errorf("неверная дата %q: ожидается 2006-01-02", due)
			}
		}

		res, err := app.AddFee(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("ошибка создания начисления: %w", err)
		}
		return cli.PrinterFor(cmd).WriteResult("Начисление "+res.Record.ID, res.Record, res.Remote, res.RemoteErr)
	},
}

var payAmount string

var PayCmd = &cobra.Command{
	Use:   "pay <id>",
	Short: "Зарегистрировать оплату начисления",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.App(cmd)
		if err != nil {
			return err
		}

		sum, err := decimal.NewFromString(payAmount)
		if err != nil {
			return fmt.Errorf("неверная сумма %q: %w", payAmount, err)
		}

		res, err := app.PayFee(cmd.Context(), args[0], sum)
		if err != nil {
			if errors.Is(err, school.ErrOverpayment) && res.Record != nil {
				return fmt.Errorf("сумма больше остатка %s", res.Record.Balance())
			}
			return fmt.Errorf("ошибка оплаты: %w", err)
		}

		p := cli.PrinterFor(cmd)
		if err := p.WriteResult("Оплата "+args[0], res.Record, res.Remote, res.RemoteErr); err != nil {
			return err
		}
		if !p.JSON() {
			p.Printf("Статус: %s, остаток: %s\n", res.Record.Status, res.Record.Balance())
		}
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVar(&studentID, "student", "", "ID ученика")
	AddCmd.Flags().StringVar(&amount, "amount", "", "сумма")
	AddCmd.Flags().StringVar(&title, "title", "", "назначение")
	AddCmd.Flags().StringVar(&term, "term", "", "четверть или семестр")
	AddCmd.Flags().StringVar(&due, "due", "", "срок оплаты (2006-01-02)")
	_ = AddCmd.MarkFlagRequired("student")
	_ = AddCmd.MarkFlagRequired("amount")

	PayCmd.Flags().StringVar(&payAmount, "amount", "", "сумма оплаты")
	_ = PayCmd.MarkFlagRequired("amount")
}
