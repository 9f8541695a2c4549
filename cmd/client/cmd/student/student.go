package student

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"edusync/cmd/client/cmd/cli"
	"edusync/internal/domain/school"
)

var StudentCmd = &cobra.Command{
	Use:   "student",
	Short: "Ученики",
}

var (
	firstName string
	lastName  string
	classID   string
	phone     string
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Зарегистрировать ученика",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := cli.App(cmd)
		if err != nil {
			return err
		}

		s := &school.Student{
			FirstName:     firstName,
			LastName:      lastName,
			ClassID:       classID,
			GuardianPhone: phone,
			EnrolledOn:    time.Now().UTC(),
		}
		res, err := app.AddStudent(cmd.Context(), s)
		if err != nil {
			return fmt.Errorf("ошибка регистрации ученика: %w", err)
		}

		p := cli.PrinterFor(cmd)
		return p.WriteResult("Ученик "+res.Record.ID, res.Record, res.Remote, res.RemoteErr)
	},
}

func init() {
	AddCmd.Flags().StringVar(&firstName, "first", "", "имя")
	AddCmd.Flags().StringVar(&lastName, "last", "", "фамилия")
	AddCmd.Flags().StringVar(&classID, "class", "", "класс")
	AddCmd.Flags().StringVar(&phone, "phone", "", "телефон родителя")
	_ = AddCmd.MarkFlagRequired("first")
	_ = AddCmd.MarkFlagRequired("last")
}
