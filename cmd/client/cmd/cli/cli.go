// Package cli общие части команд клиента: доступ к приложению и вывод
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"edusync/internal/app/client"
	"edusync/internal/domain/sync"
	"edusync/internal/infrastructure/metrics"
)

type appKey struct{}

// WithApp кладет приложение в контекст команды
func WithApp(ctx context.Context, app *client.App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// App достает приложение из контекста команды
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(appKey{}).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}

// SetupColor отключает цвета, если вывод не в терминал
func SetupColor(f *os.File) {
	color.NoColor = color.NoColor || !term.IsTerminal(int(f.Fd()))
}

// Printer вывод команд: человекочитаемый или JSON
type Printer struct {
	out  io.Writer
	json bool
}

func NewPrinter(out io.Writer, jsonOutput bool) *Printer {
	return &Printer{out: out, json: jsonOutput}
}

// Printer для команды; --json наследуется от корневой команды
func PrinterFor(cmd *cobra.Command) *Printer {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return NewPrinter(cmd.OutOrStdout(), jsonOutput)
}

func (p *Printer) JSON() bool {
	return p.json
}

func (p *Printer) Encode(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

func (p *Printer) Success(format string, a ...any) {
	fmt.Fprintln(p.out, color.GreenString("✓ "+format, a...))
}

func (p *Printer) Warn(format string, a ...any) {
	fmt.Fprintln(p.out, color.YellowString("! "+format, a...))
}

func (p *Printer) Fail(format string, a ...any) {
	fmt.Fprintln(p.out, color.RedString("✗ "+format, a...))
}

// Outcome печатает результат удаленной операции
func (p *Printer) Outcome(what string, outcome sync.Outcome, err error) {
	switch {
	case outcome.OK():
		p.Success("%s сервер %s", what, outcome)
	case err != nil:
		p.Warn("%s сервер %s (%v)", what, outcome, err)
	default:
		p.Warn("%s сервер %s", what, outcome)
	}
}

// writeResultJSON форма WriteResult для --json
type writeResultJSON struct {
	Record    any          `json:"record"`
	Remote    sync.Outcome `json:"remote"`
	RemoteErr string       `json:"remote_error,omitempty"`
}

// WriteResult печатает итог записи: локально запись уже сохранена
func (p *Printer) WriteResult(what string, rec any, outcome sync.Outcome, remoteErr error) error {
	if p.json {
		out := writeResultJSON{Record: rec, Remote: outcome}
		if remoteErr != nil {
			out.RemoteErr = remoteErr.Error()
		}
		return p.Encode(out)
	}
	p.Outcome(what+": локально сохранено,", outcome, remoteErr)
	return nil
}

// RemoteCounts печатает счетчики удаленных операций: строка на коллекцию и операцию
func (p *Printer) RemoteCounts(counts []metrics.RemoteCount) {
	if len(counts) == 0 {
		return
	}
	p.Println("Удаленные операции:")
	for _, c := range counts {
		line := fmt.Sprintf("  %-14s %-7s %-12s %.0f\n", c.Collection, c.Op, c.Outcome, c.Count)
		if c.Outcome == sync.OutcomeSynced.String() {
			p.Printf("%s", line)
		} else {
			p.Printf("%s", color.YellowString(line))
		}
	}
}
