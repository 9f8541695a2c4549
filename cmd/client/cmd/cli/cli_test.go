package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edusync/internal/domain/sync"
	"edusync/internal/infrastructure/metrics"
)

func TestPrinter_WriteResult(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	t.Run("human", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewPrinter(&buf, false)

		require.NoError(t, p.WriteResult("Ученик", nil, sync.OutcomeSynced, nil))
		require.NoError(t, p.WriteResult("Начисление", nil, sync.OutcomeUnavailable, errors.New("connection refused")))

		out := buf.String()
		assert.Contains(t, out, "✓ Ученик: локально сохранено, сервер synced")
		assert.Contains(t, out, "! Начисление: локально сохранено, сервер unavailable (connection refused)")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewPrinter(&buf, true)

		rec := map[string]string{"id": "f1"}
		require.NoError(t, p.WriteResult("Начисление", rec, sync.OutcomeRejected, errors.New("bad request")))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "rejected", got["remote"])
		assert.Equal(t, "bad request", got["remote_error"])
		assert.Equal(t, "f1", got["record"].(map[string]any)["id"])
	})
}

func TestApp_NotInitialized(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(t.Context())

	_, err := App(cmd)
	assert.Error(t, err)
}

func TestPrinter_RemoteCounts(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.RemoteCounts(nil)
	assert.Empty(t, buf.String())

	p.RemoteCounts([]metrics.RemoteCount{
		{Collection: "fees", Op: "list", Outcome: "synced", Count: 1},
		{Collection: "students", Op: "list", Outcome: "unavailable", Count: 2},
	})
	out := buf.String()
	assert.Contains(t, out, "Удаленные операции:")
	assert.Regexp(t, `fees\s+list\s+synced\s+1`, out)
	assert.Regexp(t, `students\s+list\s+unavailable\s+2`, out)
}
