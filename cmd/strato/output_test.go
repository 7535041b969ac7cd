package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/strato/internal/ledger"
	"github.com/alexisbeaulieu97/strato/internal/model"
)

func renderedLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	led := ledger.New([]string{"dev-1", "dev-2", "dev-3"}, model.Context{Service: "edge", Region: "us-east"})
	require.NoError(t, led.Classify(0, led.Record(0).Complete("assigned to edge")))
	require.NoError(t, led.Classify(1, led.Record(1).Warn("already assigned to edge")))
	require.NoError(t, led.Classify(2, led.Record(2).FailWith("the operation is not permitted for this tenant", errors.New("403 forbidden"))))
	return led
}

func TestRenderLedgerFallsBackToJSONWhenNotATerminal(t *testing.T) {
	cmd := &cobra.Command{}
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	require.NoError(t, renderLedger(cmd, renderedLedger(t), false))

	var payload ledgerJSONPayload
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "1.0", payload.Version)
	assert.Equal(t, 3, payload.Count)
	assert.Equal(t, 1, payload.Complete)
	assert.Equal(t, 1, payload.Warning)
	assert.Equal(t, 1, payload.Failed)
	require.Len(t, payload.Records, 3)
	assert.Equal(t, "dev-1", payload.Records[0].Identifier)
	assert.Equal(t, "edge", payload.Records[0].Service)
	assert.Equal(t, "403 forbidden", payload.Records[2].Error)
	assert.Empty(t, payload.Records[0].Error)
}

func TestRenderLedgerTableIncludesSummaryLine(t *testing.T) {
	cmd := &cobra.Command{}
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	require.NoError(t, renderLedgerTable(cmd, renderedLedger(t)))

	out := buf.String()
	assert.Contains(t, out, "IDENTIFIER")
	assert.Contains(t, out, "dev-2")
	assert.Contains(t, out, "3 total: 1 complete, 1 warning, 1 failed")
}
