package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/strato/internal/ledger"
	"github.com/alexisbeaulieu97/strato/internal/model"
)

var (
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

type ledgerJSONRecord struct {
	Identifier string `json:"identifier"`
	Service    string `json:"service,omitempty"`
	Region     string `json:"region,omitempty"`
	Location   string `json:"location,omitempty"`
	Status     string `json:"status"`
	Details    string `json:"details"`
	Error      string `json:"error,omitempty"`
}

type ledgerJSONPayload struct {
	Version  string             `json:"version"`
	Count    int                `json:"count"`
	Complete int                `json:"complete"`
	Warning  int                `json:"warning"`
	Failed   int                `json:"failed"`
	Records  []ledgerJSONRecord `json:"records"`
}

// renderLedger writes the operation results. Human-readable tables are for
// terminals; piped output and --json get the machine payload.
func renderLedger(cmd *cobra.Command, led *ledger.Ledger, jsonOut bool) error {
	if jsonOut || !isTerminal(cmd.OutOrStdout()) {
		return renderLedgerJSON(cmd, led)
	}
	return renderLedgerTable(cmd, led)
}

func renderLedgerJSON(cmd *cobra.Command, led *ledger.Ledger) error {
	summary := led.Summarize()
	payload := ledgerJSONPayload{
		Version:  "1.0",
		Count:    summary.Total,
		Complete: summary.Complete,
		Warning:  summary.Warning,
		Failed:   summary.Failed,
		Records:  make([]ledgerJSONRecord, 0, summary.Total),
	}

	for _, rec := range led.Records() {
		payload.Records = append(payload.Records, ledgerJSONRecord{
			Identifier: rec.Identifier,
			Service:    rec.Context.Service,
			Region:     rec.Context.Region,
			Location:   rec.Context.Location,
			Status:     string(rec.Status),
			Details:    rec.Details,
			Error:      rec.ErrorText(),
		})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func renderLedgerTable(cmd *cobra.Command, led *ledger.Ledger) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintln(writer, "IDENTIFIER\tSTATUS\tDETAILS")
	for _, rec := range led.Records() {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", rec.Identifier, formatStatus(rec.Status), rec.Details)
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	summary := led.Summarize()
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d total: %d complete, %d warning, %d failed\n",
		summary.Total, summary.Complete, summary.Warning, summary.Failed)
	return nil
}

func formatStatus(status model.Status) string {
	switch status {
	case model.StatusComplete:
		return completeStyle.Render("complete")
	case model.StatusWarning:
		return warningStyle.Render("warning")
	case model.StatusFailed:
		return failedStyle.Render("failed")
	default:
		return string(status)
	}
}

func isTerminal(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

// finish renders the ledger and maps the operation result onto exit codes:
// 0 when nothing failed, 1 when any record failed, 3 when the operation was
// aborted by a fatal error.
func finish(cmd *cobra.Command, jsonOut bool, led *ledger.Ledger, err error) error {
	if led != nil {
		if renderErr := renderLedger(cmd, led, jsonOut); renderErr != nil {
			return renderErr
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Operation error: %v\n", err)
		os.Exit(3)
	}
	if led != nil && led.HasFailures() {
		os.Exit(1)
	}
	return nil
}

// fatal reports a configuration or usage problem.
func fatalConfig(err error) {
	fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
	os.Exit(2)
}
