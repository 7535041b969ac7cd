package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/strato/internal/ledger"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

// provisionDoneMsg carries the finished operation back into the TUI loop.
type provisionDoneMsg struct {
	led *ledger.Ledger
	err error
}

type watchModel struct {
	spinner spinner.Model
	target  string
	region  string

	led *ledger.Ledger
	err error
}

func newWatchModel(target, region string) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return watchModel{spinner: s, target: target, region: region}
}

func (m watchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case provisionDoneMsg:
		m.led = msg.led
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		// No cancellation; the attempt ceiling is the only bound.
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m watchModel) View() string {
	if m.led != nil || m.err != nil {
		return ""
	}
	return fmt.Sprintf("%s provisioning %q in %s...\n", m.spinner.View(), m.target, m.region)
}

// watchProvisioning runs the provisioning operation under a spinner and
// returns its ledger once the poller reaches a terminal state.
func watchProvisioning(cmd *cobra.Command, app *AppContext, name, region string) (*ledger.Ledger, error) {
	model := newWatchModel(name, region)
	program := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout()))

	go func() {
		led, err := app.Engine.ProvisionService(context.Background(), name, region)
		program.Send(provisionDoneMsg{led: led, err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return nil, err
	}

	done := final.(watchModel)
	return done.led, done.err
}
