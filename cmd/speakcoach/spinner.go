package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type workDoneMsg struct{}

type spinnerModel struct {
	spinner     spinner.Model
	label       string
	started     time.Time
	done        bool
	interrupted bool
}

func newSpinnerModel(label string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	return spinnerModel{spinner: s, label: label, started: time.Now()}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done || m.interrupted {
		return ""
	}
	elapsed := time.Since(m.started).Truncate(time.Second)
	return fmt.Sprintf("%s %s (%s)\n", m.spinner.View(), m.label, elapsed)
}

// runWithSpinner shows a spinner on out while work runs. Ctrl+C cancels the
// context passed to work and returns context.Canceled once work has stopped.
func runWithSpinner(ctx context.Context, out io.Writer, label string, work func(context.Context)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(newSpinnerModel(label), tea.WithOutput(out))
	done := make(chan struct{})
	go func() {
		defer close(done)
		work(ctx)
		program.Send(workDoneMsg{})
	}()
	go func() {
		select {
		case <-ctx.Done():
			program.Quit()
		case <-done:
		}
	}()

	final, err := program.Run()
	interrupted := false
	if m, ok := final.(spinnerModel); ok && m.interrupted {
		interrupted = true
		cancel()
	}
	<-done
	if interrupted || ctx.Err() != nil {
		return context.Canceled
	}
	return err
}
