package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
}

type spinnerDoneMsg struct{}

func newSpinnerModel(message string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return spinnerModel{spinner: s, message: message}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders nothing once done so the line is cleared on exit.
func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + MutedStyle.Render(m.message)
}

// RunWithSpinner runs fn while a spinner with message animates on out.
// In ModePlain it only runs fn. Cancellation is left to ctx and fn.
func RunWithSpinner(ctx context.Context, out io.Writer, mode Mode, message string, fn func(ctx context.Context) error) error {
	if mode != ModeTerminal {
		return fn(ctx)
	}

	p := tea.NewProgram(newSpinnerModel(message),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	done := make(chan error, 1)
	go func() {
		err := fn(ctx)
		done <- err
		p.Send(spinnerDoneMsg{})
	}()

	// A spinner that fails to start (or is killed by ctx) must not hide fn's result.
	_, _ = p.Run()
	return <-done
}

// spinnerFetcher shows a spinner while the wrapped Fetcher downloads.
type spinnerFetcher struct {
	next taxiload.Fetcher
	out  io.Writer
	mode Mode
}

// WithSpinner decorates f so every Fetch animates "Downloading <location>" on out.
func WithSpinner(f taxiload.Fetcher, out io.Writer, mode Mode) taxiload.Fetcher {
	return &spinnerFetcher{next: f, out: out, mode: mode}
}

func (s *spinnerFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	var data []byte
	err := RunWithSpinner(ctx, s.out, s.mode, "Downloading "+location, func(ctx context.Context) error {
		var err error
		data, err = s.next.Fetch(ctx, location)
		return err
	})
	return data, err
}
