package ui

import (
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrInterrupted is returned when the user aborts a task with Ctrl+C
var ErrInterrupted = errors.New("interrupted")

// Messages for async operations
type taskDoneMsg struct {
	err error
}

// SpinnerModel shows a spinner next to a label while a task runs
// and quits once the task returns.
type SpinnerModel struct {
	Spinner spinner.Model
	Label   string

	task func() error
	done bool
	err  error
}

// NewSpinnerModel creates a spinner model for a task
func NewSpinnerModel(label string, task func() error) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return SpinnerModel{
		Spinner: s,
		Label:   label,
		task:    task,
	}
}

// Init starts the task and the spinner animation
func (m SpinnerModel) Init() tea.Cmd {
	task := m.task
	return tea.Batch(
		m.Spinner.Tick,
		func() tea.Msg { return taskDoneMsg{err: task()} },
	)
}

// Update handles messages and updates the model
func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			m.err = ErrInterrupted
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the spinner line; it is cleared once the task is done
func (m SpinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.Spinner.View() + " " + MutedCellStyle.Render(m.Label)
}

// Done reports whether the task has finished
func (m SpinnerModel) Done() bool {
	return m.done
}

// Err returns the task error once the model is done
func (m SpinnerModel) Err() error {
	return m.err
}

// RunWithSpinner runs task while showing a spinner on stderr.
// When stderr is not a terminal the task runs without any output.
func RunWithSpinner(label string, task func() error) error {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return task()
	}

	p := tea.NewProgram(NewSpinnerModel(label, task), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return err
	}
	return final.(SpinnerModel).Err()
}
