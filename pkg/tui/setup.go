package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Step is one unit of work shown in the setup step list.
type Step struct {
	Title string
	Run   func() error
}

type stepStatus int

const (
	stepPending stepStatus = iota
	stepRunning
	stepDone
	stepFailed
)

type stepDoneMsg struct {
	index int
	err   error
}

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pendingStyle = lipgloss.NewStyle().Faint(true)
)

// SetupModel renders a sequential step list with a spinner on the
// running step. Steps execute one at a time; the first failure stops
// the program.
type SetupModel struct {
	spinner  spinner.Model
	steps    []Step
	statuses []stepStatus
	current  int
	err      error
	quitting bool
}

// NewSetupModel builds the model for a setup run.
func NewSetupModel(steps []Step) SetupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return SetupModel{
		spinner:  s,
		steps:    steps,
		statuses: make([]stepStatus, len(steps)),
	}
}

// Err returns the first step failure, if any.
func (m SetupModel) Err() error { return m.err }

func (m SetupModel) Init() tea.Cmd {
	if len(m.steps) == 0 {
		return tea.Quit
	}
	return tea.Batch(m.spinner.Tick, m.runStep(0))
}

func (m SetupModel) runStep(i int) tea.Cmd {
	step := m.steps[i]
	return func() tea.Msg {
		return stepDoneMsg{index: i, err: step.Run()}
	}
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = fmt.Errorf("setup interrupted")
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case stepDoneMsg:
		if msg.err != nil {
			m.statuses[msg.index] = stepFailed
			m.err = msg.err
			m.quitting = true
			return m, tea.Quit
		}
		m.statuses[msg.index] = stepDone
		next := msg.index + 1
		if next >= len(m.steps) {
			m.quitting = true
			return m, tea.Quit
		}
		m.current = next
		m.statuses[next] = stepRunning
		return m, m.runStep(next)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m SetupModel) View() string {
	var b strings.Builder
	for i, step := range m.steps {
		status := m.statuses[i]
		if i == m.current && status == stepPending && !m.quitting {
			status = stepRunning
		}
		switch status {
		case stepDone:
			b.WriteString(doneStyle.Render("✓") + " " + step.Title)
		case stepFailed:
			b.WriteString(failStyle.Render("✗") + " " + step.Title)
		case stepRunning:
			b.WriteString(m.spinner.View() + " " + step.Title)
		default:
			b.WriteString(pendingStyle.Render("· " + step.Title))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RunSetup drives the step list as a bubbletea program and returns the
// first step error, if any.
func RunSetup(steps []Step) error {
	final, err := tea.NewProgram(NewSetupModel(steps)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(SetupModel); ok {
		return m.Err()
	}
	return nil
}
