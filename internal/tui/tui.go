package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/danielrz/musicfetch/internal/downloader"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0B0B0B")).
			Background(lipgloss.Color("#7FDBFF")).
			Bold(true).
			Padding(0, 1)

	phaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00F5D4")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EAEAEA"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6ADC8")).
			Faint(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5C57")).
			Bold(true)
)

// statusMsg delivers a pipeline snapshot to the model.
type statusMsg downloader.Status

// doneMsg ends the program when the run finishes.
type doneMsg struct{ err error }

type model struct {
	spin     spinner.Model
	bar      progress.Model
	status   downloader.Status
	history  []string
	err      error
	quitting bool
}

func newModel() model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#00F5D4"))
	return model{
		spin: sp,
		bar:  progress.New(progress.WithDefaultGradient()),
	}
}

func (m model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := msg.Width - 8
		if width > 60 {
			width = 60
		}
		if width > 0 {
			m.bar.Width = width
		}
	case statusMsg:
		m.status = downloader.Status(msg)
		if line := historyLine(m.status); line != "" {
			if len(m.history) == 0 || m.history[len(m.history)-1] != line {
				m.history = append(m.history, line)
			}
		}
		return m, nil
	case doneMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func historyLine(s downloader.Status) string {
	switch s.Phase {
	case downloader.PhaseSearching, downloader.PhaseDownloading:
		return fmt.Sprintf("%-11s %s", s.Phase, s.Label)
	default:
		return ""
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("musicfetch"))
	b.WriteString("\n\n")

	keep := len(m.history)
	if keep > 8 {
		m.history = m.history[keep-8:]
	}
	for _, line := range m.history {
		b.WriteString("  " + labelStyle.Render(line) + "\n")
	}

	switch {
	case m.err != nil:
		b.WriteString("\n" + errStyle.Render("error: "+m.err.Error()) + "\n")
	case m.status.Phase == downloader.PhaseDone:
		b.WriteString("\n" + phaseStyle.Render("done") + "\n")
	case m.status.Phase != "":
		percent := 0.0
		if m.status.Total > 0 {
			percent = float64(m.status.Index) / float64(m.status.Total)
		}
		b.WriteString(fmt.Sprintf("\n%s %s %d/%d\n%s\n",
			m.spin.View(),
			phaseStyle.Render(m.status.Phase.String()),
			m.status.Index+1,
			m.status.Total,
			m.bar.ViewAs(percent),
		))
	}

	if !m.quitting {
		b.WriteString("\n" + helpStyle.Render("q to quit") + "\n")
	}
	return b.String()
}

// Run drives the live view from pipeline snapshots. It returns when done
// yields the run's terminal error (possibly nil) or the user quits.
func Run(statuses <-chan downloader.Status, done <-chan error) error {
	program := tea.NewProgram(newModel())

	go func() {
		for status := range statuses {
			program.Send(statusMsg(status))
		}
		program.Send(doneMsg{err: <-done})
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(model); ok {
		return m.err
	}
	return nil
}
