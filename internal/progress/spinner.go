package progress

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/craftgear/extract-model-info-json/internal/stats"
)

var (
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	rootStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type startMsg struct{ root string }

type updateMsg struct{ snap stats.Snapshot }

type invalidMsg struct {
	archivePath string
	reason      string
}

type finishMsg struct{ snap stats.Snapshot }

type spinnerModel struct {
	spinner spinner.Model
	snap    stats.Snapshot
	done    bool
}

func newSpinnerModel() spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return spinnerModel{spinner: s}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		return m, tea.Printf("%s", rootStyle.Render("scanning: "+msg.root))
	case updateMsg:
		m.snap = msg.snap
		return m, nil
	case invalidMsg:
		line := fmt.Sprintf("invalid zip: %s (%s)", msg.archivePath, msg.reason)
		return m, tea.Printf("%s", invalidStyle.Render(line))
	case finishMsg:
		m.snap = msg.snap
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m spinnerModel) View() string {
	counters := counterStyle.Render(formatSnapshot(m.snap))
	if m.done {
		return counters + "\n"
	}
	return m.spinner.View() + counters
}

// Spinner renders an animated spinner plus live counters through a bubbletea
// program. Reporter methods hand messages to the program, which owns all
// terminal output, so calls from concurrent lanes are safe.
type Spinner struct {
	prog *tea.Program
	done chan struct{}
}

// NewSpinner returns a Spinner reporter writing to w (normally stderr).
func NewSpinner(w io.Writer) *Spinner {
	prog := tea.NewProgram(newSpinnerModel(),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	return &Spinner{prog: prog, done: make(chan struct{})}
}

func (s *Spinner) Start(root string) {
	go func() {
		defer close(s.done)
		_, _ = s.prog.Run()
	}()
	s.prog.Send(startMsg{root: root})
}

func (s *Spinner) Update(snap stats.Snapshot) {
	s.prog.Send(updateMsg{snap: snap})
}

func (s *Spinner) InvalidArchive(archivePath, reason string) {
	s.prog.Send(invalidMsg{archivePath: archivePath, reason: reason})
}

// Finish delivers the final counters and waits for the program to exit so
// the terminal is restored before the process prints its summary.
func (s *Spinner) Finish(snap stats.Snapshot) {
	s.prog.Send(finishMsg{snap: snap})
	<-s.done
}

// Stop tears the program down without a final snapshot. Used when the run
// ends early on a fatal error and Finish will never be called.
func (s *Spinner) Stop() {
	s.prog.Quit()
	<-s.done
}
