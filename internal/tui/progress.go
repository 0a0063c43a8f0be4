package tui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hayeah/collect/internal/progress"
	"github.com/hayeah/collect/internal/worker"
)

// ErrInterrupted is returned when the user interrupts a running task with Ctrl+C.
var ErrInterrupted = errors.New("interrupted")

var pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

type progressMsg progress.Event

type doneMsg[T any] worker.Result[T]

type progressModel[T any] struct {
	title   string
	task    *worker.Task[T]
	spinner spinner.Model

	latest      progress.Event
	result      worker.Result[T]
	finished    bool
	interrupted bool
}

func newProgressModel[T any](title string, task *worker.Task[T]) progressModel[T] {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return progressModel[T]{
		title:   title,
		task:    task,
		spinner: s,
	}
}

// RunTask shows a spinner with the latest visited path until task finishes.
func RunTask[T any](title string, task *worker.Task[T], out io.Writer) (worker.Result[T], error) {
	p := tea.NewProgram(newProgressModel(title, task), tea.WithOutput(out))
	finalModel, err := p.Run()
	if errors.Is(err, tea.ErrInterrupted) {
		return worker.Result[T]{}, ErrInterrupted
	}
	if err != nil {
		return worker.Result[T]{}, err
	}

	finalM, ok := finalModel.(progressModel[T])
	if !ok {
		return worker.Result[T]{}, fmt.Errorf("could not get final model state")
	}
	if finalM.interrupted {
		return worker.Result[T]{}, ErrInterrupted
	}
	return finalM.result, nil
}

// waitForEvent blocks on the next progress event, then on the result once the progress
// channel is closed.
func (m progressModel[T]) waitForEvent() tea.Msg {
	if ev, ok := <-m.task.Progress(); ok {
		return progressMsg(ev)
	}
	return doneMsg[T](<-m.task.Done())
}

func (m progressModel[T]) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent)
}

func (m progressModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case progressMsg:
		m.latest = progress.Event(msg)
		return m, m.waitForEvent

	case doneMsg[T]:
		m.result = worker.Result[T](msg)
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel[T]) View() string {
	if m.finished || m.interrupted {
		return ""
	}
	return fmt.Sprintf("%s %s (%d)\n  %s\n", m.spinner.View(), m.title, m.latest.Count, pathStyle.Render(m.latest.Path))
}
