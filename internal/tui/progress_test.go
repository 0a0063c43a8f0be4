package tui

import (
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/hayeah/collect/fstree"
	"github.com/hayeah/collect/internal/worker"
)

func TestProgressModel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	task := worker.Start("count", 0, logger, func(onVisit fstree.VisitFunc) (int, error) {
		for _, p := range []string{"a.jpg", "b.jpg", "c.jpg"} {
			onVisit(p)
		}
		return 3, nil
	})

	m := newProgressModel("Scanning", task)
	for !m.finished {
		next, _ := m.Update(m.waitForEvent())
		m = next.(progressModel[int])
		if !m.finished {
			assert.Contains(t, m.View(), "Scanning")
		}
	}

	assert.Equal(t, 3, m.result.Value)
	assert.Equal(t, 3, m.result.Visited)
	assert.NoError(t, m.result.Err)
	assert.Empty(t, m.View())
}

func TestProgressModelInterrupt(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	task := worker.Start("noop", 0, logger, func(onVisit fstree.VisitFunc) (int, error) {
		return 0, nil
	})
	defer task.Wait(nil)

	m := newProgressModel("Copying", task)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(progressModel[int])

	assert.True(t, m.interrupted)
	assert.NotNil(t, cmd)
}
