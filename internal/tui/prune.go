// Package tui holds the terminal screens of collect: a progress screen for running scans
// and copies, and the pruning screen where found files are reviewed before copying.
package tui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hayeah/collect/fstree"
)

// ExitState indicates how the program is exiting
type ExitState int

const (
	ExitStateNone    ExitState = iota // Not exiting
	ExitStateAbort                    // Exiting without copying (Esc, Ctrl+C)
	ExitStateConfirm                  // Exiting with confirmation (Enter)
)

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dirStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// row is one visible node of the tree.
type row struct {
	handle *fstree.Handle
	path   string
	isDir  bool
}

type pruneModel struct {
	label string
	tree  *fstree.Directory
	keys  pruneKeyMap
	help  help.Model

	allRows      []row
	filteredRows []row
	fileCount    int

	filter     textinput.Model
	filtering  bool
	searchTerm string
	queryErr   error

	cursor    int
	exitState ExitState

	viewport viewport.Model
	ready    bool
}

func newPruneModel(label string, tree *fstree.Directory) pruneModel {
	ti := textinput.New()
	ti.Placeholder = "fuzzy, 'exact, ^prefix, suffix$, !not"
	ti.Prompt = "/ "
	ti.CharLimit = 0

	m := pruneModel{
		label:    label,
		tree:     tree,
		keys:     newPruneKeyMap(),
		help:     help.New(),
		filter:   ti,
		viewport: viewport.New(0, 0),
	}
	m.rebuildRows()
	return m
}

// Prune shows tree and lets the user remove subtrees from it. It returns the handles of
// the files left when the user confirms, and ok=false when the user aborts.
func Prune(label string, tree *fstree.Directory, out io.Writer) (leaves []*fstree.Handle, ok bool, err error) {
	p := tea.NewProgram(newPruneModel(label, tree), tea.WithOutput(out), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, false, err
	}

	finalM, isPrune := finalModel.(pruneModel)
	if !isPrune {
		return nil, false, fmt.Errorf("could not get final model state")
	}
	if finalM.exitState != ExitStateConfirm {
		return nil, false, nil
	}
	return fstree.Leaves(finalM.tree), true, nil
}

func (m pruneModel) Init() tea.Cmd {
	return nil
}

func (m pruneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.exitState != ExitStateNone {
		return m, tea.Quit
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 3
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.viewport.YPosition = headerHeight
		m.ready = true
		m.updateViewportContent()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Abort):
			m.exitState = ExitStateAbort
			return m, tea.Quit

		case key.Matches(msg, m.keys.Confirm):
			m.exitState = ExitStateConfirm
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
			return m, nil

		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
			return m, nil

		case key.Matches(msg, m.keys.PgUp):
			m.moveCursor(-max(m.viewport.Height, 1))
			return m, nil

		case key.Matches(msg, m.keys.PgDown):
			m.moveCursor(max(m.viewport.Height, 1))
			return m, nil

		case key.Matches(msg, m.keys.Home):
			m.moveCursor(-len(m.filteredRows))
			return m, nil

		case key.Matches(msg, m.keys.End):
			m.moveCursor(len(m.filteredRows))
			return m, nil

		case key.Matches(msg, m.keys.Remove):
			m.removeCurrent()
			return m, nil

		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, m.filter.Focus()
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateFilter routes keys to the filter input while it has focus.
func (m pruneModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.searchTerm = ""
		m.refilter()
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "ctrl+c":
		m.exitState = ExitStateAbort
		return m, tea.Quit
	case "up":
		m.moveCursor(-1)
		return m, nil
	case "down":
		m.moveCursor(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if term := m.filter.Value(); term != m.searchTerm {
		m.searchTerm = term
		m.refilter()
	}
	return m, cmd
}

func (m pruneModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := titleStyle.Render("Files found under "+m.label) + "\n"
	if m.filtering || m.searchTerm != "" {
		header = m.filter.View() + "\n"
		if m.queryErr != nil {
			header = m.filter.View() + "  " + errStyle.Render(m.queryErr.Error()) + "\n"
		}
	}

	status := fmt.Sprintf("%d files left, %d/%d rows shown", m.fileCount, len(m.filteredRows), len(m.allRows))
	return fmt.Sprintf("%s\n%s\n\n%s\n%s", header, m.viewport.View(), status, m.help.View(m.keys))
}

// rebuildRows derives one row per node of the current tree.
func (m *pruneModel) rebuildRows() {
	m.allRows = m.allRows[:0]
	_ = fstree.Walk(m.tree, func(h *fstree.Handle, item fstree.Item) error {
		_, isDir := item.(*fstree.Directory)
		m.allRows = append(m.allRows, row{
			handle: h,
			path:   filepath.ToSlash(h.Path()),
			isDir:  isDir,
		})
		return nil
	})
	m.fileCount = fstree.CountFiles(m.tree)
	m.refilter()
}

// refilter updates m.filteredRows based on the current search term. An incomplete
// term leaves the rows unfiltered.
func (m *pruneModel) refilter() {
	m.queryErr = nil
	m.filteredRows = m.allRows
	if m.searchTerm != "" {
		q, err := parseQuery(m.searchTerm)
		if err != nil {
			m.queryErr = err
		} else {
			paths := make([]string, len(m.allRows))
			for i, r := range m.allRows {
				paths[i] = r.path
			}
			matched := q.filter(paths)
			filtered := make([]row, len(matched))
			for i, j := range matched {
				filtered[i] = m.allRows[j]
			}
			m.filteredRows = filtered
		}
	}

	m.cursor = max(min(m.cursor, len(m.filteredRows)-1), 0)
	m.updateViewportContent()
}

func (m *pruneModel) moveCursor(delta int) {
	if len(m.filteredRows) == 0 {
		return
	}
	m.cursor = max(min(m.cursor+delta, len(m.filteredRows)-1), 0)
	m.updateViewportContent()
	m.ensureCursorVisible()
}

// removeCurrent deletes the node under the cursor, and with it every descendant, from
// the tree. Directories left empty by the removal are dropped as well.
func (m *pruneModel) removeCurrent() {
	if len(m.filteredRows) == 0 {
		return
	}
	h := m.filteredRows[m.cursor].handle
	for h != nil {
		parent := m.tree
		if h.Parent() != nil {
			item, ok := fstree.Lookup(m.tree, h.Parent())
			if !ok {
				break
			}
			if parent, ok = item.(*fstree.Directory); !ok {
				break
			}
		}
		parent.Remove(h.Name())
		if parent.Len() > 0 {
			break
		}
		h = h.Parent()
	}
	m.rebuildRows()
}

// updateViewportContent updates the content of the viewport based on the current state
func (m *pruneModel) updateViewportContent() {
	var sb strings.Builder

	for i, r := range m.filteredRows {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		var name string
		if m.searchTerm != "" {
			name = r.path
		} else {
			name = strings.Repeat("  ", r.handle.Depth()-1) + r.handle.Name()
		}
		if r.isDir {
			name += "/"
		}

		line := fmt.Sprintf("%s %s", cursor, name)
		switch {
		case i == m.cursor:
			line = cursorStyle.Render(line)
		case r.isDir:
			line = dirStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}

	m.viewport.SetContent(sb.String())
}

// ensureCursorVisible makes sure the cursor is visible in the viewport
func (m *pruneModel) ensureCursorVisible() {
	top := m.viewport.YOffset
	bottom := m.viewport.YOffset + m.viewport.Height - 1

	if m.cursor < top {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor > bottom {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}
