// Package tui is the interactive save editor: a collapsible tree of the
// open save file with in-place editing, undo and redo, and a panel for
// finding games and their saves.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/danieljhkim/rpgsave/internal/display"
	"github.com/danieljhkim/rpgsave/internal/document"
	"github.com/danieljhkim/rpgsave/internal/engine"
)

// eventBuffer is how many session events may queue before the listener
// blocks.
const eventBuffer = 256

type mode int

const (
	modeTree mode = iota
	modeEdit
	modeScan
	modeConfirmQuit
	modeConfirmForce
	modeConfirmOpen
)

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusOK
	statusWarn
	statusError
)

// Model holds the editor state.
type Model struct {
	session *engine.Session
	events  *listener

	// Tree
	root     *display.Node
	rows     []display.Row
	expanded map[string]bool
	cursor   int
	offset   int

	mode   mode
	// back is the mode to return to when an open is declined.
	back   mode
	status string
	level  statusLevel

	// Edit box
	input    textinput.Model
	editPath document.Path

	// Scan panel
	scanCtx    context.Context
	scanCancel context.CancelFunc
	scanning   bool
	paused     bool
	games      []string
	gameCursor int
	saves      []string
	saveCursor int
	savesFocus bool
	pending    string
	scanLog    []string
	logView    viewport.Model

	width  int
	height int
}

// New creates the editor model for s. The listener it installs on s is
// removed by Close. If s has no document open the scan panel is shown
// first.
func New(s *engine.Session) Model {
	ti := textinput.New()
	ti.Prompt = "= "
	ti.CharLimit = 4096

	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		session:    s,
		events:     newListener(eventBuffer),
		expanded:   make(map[string]bool),
		input:      ti,
		scanCtx:    ctx,
		scanCancel: cancel,
		logView:    viewport.New(0, 0),
		width:      80,
		height:     24,
	}
	s.SetListener(m.events)
	m.rebuild()
	if m.root == nil {
		m.openScanPanel()
	}
	return m
}

// Init starts listening for session events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Close detaches the model from its session and stops any scan it
// started. The session itself is left open.
func (m Model) Close() {
	m.session.SetListener(nil)
	m.events.close()
	m.scanCancel()
}

// rebuild rebuilds the tree from the session, keeping the cursor on the
// same path when it still exists.
func (m *Model) rebuild() {
	var selected string
	if n := m.selected(); n != nil {
		selected = n.Path.Pointer()
	}

	m.root = m.session.Tree()
	if m.root == nil {
		m.rows = nil
		m.cursor = 0
		return
	}
	m.rows = display.Flatten(m.root, m.expanded)

	if selected != "" {
		for i, r := range m.rows {
			if r.Node.Path.Pointer() == selected {
				m.cursor = i
				break
			}
		}
	}
	m.clampCursor()
}

func (m *Model) refreshRows() {
	if m.root == nil {
		return
	}
	m.rows = display.Flatten(m.root, m.expanded)
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() *display.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].Node
}

func (m *Model) setStatus(level statusLevel, msg string) {
	m.level = level
	m.status = msg
}

// treeHeight is the number of tree rows that fit on screen.
func (m Model) treeHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	h := m.treeHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
