package tui

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/danieljhkim/rpgsave/internal/engine"
)

// Update handles events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 4
		m.logView.Height = m.logHeight()
		m.scroll()
		return m, nil

	case eventMsg:
		m.handleEvent(engine.Event(msg))
		return m, waitForEvent(m.events)

	case tea.KeyMsg:
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeScan:
			return m.updateScan(msg)
		case modeConfirmQuit, modeConfirmForce, modeConfirmOpen:
			return m.updateConfirm(msg)
		}
		return m.updateTree(msg)
	}
	return m, nil
}

func (m *Model) handleEvent(ev engine.Event) {
	switch ev.Kind {
	case engine.EventDocumentChanged:
		m.rebuild()
	case engine.EventExternalChange:
		// a burst of writes can end with the file restored
		if m.session.ExternallyModified() {
			m.setStatus(statusWarn, "File changed on disk. Press R to reload or s to save over it.")
		}
	case engine.EventGameFound:
		if !contains(m.games, ev.Path) {
			m.games = append(m.games, ev.Path)
		}
		m.appendLog("Found " + ev.Path)
	case engine.EventScanProgress, engine.EventScanWarning:
		m.appendLog(ev.Message)
	case engine.EventScanComplete, engine.EventScanCancelled:
		m.scanning = false
		m.paused = false
		m.appendLog(ev.Message)
		m.games, _ = m.session.CachedGames()
		m.setStatus(statusInfo, ev.Message)
	}
}

func (m Model) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.session.Dirty() {
			m.mode = modeConfirmQuit
			return m, nil
		}
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "pgup":
		m.cursor -= m.treeHeight()
		m.clampCursor()
	case "pgdown":
		m.cursor += m.treeHeight()
		m.clampCursor()
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.rows) - 1
		m.clampCursor()

	case "right", "l", " ":
		if n := m.selected(); n != nil && !n.Editable && len(n.Children) > 0 {
			m.expanded[n.Path.Pointer()] = true
			m.refreshRows()
		}
	case "left", "h":
		m.collapse()

	case "enter":
		n := m.selected()
		if n == nil {
			break
		}
		if !n.Editable {
			key := n.Path.Pointer()
			m.expanded[key] = !m.expanded[key]
			m.refreshRows()
			break
		}
		m.mode = modeEdit
		m.editPath = n.Path
		m.input.SetValue(n.Value)
		m.input.CursorEnd()
		m.input.Focus()
		return m, textinput.Blink

	case "u", "ctrl+z":
		cmd, err := m.session.Undo()
		switch {
		case err != nil:
			m.setStatus(statusError, err.Error())
		case cmd == nil:
			m.setStatus(statusInfo, "Nothing to undo")
		default:
			m.rebuild()
			m.setStatus(statusInfo, "Undid change to "+cmd.Path.String())
		}
	case "r", "ctrl+y":
		cmd, err := m.session.Redo()
		switch {
		case err != nil:
			m.setStatus(statusError, err.Error())
		case cmd == nil:
			m.setStatus(statusInfo, "Nothing to redo")
		default:
			m.rebuild()
			m.setStatus(statusInfo, "Redid change to "+cmd.Path.String())
		}

	case "s", "ctrl+s":
		m.save(false)
	case "R":
		m.reload()
	case "b":
		m.session.SetBeautify(!m.session.Beautify())
		m.rebuild()
	case "d":
		path, err := m.session.ExportDiagnostics()
		if err != nil {
			m.setStatus(statusError, err.Error())
		} else {
			m.setStatus(statusOK, "Diagnostics written to "+path)
		}
	case "o", "tab":
		m.openScanPanel()
	}

	m.scroll()
	return m, nil
}

// collapse closes the selected container, or moves to its parent.
func (m *Model) collapse() {
	n := m.selected()
	if n == nil {
		return
	}
	key := n.Path.Pointer()
	if m.expanded[key] {
		delete(m.expanded, key)
		m.refreshRows()
		return
	}
	if len(n.Path) < 2 {
		return
	}
	parent := n.Path.Parent().Pointer()
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].Node.Path.Pointer() == parent {
			m.cursor = i
			return
		}
	}
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeTree
		m.input.Blur()
		m.setStatus(statusInfo, "Edit cancelled")
		return m, nil
	case tea.KeyEnter:
		m.mode = modeTree
		m.input.Blur()
		res, err := m.session.EditLeaf(m.editPath, m.input.Value())
		switch {
		case err != nil:
			m.setStatus(statusError, err.Error())
		case !res.Changed:
			m.setStatus(statusInfo, "No change")
		case res.Warning != "":
			m.setStatus(statusWarn, res.Warning)
		default:
			m.setStatus(statusOK, fmt.Sprintf("%s = %s", res.Path, res.New))
		}
		if err == nil && res.Changed {
			m.rebuild()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	yes := msg.String() == "y" || msg.String() == "Y"
	current := m.mode
	m.mode = modeTree

	switch current {
	case modeConfirmQuit:
		if yes {
			return m, tea.Quit
		}
	case modeConfirmForce:
		if yes {
			m.save(true)
		} else {
			m.setStatus(statusInfo, "Save cancelled")
		}
	case modeConfirmOpen:
		file := m.pending
		m.pending = ""
		if yes {
			m.open(file)
		} else {
			m.mode = m.back
		}
	}
	return m, nil
}

func (m *Model) save(force bool) {
	var (
		res *engine.SaveResult
		err error
	)
	if force {
		res, err = m.session.ForceSaveDocument()
	} else {
		res, err = m.session.SaveDocument()
	}
	switch {
	case errors.Is(err, engine.ErrModifiedExternally):
		m.mode = modeConfirmForce
	case err != nil:
		m.setStatus(statusError, err.Error())
	default:
		m.setStatus(statusOK, "Saved "+filepath.Base(res.Path))
	}
}

func (m *Model) reload() {
	file := m.session.CurrentFile()
	if file == "" {
		return
	}
	if m.session.Dirty() {
		m.pending = file
		m.back = modeTree
		m.mode = modeConfirmOpen
		return
	}
	m.open(file)
}

func (m *Model) open(file string) {
	previous := m.session.CurrentFile()
	res, err := m.session.OpenDocument(file)
	if err != nil {
		m.setStatus(statusError, err.Error())
		return
	}
	if res.Path != previous {
		m.expanded = make(map[string]bool)
		m.cursor = 0
		m.offset = 0
	}
	m.mode = modeTree
	m.rebuild()
	m.setStatus(statusOK, "Opened "+filepath.Base(file))
}

// openScanPanel shows the game list, reusing the last scan's results when
// there are any.
func (m *Model) openScanPanel() {
	m.mode = modeScan
	if m.scanning || len(m.games) > 0 {
		return
	}
	if games, _ := m.session.CachedGames(); len(games) > 0 {
		m.games = games
		m.setStatus(statusInfo, fmt.Sprintf("Loaded %d cached games", len(games)))
		return
	}
	m.startScan()
}

func (m *Model) startScan() {
	if err := m.session.StartGameScan(m.scanCtx, nil); err != nil {
		m.setStatus(statusError, err.Error())
		return
	}
	m.scanning = true
	m.paused = false
	m.games = nil
	m.saves = nil
	m.gameCursor = 0
	m.saveCursor = 0
	m.savesFocus = false
	m.scanLog = nil
	m.logView.SetContent("")
	m.setStatus(statusInfo, "Searching for games...")
}

func (m Model) updateScan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.session.Dirty() {
			m.mode = modeConfirmQuit
			return m, nil
		}
		return m, tea.Quit

	case "esc", "tab":
		if m.savesFocus {
			m.savesFocus = false
			break
		}
		if m.root != nil {
			m.mode = modeTree
		}

	case "up", "k":
		if m.savesFocus {
			if m.saveCursor > 0 {
				m.saveCursor--
			}
		} else if m.gameCursor > 0 {
			m.gameCursor--
		}
	case "down", "j":
		if m.savesFocus {
			if m.saveCursor < len(m.saves)-1 {
				m.saveCursor++
			}
		} else if m.gameCursor < len(m.games)-1 {
			m.gameCursor++
		}

	case "enter", "right", "l":
		if m.savesFocus {
			if m.saveCursor < len(m.saves) {
				m.openSave(m.saves[m.saveCursor])
			}
			break
		}
		if m.gameCursor >= len(m.games) {
			break
		}
		saves, err := m.session.ListSaves(m.games[m.gameCursor])
		if err != nil {
			m.setStatus(statusError, err.Error())
			break
		}
		m.saves = saves
		m.saveCursor = 0
		m.savesFocus = len(saves) > 0
		if len(saves) == 0 {
			m.setStatus(statusInfo, "No save files in "+filepath.Base(m.games[m.gameCursor]))
		}
	case "left", "h":
		m.savesFocus = false

	case "r":
		if !m.scanning {
			m.startScan()
		}
	case "p":
		if !m.scanning {
			break
		}
		var err error
		if m.paused {
			err = m.session.ResumeGameScan()
		} else {
			err = m.session.PauseGameScan()
		}
		if err != nil {
			m.setStatus(statusError, err.Error())
			break
		}
		m.paused = !m.paused
		if m.paused {
			m.setStatus(statusInfo, "Scan paused")
		} else {
			m.setStatus(statusInfo, "Scan resumed")
		}
	case "c":
		if m.scanning {
			if err := m.session.CancelGameScan(); err != nil {
				m.setStatus(statusError, err.Error())
			}
		}
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m *Model) openSave(file string) {
	if m.session.Dirty() {
		m.pending = file
		m.back = modeScan
		m.mode = modeConfirmOpen
		return
	}
	m.open(file)
}

func (m *Model) appendLog(line string) {
	m.scanLog = append(m.scanLog, line)
	m.logView.SetContent(joinLines(m.scanLog))
	m.logView.GotoBottom()
}

func (m Model) logHeight() int {
	h := m.height / 3
	if h < 3 {
		h = 3
	}
	return h
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
