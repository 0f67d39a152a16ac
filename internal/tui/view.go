package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/danieljhkim/rpgsave/internal/display"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusStyles = map[statusLevel]lipgloss.Style{
		statusInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		statusOK:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		statusWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		statusError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))
	activePanelColor = lipgloss.Color("205")
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")

	switch m.mode {
	case modeScan:
		b.WriteString(m.scanView())
	default:
		b.WriteString(m.treeView())
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) header() string {
	name := "no file"
	if f := m.session.CurrentFile(); f != "" {
		name = filepath.Base(f)
	}
	if m.session.Dirty() {
		name += " *"
	}
	return titleStyle.Render("rpgsave") + " " + dimStyle.Render(name)
}

func (m Model) treeView() string {
	if m.root == nil {
		return dimStyle.Render("  No save file open. Press o to find one.")
	}
	if len(m.rows) == 0 {
		if len(m.root.Children) == 0 {
			return "  " + valueStyle.Render(m.root.Value)
		}
		return ""
	}

	h := m.treeHeight()
	end := m.offset + h
	if end > len(m.rows) {
		end = len(m.rows)
	}

	lines := make([]string, 0, h)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(r display.Row, selected bool) string {
	n := r.Node
	indent := strings.Repeat("  ", r.Depth)

	marker := "  "
	if !n.Editable {
		marker = "▸ "
		if r.Expanded {
			marker = "▾ "
		}
	}

	value := n.Value
	if !n.Editable {
		value = fmt.Sprintf("%s (%d)", n.Value, len(n.Children))
	}
	if m.mode == modeEdit && selected {
		value = m.input.View()
	}

	label := indent + marker + n.Label + ": "
	room := m.width - uniseg.StringWidth(label) - 1
	if m.mode != modeEdit || !selected {
		value = truncate(value, room)
	}

	if selected && m.mode != modeEdit {
		return selectedStyle.Render(label + value)
	}
	if n.Editable {
		return keyStyle.Render(label) + valueStyle.Render(value)
	}
	return keyStyle.Render(label) + dimStyle.Render(value)
}

func (m Model) scanView() string {
	h := m.height - m.logHeight() - 6
	if h < 3 {
		h = 3
	}
	w := m.width/2 - 2
	if w < 20 {
		w = 20
	}

	games := make([]string, 0, len(m.games))
	for i, g := range m.games {
		line := truncate(filepath.Base(g), w-2)
		if i == m.gameCursor && !m.savesFocus {
			line = selectedStyle.Render(line)
		}
		games = append(games, line)
	}
	if len(games) == 0 {
		if m.scanning {
			games = append(games, dimStyle.Render("Searching..."))
		} else {
			games = append(games, dimStyle.Render("No games found"))
		}
	}

	saves := make([]string, 0, len(m.saves))
	for i, s := range m.saves {
		line := truncate(filepath.Base(s), w-2)
		if i == m.saveCursor && m.savesFocus {
			line = selectedStyle.Render(line)
		}
		saves = append(saves, line)
	}

	gameBorder, saveBorder := lipgloss.Color("63"), lipgloss.Color("63")
	if m.savesFocus {
		saveBorder = activePanelColor
	} else {
		gameBorder = activePanelColor
	}

	left := panelStyle.
		Width(w).
		Height(h).
		BorderForeground(gameBorder).
		Render(keyStyle.Render("Games") + "\n" + window(games, m.gameCursor, h-1))
	right := panelStyle.
		Width(w).
		Height(h).
		BorderForeground(saveBorder).
		Render(keyStyle.Render("Saves") + "\n" + window(saves, m.saveCursor, h-1))

	state := m.session.ScanState().String()
	log := panelStyle.Width(m.width - 2).Render(dimStyle.Render("Scan: "+state) + "\n" + m.logView.View())

	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, left, right), log)
}

func (m Model) footer() string {
	var status string
	switch m.mode {
	case modeConfirmQuit:
		status = statusStyles[statusWarn].Render("Quit without saving? (y/n)")
	case modeConfirmForce:
		status = statusStyles[statusWarn].Render("The file was changed by another program. Overwrite it? (y/n)")
	case modeConfirmOpen:
		status = statusStyles[statusWarn].Render("Discard unsaved changes? (y/n)")
	default:
		status = statusStyles[m.level].Render(m.status)
	}
	return status + "\n" + helpStyle.Render(m.help())
}

func (m Model) help() string {
	switch m.mode {
	case modeEdit:
		return "enter: apply • esc: cancel"
	case modeScan:
		return "↑/↓: move • enter: open • r: rescan • p: pause • c: cancel • tab: back"
	case modeConfirmQuit, modeConfirmForce, modeConfirmOpen:
		return "y: yes • any other key: no"
	}
	return "↑/↓: move • →/←: expand • enter: edit • u/r: undo/redo • s: save • b: names • o: games • d: diagnostics • q: quit"
}

// window returns the lines around cursor that fit in height.
func window(lines []string, cursor, height int) string {
	if height < 1 {
		height = 1
	}
	start := 0
	if len(lines) > height && cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

// truncate shortens s to width terminal cells without splitting grapheme
// clusters.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cw := g.Width()
		if used+cw > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += cw
	}
	b.WriteString("…")
	return b.String()
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
