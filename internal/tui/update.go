package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"chipview/internal/app"
)

const wheelZoom = 1.1

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.app == nil && m.err == nil {
			return m.bootstrap()
		}
		return m, nil
	case ChipDataMsg:
		m.onResult(msg.Result)
		return m, nil
	case SceneChangedMsg:
		m.status = msg.Reason
		if m.app != nil {
			m.app.Controls.Sync()
		}
		return m, nil
	case statusMsg:
		m.status = string(msg)
		return m, nil
	case tea.MouseMsg:
		if m.app == nil || m.showSidebar || m.pasteMode {
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.app.Scene.ZoomBy(wheelZoom)
		case tea.MouseButtonWheelDown:
			m.app.Scene.ZoomBy(1 / wheelZoom)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// bootstrap runs on the first window size: the canvas has dimensions now.
func (m Model) bootstrap() (tea.Model, tea.Cmd) {
	a, err := app.Bootstrap(m.ctx, m.surfaces, m.boot)
	if err != nil {
		m.err = err
		m.status = err.Error()
		return m, tea.Quit
	}
	m.app = a
	m.status = "ready, waiting for chip data"
	if m.preload != "" {
		p := m.preload
		m.preload = ""
		return m, m.pushPath(p)
	}
	return m, nil
}

func (m *Model) resize() {
	f := m.frame()
	m.Surface().SetSize(f.viewW, f.viewH)
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, f.contentH-2)
	}
}

func (m *Model) onResult(r app.Result) {
	switch r.Outcome {
	case app.OutcomeDelivered:
		m.status = fmt.Sprintf("loaded %d shapes via %s", r.Shapes, r.Source)
	case app.OutcomeNotReady:
		m.status = fmt.Sprintf("%s push dropped: %s", r.Source, r.ErrString())
	default:
		m.status = fmt.Sprintf("%s push failed: %s", r.Source, r.ErrString())
	}
	if m.app != nil {
		m.app.Controls.Sync()
		if m.showAttrs {
			m.refreshAttrs()
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// keys go to the list while it is filtering
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.pasteMode {
		switch msg.String() {
		case "esc":
			m.pasteMode = false
			m.ta.Blur()
			m.status = "view mode"
			return m, nil
		case "enter":
			text := strings.TrimSpace(m.ta.Value())
			if text == "" {
				m.status = "paste: empty"
				return m, nil
			}
			m.pasteMode = false
			m.ta.Blur()
			return m, m.pushPaste(text)
		}
		var cmd tea.Cmd
		m.ta, cmd = m.ta.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
		}
		m.resize()
		return m, nil
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.ta.Focus()
		m.status = "paste mode"
		return m, nil
	case "R":
		if m.selPath == "" {
			m.status = "nothing to refresh"
			return m, nil
		}
		return m, m.pushPath(m.selPath)
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				return m, m.pushPath(it.path)
			}
		}
		return m, nil
	}

	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.app == nil {
		return m, nil
	}
	if m.showAttrs {
		switch msg.String() {
		case "esc", "i":
			m.showAttrs = false
			return m, nil
		case "up", "down", "k", "j", "pgup", "pgdown", "home", "end":
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
	} else if msg.String() == "i" {
		m.showAttrs = true
		m.refreshAttrs()
		m.status = fmt.Sprintf("shapes: %d", len(m.tbl.Rows()))
		return m, nil
	}
	if ok, status := m.app.Controls.HandleKey(msg); ok {
		if status != "" {
			m.status = status
		}
		if m.showAttrs {
			m.refreshAttrs()
		}
	}
	return m, nil
}

func (m Model) selectedName() string {
	if m.selPath == "" {
		return "<none>"
	}
	return filepath.Base(m.selPath)
}
