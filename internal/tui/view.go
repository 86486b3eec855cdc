package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.err != nil {
		return errStyle.Render(m.err.Error()) + "\n"
	}
	f := m.frame()

	header := titleStyle.Render(" chipview ─ 3D chip layout viewer ")
	if m.selPath != "" {
		header += dimStyle.Render("  " + m.selectedName())
	}
	header = lipgloss.NewStyle().Width(f.contentW).MaxHeight(headerHeight).Render(header)

	var sidebar string
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, f.contentH-2)
		sidebar = lipgloss.NewStyle().Width(f.sideW).Render(m.l.View())
	}

	var viewport string
	switch {
	case m.pasteMode:
		m.ta.SetWidth(f.viewW)
		m.ta.SetHeight(min(f.viewH, 12))
		viewport = m.ta.View()
	case m.showAttrs:
		m.tbl.SetWidth(min(f.viewW-4, 100))
		m.tbl.SetHeight(min(f.viewH-2, 20))
		box := boxStyle.Render(m.tbl.View())
		viewport = lipgloss.Place(f.viewW, f.viewH, lipgloss.Center, lipgloss.Center, box)
	case m.app != nil && m.app.Controls.ShowingClasses():
		w := min(classWidth, f.viewW/2)
		classes := boxStyle.Width(w).Render(m.app.Controls.ClassTableView(w-4, f.viewH-4))
		scene := m.app.Scene.Render(f.viewW-lipgloss.Width(classes)-1, f.viewH)
		viewport = lipgloss.JoinHorizontal(lipgloss.Top, scene, " ", classes)
	default:
		viewport = m.renderScene()
	}
	viewport = lipgloss.NewStyle().Width(f.viewW).Height(f.viewH).MaxHeight(f.viewH).Render(viewport)

	body := viewport
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", viewport)
	}

	footer := lipgloss.JoinVertical(lipgloss.Left, m.renderStatus(f.contentW), m.renderHelp(f.contentW))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(f.contentW).Height(m.height).MaxHeight(m.height).Render(ui)
}

func (m Model) renderStatus(width int) string {
	status := dimStyle.Render(" " + m.status + " ")
	groups := ""
	if m.app != nil {
		groups = dimStyle.Render(" " + m.app.Controls.Groups() + " ")
	}
	gap := max(0, width-lipgloss.Width(status)-lipgloss.Width(groups))
	return lipgloss.NewStyle().MaxWidth(width).Render(status + strings.Repeat(" ", gap) + groups)
}

func (m Model) renderHelp(width int) string {
	keys := []string{"tab payloads", "p paste", "i shapes", "R refresh", "q quit"}
	own := dimStyle.Render(" " + strings.Join(keys, "  ") + "  ")
	if m.app == nil {
		return own
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(own + m.app.Controls.HelpView(max(0, width-lipgloss.Width(own))))
}
