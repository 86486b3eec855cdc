package tui

import (
	"fmt"

	"cogentcore.org/core/math32"
	table "github.com/charmbracelet/bubbles/table"
)

func attrColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 5},
		{Title: "name", Width: 18},
		{Title: "kind", Width: 5},
		{Title: "class", Width: 18},
		{Title: "from", Width: 20},
		{Title: "to", Width: 20},
		{Title: "color", Width: 8},
	}
}

// refreshAttrs rebuilds the shape table from the scene when it changed.
func (m *Model) refreshAttrs() {
	if m.app == nil {
		return
	}
	sm := m.app.Scene
	v := sm.Version()
	if v == m.attrsSeen && len(m.tbl.Rows()) > 0 {
		return
	}
	m.attrsSeen = v
	shapes := sm.Shapes()
	rows := make([]table.Row, 0, len(shapes))
	for i, s := range shapes {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			s.Name,
			s.Kind.String(),
			s.Class,
			vec(s.From),
			vec(s.To),
			s.Color.Hex(),
		})
	}
	cursor := m.tbl.Cursor()
	m.tbl.SetRows(rows)
	if cursor >= len(rows) {
		m.tbl.SetCursor(max(0, len(rows)-1))
	}
}

func vec(v math32.Vector3) string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}
