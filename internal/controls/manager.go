package controls

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"chipview/internal/layout"
	"chipview/internal/scene"
)

var ErrNilScene = errors.New("controls: nil scene manager")

const (
	orbitStep = 15
	zoomStep  = 1.2
)

// Manager turns key presses into camera moves and class visibility changes
// on a scene manager, and keeps the class table and group summary in step
// with the scene.
type Manager struct {
	scene *scene.Manager
	Keys  KeyMap
	Help  help.Model

	table       table.Model
	showClasses bool
	groups      string
	seen        uint64
}

// New binds a controls manager to an already constructed scene manager.
func New(s *scene.Manager) (*Manager, error) {
	if s == nil {
		return nil, ErrNilScene
	}
	c := &Manager{
		scene: s,
		Keys:  DefaultKeyMap(),
		Help:  help.New(),
		table: table.New(
			table.WithColumns(classColumns),
			table.WithFocused(true),
			table.WithHeight(12),
		),
	}
	c.Sync()
	return c, nil
}

// Scene returns the scene manager the controls drive.
func (c *Manager) Scene() *scene.Manager { return c.scene }

var classColumns = []table.Column{
	{Title: "class", Width: 20},
	{Title: "shapes", Width: 7},
	{Title: "kinds", Width: 12},
	{Title: "on", Width: 3},
}

// HandleKey applies a key press. It reports whether the key was consumed and
// a status line describing the effect.
func (c *Manager) HandleKey(msg tea.KeyMsg) (bool, string) {
	k := c.Keys
	if c.showClasses {
		switch {
		case msg.String() == "up" || msg.String() == "k":
			c.table.MoveUp(1)
			return true, ""
		case msg.String() == "down" || msg.String() == "j":
			c.table.MoveDown(1)
			return true, ""
		case key.Matches(msg, k.Toggle):
			return true, c.toggleSelected()
		case key.Matches(msg, k.ShowAll):
			c.scene.ShowAllClasses()
			c.UpdateClassTable()
			return true, "all classes visible"
		}
	}
	switch {
	case key.Matches(msg, k.YawLeft):
		c.scene.Orbit(-orbitStep, 0)
	case key.Matches(msg, k.YawRight):
		c.scene.Orbit(orbitStep, 0)
	case key.Matches(msg, k.PitchUp):
		c.scene.Orbit(0, orbitStep)
	case key.Matches(msg, k.PitchDown):
		c.scene.Orbit(0, -orbitStep)
	case key.Matches(msg, k.PanLeft):
		c.scene.PanBy(-2, 0)
	case key.Matches(msg, k.PanRight):
		c.scene.PanBy(2, 0)
	case key.Matches(msg, k.PanUp):
		c.scene.PanBy(0, -1)
	case key.Matches(msg, k.PanDown):
		c.scene.PanBy(0, 1)
	case key.Matches(msg, k.ZoomIn):
		c.scene.ZoomBy(zoomStep)
		return true, fmt.Sprintf("zoom: %.2fx", c.scene.Snapshot().Camera.Zoom)
	case key.Matches(msg, k.ZoomOut):
		c.scene.ZoomBy(1 / zoomStep)
		return true, fmt.Sprintf("zoom: %.2fx", c.scene.Snapshot().Camera.Zoom)
	case key.Matches(msg, k.Reset):
		c.scene.ResetView()
		return true, "view reset"
	case key.Matches(msg, k.Classes):
		c.showClasses = !c.showClasses
		if c.showClasses {
			c.UpdateClassTable()
		}
		return true, fmt.Sprintf("classes: %v", c.showClasses)
	case key.Matches(msg, k.Help):
		c.Help.ShowAll = !c.Help.ShowAll
		return true, ""
	default:
		return false, ""
	}
	cam := c.scene.Snapshot().Camera
	return true, fmt.Sprintf("yaw %.0f° pitch %.0f°", cam.Yaw, cam.Pitch)
}

func (c *Manager) toggleSelected() string {
	row := c.table.SelectedRow()
	if len(row) == 0 {
		return "no class selected"
	}
	name := row[0]
	visible := row[3] != "on"
	if !c.scene.SetClassVisible(name, visible) {
		return "unknown class: " + name
	}
	c.UpdateClassTable()
	return fmt.Sprintf("%s: %v", name, visible)
}

// ShowingClasses reports whether the class table is open.
func (c *Manager) ShowingClasses() bool { return c.showClasses }

// Sync refreshes the class table and group summary if the scene changed
// since the last refresh.
func (c *Manager) Sync() {
	v := c.scene.Version()
	if v == c.seen && c.groups != "" {
		return
	}
	c.seen = v
	c.UpdateClassTable()
	c.UpdateGroupsDisplay()
}

// UpdateClassTable rebuilds the class rows from the scene.
func (c *Manager) UpdateClassTable() {
	classes := c.scene.Snapshot().Classes
	rows := make([]table.Row, 0, len(classes))
	for _, ci := range classes {
		on := "off"
		if ci.Visible {
			on = "on"
		}
		rows = append(rows, table.Row{ci.Name, fmt.Sprintf("%d", ci.Count), kindMix(ci.Kinds), on})
	}
	cursor := c.table.Cursor()
	c.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor >= 0 {
		c.table.SetCursor(cursor)
	}
}

// UpdateGroupsDisplay rebuilds the per-kind summary line.
func (c *Manager) UpdateGroupsDisplay() {
	snap := c.scene.Snapshot()
	kinds := make([]layout.Kind, 0, len(snap.Groups))
	for k := range snap.Groups {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	parts := []string{fmt.Sprintf("shapes=%d", snap.Shapes)}
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", strings.ToLower(k.String()), snap.Groups[k]))
	}
	parts = append(parts, fmt.Sprintf("classes=%d", len(snap.Classes)))
	c.groups = strings.Join(parts, " ")
}

// Groups is the current per-kind summary line.
func (c *Manager) Groups() string { return c.groups }

// ClassTableView renders the class table sized to the given box.
func (c *Manager) ClassTableView(width, height int) string {
	if width > 0 {
		c.table.SetWidth(width)
	}
	if height > 0 {
		c.table.SetHeight(height)
	}
	return c.table.View()
}

// HelpView renders the key help.
func (c *Manager) HelpView(width int) string {
	c.Help.Width = width
	return c.Help.View(c.Keys)
}

func kindMix(kinds [3]int) string {
	var parts []string
	for k, n := range kinds {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%c%d", layout.Kind(k).String()[0], n))
		}
	}
	return strings.Join(parts, " ")
}
