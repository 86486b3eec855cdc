package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"chipview/internal/app"
	"chipview/internal/scene"
)

// ChipDataMsg tells the UI loop that an ingress call finished.
type ChipDataMsg struct {
	Result app.Result
}

// SceneChangedMsg tells the UI loop that something outside it moved the
// view, such as a host script resetting the camera.
type SceneChangedMsg struct {
	Reason string
}

// Options configures a Model.
type Options struct {
	Context *app.Context
	Hook    *app.Hook
	Boot    app.Options
	// Dir is listed by the payload file picker. Defaults to the working
	// directory.
	Dir string
	// Preload is pushed through the hook right after bootstrap.
	Preload string
}

type surfaceMap map[string]*scene.Canvas

func (s surfaceMap) Surface(name string) (*scene.Canvas, bool) {
	c, ok := s[name]
	return c, ok
}

type Model struct {
	width  int
	height int

	ctx      *app.Context
	hook     *app.Hook
	boot     app.Options
	surfaces surfaceMap
	app      *app.App
	err      error

	showSidebar bool

	status string

	// payload file picker
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string
	preload string

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// shape attributes table
	showAttrs bool
	tbl       table.Model
	attrsSeen uint64
}

func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = app.NewContext()
	}
	hook := opts.Hook
	if hook == nil {
		hook = app.NewHook(ctx)
	}
	m := Model{
		ctx:      ctx,
		hook:     hook,
		boot:     opts.Boot,
		surfaces: surfaceMap{scene.SurfaceName: scene.NewCanvas(scene.SurfaceName, 0, 0)},
		status:   "waiting for terminal",
		cwd:      opts.Dir,
		preload:  opts.Preload,
	}
	if m.cwd == "" {
		m.cwd, _ = os.Getwd()
	}
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Payloads"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.Placeholder = `Paste a payload, e.g. {"shapes": [...]}. Enter pushes it; Esc cancels.`
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	m.tbl = table.New(table.WithColumns(attrColumns()), table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Err is the bootstrap failure that ended the program, if any.
func (m Model) Err() error { return m.err }

// App is the bootstrapped application, nil until the terminal reports its
// size.
func (m Model) App() *app.App { return m.app }

// Surface is the drawing surface the scene renders into.
func (m Model) Surface() *scene.Canvas { return m.surfaces[scene.SurfaceName] }
