package tui

import "chipview/internal/app"

const (
	sidebarWidth = 28
	classWidth   = 50
	headerHeight = 1
	footerHeight = 2
)

// frame is the screen layout for the current terminal size. Update sizes the
// canvas from it and View draws into it, so both agree on where the scene is.
type frame struct {
	contentW, contentH int
	sideW              int
	viewX, viewY       int
	viewW, viewH       int
}

func (m Model) frame() frame {
	f := frame{contentW: max(10, m.width), contentH: max(4, m.height-headerHeight-footerHeight)}
	if m.showSidebar {
		f.sideW = sidebarWidth
		f.viewX = sidebarWidth + 1
	}
	f.viewY = headerHeight
	f.viewW = max(10, f.contentW-f.viewX)
	f.viewH = f.contentH
	return f
}

// renderScene draws the scene into the canvas, or a hint before any data
// arrived.
func (m Model) renderScene() string {
	if m.app == nil {
		return dimStyle.Render("waiting for terminal")
	}
	if m.app.Scene.ShapeCount() == 0 {
		return dimStyle.Render("no chip data yet: call " + app.HookName + " or press tab to pick a payload file")
	}
	return m.app.Scene.Draw()
}
