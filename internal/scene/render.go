package scene

import (
	"strings"

	"cogentcore.org/core/math32"

	"chipview/internal/layout"
)

// Draw renders the scene at the current size of its canvas.
func (m *Manager) Draw() string {
	w, h := m.canvas.Size()
	return m.Render(w, h)
}

// Render draws the visible shapes into a w x h cell block.
func (m *Manager) Render(w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	br := newBrailleBuf(w, h)
	pr := m.camera.projector(w*2, h*4, m.data.radius())
	for _, s := range m.data.shapes {
		if !m.data.visible(s.Class) {
			continue
		}
		color := s.Color.Hex()
		for _, seg := range segments(s) {
			x0, y0 := pr.project(m.data.scaled(seg[0]))
			x1, y1 := pr.project(m.data.scaled(seg[1]))
			br.drawLine(x0, y0, x1, y1, color)
		}
	}
	return strings.Join(br.toLines(), "\n")
}

// segments breaks a shape into straight edges in world space.
func segments(s layout.Shape) [][2]math32.Vector3 {
	switch s.Kind {
	case layout.Rect:
		bottom := rectRing(s.From.X, s.From.Y, s.To.X, s.To.Y, s.From.Z)
		segs := ringSegments(bottom)
		if s.To.Z != s.From.Z {
			top := rectRing(s.From.X, s.From.Y, s.To.X, s.To.Y, s.To.Z)
			segs = append(segs, ringSegments(top)...)
			for i := range bottom {
				segs = append(segs, [2]math32.Vector3{bottom[i], top[i]})
			}
		}
		return segs
	default:
		// wires and vias are single segments; a via's endpoints share x/y
		return [][2]math32.Vector3{{s.From, s.To}}
	}
}

func rectRing(x0, y0, x1, y1, z float32) [4]math32.Vector3 {
	return [4]math32.Vector3{
		math32.Vec3(x0, y0, z),
		math32.Vec3(x1, y0, z),
		math32.Vec3(x1, y1, z),
		math32.Vec3(x0, y1, z),
	}
}

func ringSegments(r [4]math32.Vector3) [][2]math32.Vector3 {
	segs := make([][2]math32.Vector3, 0, len(r))
	for i := range r {
		segs = append(segs, [2]math32.Vector3{r[i], r[(i+1)%len(r)]})
	}
	return segs
}
