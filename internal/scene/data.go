package scene

import (
	"cogentcore.org/core/math32"

	"chipview/internal/layout"
)

// ClassInfo summarizes the shapes sharing a class label.
type ClassInfo struct {
	Name    string
	Color   layout.Color
	Count   int
	Kinds   [3]int // indexed by layout.Kind
	Visible bool
}

// DataManager owns the shapes of a scene and everything derived from them:
// the class registry, the per-kind groups and the z exaggeration.
// It is not safe for concurrent use; the Manager serializes access.
type DataManager struct {
	shapes  []layout.Shape
	classes map[string]*ClassInfo
	order   []string
	bounds  math32.Box3
	zScale  float32
}

func newDataManager() *DataManager {
	d := &DataManager{}
	d.reset()
	return d
}

func (d *DataManager) reset() {
	d.shapes = nil
	d.classes = map[string]*ClassInfo{}
	d.order = nil
	d.bounds = math32.B3Empty()
	d.zScale = 1
}

func (d *DataManager) add(s layout.Shape) {
	d.shapes = append(d.shapes, s)
	d.bounds.ExpandByPoint(s.From)
	d.bounds.ExpandByPoint(s.To)
	ci, ok := d.classes[s.Class]
	if !ok {
		ci = &ClassInfo{Name: s.Class, Color: s.Color, Visible: true}
		d.classes[s.Class] = ci
		d.order = append(d.order, s.Class)
	}
	ci.Count++
	ci.Kinds[s.Kind]++
}

// AutoScale stretches z so the layer stack spans a quarter of the larger
// x/y extent.
func (d *DataManager) AutoScale() {
	d.zScale = 1
	if d.bounds.IsEmpty() {
		return
	}
	size := d.bounds.Size()
	xy := math32.Max(size.X, size.Y)
	if size.Z <= 0 || xy <= 0 {
		return
	}
	d.zScale = xy * 0.25 / size.Z
}

// ZScale is the current z exaggeration factor.
func (d *DataManager) ZScale() float32 { return d.zScale }

// Len is the number of shapes.
func (d *DataManager) Len() int { return len(d.shapes) }

// Classes returns the class registry in first-seen order.
func (d *DataManager) Classes() []ClassInfo {
	out := make([]ClassInfo, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, *d.classes[name])
	}
	return out
}

// Groups counts shapes per kind.
func (d *DataManager) Groups() map[layout.Kind]int {
	g := map[layout.Kind]int{}
	for _, s := range d.shapes {
		g[s.Kind]++
	}
	return g
}

func (d *DataManager) setVisible(class string, visible bool) bool {
	ci, ok := d.classes[class]
	if !ok {
		return false
	}
	ci.Visible = visible
	return true
}

func (d *DataManager) visible(class string) bool {
	ci, ok := d.classes[class]
	return !ok || ci.Visible
}

// scaled returns the point in view space before projection: z stretched,
// centered on the scene bounds.
func (d *DataManager) scaled(p math32.Vector3) math32.Vector3 {
	c := d.bounds.Center()
	q := p.Sub(c)
	q.Z *= d.zScale
	return q
}

// radius is half the diagonal of the z-scaled bounds.
func (d *DataManager) radius() float32 {
	if d.bounds.IsEmpty() {
		return 0
	}
	size := d.bounds.Size()
	size.Z *= d.zScale
	return size.Length() / 2
}
