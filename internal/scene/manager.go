package scene

import (
	"errors"
	"fmt"
	"sync"

	"chipview/internal/layout"
)

var ErrNilCanvas = errors.New("scene: nil canvas")

// Manager owns the rendering state of the viewer: the shapes, the classes
// derived from them and the camera. It is safe for concurrent use; loads
// arrive from ingress goroutines while the UI loop renders.
type Manager struct {
	canvas *Canvas

	mu      sync.RWMutex
	data    *DataManager
	camera  Camera
	version uint64
}

// New binds a scene manager to a drawing surface.
func New(canvas *Canvas) (*Manager, error) {
	if canvas == nil {
		return nil, ErrNilCanvas
	}
	return &Manager{
		canvas: canvas,
		data:   newDataManager(),
		camera: defaultCamera(),
	}, nil
}

// Canvas returns the surface the manager draws into.
func (m *Manager) Canvas() *Canvas { return m.canvas }

// LoadFromJSON replaces the scene with the shapes in p, rescales z and
// resets the view. A payload that does not decode leaves the scene as it was.
func (m *Manager) LoadFromJSON(p layout.Payload) error {
	doc, err := layout.Decode(p)
	if err != nil {
		return fmt.Errorf("scene: load: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.reset()
	for _, s := range doc.Shapes {
		m.data.add(s)
	}
	m.data.AutoScale()
	m.camera = defaultCamera()
	m.version++
	return nil
}

func (m *Manager) AddWire(s layout.Shape) { s.Kind = layout.Wire; m.add(s) }
func (m *Manager) AddRect(s layout.Shape) { s.Kind = layout.Rect; m.add(s) }

// AddVia adds a vertical via; only the z of s.To is used.
func (m *Manager) AddVia(s layout.Shape) {
	s.Kind = layout.Via
	s.To.X, s.To.Y = s.From.X, s.From.Y
	m.add(s)
}

func (m *Manager) add(s layout.Shape) {
	if s.Class == "" {
		s.Class = layout.DefaultClass
	}
	m.mu.Lock()
	m.data.add(s)
	m.version++
	m.mu.Unlock()
}

// Clear removes every shape.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.data.reset()
	m.version++
	m.mu.Unlock()
}

// AutoScale recomputes the z exaggeration from the current shapes.
func (m *Manager) AutoScale() {
	m.mu.Lock()
	m.data.AutoScale()
	m.version++
	m.mu.Unlock()
}

// ResetView puts the camera back to its default orbit, zoom and pan.
func (m *Manager) ResetView() {
	m.mu.Lock()
	m.camera = defaultCamera()
	m.version++
	m.mu.Unlock()
}

func (m *Manager) Orbit(dYaw, dPitch float32) {
	m.mu.Lock()
	m.camera.Orbit(dYaw, dPitch)
	m.version++
	m.mu.Unlock()
}

func (m *Manager) ZoomBy(f float32) {
	m.mu.Lock()
	m.camera.ZoomBy(f)
	m.version++
	m.mu.Unlock()
}

func (m *Manager) PanBy(dx, dy int) {
	m.mu.Lock()
	m.camera.PanBy(dx, dy)
	m.version++
	m.mu.Unlock()
}

// SetClassVisible shows or hides a class. It reports whether the class exists.
func (m *Manager) SetClassVisible(class string, visible bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok := m.data.setVisible(class, visible)
	if ok {
		m.version++
	}
	return ok
}

// ShowAllClasses makes every class visible again.
func (m *Manager) ShowAllClasses() {
	m.mu.Lock()
	for _, name := range m.data.order {
		m.data.setVisible(name, true)
	}
	m.version++
	m.mu.Unlock()
}

// Snapshot is a consistent read of the scene for display.
type Snapshot struct {
	Shapes  int
	Classes []ClassInfo
	Groups  map[layout.Kind]int
	Camera  Camera
	ZScale  float32
	Version uint64
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Shapes:  m.data.Len(),
		Classes: m.data.Classes(),
		Groups:  m.data.Groups(),
		Camera:  m.camera,
		ZScale:  m.data.ZScale(),
		Version: m.version,
	}
}

// ShapeCount is the number of shapes currently in the scene.
func (m *Manager) ShapeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.Len()
}

// Shapes returns a copy of the shapes in load order.
func (m *Manager) Shapes() []layout.Shape {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]layout.Shape(nil), m.data.shapes...)
}

// Version increases on every change to the scene or camera.
func (m *Manager) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}
