package scene

import "sync"

// SurfaceName is the logical name of the drawing surface the viewer renders
// into.
const SurfaceName = "canvas"

// Canvas is a named drawing surface measured in terminal cells. The UI loop
// resizes it; the scene manager reads it when rendering.
type Canvas struct {
	Name string

	mu     sync.RWMutex
	width  int
	height int
}

func NewCanvas(name string, width, height int) *Canvas {
	return &Canvas{Name: name, width: width, height: height}
}

func (c *Canvas) SetSize(width, height int) {
	c.mu.Lock()
	c.width, c.height = width, height
	c.mu.Unlock()
}

func (c *Canvas) Size() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width, c.height
}
