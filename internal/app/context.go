package app

import (
	"sync"
	"sync/atomic"

	"chipview/internal/layout"
)

// Loader is the scene manager operation the ingress hook forwards to.
type Loader interface {
	LoadFromJSON(layout.Payload) error
}

// Readiness is either NotReady or Ready.
type Readiness interface {
	readiness()
}

type NotReady struct{}

type Ready struct {
	App    *App
	Loader Loader
}

func (NotReady) readiness() {}
func (Ready) readiness()    {}

// Context is the handle the ingress hook is registered with. It starts
// NotReady and becomes Ready once Bootstrap publishes an App.
type Context struct {
	bootMu sync.Mutex
	loadMu sync.Mutex
	ready  atomic.Pointer[Ready]

	readyOnce sync.Once
	readyCh   chan struct{}
}

func NewContext() *Context { return &Context{readyCh: make(chan struct{})} }

// Publish marks the context ready with the given App. An App without a
// scene manager leaves it NotReady.
func (c *Context) Publish(a *App) {
	r := &Ready{App: a}
	if a != nil && a.Scene != nil {
		r.Loader = a.Scene
	}
	c.store(r)
}

func (c *Context) publishLoader(l Loader) {
	c.store(&Ready{Loader: l})
}

func (c *Context) store(r *Ready) {
	c.ready.Store(r)
	if r.Loader != nil {
		c.readyOnce.Do(func() { close(c.readyCh) })
	}
}

// Published is closed the first time the context becomes Ready.
func (c *Context) Published() <-chan struct{} { return c.readyCh }

func (c *Context) Readiness() Readiness {
	if c == nil {
		return NotReady{}
	}
	r := c.ready.Load()
	if r == nil || r.Loader == nil {
		return NotReady{}
	}
	return *r
}

// App returns the published App, or nil before bootstrap.
func (c *Context) App() *App {
	if r, ok := c.Readiness().(Ready); ok {
		return r.App
	}
	return nil
}
