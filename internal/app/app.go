// Package app wires the viewer together: it builds the scene and controls
// managers against the drawing surface, publishes them on a Context, and
// hosts the ingress hook and the error sink.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"chipview/internal/controls"
	"chipview/internal/scene"
)

var ErrSurfaceNotFound = errors.New("drawing surface not found")

// InitError reports a bootstrap that could not complete. Nothing is
// published when it is returned.
type InitError struct {
	Stage string
	Err   error
}

func (e *InitError) Error() string { return fmt.Sprintf("init: %s: %v", e.Stage, e.Err) }
func (e *InitError) Unwrap() error { return e.Err }

// Surfaces resolves drawing surfaces by logical name.
type Surfaces interface {
	Surface(name string) (*scene.Canvas, bool)
}

// App holds the two collaborators for the lifetime of the program.
type App struct {
	Scene    *scene.Manager
	Controls *controls.Manager
}

// Options swaps the collaborator constructors, mostly for tests.
type Options struct {
	NewScene    func(*scene.Canvas) (*scene.Manager, error)
	NewControls func(*scene.Manager) (*controls.Manager, error)
	Logger      *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.NewScene == nil {
		o.NewScene = scene.New
	}
	if o.NewControls == nil {
		o.NewControls = controls.New
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Bootstrap resolves the "canvas" surface, builds the scene manager on it,
// then the controls manager on the scene manager, and publishes the result
// on ctx. It runs at most once per Context; later calls return the
// published App.
func Bootstrap(ctx *Context, surfaces Surfaces, opts Options) (*App, error) {
	opts = opts.withDefaults()
	ctx.bootMu.Lock()
	defer ctx.bootMu.Unlock()
	if r, ok := ctx.Readiness().(Ready); ok {
		return r.App, nil
	}

	canvas, ok := surfaces.Surface(scene.SurfaceName)
	if !ok || canvas == nil {
		return nil, &InitError{Stage: "surface " + scene.SurfaceName, Err: ErrSurfaceNotFound}
	}
	sm, err := opts.NewScene(canvas)
	if err != nil {
		return nil, &InitError{Stage: "scene manager", Err: err}
	}
	cm, err := opts.NewControls(sm)
	if err != nil {
		return nil, &InitError{Stage: "controls manager", Err: err}
	}
	a := &App{Scene: sm, Controls: cm}
	ctx.Publish(a)
	opts.Logger.Info("chip viewer initialized", "surface", canvas.Name)
	return a, nil
}
