package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"chipview/internal/layout"
)

// HookName is the name the ingress hook is exposed under to the host.
const HookName = "updateChipData"

var (
	ErrNotReady    = errors.New("app or scene manager not initialized")
	ErrLoaderPanic = errors.New("loader panicked")
)

type Outcome int

const (
	OutcomeDelivered Outcome = iota + 1
	OutcomeNotReady
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeNotReady:
		return "not_ready"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one ingress call. Transports send it back to the
// host as the acknowledgment.
type Result struct {
	ID      uuid.UUID
	Source  string
	Outcome Outcome
	Shapes  int
	Err     error
	At      time.Time
}

func (r Result) OK() bool { return r.Outcome == OutcomeDelivered }

// ErrString is Err as text, empty on success.
func (r Result) ErrString() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Recorder keeps a log of results.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

type shapeCounter interface {
	ShapeCount() int
}

// Hook is the ingress entry point the host pushes chip data through. It is
// bound to a Context at construction, never to global state, and it never
// returns an error or panics to its caller.
type Hook struct {
	ctx      *Context
	log      *slog.Logger
	recorder Recorder
	now      func() time.Time

	mu     sync.RWMutex
	notify func(Result)
}

type HookOption func(*Hook)

func WithLogger(l *slog.Logger) HookOption { return func(h *Hook) { h.log = l } }

func WithRecorder(r Recorder) HookOption { return func(h *Hook) { h.recorder = r } }

// WithNotify registers a callback run after every call, typically to wake
// the UI loop.
func WithNotify(fn func(Result)) HookOption { return func(h *Hook) { h.notify = fn } }

func NewHook(ctx *Context, opts ...HookOption) *Hook {
	h := &Hook{ctx: ctx, log: slog.Default(), now: time.Now}
	for _, o := range opts {
		o(h)
	}
	return h
}

// SetNotify replaces the notify callback. The UI program only exists after
// the hook has been handed to the transports.
func (h *Hook) SetNotify(fn func(Result)) {
	h.mu.Lock()
	h.notify = fn
	h.mu.Unlock()
}

// UpdateChipData forwards p to the scene manager and discards the result.
func (h *Hook) UpdateChipData(p layout.Payload) {
	h.Deliver("direct", p)
}

// Deliver forwards p unmodified to the scene manager's loader when the
// context is ready. Every failure is logged once and reported in the Result.
func (h *Hook) Deliver(source string, p layout.Payload) Result {
	res := Result{ID: uuid.New(), Source: source, At: h.now()}
	switch r := h.ctx.Readiness().(type) {
	case Ready:
		h.log.Debug("received chip data", "id", res.ID, "source", source)
		shapes, err := h.load(r.Loader, p)
		if err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			h.log.Error("error updating chip data", "id", res.ID, "source", source, "error", err)
			break
		}
		res.Outcome = OutcomeDelivered
		res.Shapes = shapes
	default:
		res.Outcome = OutcomeNotReady
		res.Err = ErrNotReady
		h.log.Error("app or scene manager not initialized", "id", res.ID, "source", source)
	}
	h.finish(res)
	return res
}

// load forwards p and reads the shape count back before any other load on
// the same context can replace the scene.
func (h *Hook) load(l Loader, p layout.Payload) (int, error) {
	h.ctx.loadMu.Lock()
	defer h.ctx.loadMu.Unlock()
	if err := forward(l, p); err != nil {
		return 0, err
	}
	if c, ok := l.(shapeCounter); ok {
		return c.ShapeCount(), nil
	}
	return 0, nil
}

func forward(l Loader, p layout.Payload) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%w: %v", ErrLoaderPanic, v)
		}
	}()
	return l.LoadFromJSON(p)
}

func (h *Hook) finish(res Result) {
	if h.recorder != nil {
		if err := h.recorder.Record(context.Background(), res); err != nil {
			h.log.Error("record receipt", "id", res.ID, "source", res.Source, "error", err)
		}
	}
	h.mu.RLock()
	notify := h.notify
	h.mu.RUnlock()
	if notify != nil {
		notify(res)
	}
}
