package ingress

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"

	"chipview/internal/app"
	"chipview/internal/layout"
)

const defaultScriptTimeout = 5 * time.Second

var errScriptTimeout = errors.New("script timed out")

// ScriptBridge runs host scripts in a JS runtime where the ingress hook is a
// global function, so the host's own call forms work unchanged:
//
//	updateChipData({"shapes": [...]});
//	if (typeof app !== 'undefined' && app.sceneManager) { app.sceneManager.resetView(); }
//
// The global app is only defined once the context given with WithAppContext
// is ready.
type ScriptBridge struct {
	mu      sync.Mutex
	vm      *goja.Runtime
	d       Deliverer
	timeout time.Duration
	results []app.Result

	ctx     *app.Context
	changed func(string)
}

type ScriptOption func(*ScriptBridge)

// WithAppContext exposes the published app to scripts as the global app.
func WithAppContext(ctx *app.Context) ScriptOption {
	return func(b *ScriptBridge) { b.ctx = ctx }
}

// WithSceneChanged registers a callback run after a script changes the view
// without loading data, typically to wake the UI loop.
func WithSceneChanged(fn func(reason string)) ScriptOption {
	return func(b *ScriptBridge) { b.changed = fn }
}

func NewScriptBridge(d Deliverer, opts ...ScriptOption) *ScriptBridge {
	b := &ScriptBridge{vm: goja.New(), d: d, timeout: defaultScriptTimeout}
	for _, o := range opts {
		o(b)
	}
	b.vm.Set(app.HookName, b.updateChipData)
	if b.ctx != nil {
		b.vm.GlobalObject().DefineAccessorProperty("app", b.vm.ToValue(b.appValue), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
	return b
}

// SetTimeout bounds how long one Run may execute.
func (b *ScriptBridge) SetTimeout(d time.Duration) {
	b.mu.Lock()
	b.timeout = d
	b.mu.Unlock()
}

func (b *ScriptBridge) payloadArg(call goja.FunctionCall) layout.Payload {
	switch v := call.Argument(0).Export().(type) {
	case nil:
		return nil
	case map[string]any:
		return v
	case string:
		p, err := layout.Unmarshal([]byte(v))
		if err != nil {
			panic(b.vm.NewTypeError(err.Error()))
		}
		return p
	default:
		panic(b.vm.NewTypeError(fmt.Sprintf("%s expects an object, got %T", app.HookName, v)))
	}
}

func (b *ScriptBridge) updateChipData(call goja.FunctionCall) goja.Value {
	b.results = append(b.results, b.d.Deliver("script", b.payloadArg(call)))
	return goja.Undefined()
}

// appValue resolves the global app on every access, so it turns up once
// bootstrap has published the scene manager.
func (b *ScriptBridge) appValue(goja.FunctionCall) goja.Value {
	r, ok := b.ctx.Readiness().(app.Ready)
	if !ok || r.App == nil || r.App.Scene == nil {
		return goja.Undefined()
	}
	sm := r.App.Scene
	scene := b.vm.NewObject()
	scene.Set("resetView", func(goja.FunctionCall) goja.Value {
		sm.ResetView()
		if b.changed != nil {
			b.changed("view reset")
		}
		return goja.Undefined()
	})
	scene.Set("loadFromJSON", b.updateChipData)
	obj := b.vm.NewObject()
	obj.Set("sceneManager", scene)
	return obj
}

// Run evaluates src and returns the result of every hook call it made, in
// order. A script error does not undo calls that already happened.
func (b *ScriptBridge) Run(src string) ([]app.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results = nil
	fired := make(chan struct{})
	timer := time.AfterFunc(b.timeout, func() {
		defer close(fired)
		b.vm.Interrupt(errScriptTimeout)
	})
	_, err := b.vm.RunString(src)
	if !timer.Stop() {
		<-fired
	}
	b.vm.ClearInterrupt()
	results := b.results
	b.results = nil
	if err != nil {
		return results, fmt.Errorf("run script: %w", err)
	}
	return results, nil
}
