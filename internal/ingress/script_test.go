package ingress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chipview/internal/app"
	"chipview/internal/layout"
	"chipview/internal/scene"
)

func TestScriptHostCallForm(t *testing.T) {
	d := &fakeDeliverer{outcome: app.OutcomeDelivered}
	b := NewScriptBridge(d)

	results, err := b.Run(`updateChipData({"shapes":[{"type":"Via","x1":0,"y1":0,"z1":0,"z2":20,"name":"v1"}]});`)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, app.OutcomeDelivered, results[0].Outcome)
	assert.Equal(t, 1, results[0].Shapes)

	calls := d.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "script", calls[0].source)
	shapes, ok := calls[0].payload["shapes"].([]any)
	require.True(t, ok)
	via := shapes[0].(map[string]any)
	assert.Equal(t, "Via", via["type"])
	assert.Equal(t, "v1", via["name"])
}

func TestScriptJSONStringArgument(t *testing.T) {
	d := &fakeDeliverer{outcome: app.OutcomeDelivered}
	b := NewScriptBridge(d)

	results, err := b.Run(`updateChipData('{"shapes": []}')`)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, d.Calls(), 1)
	assert.Equal(t, layout.Payload{"shapes": []any{}}, d.Calls()[0].payload)
}

func TestScriptMultipleCalls(t *testing.T) {
	d := &fakeDeliverer{outcome: app.OutcomeNotReady}
	b := NewScriptBridge(d)

	results, err := b.Run(`
		for (var i = 0; i < 3; i++) {
			updateChipData({shapes: []});
		}
	`)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, app.OutcomeNotReady, r.Outcome)
	}
}

func TestScriptRejectsNonObject(t *testing.T) {
	d := &fakeDeliverer{outcome: app.OutcomeDelivered}
	b := NewScriptBridge(d)

	_, err := b.Run(`updateChipData(42)`)
	assert.Error(t, err)
	assert.Empty(t, d.Calls())
}

func TestScriptErrorKeepsEarlierCalls(t *testing.T) {
	d := &fakeDeliverer{outcome: app.OutcomeDelivered}
	b := NewScriptBridge(d)

	results, err := b.Run(`updateChipData({shapes: []}); throw new Error("boom");`)
	assert.ErrorContains(t, err, "boom")
	assert.Len(t, results, 1)
}

func TestScriptTimeout(t *testing.T) {
	d := &fakeDeliverer{outcome: app.OutcomeDelivered}
	b := NewScriptBridge(d)
	b.SetTimeout(50 * time.Millisecond)

	_, err := b.Run(`for (;;) {}`)
	require.Error(t, err)

	// the runtime is usable again after an interrupt
	results, err := b.Run(`updateChipData({})`)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

type canvasSurfaces map[string]*scene.Canvas

func (s canvasSurfaces) Surface(name string) (*scene.Canvas, bool) {
	c, ok := s[name]
	return c, ok
}

const hostResetCamera = `if (typeof app !== 'undefined' && app.sceneManager) { app.sceneManager.resetView(); }`

func TestScriptHostResetCamera(t *testing.T) {
	ctx := app.NewContext()
	var reasons []string
	b := NewScriptBridge(app.NewHook(ctx), WithAppContext(ctx), WithSceneChanged(func(r string) { reasons = append(reasons, r) }))

	// before bootstrap the host's guard sees no app
	_, err := b.Run(`if (typeof app !== 'undefined') { throw new Error("app defined early"); }`)
	require.NoError(t, err)
	_, err = b.Run(hostResetCamera)
	require.NoError(t, err)
	assert.Empty(t, reasons)

	a, err := app.Bootstrap(ctx, canvasSurfaces{scene.SurfaceName: scene.NewCanvas(scene.SurfaceName, 40, 12)}, app.Options{})
	require.NoError(t, err)
	home := a.Scene.Snapshot().Camera
	a.Scene.Orbit(90, -40)
	a.Scene.ZoomBy(4)
	require.NotEqual(t, home, a.Scene.Snapshot().Camera)

	results, err := b.Run(hostResetCamera)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, home, a.Scene.Snapshot().Camera)
	assert.Equal(t, []string{"view reset"}, reasons)
}

func TestScriptSceneManagerLoad(t *testing.T) {
	ctx := app.NewContext()
	b := NewScriptBridge(app.NewHook(ctx), WithAppContext(ctx))
	a, err := app.Bootstrap(ctx, canvasSurfaces{scene.SurfaceName: scene.NewCanvas(scene.SurfaceName, 40, 12)}, app.Options{})
	require.NoError(t, err)

	results, err := b.Run(`app.sceneManager.loadFromJSON({shapes: [{type: "Via", x1: 1, y1: 1, z1: 0, z2: 3}]})`)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].OK())
	assert.Equal(t, 1, a.Scene.ShapeCount())
}

func TestScriptTimeoutDoesNotLeak(t *testing.T) {
	b := NewScriptBridge(&fakeDeliverer{outcome: app.OutcomeDelivered})
	for i := 0; i < 50; i++ {
		b.SetTimeout(time.Millisecond)
		_, _ = b.Run(`var n = 0; for (var i = 0; i < 20000; i++) { n += i; }`)
		b.SetTimeout(time.Second)
		_, err := b.Run(`1 + 1`)
		require.NoError(t, err, "run %d", i)
	}
}
