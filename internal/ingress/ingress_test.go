package ingress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"chipview/internal/app"
	"chipview/internal/layout"
	"chipview/internal/receipts"
)

type fakeDeliverer struct {
	mu      sync.Mutex
	calls   []delivery
	outcome app.Outcome
}

type delivery struct {
	source  string
	payload layout.Payload
}

func (f *fakeDeliverer) Deliver(source string, p layout.Payload) app.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, delivery{source: source, payload: p})
	res := app.Result{ID: uuid.New(), Source: source, Outcome: f.outcome, At: time.Now()}
	switch f.outcome {
	case app.OutcomeDelivered:
		if shapes, ok := p["shapes"].([]any); ok {
			res.Shapes = len(shapes)
		}
	case app.OutcomeNotReady:
		res.Err = app.ErrNotReady
	case app.OutcomeFailed:
		res.Err = errors.New("scene: load: bad shapes")
	}
	return res
}

func (f *fakeDeliverer) Calls() []delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]delivery(nil), f.calls...)
}

type fakeStatus struct{ ready bool }

func (s fakeStatus) Readiness() app.Readiness {
	if s.ready {
		return app.Ready{}
	}
	return app.NotReady{}
}

type memReceipts struct {
	byID map[string]receipts.Receipt
	last *receipts.Receipt
}

func (m *memReceipts) Get(_ context.Context, id string) (receipts.Receipt, error) {
	rc, ok := m.byID[id]
	if !ok {
		return receipts.Receipt{}, receipts.ErrNotFound
	}
	return rc, nil
}

func (m *memReceipts) Last(context.Context) (receipts.Receipt, bool, error) {
	if m.last == nil {
		return receipts.Receipt{}, false, nil
	}
	return *m.last, true, nil
}

func TestAckOf(t *testing.T) {
	results := []app.Result{
		{ID: uuid.New(), Source: "script", Outcome: app.OutcomeDelivered, Shapes: 2},
		{ID: uuid.New(), Source: "script", Outcome: app.OutcomeNotReady, Err: app.ErrNotReady},
	}
	ack := ackOf(results)
	assert.Equal(t, TypeAck, ack.Type)
	if assert.Len(t, ack.Receipts, 2) {
		assert.True(t, ack.Receipts[0].OK)
		assert.Equal(t, "not_ready", ack.Receipts[1].Outcome)
		assert.Equal(t, app.ErrNotReady.Error(), ack.Receipts[1].Error)
	}
}

func TestReady(t *testing.T) {
	assert.False(t, ready(nil))
	assert.False(t, ready(fakeStatus{}))
	assert.True(t, ready(fakeStatus{ready: true}))
}
