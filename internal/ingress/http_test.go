package ingress

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chipview/internal/app"
	"chipview/internal/receipts"
)

func newHTTP(t *testing.T, d *fakeDeliverer, ready bool, store ReceiptLookup) *HTTPServer {
	t.Helper()
	return NewHTTP(HTTPConfig{
		Deliverer: d,
		Bridge:    NewScriptBridge(d),
		Status:    fakeStatus{ready: ready},
		Receipts:  store,
	})
}

func do(t *testing.T, s *HTTPServer, method, path, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealthRoutes(t *testing.T) {
	d := &fakeDeliverer{}

	code, body := do(t, newHTTP(t, d, false, nil), http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", body["status"])

	code, body = do(t, newHTTP(t, d, false, nil), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", body["status"])

	code, body = do(t, newHTTP(t, d, true, nil), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
}

func TestPostChipData(t *testing.T) {
	tests := []struct {
		name    string
		outcome app.Outcome
		code    int
	}{
		{"delivered", app.OutcomeDelivered, http.StatusOK},
		{"not ready", app.OutcomeNotReady, http.StatusServiceUnavailable},
		{"failed", app.OutcomeFailed, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDeliverer{outcome: tt.outcome}
			s := newHTTP(t, d, tt.outcome != app.OutcomeNotReady, nil)

			code, body := do(t, s, http.MethodPost, "/chip-data", `{"shapes":[{"type":"Wire","x1":0,"y1":0,"z1":0,"x2":5,"y2":0,"z2":0}]}`)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.outcome.String(), body["outcome"])
			assert.Equal(t, tt.outcome == app.OutcomeDelivered, body["ok"])
			assert.NotEmpty(t, body["id"])

			calls := d.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, "http", calls[0].source)
			assert.Contains(t, calls[0].payload, "shapes")
		})
	}
}

func TestPostChipDataBadBody(t *testing.T) {
	d := &fakeDeliverer{outcome: app.OutcomeDelivered}
	s := newHTTP(t, d, true, nil)

	for _, body := range []string{`{"shapes":`, `[1,2]`, `null`} {
		code, out := do(t, s, http.MethodPost, "/chip-data", body)
		assert.Equal(t, http.StatusBadRequest, code, body)
		assert.NotEmpty(t, out["error"], body)
	}
	assert.Empty(t, d.Calls())
}

func TestPostScript(t *testing.T) {
	d := &fakeDeliverer{outcome: app.OutcomeDelivered}
	s := newHTTP(t, d, true, nil)

	code, body := do(t, s, http.MethodPost, "/script", `updateChipData({"shapes": []}); updateChipData({"shapes": []});`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, TypeAck, body["type"])
	assert.Len(t, body["receipts"], 2)

	code, body = do(t, s, http.MethodPost, "/script", `updateChipData(`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, TypeError, body["type"])
	assert.NotEmpty(t, body["error"])
}

func TestReceiptLookup(t *testing.T) {
	rc := receipts.Receipt{ID: "abc", Source: "http", Outcome: "delivered", OK: true, Shapes: 3}
	store := &memReceipts{byID: map[string]receipts.Receipt{"abc": rc}, last: &rc}
	s := newHTTP(t, &fakeDeliverer{}, true, store)

	code, body := do(t, s, http.MethodGet, "/receipts/abc", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "abc", body["id"])
	assert.Equal(t, float64(3), body["shapes"])

	code, body = do(t, s, http.MethodGet, "/receipts/missing", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, receipts.ErrNotFound.Error(), body["error"])

	code, body = do(t, s, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ready"])
	assert.Equal(t, app.HookName, body["hook"])
	last, ok := body["last"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "abc", last["id"])
}

func TestStatusWithoutReceipts(t *testing.T) {
	s := newHTTP(t, &fakeDeliverer{}, false, nil)
	code, body := do(t, s, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["ready"])
	assert.NotContains(t, body, "last")
}
