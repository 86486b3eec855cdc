package ingress

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chipview/internal/app"
	"chipview/internal/layout"
)

func dialWS(t *testing.T, d *fakeDeliverer) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewWS(d, NewScriptBridge(d), nil).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWSChipData(t *testing.T) {
	d := &fakeDeliverer{outcome: app.OutcomeDelivered}
	conn := dialWS(t, d)

	require.NoError(t, conn.WriteJSON(Envelope{
		Type:    TypeChipData,
		Payload: layout.Payload{"shapes": []any{map[string]any{"type": "Via", "x1": 1, "y1": 2, "z1": 0, "z2": 20}}},
	}))
	var ack Ack
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, TypeAck, ack.Type)
	require.Len(t, ack.Receipts, 1)
	assert.True(t, ack.Receipts[0].OK)
	assert.Equal(t, 1, ack.Receipts[0].Shapes)

	calls := d.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "websocket", calls[0].source)
}

func TestWSOneAckPerMessage(t *testing.T) {
	d := &fakeDeliverer{outcome: app.OutcomeNotReady}
	conn := dialWS(t, d)

	for i := 0; i < 3; i++ {
		require.NoError(t, conn.WriteJSON(Envelope{Type: TypeChipData, Payload: layout.Payload{"shapes": []any{}}}))
		var ack Ack
		require.NoError(t, conn.ReadJSON(&ack))
		require.Len(t, ack.Receipts, 1)
		assert.Equal(t, "not_ready", ack.Receipts[0].Outcome)
	}
	assert.Len(t, d.Calls(), 3)
}

func TestWSScript(t *testing.T) {
	d := &fakeDeliverer{outcome: app.OutcomeDelivered}
	conn := dialWS(t, d)

	require.NoError(t, conn.WriteJSON(Envelope{Type: TypeScript, Source: `updateChipData({shapes: []})`}))
	var ack Ack
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, TypeAck, ack.Type)
	assert.Len(t, ack.Receipts, 1)
}

func TestWSBadMessagesKeepConnection(t *testing.T) {
	d := &fakeDeliverer{outcome: app.OutcomeDelivered}
	conn := dialWS(t, d)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{not json`)))
	var ack Ack
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, TypeError, ack.Type)
	assert.Contains(t, ack.Error, "decode envelope")

	require.NoError(t, conn.WriteJSON(Envelope{Type: "bogus"}))
	ack = Ack{}
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, TypeError, ack.Type)
	assert.Contains(t, ack.Error, "bogus")

	require.NoError(t, conn.WriteJSON(Envelope{Type: TypeChipData}))
	ack = Ack{}
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, TypeAck, ack.Type)
	assert.Empty(t, d.Calls()[0].payload)
}

func TestWSShutdownBeforeListen(t *testing.T) {
	s := NewWS(&fakeDeliverer{}, nil, nil)
	require.NoError(t, s.Shutdown(context.Background()))
	assert.NoError(t, s.ListenAndServe("127.0.0.1:0"))
}
