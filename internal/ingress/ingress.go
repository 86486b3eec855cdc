// Package ingress carries chip data from the host process into the viewer.
// Every transport ends in the same hook call and answers with the hook's
// result, so the host always learns whether a push landed.
package ingress

import (
	"chipview/internal/app"
	"chipview/internal/layout"
	"chipview/internal/receipts"
)

// Deliverer is the ingress hook as the transports see it.
type Deliverer interface {
	Deliver(source string, p layout.Payload) app.Result
}

// Status reports whether the viewer is ready to take data.
type Status interface {
	Readiness() app.Readiness
}

// Envelope is one message from the host on a streaming transport.
type Envelope struct {
	Type    string         `json:"type"`
	Payload layout.Payload `json:"payload,omitempty"`
	Source  string         `json:"source,omitempty"`
}

const (
	TypeChipData = "chipData"
	TypeScript   = "script"
	TypeAck      = "ack"
	TypeError    = "error"
)

// Ack answers one Envelope.
type Ack struct {
	Type     string             `json:"type"`
	Receipts []receipts.Receipt `json:"receipts,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func ackOf(results []app.Result) Ack {
	a := Ack{Type: TypeAck, Receipts: make([]receipts.Receipt, 0, len(results))}
	for _, r := range results {
		a.Receipts = append(a.Receipts, receipts.FromResult(r))
	}
	return a
}

func ready(s Status) bool {
	if s == nil {
		return false
	}
	_, ok := s.Readiness().(app.Ready)
	return ok
}
