package ingress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	cerrors "cogentcore.org/core/base/errors"
	"github.com/gorilla/websocket"

	"chipview/internal/app"
)

// WSServer keeps a push channel open for hosts that send many payloads. Each
// text frame is one Envelope and gets exactly one Ack back.
type WSServer struct {
	d        Deliverer
	bridge   *ScriptBridge
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	srv    *http.Server
	closed bool
}

func NewWS(d Deliverer, bridge *ScriptBridge, log *slog.Logger) *WSServer {
	if log == nil {
		log = slog.Default()
	}
	return &WSServer{
		d:      d,
		bridge: bridge,
		log:    log,
		upgrader: websocket.Upgrader{
			// the host is a local desktop process, not a browser page
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler mounts the websocket endpoint at /ws.
func (s *WSServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	return mux
}

func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()
	s.log.Info("websocket connected", "remote", r.RemoteAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cerrors.Log(err)
			}
			s.log.Info("websocket closed", "remote", r.RemoteAddr)
			return
		}
		var ack Ack
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			ack = Ack{Type: TypeError, Error: fmt.Sprintf("decode envelope: %v", err)}
		} else {
			ack = s.handle(env)
		}
		if err := conn.WriteJSON(ack); err != nil {
			cerrors.Log(err)
			return
		}
	}
}

func (s *WSServer) handle(env Envelope) Ack {
	switch env.Type {
	case TypeChipData:
		return ackOf([]app.Result{s.d.Deliver("websocket", env.Payload)})
	case TypeScript:
		if s.bridge == nil {
			return Ack{Type: TypeError, Error: "script bridge is disabled"}
		}
		results, err := s.bridge.Run(env.Source)
		ack := ackOf(results)
		if err != nil {
			ack.Type = TypeError
			ack.Error = err.Error()
		}
		return ack
	default:
		return Ack{Type: TypeError, Error: fmt.Sprintf("unknown envelope type %q", env.Type)}
	}
}

// ListenAndServe blocks serving the websocket endpoint on addr until Shutdown.
func (s *WSServer) ListenAndServe(addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.srv = srv
	s.mu.Unlock()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("websocket listen: %w", err)
	}
	return nil
}

func (s *WSServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.closed = true
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
