package ingress

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"chipview/internal/app"
	"chipview/internal/layout"
	"chipview/internal/receipts"
)

// ReceiptLookup reads the receipt log.
type ReceiptLookup interface {
	Get(ctx context.Context, id string) (receipts.Receipt, error)
	Last(ctx context.Context) (receipts.Receipt, bool, error)
}

// HTTPServer is the request/response ingress. The host POSTs a payload and
// gets its receipt back in the same exchange.
type HTTPServer struct {
	app    *fiber.App
	d      Deliverer
	bridge *ScriptBridge
	status Status
	store  ReceiptLookup
	log    *slog.Logger
}

type HTTPConfig struct {
	Deliverer Deliverer
	Bridge    *ScriptBridge
	Status    Status
	Receipts  ReceiptLookup
	Logger    *slog.Logger
}

func NewHTTP(cfg HTTPConfig) *HTTPServer {
	s := &HTTPServer{
		d:      cfg.Deliverer,
		bridge: cfg.Bridge,
		status: cfg.Status,
		store:  cfg.Receipts,
		log:    cfg.Logger,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.app = fiber.New(fiber.Config{AppName: "chipview"})
	s.app.Use(recover.New())
	s.app.Use(requestLogger(s.log))

	s.app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	s.app.Get("/health/ready", s.handleReady)
	s.app.Get("/status", s.handleStatus)
	s.app.Get("/receipts/:id", s.handleReceipt)
	s.app.Post("/chip-data", s.handleChipData)
	s.app.Post("/script", s.handleScript)
	return s
}

// App exposes the fiber app, mainly for app.Test.
func (s *HTTPServer) App() *fiber.App { return s.app }

// Listen blocks serving on addr until Shutdown.
func (s *HTTPServer) Listen(addr string) error {
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// requestLogger writes one debug record per request to the viewer log.
func requestLogger(log *slog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Debug("http request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
		)
		return err
	}
}

func (s *HTTPServer) handleReady(c fiber.Ctx) error {
	if !ready(s.status) {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "not_ready"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

func (s *HTTPServer) handleStatus(c fiber.Ctx) error {
	body := fiber.Map{"ready": ready(s.status), "hook": app.HookName}
	if s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		last, ok, err := s.store.Last(ctx)
		if err != nil {
			s.log.Error("read last receipt", "error", err)
		} else if ok {
			body["last"] = last
		}
	}
	return c.JSON(body)
}

func (s *HTTPServer) handleReceipt(c fiber.Ctx) error {
	if s.store == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "receipts are disabled"})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rc, err := s.store.Get(ctx, c.Params("id"))
	if errors.Is(err, receipts.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rc)
}

func (s *HTTPServer) handleChipData(c fiber.Ctx) error {
	p, err := layout.Unmarshal(c.Body())
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	res := s.d.Deliver("http", p)
	return c.Status(statusOf(res)).JSON(receipts.FromResult(res))
}

func (s *HTTPServer) handleScript(c fiber.Ctx) error {
	if s.bridge == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "script bridge is disabled"})
	}
	results, err := s.bridge.Run(string(c.Body()))
	ack := ackOf(results)
	if err != nil {
		ack.Type = TypeError
		ack.Error = err.Error()
		return c.Status(http.StatusBadRequest).JSON(ack)
	}
	return c.JSON(ack)
}

func statusOf(r app.Result) int {
	switch r.Outcome {
	case app.OutcomeDelivered:
		return http.StatusOK
	case app.OutcomeNotReady:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}
