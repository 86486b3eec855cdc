package app

import (
	"fmt"
	"log/slog"
	"sync"
)

// Sink is the last stop for failures nobody handled: panics recovered on
// goroutine boundaries and errors from background tasks nobody waits on.
// It only logs; it never stops the program.
type Sink struct {
	log *slog.Logger
	wg  sync.WaitGroup
}

func NewSink(l *slog.Logger) *Sink {
	if l == nil {
		l = slog.Default()
	}
	return &Sink{log: l}
}

// ApplicationError logs an uncaught error or panic value.
func (s *Sink) ApplicationError(v any) {
	s.log.Error("application error", "error", fmt.Sprint(v))
}

// UnhandledRejection logs the failure of a background task.
func (s *Sink) UnhandledRejection(task string, reason error) {
	s.log.Error("unhandled rejection", "task", task, "reason", reason)
}

// Recover must be deferred directly.
func (s *Sink) Recover() {
	if v := recover(); v != nil {
		s.ApplicationError(v)
	}
}

// Go runs fn on its own goroutine. A panic is reported as an application
// error and a returned error as an unhandled rejection.
func (s *Sink) Go(task string, fn func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.Recover()
		if err := fn(); err != nil {
			s.UnhandledRejection(task, err)
		}
	}()
}

// Wait blocks until every task started with Go has returned.
func (s *Sink) Wait() { s.wg.Wait() }
