package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinkGo(t *testing.T) {
	log, h := newLogger()
	s := NewSink(log)

	s.Go("ok", func() error { return nil })
	s.Go("fails", func() error { return errors.New("listener closed") })
	s.Go("panics", func() error { panic("nil map") })
	s.Wait()

	msgs := h.messages()
	assert.Len(t, msgs, 2)
	assert.Contains(t, msgs, "ERROR unhandled rejection")
	assert.Contains(t, msgs, "ERROR application error")
}

func TestSinkRecover(t *testing.T) {
	log, h := newLogger()
	s := NewSink(log)
	assert.NotPanics(t, func() {
		defer s.Recover()
		panic("render")
	})
	assert.Equal(t, []string{"ERROR application error"}, h.messages())
}
