package sim

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

// EventLogger is an hook that prints the event information
type EventLogger struct {
	Logger logrus.FieldLogger
}

// NewEventLogger returns a new EventLogger which writes into the logger
func NewEventLogger(logger logrus.FieldLogger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger

	return h
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	entry := h.Logger.WithField("time", evt.Time().String()).
		WithField("event", reflect.TypeOf(evt).String())

	if comp, ok := evt.Handler().(Named); ok {
		entry = entry.WithField("handler", comp.Name())
	}

	entry.Trace("event")
}
