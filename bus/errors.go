package bus

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// A ProtocolError reports a broken protocol rule, such as an unexpected phase
// or a response for a transaction that is not in flight. The simulation
// cannot continue after one.
type ProtocolError struct {
	Component string
	Phase     Phase
	TransID   string
	Reason    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol violation in %s: %s (transaction %s, phase %s)",
		e.Component, e.Reason, e.TransID, e.Phase)
}

// Violation logs a protocol error and panics with it.
func Violation(
	component string,
	trans *Transaction,
	phase Phase,
	format string,
	args ...interface{},
) {
	err := &ProtocolError{
		Component: component,
		Phase:     phase,
		Reason:    fmt.Sprintf(format, args...),
	}

	if trans != nil {
		err.TransID = trans.ID
	}

	log.WithFields(log.Fields{
		"component": err.Component,
		"phase":     err.Phase.String(),
		"trans":     err.TransID,
	}).Error(err.Reason)

	panic(err)
}
