package initiator

import (
	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/sim"
)

// Request describes an access a driver submits to the core. Data is the
// caller's buffer. Reads fill it when the access completes.
type Request struct {
	Command        bus.Command
	Address        uint64
	Data           []byte
	Length         int
	StreamingWidth int
	ByteEnable     []byte
}

// ReadRequest creates a request that reads length bytes at addr.
func ReadRequest(addr uint64, length int) Request {
	return Request{
		Command:        bus.CommandRead,
		Address:        addr,
		Data:           make([]byte, length),
		Length:         length,
		StreamingWidth: length,
	}
}

// WriteRequest creates a request that writes data at addr.
func WriteRequest(addr uint64, data []byte) Request {
	return Request{
		Command:        bus.CommandWrite,
		Address:        addr,
		Data:           data,
		Length:         len(data),
		StreamingWidth: len(data),
	}
}

// canUseDMI tells if the request is a plain access that a direct pointer
// can serve. Anything else goes through the protocol so that the target
// reports the error status.
func (r Request) canUseDMI() bool {
	if r.ByteEnable != nil {
		return false
	}

	if r.Length <= 0 || r.Length > bus.MaxBurstLength {
		return false
	}

	return r.StreamingWidth >= r.Length && len(r.Data) >= r.Length
}

// Outcome tells how Submit handled a request.
type Outcome int

// The outcomes of Submit.
const (
	// OutcomeCompleted means the target finished the access during the call.
	OutcomeCompleted Outcome = iota
	// OutcomeAccepted means the access is pending. Completion listeners are
	// told when it finishes.
	OutcomeAccepted
	// OutcomeQueued means the channel is busy. The request is issued once
	// the channel becomes idle.
	OutcomeQueued
	// OutcomeDirect means a DMI grant served the access. Completion is
	// reported after the DMI latency.
	OutcomeDirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "Completed"
	case OutcomeAccepted:
		return "Accepted"
	case OutcomeQueued:
		return "Queued"
	case OutcomeDirect:
		return "Direct"
	default:
		return "Unknown"
	}
}

// A Completion reports a finished access.
type Completion struct {
	ID         string
	Request    Request
	Status     bus.ResponseStatus
	Direct     bool
	SubmitTime sim.VTime
	IssueTime  sim.VTime
	DoneTime   sim.VTime
}

// Latency returns the time from submission to completion.
func (c Completion) Latency() sim.VTime {
	return c.DoneTime - c.SubmitTime
}

// A CompletionListener is told about every finished access.
type CompletionListener interface {
	NotifyCompletion(c Completion)
}

// An Interrupt is a write a peripheral performed on the core's interrupt
// socket.
type Interrupt struct {
	Time    sim.VTime
	Address uint64
	Data    []byte
}

// An InterruptListener is told about every interrupt the core receives.
type InterruptListener interface {
	NotifyInterrupt(irq Interrupt)
}
