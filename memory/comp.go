// Package memory provides a memory target that serves blocking, non-blocking,
// debug and direct accesses from one contiguous storage.
package memory

import (
	"reflect"

	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/sim"
	log "github.com/sirupsen/logrus"
)

// Comp is a memory target.
type Comp struct {
	*sim.ComponentBase
	bus.BackwardBinding

	engine  sim.Engine
	storage *Storage

	Latency        sim.VTime
	DMILatency     sim.VTime
	SyncCompletion bool

	dmiEnabled bool
	responding map[bus.Handle]bool

	numAccesses      uint64
	numDMIGrants     uint64
	numInvalidations uint64
}

type invalidateEvent struct {
	*sim.EventBase
	start, end uint64
}

// Storage returns the backing storage.
func (c *Comp) Storage() *Storage {
	return c.storage
}

// DMIEnabled tells if direct access is currently granted.
func (c *Comp) DMIEnabled() bool {
	return c.dmiEnabled
}

// NumAccesses returns the number of timed accesses served.
func (c *Comp) NumAccesses() uint64 {
	return c.numAccesses
}

// NumDMIGrants returns the number of direct access grants handed out.
func (c *Comp) NumDMIGrants() uint64 {
	return c.numDMIGrants
}

// NumInvalidations returns the number of invalidations sent upstream.
func (c *Comp) NumInvalidations() uint64 {
	return c.numInvalidations
}

// NBTransportFW serves a request in a single call. The response is either
// completed right away or returned as a ResponseBegin that the initiator must
// end with a ResponseEnd.
func (c *Comp) NBTransportFW(
	trans *bus.Transaction,
	phase bus.Phase,
	delay sim.VTime,
) (bus.SyncStatus, bus.Phase, sim.VTime) {
	switch phase {
	case bus.RequestBegin:
		return c.handleRequestBegin(trans, delay)
	case bus.ResponseEnd:
		return c.handleResponseEnd(trans, delay)
	default:
		bus.Violation(c.Name(), trans, phase,
			"memory cannot accept phase %s on the forward path", phase)
	}

	panic("never")
}

func (c *Comp) handleRequestBegin(
	trans *bus.Transaction,
	delay sim.VTime,
) (bus.SyncStatus, bus.Phase, sim.VTime) {
	c.access(trans)
	delay += c.Latency

	if c.SyncCompletion {
		return bus.Completed, bus.RequestBegin, delay
	}

	trans.Acquire()
	c.responding[trans.Handle()] = true

	return bus.Updated, bus.ResponseBegin, delay
}

func (c *Comp) handleResponseEnd(
	trans *bus.Transaction,
	delay sim.VTime,
) (bus.SyncStatus, bus.Phase, sim.VTime) {
	h := trans.Handle()
	if !c.responding[h] {
		bus.Violation(c.Name(), trans, bus.ResponseEnd,
			"response end for a transaction that is not being responded")
	}

	delete(c.responding, h)
	trans.Release()

	return bus.Completed, bus.ResponseEnd, delay
}

// BTransport serves the access and adds the access latency.
func (c *Comp) BTransport(trans *bus.Transaction, delay sim.VTime) sim.VTime {
	c.access(trans)
	return delay + c.Latency
}

func (c *Comp) access(trans *bus.Transaction) {
	c.numAccesses++

	status := bus.ValidateAccess(trans, c.storage.Capacity())
	if status != bus.ResponseOK {
		trans.ResponseStatus = status
		log.WithFields(log.Fields{
			"component": c.Name(),
			"trans":     trans.ID,
			"address":   trans.Address,
			"status":    status.String(),
		}).Debug("access rejected")

		return
	}

	var err error

	switch trans.Command {
	case bus.CommandRead:
		var data []byte
		data, err = c.storage.Read(trans.Address, uint64(trans.Length))
		copy(trans.Data, data)
	case bus.CommandWrite:
		err = c.storage.Write(trans.Address, trans.Data[:trans.Length])
	default:
		trans.ResponseStatus = bus.ResponseGenericError
		return
	}

	if err != nil {
		log.WithError(err).WithField("component", c.Name()).
			Error("storage access failed")
		trans.ResponseStatus = bus.ResponseGenericError

		return
	}

	trans.ResponseStatus = bus.ResponseOK
	trans.DMIAllowed = c.dmiEnabled
}

// TransportDbg reads or writes the storage without timing. Accesses that run
// past the end of the storage are truncated.
func (c *Comp) TransportDbg(trans *bus.Transaction) int {
	if trans.Address >= c.storage.Capacity() {
		return 0
	}

	n := uint64(trans.Length)
	if n > uint64(len(trans.Data)) {
		n = uint64(len(trans.Data))
	}

	if left := c.storage.Capacity() - trans.Address; n > left {
		n = left
	}

	buf := c.storage.Bytes()[trans.Address : trans.Address+n]
	if trans.Command == bus.CommandWrite {
		copy(buf, trans.Data[:n])
	} else {
		copy(trans.Data, buf)
	}

	return int(n)
}

// GetDirectMemPtr grants read and write access to the whole storage.
func (c *Comp) GetDirectMemPtr(
	trans *bus.Transaction,
	dmi *bus.DMIData,
) bool {
	dmi.Init()

	capacity := c.storage.Capacity()
	if capacity == 0 {
		return false
	}

	dmi.Start = 0
	dmi.End = capacity - 1

	if !c.dmiEnabled || trans.Address >= capacity {
		return false
	}

	dmi.Ptr = c.storage.Bytes()
	dmi.PtrBase = 0
	dmi.Access = bus.DMIAccessReadWrite
	dmi.ReadLatency = c.DMILatency
	dmi.WriteLatency = c.DMILatency

	c.numDMIGrants++

	log.WithFields(log.Fields{
		"component": c.Name(),
		"grant":     dmi.String(),
	}).Debug("DMI granted")

	return true
}

// Invalidate revokes direct access to [start, end] from the initiator.
func (c *Comp) Invalidate(start, end uint64) {
	c.numInvalidations++

	log.WithFields(log.Fields{
		"component": c.Name(),
		"start":     start,
		"end":       end,
	}).Debug("DMI invalidated")

	if c.IsBound() {
		c.Backward().InvalidateDirectMemPtr(start, end)
	}
}

// ScheduleInvalidate revokes direct access to [start, end] at the given
// time.
func (c *Comp) ScheduleInvalidate(at sim.VTime, start, end uint64) {
	c.engine.Schedule(invalidateEvent{
		EventBase: sim.NewEventBase(at, c),
		start:     start,
		end:       end,
	})
}

// SetDMIEnabled turns direct access on or off. Turning it off revokes every
// grant.
func (c *Comp) SetDMIEnabled(enabled bool) {
	wasEnabled := c.dmiEnabled
	c.dmiEnabled = enabled

	if wasEnabled && !enabled && c.storage.Capacity() > 0 {
		c.Invalidate(0, c.storage.Capacity()-1)
	}
}

// Handle processes the events scheduled by the memory.
func (c *Comp) Handle(e sim.Event) error {
	c.Lock()
	defer c.Unlock()

	switch evt := e.(type) {
	case invalidateEvent:
		c.Invalidate(evt.start, evt.end)
	default:
		log.Panicf("cannot handle event of %s", reflect.TypeOf(e))
	}

	return nil
}
