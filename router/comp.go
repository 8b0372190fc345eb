// Package router provides an interconnect that forwards transactions from
// one initiator to several targets, translating between the global address
// space and each target's local offsets.
package router

import (
	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/sim"
	log "github.com/sirupsen/logrus"
)

type route struct {
	index  int
	global uint64
}

// Comp is a router. The upstream initiator binds to the router itself. Each
// target binds to one of the router's initiator sockets.
//
// While a transaction is inside a target its address holds the target's
// local offset. Whenever the transaction is handed back to the initiator,
// the global address is restored.
type Comp struct {
	*sim.ComponentBase
	bus.BackwardBinding

	mapper AddressMapper
	ports  []*targetPort
	routes map[bus.Handle]route

	numForwarded     []uint64
	numUnmapped      uint64
	numInvalidations uint64
}

// InitiatorSocket returns the socket that target i binds to.
func (c *Comp) InitiatorSocket(i int) bus.InitiatorSocket {
	return c.ports[i]
}

// Mapper returns the address mapper.
func (c *Comp) Mapper() AddressMapper {
	return c.mapper
}

// NumRoutes returns the number of non-blocking transactions in flight.
func (c *Comp) NumRoutes() int {
	return len(c.routes)
}

// NumForwarded returns the number of requests sent to target i.
func (c *Comp) NumForwarded(i int) uint64 {
	return c.numForwarded[i]
}

// NumUnmapped returns the number of requests no target could serve.
func (c *Comp) NumUnmapped() uint64 {
	return c.numUnmapped
}

// NumInvalidations returns the number of invalidations passed upstream.
func (c *Comp) NumInvalidations() uint64 {
	return c.numInvalidations
}

func (c *Comp) localize(trans *bus.Transaction, r route) {
	trans.Address = r.global - c.mapper.Compose(r.index, 0)
}

func (c *Comp) globalize(trans *bus.Transaction, r route) {
	trans.Address = r.global
}

// NBTransportFW forwards the call to the target that holds the address.
// Requests to unmapped addresses complete right away with an address error.
func (c *Comp) NBTransportFW(
	trans *bus.Transaction,
	phase bus.Phase,
	delay sim.VTime,
) (bus.SyncStatus, bus.Phase, sim.VTime) {
	h := trans.Handle()

	r, found := c.routes[h]
	if phase == bus.RequestBegin {
		if found {
			bus.Violation(c.Name(), trans, phase,
				"request begin for a transaction already in flight")
		}

		index, _, ok := c.mapper.Decode(trans.Address)
		if !ok {
			c.numUnmapped++
			trans.ResponseStatus = bus.ResponseAddressError

			log.WithFields(log.Fields{
				"component": c.Name(),
				"address":   trans.Address,
			}).Debug("unmapped address")

			return bus.Completed, phase, delay
		}

		r = route{index: index, global: trans.Address}
		c.routes[h] = r
		c.numForwarded[index]++
	} else if !found {
		bus.Violation(c.Name(), trans, phase,
			"no route for the transaction")
	}

	c.localize(trans, r)

	status, retPhase, retDelay := c.ports[r.index].Forward().
		NBTransportFW(trans, phase, delay)

	switch {
	case status == bus.Completed || phase == bus.ResponseEnd:
		c.globalize(trans, r)
		delete(c.routes, h)
	case retPhase == bus.ResponseBegin || retPhase == bus.ResponseEnd:
		c.globalize(trans, r)
	}

	return status, retPhase, retDelay
}

// BTransport forwards a blocking access.
func (c *Comp) BTransport(trans *bus.Transaction, delay sim.VTime) sim.VTime {
	index, offset, ok := c.mapper.Decode(trans.Address)
	if !ok {
		c.numUnmapped++
		trans.ResponseStatus = bus.ResponseAddressError

		return delay
	}

	global := trans.Address
	trans.Address = offset
	delay = c.ports[index].Forward().BTransport(trans, delay)
	trans.Address = global

	return delay
}

// TransportDbg forwards a debug access.
func (c *Comp) TransportDbg(trans *bus.Transaction) int {
	index, offset, ok := c.mapper.Decode(trans.Address)
	if !ok {
		return 0
	}

	global := trans.Address
	trans.Address = offset
	n := c.ports[index].Forward().TransportDbg(trans)
	trans.Address = global

	return n
}

// GetDirectMemPtr forwards the request and moves the grant into the global
// address space.
func (c *Comp) GetDirectMemPtr(
	trans *bus.Transaction,
	dmi *bus.DMIData,
) bool {
	index, offset, ok := c.mapper.Decode(trans.Address)
	if !ok {
		dmi.Init()
		dmi.Start = c.mapper.Compose(c.mapper.NumTargets(), 0)

		return false
	}

	global := trans.Address
	trans.Address = offset
	granted := c.ports[index].Forward().GetDirectMemPtr(trans, dmi)
	trans.Address = global

	dmi.ClampEnd(c.mapper.RegionSize() - 1)
	dmi.Translate(c.mapper.Compose(index, 0))

	return granted
}

func (c *Comp) backward(
	index int,
	trans *bus.Transaction,
	phase bus.Phase,
	delay sim.VTime,
) (bus.SyncStatus, bus.Phase, sim.VTime) {
	h := trans.Handle()

	r, found := c.routes[h]
	if !found || r.index != index {
		bus.Violation(c.Name(), trans, phase,
			"backward call from target %d without a matching route", index)
	}

	c.globalize(trans, r)

	status, retPhase, retDelay := c.Backward().
		NBTransportBW(trans, phase, delay)

	switch {
	case status == bus.Completed:
		delete(c.routes, h)
	case phase == bus.RequestEnd:
		c.localize(trans, r)
	}

	return status, retPhase, retDelay
}

func (c *Comp) invalidate(index int, start, end uint64) {
	limit := c.mapper.RegionSize() - 1
	if end > limit {
		end = limit
	}

	if start > end {
		return
	}

	c.numInvalidations++
	c.Backward().InvalidateDirectMemPtr(
		c.mapper.Compose(index, start),
		c.mapper.Compose(index, end),
	)
}

type targetPort struct {
	bus.ForwardBinding

	router *Comp
	index  int
}

func (p *targetPort) NBTransportBW(
	trans *bus.Transaction,
	phase bus.Phase,
	delay sim.VTime,
) (bus.SyncStatus, bus.Phase, sim.VTime) {
	return p.router.backward(p.index, trans, phase, delay)
}

func (p *targetPort) InvalidateDirectMemPtr(start, end uint64) {
	p.router.invalidate(p.index, start, end)
}
