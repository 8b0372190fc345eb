// Package initiator provides the core, the initiator end of the split-phase
// bus. The core issues one request at a time, serves accesses through DMI
// grants when it holds one, and reports every completion to its listeners.
package initiator

import (
	"reflect"

	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/sim"
	"github.com/sarchlab/splitbus/tracing"
	log "github.com/sirupsen/logrus"
)

type resumeEvent struct {
	*sim.EventBase
}

type dmiDoneEvent struct {
	*sim.EventBase
	completion Completion
}

type queuedRequest struct {
	req        Request
	submitTime sim.VTime
}

type issued struct {
	req        Request
	submitTime sim.VTime
	issueTime  sim.VTime
}

// Core is the initiator.
type Core struct {
	*sim.ComponentBase
	bus.ForwardBinding

	engine    sim.Engine
	pool      *bus.Pool
	peq       *bus.PEQ
	dmi       *bus.DMITable
	interrupt *interruptTarget

	RequestDelay     sim.VTime
	EndResponseDelay sim.VTime
	dmiEnabled       bool

	outstanding     *bus.Transaction
	dmiBusy         bool
	waiting         []queuedRequest
	resumeScheduled bool
	issuedReqs      map[bus.Handle]issued

	listeners          []CompletionListener
	interruptListeners []InterruptListener
	interrupts         []Interrupt

	stats Stats
}

// Stats counts what the core has done.
type Stats struct {
	Issued        uint64
	Completed     uint64
	Errors        uint64
	Queued        uint64
	DMIHits       uint64
	DMIGrants     uint64
	Invalidations uint64
	Interrupts    uint64
}

// Stats returns the counters.
func (c *Core) Stats() Stats {
	return c.stats
}

// AddCompletionListener registers a listener for finished accesses.
func (c *Core) AddCompletionListener(l CompletionListener) {
	c.listeners = append(c.listeners, l)
}

// AddInterruptListener registers a listener for interrupts.
func (c *Core) AddInterruptListener(l InterruptListener) {
	c.interruptListeners = append(c.interruptListeners, l)
}

// InterruptSocket returns the target socket peripherals raise interrupts
// through.
func (c *Core) InterruptSocket() bus.TargetSocket {
	return c.interrupt
}

// Interrupts returns the interrupts received so far.
func (c *Core) Interrupts() []Interrupt {
	return c.interrupts
}

// DMITable returns the grants the core holds.
func (c *Core) DMITable() *bus.DMITable {
	return c.dmi
}

// SetDMIEnabled turns the DMI fast path on or off. Turning it off drops the
// grants held.
func (c *Core) SetDMIEnabled(enabled bool) {
	c.dmiEnabled = enabled
	if !enabled {
		c.dmi.Invalidate(0, ^uint64(0))
	}
}

// IsRequestOutstanding tells if a request waits for its RequestEnd.
func (c *Core) IsRequestOutstanding() bool {
	return c.outstanding != nil
}

// NumWaiting returns the number of submitted requests not yet issued.
func (c *Core) NumWaiting() int {
	return len(c.waiting)
}

func (c *Core) busy() bool {
	return c.outstanding != nil || c.dmiBusy
}

// Submit hands a request to the core. Only one request can be outstanding at
// a time. Requests submitted while the channel is busy are kept in order and
// issued later.
func (c *Core) Submit(req Request) Outcome {
	now := c.engine.CurrentTime()

	if c.busy() || len(c.waiting) > 0 {
		c.waiting = append(c.waiting, queuedRequest{req: req, submitTime: now})
		c.stats.Queued++

		log.WithFields(log.Fields{
			"component": c.Name(),
			"command":   req.Command.String(),
			"address":   req.Address,
			"waiting":   len(c.waiting),
		}).Debug("request queued")

		return OutcomeQueued
	}

	return c.issue(req, now)
}

func (c *Core) issue(req Request, submitTime sim.VTime) Outcome {
	if c.dmiEnabled && req.canUseDMI() {
		grant := c.dmi.Lookup(req.Address, req.Length, req.Command)
		if grant != nil {
			c.serveDirect(req, grant, submitTime)
			return OutcomeDirect
		}
	}

	now := c.engine.CurrentTime()

	trans := c.pool.Allocate()
	trans.Acquire()
	trans.Command = req.Command
	trans.Address = req.Address
	trans.Data = req.Data
	trans.Length = req.Length
	trans.StreamingWidth = req.StreamingWidth
	trans.ByteEnable = req.ByteEnable

	c.outstanding = trans
	c.issuedReqs[trans.Handle()] = issued{
		req:        req,
		submitTime: submitTime,
		issueTime:  now,
	}
	c.stats.Issued++

	tracing.StartTask(trans.ID, "", c, "req_out", req.Command.String(), nil)

	log.WithFields(log.Fields{
		"component": c.Name(),
		"trans":     trans.ID,
		"command":   req.Command.String(),
		"address":   req.Address,
	}).Debug("request begin")

	status, phase, delay := c.Forward().
		NBTransportFW(trans, bus.RequestBegin, c.RequestDelay)

	switch status {
	case bus.Updated:
		c.peq.Notify(trans, phase, delay)
	case bus.Completed:
		c.outstanding = nil
		c.finish(trans)
		trans.Release()
		c.scheduleResume()

		return OutcomeCompleted
	}

	return OutcomeAccepted
}

func (c *Core) serveDirect(req Request, grant *bus.DMIData, submitTime sim.VTime) {
	now := c.engine.CurrentTime()
	mem := grant.Bytes(req.Address, req.Length)

	switch req.Command {
	case bus.CommandRead:
		copy(req.Data[:req.Length], mem)
	case bus.CommandWrite:
		copy(mem, req.Data[:req.Length])
	}

	c.dmiBusy = true
	c.stats.DMIHits++

	id := sim.GetIDGenerator().Generate()
	tracing.StartTask(id, "", c, "dmi", req.Command.String(), nil)

	latency := grant.Latency(req.Command)
	c.engine.Schedule(dmiDoneEvent{
		EventBase: sim.NewEventBase(now+latency, c),
		completion: Completion{
			ID:         id,
			Request:    req,
			Status:     bus.ResponseOK,
			Direct:     true,
			SubmitTime: submitTime,
			IssueTime:  now,
		},
	})
}

// NBTransportBW receives phases from the target. They are handled through
// the core's event queue.
func (c *Core) NBTransportBW(
	trans *bus.Transaction,
	phase bus.Phase,
	delay sim.VTime,
) (bus.SyncStatus, bus.Phase, sim.VTime) {
	c.peq.Notify(trans, phase, delay)
	return bus.Accepted, phase, delay
}

// InvalidateDirectMemPtr drops every grant that overlaps [start, end].
func (c *Core) InvalidateDirectMemPtr(start, end uint64) {
	n := c.dmi.Invalidate(start, end)
	c.stats.Invalidations++

	log.WithFields(log.Fields{
		"component": c.Name(),
		"start":     start,
		"end":       end,
		"dropped":   n,
	}).Debug("DMI invalidated")
}

func (c *Core) peqCallback(trans *bus.Transaction, phase bus.Phase) {
	switch phase {
	case bus.RequestEnd:
		if trans != c.outstanding {
			bus.Violation(c.Name(), trans, phase,
				"request end for a transaction that is not outstanding")
		}

		tracing.AddTaskStep(trans.ID, c, "request_end")
		c.clearOutstanding()
	case bus.ResponseBegin:
		if trans == c.outstanding {
			c.clearOutstanding()
		}

		c.handleResponse(trans)
	default:
		bus.Violation(c.Name(), trans, phase,
			"initiator cannot accept phase %s", phase)
	}
}

func (c *Core) clearOutstanding() {
	c.outstanding = nil
	c.scheduleResume()
}

func (c *Core) handleResponse(trans *bus.Transaction) {
	if _, ok := c.issuedReqs[trans.Handle()]; !ok {
		bus.Violation(c.Name(), trans, bus.ResponseBegin,
			"response for a transaction that was not issued")
	}

	c.finish(trans)

	// The target's answer to ResponseEnd is not checked.
	c.Forward().NBTransportFW(trans, bus.ResponseEnd, c.EndResponseDelay)

	trans.Release()
}

func (c *Core) finish(trans *bus.Transaction) {
	h := trans.Handle()
	info := c.issuedReqs[h]
	delete(c.issuedReqs, h)

	c.stats.Completed++

	if trans.IsResponseError() {
		c.stats.Errors++

		log.WithFields(log.Fields{
			"component": c.Name(),
			"trans":     trans.ID,
			"command":   trans.Command.String(),
			"address":   trans.Address,
			"status":    trans.ResponseString(),
		}).Error("transaction failed")
	}

	tracing.AddTaskStep(trans.ID, c, trans.ResponseString())
	tracing.EndTask(trans.ID, c, trans.ResponseStatus)

	if trans.DMIAllowed && c.dmiEnabled && trans.IsResponseOK() {
		c.requestDMI(trans)
	}

	c.notifyCompletion(Completion{
		ID:         trans.ID,
		Request:    info.req,
		Status:     trans.ResponseStatus,
		SubmitTime: info.submitTime,
		IssueTime:  info.issueTime,
		DoneTime:   c.engine.CurrentTime(),
	})
}

func (c *Core) requestDMI(trans *bus.Transaction) {
	probe := bus.NewTransaction()
	probe.Command = trans.Command
	probe.Address = trans.Address

	var grant bus.DMIData
	grant.Init()

	if !c.Forward().GetDirectMemPtr(probe, &grant) {
		return
	}

	c.dmi.Insert(grant)
	c.stats.DMIGrants++

	log.WithFields(log.Fields{
		"component": c.Name(),
		"grant":     grant.String(),
	}).Debug("DMI granted")
}

func (c *Core) notifyCompletion(comp Completion) {
	for _, l := range c.listeners {
		l.NotifyCompletion(comp)
	}
}

func (c *Core) scheduleResume() {
	if len(c.waiting) == 0 || c.resumeScheduled {
		return
	}

	c.resumeScheduled = true
	c.engine.Schedule(resumeEvent{
		sim.NewEventBase(c.engine.CurrentTime(), c),
	})
}

func (c *Core) resume() {
	c.resumeScheduled = false

	for !c.busy() && len(c.waiting) > 0 {
		next := c.waiting[0]
		c.waiting = c.waiting[1:]
		c.issue(next.req, next.submitTime)
	}
}

func (c *Core) dmiDone(e dmiDoneEvent) {
	c.dmiBusy = false

	comp := e.completion
	comp.DoneTime = e.Time()
	c.stats.Completed++

	tracing.AddTaskStep(comp.ID, c, comp.Status.String())
	tracing.EndTask(comp.ID, c, comp.Status)

	c.notifyCompletion(comp)
	c.scheduleResume()
}

// Handle processes the events scheduled by the core.
func (c *Core) Handle(e sim.Event) error {
	c.Lock()
	defer c.Unlock()

	switch e := e.(type) {
	case resumeEvent:
		c.resume()
	case dmiDoneEvent:
		c.dmiDone(e)
	default:
		log.Panicf("cannot handle event of %s", reflect.TypeOf(e))
	}

	return nil
}

func (c *Core) receiveInterrupt(trans *bus.Transaction) {
	irq := Interrupt{
		Time:    c.engine.CurrentTime(),
		Address: trans.Address,
		Data:    append([]byte(nil), trans.Data[:trans.Length]...),
	}

	c.interrupts = append(c.interrupts, irq)
	c.stats.Interrupts++

	log.WithFields(log.Fields{
		"component": c.Name(),
		"address":   irq.Address,
	}).Debug("interrupt received")

	for _, l := range c.interruptListeners {
		l.NotifyInterrupt(irq)
	}
}

// interruptTarget accepts interrupt writes from peripherals. Several
// peripherals may share it; it never calls back into them.
type interruptTarget struct {
	sources []bus.BackwardTransport

	core *Core
}

func (t *interruptTarget) BindBackward(bw bus.BackwardTransport) {
	t.sources = append(t.sources, bw)
}

func (t *interruptTarget) NBTransportFW(
	trans *bus.Transaction,
	phase bus.Phase,
	delay sim.VTime,
) (bus.SyncStatus, bus.Phase, sim.VTime) {
	if phase != bus.RequestBegin {
		bus.Violation(t.core.Name(), trans, phase,
			"interrupt socket cannot accept phase %s", phase)
	}

	t.accept(trans)

	return bus.Completed, bus.ResponseEnd, delay
}

func (t *interruptTarget) BTransport(
	trans *bus.Transaction,
	delay sim.VTime,
) sim.VTime {
	t.accept(trans)
	return delay
}

func (t *interruptTarget) accept(trans *bus.Transaction) {
	if trans.Command != bus.CommandWrite {
		trans.ResponseStatus = bus.ResponseGenericError
		return
	}

	if status := bus.CheckBurst(trans); status != bus.ResponseOK {
		trans.ResponseStatus = status
		return
	}

	trans.ResponseStatus = bus.ResponseOK
	t.core.receiveInterrupt(trans)
}

func (t *interruptTarget) GetDirectMemPtr(
	trans *bus.Transaction,
	dmi *bus.DMIData,
) bool {
	dmi.Init()
	return false
}

func (t *interruptTarget) TransportDbg(trans *bus.Transaction) int {
	return 0
}
