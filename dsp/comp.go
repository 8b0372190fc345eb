// Package dsp provides a register-mapped peripheral that answers requests
// through a split-phase protocol. The DSP keeps at most one response in
// flight and queues the others in arrival order.
package dsp

import (
	"encoding/binary"
	"reflect"

	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/sim"
	"github.com/sarchlab/splitbus/tracing"
	log "github.com/sirupsen/logrus"
)

var phaseProcess = bus.DeclarePhase("dsp-process")

type computeEvent struct {
	*sim.EventBase
}

// Comp is the DSP.
type Comp struct {
	*sim.ComponentBase
	bus.BackwardBinding

	engine    sim.Engine
	peq       *bus.PEQ
	interrupt *interruptSocket

	Regs RegisterFile

	EndRequestDelay sim.VTime
	ProcessingDelay sim.VTime
	ComputeLatency  sim.VTime

	pendingResponses sim.Buffer
	inFlight         *bus.Transaction

	numRequests   uint64
	numQueued     uint64
	maxQueueDepth int
	numInterrupts uint64
}

// InterruptSocket returns the socket the DSP raises interrupts through.
func (c *Comp) InterruptSocket() bus.InitiatorSocket {
	return c.interrupt
}

// PendingResponses returns the queue of responses waiting for the one in
// flight to end.
func (c *Comp) PendingResponses() sim.Buffer {
	return c.pendingResponses
}

// ResponseInProgress tells if a response is waiting for its ResponseEnd.
func (c *Comp) ResponseInProgress() bool {
	return c.inFlight != nil
}

// NumRequests returns the number of requests accepted.
func (c *Comp) NumRequests() uint64 {
	return c.numRequests
}

// NumQueued returns the number of responses that had to wait.
func (c *Comp) NumQueued() uint64 {
	return c.numQueued
}

// MaxQueueDepth returns the longest the response queue has been.
func (c *Comp) MaxQueueDepth() int {
	return c.maxQueueDepth
}

// NumInterrupts returns the number of interrupts raised.
func (c *Comp) NumInterrupts() uint64 {
	return c.numInterrupts
}

// NBTransportFW defers every phase to the DSP's own event queue.
func (c *Comp) NBTransportFW(
	trans *bus.Transaction,
	phase bus.Phase,
	delay sim.VTime,
) (bus.SyncStatus, bus.Phase, sim.VTime) {
	c.peq.Notify(trans, phase, delay)
	return bus.Accepted, phase, delay
}

func (c *Comp) peqCallback(trans *bus.Transaction, phase bus.Phase) {
	switch phase {
	case bus.RequestBegin:
		c.acceptRequest(trans)
	case bus.ResponseEnd:
		c.endResponse(trans)
	case phaseProcess:
		c.process(trans)
	default:
		bus.Violation(c.Name(), trans, phase,
			"DSP cannot accept phase %s", phase)
	}
}

func (c *Comp) taskID(trans *bus.Transaction) string {
	return trans.ID + "@" + c.Name()
}

func (c *Comp) acceptRequest(trans *bus.Transaction) {
	trans.Acquire()
	c.numRequests++

	tracing.StartTask(c.taskID(trans), trans.ID, c,
		"req_in", trans.Command.String(), nil)

	delay := c.EndRequestDelay
	c.Backward().NBTransportBW(trans, bus.RequestEnd, delay)

	c.peq.Notify(trans, phaseProcess, delay+c.ProcessingDelay)
}

func (c *Comp) process(trans *bus.Transaction) {
	c.execute(trans)

	if c.inFlight == nil {
		c.sendResponse(trans)
		return
	}

	c.pendingResponses.Push(trans.Handle())
	c.numQueued++
	tracing.AddTaskStep(c.taskID(trans), c, "queued")

	if c.pendingResponses.Size() > c.maxQueueDepth {
		c.maxQueueDepth = c.pendingResponses.Size()
	}

	log.WithFields(log.Fields{
		"component": c.Name(),
		"trans":     trans.ID,
		"depth":     c.pendingResponses.Size(),
	}).Debug("response queued")
}

func (c *Comp) sendResponse(trans *bus.Transaction) {
	c.inFlight = trans

	status, phase, delay := c.Backward().
		NBTransportBW(trans, bus.ResponseBegin, 0)

	switch status {
	case bus.Updated:
		c.peq.Notify(trans, phase, delay)
	case bus.Completed:
		c.completeResponse(trans)
	}
}

func (c *Comp) endResponse(trans *bus.Transaction) {
	if c.inFlight != trans {
		bus.Violation(c.Name(), trans, bus.ResponseEnd,
			"response end for a transaction that is not in flight")
	}

	c.completeResponse(trans)
}

func (c *Comp) completeResponse(trans *bus.Transaction) {
	tracing.EndTask(c.taskID(trans), c, trans.ResponseStatus)
	trans.Release()
	c.inFlight = nil

	if c.pendingResponses.Size() > 0 {
		c.sendResponse(c.popPending())
	}
}

func (c *Comp) popPending() *bus.Transaction {
	item := c.pendingResponses.Pop()
	if item == nil {
		log.Panicf("%s: popping an empty response queue", c.Name())
	}

	return item.(bus.Handle).Trans()
}

func (c *Comp) execute(trans *bus.Transaction) {
	status := bus.CheckBurst(trans)
	if status != bus.ResponseOK {
		trans.ResponseStatus = status
		return
	}

	data := trans.Data[:trans.Length]

	var ok bool

	switch trans.Command {
	case bus.CommandRead:
		ok = c.Regs.Read(trans.Address, data)
	case bus.CommandWrite:
		ok = c.Regs.Write(trans.Address, data)
	}

	if !ok {
		trans.ResponseStatus = bus.ResponseAddressError
		return
	}

	trans.ResponseStatus = bus.ResponseOK

	if trans.Command == bus.CommandWrite && trans.Address == RegCommand {
		c.startCommand()
	}
}

func (c *Comp) startCommand() {
	switch c.Regs.Command {
	case CmdAdd, CmdSub:
	default:
		return
	}

	c.Regs.Status = StatusRun
	c.engine.Schedule(computeEvent{
		sim.NewEventBase(c.engine.CurrentTime()+c.ComputeLatency, c),
	})
}

func (c *Comp) compute() {
	switch c.Regs.Command {
	case CmdAdd:
		c.Regs.Result = c.Regs.Operand1 + c.Regs.Operand2
	case CmdSub:
		c.Regs.Result = c.Regs.Operand1 - c.Regs.Operand2
	}

	c.Regs.Status = StatusComplete
	c.raiseInterrupt()
}

func (c *Comp) raiseInterrupt() {
	if !c.interrupt.IsBound() {
		return
	}

	c.numInterrupts++

	t := bus.NewTransaction()
	t.Command = bus.CommandWrite
	t.Address = RegResult
	t.SetData(binary.LittleEndian.AppendUint32(nil, c.Regs.Result))

	c.interrupt.Forward().BTransport(t, 0)
}

// Handle processes the events scheduled by the DSP.
func (c *Comp) Handle(e sim.Event) error {
	c.Lock()
	defer c.Unlock()

	switch e.(type) {
	case computeEvent:
		c.compute()
	default:
		log.Panicf("cannot handle event of %s", reflect.TypeOf(e))
	}

	return nil
}

// BTransport performs the register access immediately.
func (c *Comp) BTransport(trans *bus.Transaction, delay sim.VTime) sim.VTime {
	c.execute(trans)
	return delay + c.EndRequestDelay + c.ProcessingDelay
}

// TransportDbg accesses a register without side effects.
func (c *Comp) TransportDbg(trans *bus.Transaction) int {
	n := trans.Length
	if n > 4 {
		n = 4
	}

	if n > len(trans.Data) {
		n = len(trans.Data)
	}

	var ok bool
	if trans.Command == bus.CommandWrite {
		ok = c.Regs.Write(trans.Address, trans.Data[:n])
	} else {
		ok = c.Regs.Read(trans.Address, trans.Data[:n])
	}

	if !ok {
		return 0
	}

	return n
}

// GetDirectMemPtr refuses direct access to the registers.
func (c *Comp) GetDirectMemPtr(
	trans *bus.Transaction,
	dmi *bus.DMIData,
) bool {
	dmi.Init()
	dmi.Start = 0
	dmi.End = RegisterFileSize - 1

	return false
}

type interruptSocket struct {
	bus.ForwardBinding
}

func (s *interruptSocket) NBTransportBW(
	trans *bus.Transaction,
	phase bus.Phase,
	delay sim.VTime,
) (bus.SyncStatus, bus.Phase, sim.VTime) {
	return bus.Accepted, phase, delay
}

func (s *interruptSocket) InvalidateDirectMemPtr(start, end uint64) {}
