package bus

import (
	"github.com/google/btree"
	"github.com/sarchlab/splitbus/sim"
)

// PEQCallback receives the transactions a PEQ delivers.
type PEQCallback func(trans *Transaction, phase Phase)

type peqEntry struct {
	time   sim.VTime
	seq    uint64
	handle Handle
	phase  Phase
}

func (e *peqEntry) Less(than btree.Item) bool {
	o := than.(*peqEntry)
	if e.time != o.time {
		return e.time < o.time
	}

	return e.seq < o.seq
}

type peqWakeEvent struct {
	*sim.EventBase
}

// A PEQ (payload event queue) delays (transaction, phase) pairs and delivers
// them to its owner's callback at the notified time. Delivery is always
// deferred, even with zero delay, and pairs due at the same time are
// delivered in the order they were notified.
type PEQ struct {
	name     string
	engine   sim.Engine
	callback PEQCallback

	entries *btree.BTree
	nextSeq uint64
	wakeAt  map[sim.VTime]bool
}

// NewPEQ creates a PEQ that delivers to callback.
func NewPEQ(name string, engine sim.Engine, callback PEQCallback) *PEQ {
	return &PEQ{
		name:     name,
		engine:   engine,
		callback: callback,
		entries:  btree.New(8),
		wakeAt:   make(map[sim.VTime]bool),
	}
}

// Name returns the name of the PEQ.
func (q *PEQ) Name() string {
	return q.name
}

// Len returns the number of pairs waiting for delivery.
func (q *PEQ) Len() int {
	return q.entries.Len()
}

// Notify schedules the delivery of the pair after delay.
func (q *PEQ) Notify(trans *Transaction, phase Phase, delay sim.VTime) {
	t := q.engine.CurrentTime() + delay

	q.entries.ReplaceOrInsert(&peqEntry{
		time:   t,
		seq:    q.nextSeq,
		handle: trans.Handle(),
		phase:  phase,
	})
	q.nextSeq++

	if q.wakeAt[t] {
		return
	}

	q.wakeAt[t] = true
	q.engine.Schedule(peqWakeEvent{sim.NewEventBase(t, q)})
}

// Handle delivers the pairs that are due. Pairs notified during the delivery
// wait for the next wake up.
func (q *PEQ) Handle(e sim.Event) error {
	now := e.Time()
	delete(q.wakeAt, now)

	limit := q.nextSeq
	for {
		item := q.entries.Min()
		if item == nil {
			return nil
		}

		entry := item.(*peqEntry)
		if entry.time > now || entry.seq >= limit {
			return nil
		}

		q.entries.DeleteMin()
		q.callback(entry.handle.Trans(), entry.phase)
	}
}
