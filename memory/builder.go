package memory

import (
	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/sim"
)

// Builder can build memory targets.
type Builder struct {
	engine         sim.Engine
	capacity       uint64
	latency        sim.VTime
	dmiLatency     sim.VTime
	dmiEnabled     bool
	syncCompletion bool
	fill           bool
	storage        *Storage
}

// MakeBuilder returns a new Builder
func MakeBuilder() Builder {
	return Builder{
		capacity:   256,
		latency:    10 * sim.NS,
		dmiLatency: 1 * sim.NS,
		dmiEnabled: true,
		fill:       true,
	}
}

// WithEngine sets the engine that schedules delayed invalidations.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithCapacity sets the size of a newly created storage.
func (b Builder) WithCapacity(capacity uint64) Builder {
	b.capacity = capacity
	return b
}

// WithLatency sets the latency of a timed access.
func (b Builder) WithLatency(latency sim.VTime) Builder {
	b.latency = latency
	return b
}

// WithDMILatency sets the latency reported in direct access grants.
func (b Builder) WithDMILatency(latency sim.VTime) Builder {
	b.dmiLatency = latency
	return b
}

// WithDMIEnabled sets whether direct access is granted.
func (b Builder) WithDMIEnabled(enabled bool) Builder {
	b.dmiEnabled = enabled
	return b
}

// WithSyncCompletion makes non-blocking requests complete inside the
// forward call.
func (b Builder) WithSyncCompletion(sync bool) Builder {
	b.syncCompletion = sync
	return b
}

// WithoutFill keeps a newly created storage zeroed.
func (b Builder) WithoutFill() Builder {
	b.fill = false
	return b
}

// WithStorage uses an existing storage.
func (b Builder) WithStorage(storage *Storage) Builder {
	b.storage = storage
	return b
}

// Build creates a memory target.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		ComponentBase:  sim.NewComponentBase(name),
		engine:         b.engine,
		Latency:        b.latency,
		DMILatency:     b.dmiLatency,
		SyncCompletion: b.syncCompletion,
		dmiEnabled:     b.dmiEnabled,
		responding:     make(map[bus.Handle]bool),
	}

	c.storage = b.storage
	if c.storage == nil {
		c.storage = NewStorage(b.capacity)
		if b.fill {
			c.storage.FillWithOffsets()
		}
	}

	return c
}
