package workload

import (
	"github.com/sarchlab/splitbus/initiator"
	"github.com/sarchlab/splitbus/sim"
)

// Builder can build drivers.
type Builder struct {
	engine   sim.Engine
	interval sim.VTime
}

// MakeBuilder returns a Builder that submits a step every 10ns.
func MakeBuilder() Builder {
	return Builder{
		interval: 10 * sim.NS,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithInterval sets the time between two steps.
func (b Builder) WithInterval(interval sim.VTime) Builder {
	b.interval = interval
	return b
}

// Build creates a driver that submits to the target.
func (b Builder) Build(name string, target Submitter) *Driver {
	d := &Driver{
		target:   target,
		outcomes: make(map[initiator.Outcome]uint64),
	}
	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.interval, d)

	return d
}
