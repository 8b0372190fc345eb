package initiator

import (
	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/sim"
)

// Builder can build cores.
type Builder struct {
	engine           sim.Engine
	pool             *bus.Pool
	requestDelay     sim.VTime
	endResponseDelay sim.VTime
	dmiEnabled       bool
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		requestDelay:     1 * sim.NS,
		endResponseDelay: 1 * sim.NS,
		dmiEnabled:       true,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithPool sets the pool transactions are allocated from. A new pool is
// created if none is given.
func (b Builder) WithPool(pool *bus.Pool) Builder {
	b.pool = pool
	return b
}

// WithRequestDelay sets the delay annotated on RequestBegin.
func (b Builder) WithRequestDelay(d sim.VTime) Builder {
	b.requestDelay = d
	return b
}

// WithEndResponseDelay sets the delay annotated on ResponseEnd.
func (b Builder) WithEndResponseDelay(d sim.VTime) Builder {
	b.endResponseDelay = d
	return b
}

// WithDMIEnabled sets if the core asks for and uses DMI grants.
func (b Builder) WithDMIEnabled(enabled bool) Builder {
	b.dmiEnabled = enabled
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	c := &Core{
		ComponentBase:    sim.NewComponentBase(name),
		engine:           b.engine,
		pool:             b.pool,
		dmi:              bus.NewDMITable(),
		RequestDelay:     b.requestDelay,
		EndResponseDelay: b.endResponseDelay,
		dmiEnabled:       b.dmiEnabled,
		issuedReqs:       make(map[bus.Handle]issued),
	}

	if c.pool == nil {
		c.pool = bus.NewPool()
	}

	c.peq = bus.NewPEQ(name+".PEQ", b.engine, c.peqCallback)
	c.interrupt = &interruptTarget{core: c}

	return c
}
