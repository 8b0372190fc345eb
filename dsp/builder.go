package dsp

import (
	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/sim"
)

// Builder can build DSPs.
type Builder struct {
	engine          sim.Engine
	endRequestDelay sim.VTime
	processingDelay sim.VTime
	computeLatency  sim.VTime
}

// MakeBuilder returns a new Builder
func MakeBuilder() Builder {
	return Builder{
		endRequestDelay: 1 * sim.NS,
		processingDelay: 50 * sim.NS,
		computeLatency:  20 * sim.NS,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithEndRequestDelay sets the delay annotated on the RequestEnd.
func (b Builder) WithEndRequestDelay(d sim.VTime) Builder {
	b.endRequestDelay = d
	return b
}

// WithProcessingDelay sets how long a request is processed after its
// RequestEnd before the response is ready.
func (b Builder) WithProcessingDelay(d sim.VTime) Builder {
	b.processingDelay = d
	return b
}

// WithComputeLatency sets how long an ADD or SUB command runs.
func (b Builder) WithComputeLatency(d sim.VTime) Builder {
	b.computeLatency = d
	return b
}

// Build creates a DSP.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		ComponentBase:   sim.NewComponentBase(name),
		engine:          b.engine,
		interrupt:       &interruptSocket{},
		EndRequestDelay: b.endRequestDelay,
		ProcessingDelay: b.processingDelay,
		ComputeLatency:  b.computeLatency,
	}

	c.peq = bus.NewPEQ(name+".PEQ", b.engine, c.peqCallback)
	c.pendingResponses = sim.NewBuffer(name+".PendingResponses", 0)

	return c
}
