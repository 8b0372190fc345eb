// Package platform assembles a complete simulated system out of a
// configuration: one core, a router and a row of targets behind it.
package platform

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/splitbus/bus"
	"github.com/sarchlab/splitbus/config"
	"github.com/sarchlab/splitbus/dsp"
	"github.com/sarchlab/splitbus/initiator"
	"github.com/sarchlab/splitbus/memory"
	"github.com/sarchlab/splitbus/monitoring"
	"github.com/sarchlab/splitbus/router"
	"github.com/sarchlab/splitbus/sim"
	"github.com/sarchlab/splitbus/tracing"
	"github.com/sarchlab/splitbus/workload"
)

// Platform is a simulated system that is ready to run.
type Platform struct {
	Config     *config.Config
	Simulation *sim.Simulation
	Engine     *sim.SerialEngine
	Pool       *bus.Pool
	Core       *initiator.Core
	Router     *router.Comp
	Memories   map[int]*memory.Comp
	DSPs       map[int]*dsp.Comp
	Driver     *workload.Driver
	Reporter   *initiator.ConsoleReporter
	Metrics    *monitoring.Metrics
	Monitor    *monitoring.Monitor
	Trace      *tracing.SQLiteTracer

	latency  *tracing.AverageTimeTracer
	busBusy  *tracing.BusyTimeTracer
	steps    *tracing.StepCountTracer
	progress *monitoring.ProgressBar
}

// Summary describes a finished run.
type Summary struct {
	EndTime        sim.VTime
	Steps          int
	Submitted      int
	Completed      int
	Errors         uint64
	Queued         uint64
	Direct         uint64
	DMIGrants      uint64
	Invalidations  uint64
	Interrupts     uint64
	AverageLatency sim.VTime
	BusBusyTime    sim.VTime
	RequestEnds    uint64
	TransInUse     int
	PoolSize       int
	TracePath      string
}

// Run simulates until no event is left.
func (p *Platform) Run() (Summary, error) {
	if p.Monitor != nil {
		url, err := p.Monitor.StartServer()
		if err != nil {
			return Summary{}, err
		}

		log.WithField("url", url).Info("monitor started")

		defer func() {
			if err := p.Monitor.StopServer(); err != nil {
				log.WithError(err).Warn("stopping monitor")
			}
		}()
	}

	p.Driver.Start()

	if err := p.Engine.Run(); err != nil {
		return Summary{}, fmt.Errorf("running simulation: %w", err)
	}

	p.Engine.Finished()

	if p.Trace != nil {
		if err := p.Trace.Close(); err != nil {
			return Summary{}, fmt.Errorf("writing trace: %w", err)
		}
	}

	return p.summarize(), nil
}

// Handle is called when the simulation ends.
func (p *Platform) Handle(now sim.VTime) {
	if p.Monitor != nil && p.progress != nil {
		p.Monitor.CompleteProgressBar(p.progress)
	}

	if p.Pool.NumInUse() > 0 {
		log.WithFields(log.Fields{
			"in_use": p.Pool.NumInUse(),
			"time":   now,
		}).Warn("transactions still in use at the end of simulation")
	}
}

func (p *Platform) summarize() Summary {
	stats := p.Core.Stats()

	s := Summary{
		EndTime:        p.Engine.CurrentTime(),
		Steps:          p.Driver.NumSteps(),
		Submitted:      p.Driver.NumSubmitted(),
		Completed:      len(p.Driver.Completions()),
		Errors:         stats.Errors,
		Queued:         stats.Queued,
		Direct:         stats.DMIHits,
		DMIGrants:      stats.DMIGrants,
		Invalidations:  stats.Invalidations,
		Interrupts:     stats.Interrupts,
		AverageLatency: p.latency.AverageTime(),
		BusBusyTime:    p.busBusy.BusyTime(),
		RequestEnds:    p.steps.GetStepCount("request_end"),
		TransInUse:     p.Pool.NumInUse(),
		PoolSize:       p.Pool.Size(),
	}

	if p.Trace != nil {
		s.TracePath = p.Trace.Path()
	}

	return s
}

// Write prints the summary.
func (s Summary) Write(w io.Writer) {
	fmt.Fprintf(w, "simulated time:    %s\n", s.EndTime)
	fmt.Fprintf(w, "steps:             %d submitted, %d completed of %d\n",
		s.Submitted, s.Completed, s.Steps)
	fmt.Fprintf(w, "errors:            %d\n", s.Errors)
	fmt.Fprintf(w, "queued:            %d\n", s.Queued)
	fmt.Fprintf(w, "direct accesses:   %d (%d grants, %d invalidations)\n",
		s.Direct, s.DMIGrants, s.Invalidations)
	fmt.Fprintf(w, "interrupts:        %d\n", s.Interrupts)
	fmt.Fprintf(w, "average latency:   %s\n", s.AverageLatency)
	fmt.Fprintf(w, "bus busy:          %s\n", s.BusBusyTime)
	fmt.Fprintf(w, "pool:              %d allocated, %d in use\n",
		s.PoolSize, s.TransInUse)

	if s.TracePath != "" {
		fmt.Fprintf(w, "trace:             %s\n", s.TracePath)
	}
}
