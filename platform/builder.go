package platform

import (
	"fmt"
	"io"
	"os"

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

const name = "Platform"

// Builder can build platforms.
type Builder struct {
	config       *config.Config
	reportOutput io.Writer
	logEvents    bool
}

// MakeBuilder returns a builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		config:       config.Default(),
		reportOutput: os.Stdout,
	}
}

// WithConfig sets the configuration.
func (b Builder) WithConfig(c *config.Config) Builder {
	b.config = c
	return b
}

// WithReportOutput sets where completions and interrupts are reported.
func (b Builder) WithReportOutput(w io.Writer) Builder {
	b.reportOutput = w
	return b
}

// WithEventLogging makes the engine log every event at trace level.
func (b Builder) WithEventLogging() Builder {
	b.logEvents = true
	return b
}

// Build creates a platform.
func (b Builder) Build() (*Platform, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	p := &Platform{
		Config:     b.config,
		Simulation: sim.NewSimulation(),
		Engine:     sim.NewSerialEngine(),
		Pool:       bus.NewPool(),
		Memories:   make(map[int]*memory.Comp),
		DSPs:       make(map[int]*dsp.Comp),
	}

	p.Simulation.RegisterEngine(p.Engine)
	p.Engine.RegisterSimulationEndHandler(p)

	if b.logEvents {
		p.Engine.AcceptHook(sim.NewEventLogger(log.StandardLogger()))
	}

	b.buildCore(p)
	b.buildRouter(p)
	b.buildTargets(p)
	b.scheduleRevocations(p)

	if err := b.buildDriver(p); err != nil {
		return nil, err
	}

	if err := b.buildTracers(p); err != nil {
		return nil, err
	}

	b.buildMonitor(p)

	return p, nil
}

func (b Builder) buildCore(p *Platform) {
	c := b.config.Core

	p.Core = initiator.MakeBuilder().
		WithEngine(p.Engine).
		WithPool(p.Pool).
		WithRequestDelay(c.RequestDelay.VTime()).
		WithEndResponseDelay(c.EndResponseDelay.VTime()).
		WithDMIEnabled(c.DMI).
		Build(sim.BuildName(name, "Core"))
	p.Simulation.RegisterComponent(p.Core)

	p.Reporter = initiator.NewConsoleReporter(b.reportOutput, b.config.Report)
	p.Core.AddCompletionListener(p.Reporter)
	p.Core.AddInterruptListener(p.Reporter)
}

func (b Builder) buildRouter(p *Platform) {
	p.Router = router.MakeBuilder().
		WithNumTargets(b.config.NumTargets).
		WithRegionSize(b.config.RegionSize).
		Build(sim.BuildName(name, "Router"))
	p.Simulation.RegisterComponent(p.Router)

	bus.Bind(p.Core, p.Router)
}

func (b Builder) buildTargets(p *Platform) {
	for i, kind := range b.config.Targets {
		targetName := sim.BuildNameWithIndex(name, "Target", i)

		var target bus.TargetSocket

		switch kind {
		case config.KindMemory:
			m := b.buildMemory(p, targetName)
			p.Memories[i] = m
			target = m
		case config.KindDSP:
			d := b.buildDSP(p, targetName)
			p.DSPs[i] = d
			target = d
			bus.Bind(d.InterruptSocket(), p.Core.InterruptSocket())
		default:
			log.Panicf("unknown target kind %q", kind)
		}

		bus.Bind(p.Router.InitiatorSocket(i), target)
	}
}

func (b Builder) buildMemory(p *Platform, targetName string) *memory.Comp {
	c := b.config.Memory

	m := memory.MakeBuilder().
		WithEngine(p.Engine).
		WithCapacity(b.config.RegionSize).
		WithLatency(c.Latency.VTime()).
		WithDMILatency(c.DMILatency.VTime()).
		WithDMIEnabled(c.DMI).
		WithSyncCompletion(c.SyncCompletion).
		Build(targetName)
	p.Simulation.RegisterComponent(m)

	return m
}

func (b Builder) buildDSP(p *Platform, targetName string) *dsp.Comp {
	c := b.config.DSP

	d := dsp.MakeBuilder().
		WithEngine(p.Engine).
		WithEndRequestDelay(c.EndRequestDelay.VTime()).
		WithProcessingDelay(c.ProcessingDelay.VTime()).
		WithComputeLatency(c.ComputeLatency.VTime()).
		Build(targetName)
	p.Simulation.RegisterComponent(d)

	return d
}

func (b Builder) scheduleRevocations(p *Platform) {
	for _, r := range b.config.Revocations {
		p.Memories[r.Target].ScheduleInvalidate(r.At.VTime(), r.Start, r.End)
	}
}

func (b Builder) buildDriver(p *Platform) error {
	p.Driver = workload.MakeBuilder().
		WithEngine(p.Engine).
		WithInterval(b.config.DriverInterval.VTime()).
		Build(sim.BuildName(name, "Driver"), p.Core)
	p.Simulation.RegisterComponent(p.Driver)

	for _, pc := range b.config.Programs {
		prog, err := workload.ByName(
			pc.Name, b.config.TargetBase(pc.Target), b.config.RegionSize)
		if err != nil {
			return fmt.Errorf("program %s: %w", pc.Name, err)
		}

		p.Driver.AddProgram(prog)
	}

	p.Core.AddCompletionListener(p.Driver)

	return nil
}

func isCoreAccess(t tracing.Task) bool {
	return t.Kind == "req_out" || t.Kind == "dmi"
}

func (b Builder) buildTracers(p *Platform) error {
	p.latency = tracing.NewAverageTimeTracer(p.Engine, isCoreAccess)
	p.busBusy = tracing.NewBusyTimeTracer(p.Engine, tracing.KindIs("req_out"))
	p.steps = tracing.NewStepCountTracer(tracing.KindIs("req_out"))
	p.Metrics = monitoring.NewMetrics(p.Engine)

	tracers := []tracing.Tracer{p.latency, p.busBusy, p.steps, p.Metrics}

	if b.config.TraceDB != "" {
		p.Trace = tracing.NewSQLiteTracer(p.Engine, b.config.TraceDB)
		if err := p.Trace.Init(); err != nil {
			return fmt.Errorf("creating trace: %w", err)
		}

		tracers = append(tracers, p.Trace)
	}

	for _, t := range tracers {
		tracing.CollectTrace(p.Core, t)
	}

	for _, d := range p.DSPs {
		tracing.CollectTrace(d, p.Metrics)

		if p.Trace != nil {
			tracing.CollectTrace(d, p.Trace)
		}
	}

	return nil
}

func (b Builder) buildMonitor(p *Platform) {
	if !b.config.Monitor.Enabled {
		return
	}

	p.Monitor = monitoring.NewMonitor().
		WithPortNumber(b.config.Monitor.Port).
		WithBrowser(b.config.Monitor.OpenBrowser).
		WithGatherer(p.Metrics.Registry())
	p.Monitor.RegisterEngine(p.Engine)

	for _, c := range p.Simulation.Components() {
		p.Monitor.RegisterComponent(c)
	}

	p.progress = p.Monitor.CreateProgressBar(
		p.Driver.Name(), uint64(p.Driver.NumSteps()))
	p.Driver.AddProgressTracker(p.progress)
}
