package workload

import (
	"github.com/sarchlab/splitbus/initiator"
	"github.com/sarchlab/splitbus/sim"
	log "github.com/sirupsen/logrus"
)

// Submitter accepts requests.
type Submitter interface {
	Submit(req initiator.Request) initiator.Outcome
}

// ProgressTracker is told when requests are submitted and finished.
type ProgressTracker interface {
	IncrementInProgress(amount uint64)
	MoveInProgressToFinished(amount uint64)
}

// Driver submits the steps of its programs, one per tick.
type Driver struct {
	*sim.TickingComponent

	target   Submitter
	steps    []initiator.Request
	next     int
	progress []ProgressTracker

	outcomes  map[initiator.Outcome]uint64
	completed []initiator.Completion
	errors    uint64
}

// AddProgram appends the steps of a program.
func (d *Driver) AddProgram(p Program) {
	d.steps = append(d.steps, p.Steps...)
}

// AddProgressTracker registers a tracker.
func (d *Driver) AddProgressTracker(t ProgressTracker) {
	d.progress = append(d.progress, t)
}

// Start schedules the first step.
func (d *Driver) Start() {
	if len(d.steps) > 0 {
		d.TickNow()
	}
}

// Tick submits the next step.
func (d *Driver) Tick() bool {
	if d.next >= len(d.steps) {
		return false
	}

	req := d.steps[d.next]
	d.next++

	outcome := d.target.Submit(req)
	d.outcomes[outcome]++

	for _, p := range d.progress {
		p.IncrementInProgress(1)
	}

	log.WithFields(log.Fields{
		"component": d.Name(),
		"step":      d.next - 1,
		"command":   req.Command.String(),
		"address":   req.Address,
		"outcome":   outcome.String(),
	}).Debug("step submitted")

	return d.next < len(d.steps)
}

// NotifyCompletion records a finished step.
func (d *Driver) NotifyCompletion(c initiator.Completion) {
	d.completed = append(d.completed, c)
	if c.Status.IsError() {
		d.errors++
	}

	for _, p := range d.progress {
		p.MoveInProgressToFinished(1)
	}
}

// NumSteps returns the number of steps of all the programs.
func (d *Driver) NumSteps() int {
	return len(d.steps)
}

// NumSubmitted returns the number of steps submitted.
func (d *Driver) NumSubmitted() int {
	return d.next
}

// NumOutcome returns how many submissions ended with the given outcome.
func (d *Driver) NumOutcome(o initiator.Outcome) uint64 {
	return d.outcomes[o]
}

// Completions returns the completed steps in completion order.
func (d *Driver) Completions() []initiator.Completion {
	return d.completed
}

// NumErrors returns the number of steps that completed with an error.
func (d *Driver) NumErrors() uint64 {
	return d.errors
}

// Done tells if every step has been submitted and completed.
func (d *Driver) Done() bool {
	return d.next == len(d.steps) && len(d.completed) == len(d.steps)
}
