package tracing

import (
	"github.com/sarchlab/splitbus/sim"
)

// BusyTimeTracer traces the time that a domain is processing a kind of task.
// Overlapping tasks count only once.
type BusyTimeTracer struct {
	timeTeller    sim.TimeTeller
	filter        TaskFilter
	inflightTasks map[string]bool
	busySince     sim.VTime
	busyTime      sim.VTime
}

// NewBusyTimeTracer creates a new BusyTimeTracer
func NewBusyTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *BusyTimeTracer {
	return &BusyTimeTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]bool),
	}
}

// BusyTime returns the time during which at least one task was in flight.
// Tasks still in flight count up to the current time.
func (t *BusyTimeTracer) BusyTime() sim.VTime {
	if len(t.inflightTasks) == 0 {
		return t.busyTime
	}

	return t.busyTime + t.timeTeller.CurrentTime() - t.busySince
}

// StartTask records the task start time
func (t *BusyTimeTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	if len(t.inflightTasks) == 0 {
		t.busySince = t.timeTeller.CurrentTime()
	}

	t.inflightTasks[task.ID] = true
}

// StepTask does nothing
func (t *BusyTimeTracer) StepTask(_ Task) {}

// EndTask records the end of the task
func (t *BusyTimeTracer) EndTask(task Task) {
	if !t.inflightTasks[task.ID] {
		return
	}

	delete(t.inflightTasks, task.ID)

	if len(t.inflightTasks) == 0 {
		t.busyTime += t.timeTeller.CurrentTime() - t.busySince
	}
}
