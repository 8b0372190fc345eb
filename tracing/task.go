package tracing

import "github.com/sarchlab/splitbus/sim"

// A TaskStep represents a milestone in the processing of task
type TaskStep struct {
	Time sim.VTime `json:"time"`
	What string    `json:"what"`
}

// A Task is a piece of work a component performs, such as carrying a
// transaction from issue to completion.
type Task struct {
	ID        string      `json:"id"`
	ParentID  string      `json:"parent_id"`
	Kind      string      `json:"kind"`
	What      string      `json:"what"`
	Location  string      `json:"location"`
	StartTime sim.VTime   `json:"start_time"`
	EndTime   sim.VTime   `json:"end_time"`
	Steps     []TaskStep  `json:"steps"`
	Detail    interface{} `json:"-"`
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// KindIs returns a filter that accepts tasks of the given kind.
func KindIs(kind string) TaskFilter {
	return func(t Task) bool {
		return t.Kind == kind
	}
}

// AnyTask accepts every task.
func AnyTask(Task) bool {
	return true
}
