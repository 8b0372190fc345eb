package bus

import (
	"fmt"
	"sync"
)

// Phase marks a step of the split-phase protocol.
type Phase uint8

// The base protocol phases.
const (
	PhaseUninitialized Phase = iota
	RequestBegin
	RequestEnd
	ResponseBegin
	ResponseEnd
)

var (
	phaseLock  sync.Mutex
	phaseNames = []string{
		"uninitialized",
		"request-begin",
		"request-end",
		"response-begin",
		"response-end",
	}
)

// DeclarePhase registers an extended phase. Extended phases are private to
// the module that declares them and never cross a socket.
func DeclarePhase(name string) Phase {
	phaseLock.Lock()
	defer phaseLock.Unlock()

	if len(phaseNames) > 255 {
		panic("too many phases")
	}

	phaseNames = append(phaseNames, name)

	return Phase(len(phaseNames) - 1)
}

// IsExtended tells if the phase is not one of the four base phases.
func (p Phase) IsExtended() bool {
	return p > ResponseEnd
}

func (p Phase) String() string {
	phaseLock.Lock()
	defer phaseLock.Unlock()

	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}

	return fmt.Sprintf("phase(%d)", uint8(p))
}

// SyncStatus is what a non-blocking transport call returns.
type SyncStatus uint8

// Sync statuses.
const (
	// Accepted means the callee took the transaction without changing the
	// phase.
	Accepted SyncStatus = iota

	// Updated means the callee moved the transaction to the returned phase.
	Updated

	// Completed means the transaction finished inside the call.
	Completed
)

func (s SyncStatus) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Updated:
		return "updated"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("sync(%d)", uint8(s))
	}
}
