package sim

import (
	"sync"
)

// TickEvent is a generic event that a component uses to update its state
// periodically.
type TickEvent struct {
	*EventBase
}

// MakeTickEvent creates a new TickEvent
func MakeTickEvent(handler Handler, time VTime) TickEvent {
	return TickEvent{NewEventBase(time, handler)}
}

// A Ticker is an object that updates states with ticks. Tick returns true if
// the ticker made progress and wants to tick again.
type Ticker interface {
	Tick() bool
}

// TickScheduler schedules tick events on multiples of a period.
type TickScheduler struct {
	lock    sync.Mutex
	handler Handler
	Period  VTime
	Engine  Engine

	scheduled    bool
	nextTickTime VTime
}

// NewTickScheduler creates a scheduler for tick events.
func NewTickScheduler(
	handler Handler,
	engine Engine,
	period VTime,
) *TickScheduler {
	if period == 0 {
		panic("tick period cannot be 0")
	}

	return &TickScheduler{
		handler: handler,
		Engine:  engine,
		Period:  period,
	}
}

// ThisTick returns the earliest tick time that is not before now.
func (t *TickScheduler) ThisTick(now VTime) VTime {
	return (now + t.Period - 1) / t.Period * t.Period
}

// NextTick returns the earliest tick time that is after now.
func (t *TickScheduler) NextTick(now VTime) VTime {
	return (now/t.Period + 1) * t.Period
}

// TickNow schedules a tick at the current time, or at the next tick boundary
// if the current time is not on one.
func (t *TickScheduler) TickNow() {
	t.schedule(t.ThisTick(t.CurrentTime()))
}

// TickLater schedules a tick at the tick boundary after the current time.
func (t *TickScheduler) TickLater() {
	t.schedule(t.NextTick(t.CurrentTime()))
}

func (t *TickScheduler) schedule(time VTime) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.scheduled && t.nextTickTime >= time {
		return
	}

	t.scheduled = true
	t.nextTickTime = time
	t.Engine.Schedule(MakeTickEvent(t.handler, time))
}

// CurrentTime returns the engine time.
func (t *TickScheduler) CurrentTime() VTime {
	return t.Engine.CurrentTime()
}

// TickingComponent is a type of component that update states from tick to
// tick. A programmer would only need to program a tick function for a ticking
// component.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	ticker Ticker
}

// Handle triggers the tick function of the TickingComponent
func (c *TickingComponent) Handle(e Event) error {
	c.TickScheduler.lock.Lock()
	if e.Time() >= c.nextTickTime {
		c.scheduled = false
	}
	c.TickScheduler.lock.Unlock()

	madeProgress := c.ticker.Tick()
	if madeProgress {
		c.TickLater()
	}

	return nil
}

// NewTickingComponent creates a new ticking component
func NewTickingComponent(
	name string,
	engine Engine,
	period VTime,
	ticker Ticker,
) *TickingComponent {
	tc := new(TickingComponent)
	tc.TickScheduler = NewTickScheduler(tc, engine, period)
	tc.ComponentBase = NewComponentBase(name)
	tc.ticker = ticker

	return tc
}
