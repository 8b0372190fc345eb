package sim

import log "github.com/sirupsen/logrus"

// HookPosBufPush marks when an element is pushed into the buffer.
var HookPosBufPush = &HookPos{Name: "Buffer Push"}

// HookPosBufPop marks when an element is popped from the buffer.
var HookPosBufPop = &HookPos{Name: "Buffer Pop"}

// A Buffer is a fifo queue for anything. A buffer either holds at most
// Capacity elements or, when Capacity is not positive, grows without limit.
type Buffer interface {
	Named
	Hookable

	// CanPush is always true for an unbounded buffer.
	CanPush() bool

	// Push appends an element. It panics if the buffer is full.
	Push(e interface{})

	// Pop removes the oldest element. It returns nil if the buffer is empty.
	Pop() interface{}

	// Peek returns the oldest element without removing it, or nil.
	Peek() interface{}

	// Capacity returns the configured limit. Zero or less means unbounded.
	Capacity() int

	Size() int

	// Remove all elements in the buffer
	Clear()
}

// NewBuffer creates a default buffer object. A capacity that is not positive
// makes the buffer unbounded, as the DSP response queue is, so Push never
// panics on it.
func NewBuffer(name string, capacity int) Buffer {
	NameMustBeValid(name)

	return &bufferImpl{
		name:     name,
		capacity: capacity,
	}
}

type bufferImpl struct {
	HookableBase

	name     string
	capacity int
	elements []interface{}
}

// Name returns the name of the buffer.
func (b *bufferImpl) Name() string {
	return b.name
}

func (b *bufferImpl) CanPush() bool {
	if b.capacity <= 0 {
		return true
	}

	return len(b.elements) < b.capacity
}

func (b *bufferImpl) Push(e interface{}) {
	if !b.CanPush() {
		log.Panicf("buffer %s overflow", b.name)
	}

	b.elements = append(b.elements, e)

	if b.NumHooks() > 0 {
		b.InvokeHook(HookCtx{
			Domain: b,
			Pos:    HookPosBufPush,
			Item:   e,
		})
	}
}

func (b *bufferImpl) Pop() interface{} {
	if len(b.elements) == 0 {
		return nil
	}

	e := b.elements[0]
	b.elements[0] = nil
	b.elements = b.elements[1:]

	if b.NumHooks() > 0 {
		b.InvokeHook(HookCtx{
			Domain: b,
			Pos:    HookPosBufPop,
			Item:   e,
		})
	}

	return e
}

func (b *bufferImpl) Peek() interface{} {
	if len(b.elements) == 0 {
		return nil
	}

	return b.elements[0]
}

func (b *bufferImpl) Capacity() int {
	return b.capacity
}

func (b *bufferImpl) Size() int {
	return len(b.elements)
}

func (b *bufferImpl) Clear() {
	b.elements = nil
}
