package bus

import (
	"github.com/sarchlab/splitbus/sim"
	log "github.com/sirupsen/logrus"
)

// NBForward is the non-blocking call from an initiator toward a target.
type NBForward interface {
	// NBTransportFW passes the transaction in the given phase. The callee
	// returns how it handled the call, the phase the transaction is in
	// afterwards and the annotated delay.
	NBTransportFW(
		trans *Transaction,
		phase Phase,
		delay sim.VTime,
	) (SyncStatus, Phase, sim.VTime)
}

// NBBackward is the non-blocking call from a target back to an initiator.
type NBBackward interface {
	NBTransportBW(
		trans *Transaction,
		phase Phase,
		delay sim.VTime,
	) (SyncStatus, Phase, sim.VTime)
}

// BlockingTransport completes a transaction within a single call. The
// returned delay includes the time the access took.
type BlockingTransport interface {
	BTransport(trans *Transaction, delay sim.VTime) sim.VTime
}

// DirectMemInterface hands out direct access to a target's backing store.
type DirectMemInterface interface {
	// GetDirectMemPtr fills dmi and returns true if the target grants direct
	// access to the region that includes the transaction's address.
	GetDirectMemPtr(trans *Transaction, dmi *DMIData) bool
}

// DebugTransport performs an access without any timing or side effect. It
// returns the number of bytes transferred.
type DebugTransport interface {
	TransportDbg(trans *Transaction) int
}

// InvalidationListener is told when direct access to an address range is
// revoked. The range is inclusive.
type InvalidationListener interface {
	InvalidateDirectMemPtr(start, end uint64)
}

// ForwardTransport is everything a target offers to the initiator bound to
// it.
type ForwardTransport interface {
	NBForward
	BlockingTransport
	DirectMemInterface
	DebugTransport
}

// BackwardTransport is everything an initiator offers to the target bound to
// it.
type BackwardTransport interface {
	NBBackward
	InvalidationListener
}

// An InitiatorSocket is the initiator end of a binding.
type InitiatorSocket interface {
	BackwardTransport
	BindForward(fw ForwardTransport)
}

// A TargetSocket is the target end of a binding.
type TargetSocket interface {
	ForwardTransport
	BindBackward(bw BackwardTransport)
}

// Bind connects an initiator socket with a target socket in both directions.
func Bind(initiator InitiatorSocket, target TargetSocket) {
	initiator.BindForward(target)
	target.BindBackward(initiator)
}

// ForwardBinding keeps the target an initiator socket is bound to.
type ForwardBinding struct {
	fw ForwardTransport
}

// BindForward records the target. A socket can only be bound once.
func (b *ForwardBinding) BindForward(fw ForwardTransport) {
	if b.fw != nil {
		log.Panic("initiator socket is already bound")
	}

	b.fw = fw
}

// Forward returns the bound target.
func (b *ForwardBinding) Forward() ForwardTransport {
	if b.fw == nil {
		log.Panic("initiator socket is not bound")
	}

	return b.fw
}

// IsBound tells if a target has been bound.
func (b *ForwardBinding) IsBound() bool {
	return b.fw != nil
}

// BackwardBinding keeps the initiator a target socket is bound to.
type BackwardBinding struct {
	bw BackwardTransport
}

// BindBackward records the initiator. A socket can only be bound once.
func (b *BackwardBinding) BindBackward(bw BackwardTransport) {
	if b.bw != nil {
		log.Panic("target socket is already bound")
	}

	b.bw = bw
}

// Backward returns the bound initiator.
func (b *BackwardBinding) Backward() BackwardTransport {
	if b.bw == nil {
		log.Panic("target socket is not bound")
	}

	return b.bw
}

// IsBound tells if an initiator has been bound.
func (b *BackwardBinding) IsBound() bool {
	return b.bw != nil
}
