package bus

import (
	"fmt"
	"math"

	"github.com/sarchlab/splitbus/sim"
)

// DMIAccess is the set of directions a direct access grant permits.
type DMIAccess uint8

// DMI access kinds.
const (
	DMIAccessNone  DMIAccess = 0
	DMIAccessRead  DMIAccess = 1
	DMIAccessWrite DMIAccess = 2

	DMIAccessReadWrite = DMIAccessRead | DMIAccessWrite
)

func (a DMIAccess) String() string {
	switch a {
	case DMIAccessNone:
		return "none"
	case DMIAccessRead:
		return "read"
	case DMIAccessWrite:
		return "write"
	case DMIAccessReadWrite:
		return "read-write"
	default:
		return fmt.Sprintf("access(%d)", uint8(a))
	}
}

// DMIData describes a direct access grant. Addresses Start through End
// (inclusive) can be accessed through Ptr, where Ptr[0] holds the byte at
// address PtrBase.
type DMIData struct {
	Start   uint64
	End     uint64
	Ptr     []byte
	PtrBase uint64

	Access       DMIAccess
	ReadLatency  sim.VTime
	WriteLatency sim.VTime
}

// Init resets the grant to cover the whole address space with no access.
func (d *DMIData) Init() {
	*d = DMIData{End: math.MaxUint64}
}

// Contains tells if the length bytes starting at addr are inside the granted
// range.
func (d *DMIData) Contains(addr uint64, length int) bool {
	if length <= 0 || addr < d.Start || addr > d.End {
		return false
	}

	last := addr + uint64(length) - 1
	if last < addr {
		return false
	}

	return last <= d.End
}

// Allows tells if the grant permits the command.
func (d *DMIData) Allows(cmd Command) bool {
	switch cmd {
	case CommandRead:
		return d.Access&DMIAccessRead != 0
	case CommandWrite:
		return d.Access&DMIAccessWrite != 0
	default:
		return false
	}
}

// Latency returns the latency of an access of the given command.
func (d *DMIData) Latency(cmd Command) sim.VTime {
	if cmd == CommandWrite {
		return d.WriteLatency
	}

	return d.ReadLatency
}

// Bytes returns the part of the granted memory that backs the length bytes
// starting at addr.
func (d *DMIData) Bytes(addr uint64, length int) []byte {
	if !d.Contains(addr, length) || addr < d.PtrBase {
		panic(fmt.Sprintf("address 0x%x is outside of DMI grant [0x%x, 0x%x]",
			addr, d.Start, d.End))
	}

	offset := addr - d.PtrBase
	if offset+uint64(length) > uint64(len(d.Ptr)) {
		panic(fmt.Sprintf("address 0x%x is beyond the DMI buffer", addr))
	}

	return d.Ptr[offset : offset+uint64(length)]
}

// Overlaps tells if the grant shares any address with [start, end].
func (d *DMIData) Overlaps(start, end uint64) bool {
	return d.Start <= end && start <= d.End
}

// Translate moves the grant from a local address space into one where the
// local space starts at offset.
func (d *DMIData) Translate(offset uint64) {
	d.Start += offset
	d.End += offset
	d.PtrBase += offset
}

// ClampEnd limits the end of the grant.
func (d *DMIData) ClampEnd(end uint64) {
	if d.End > end {
		d.End = end
	}
}

func (d *DMIData) String() string {
	return fmt.Sprintf("[0x%x, 0x%x] %s", d.Start, d.End, d.Access)
}

// DMITable holds the grants an initiator currently owns.
type DMITable struct {
	grants []*DMIData
}

// NewDMITable creates an empty table.
func NewDMITable() *DMITable {
	return &DMITable{}
}

// Lookup returns a grant that covers the access, or nil.
func (t *DMITable) Lookup(addr uint64, length int, cmd Command) *DMIData {
	for _, g := range t.grants {
		if g.Contains(addr, length) && g.Allows(cmd) {
			return g
		}
	}

	return nil
}

// Insert adds a grant, replacing every grant it overlaps.
func (t *DMITable) Insert(grant DMIData) {
	t.Invalidate(grant.Start, grant.End)
	t.grants = append(t.grants, &grant)
}

// Invalidate drops every grant that overlaps [start, end] and returns how
// many were dropped.
func (t *DMITable) Invalidate(start, end uint64) int {
	kept := t.grants[:0]
	dropped := 0

	for _, g := range t.grants {
		if g.Overlaps(start, end) {
			dropped++
			continue
		}

		kept = append(kept, g)
	}

	for i := len(kept); i < len(t.grants); i++ {
		t.grants[i] = nil
	}

	t.grants = kept

	return dropped
}

// Len returns the number of grants held.
func (t *DMITable) Len() int {
	return len(t.grants)
}
