package dsp

import "encoding/binary"

// Register offsets.
const (
	RegCommand  uint64 = 0
	RegOperand1 uint64 = 4
	RegOperand2 uint64 = 8
	RegStatus   uint64 = 12
	RegResult   uint64 = 16
)

// RegisterFileSize is the number of bytes the registers occupy.
const RegisterFileSize = 20

// Commands written to RegCommand.
const (
	CmdNone uint32 = 0
	CmdAdd  uint32 = 1
	CmdSub  uint32 = 2
)

// Values of RegStatus.
const (
	StatusReady    uint32 = 0
	StatusRun      uint32 = 1
	StatusComplete uint32 = 2
)

// RegisterFile holds the 32-bit registers of the DSP. Registers are accessed
// little-endian and only at their base offset.
type RegisterFile struct {
	Command  uint32
	Operand1 uint32
	Operand2 uint32
	Status   uint32
	Result   uint32
}

func (r *RegisterFile) lookup(offset uint64) *uint32 {
	switch offset {
	case RegCommand:
		return &r.Command
	case RegOperand1:
		return &r.Operand1
	case RegOperand2:
		return &r.Operand2
	case RegStatus:
		return &r.Status
	case RegResult:
		return &r.Result
	default:
		return nil
	}
}

// Read copies up to four bytes of the register at offset into data. It
// returns false if no register lives at offset.
func (r *RegisterFile) Read(offset uint64, data []byte) bool {
	reg := r.lookup(offset)
	if reg == nil {
		return false
	}

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], *reg)
	copy(data, buf[:])

	return true
}

// Write replaces the low bytes of the register at offset with data. It
// returns false if no register lives at offset.
func (r *RegisterFile) Write(offset uint64, data []byte) bool {
	reg := r.lookup(offset)
	if reg == nil {
		return false
	}

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], *reg)
	copy(buf[:], data)
	*reg = binary.LittleEndian.Uint32(buf[:])

	return true
}
