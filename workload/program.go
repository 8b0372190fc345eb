// Package workload provides canned access programs and the driver that feeds
// them to a core.
package workload

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/sarchlab/splitbus/dsp"
	"github.com/sarchlab/splitbus/initiator"
)

// A Program is an ordered list of requests.
type Program struct {
	Name  string
	Steps []initiator.Request
}

func word(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

// Registers writes 0 to 4 to the five DSP registers at base and reads them
// back.
func Registers(base uint64) Program {
	p := Program{Name: "registers"}

	for i := uint64(0); i < 5; i++ {
		p.Steps = append(p.Steps,
			initiator.WriteRequest(base+i*4, word(uint32(i))))
	}

	for i := uint64(0); i < 5; i++ {
		p.Steps = append(p.Steps, initiator.ReadRequest(base+i*4, 4))
	}

	return p
}

// Scan reads every word in [base, base+size).
func Scan(base, size uint64) Program {
	p := Program{Name: "scan"}

	for addr := base; addr+4 <= base+size; addr += 4 {
		p.Steps = append(p.Steps, initiator.ReadRequest(addr, 4))
	}

	return p
}

// Compute programs the DSP at base to add a and b, then reads the status and
// the result.
func Compute(base uint64, a, b uint32) Program {
	return Program{
		Name: "compute",
		Steps: []initiator.Request{
			initiator.WriteRequest(base+dsp.RegOperand1, word(a)),
			initiator.WriteRequest(base+dsp.RegOperand2, word(b)),
			initiator.WriteRequest(base+dsp.RegCommand, word(dsp.CmdAdd)),
			initiator.ReadRequest(base+dsp.RegStatus, 4),
			initiator.ReadRequest(base+dsp.RegResult, 4),
		},
	}
}

type programFactory func(base, size uint64) Program

var programs = map[string]programFactory{
	"registers": func(base, _ uint64) Program { return Registers(base) },
	"scan":      Scan,
	"compute":   func(base, _ uint64) Program { return Compute(base, 7, 5) },
}

// ProgramNames lists the programs ByName knows.
func ProgramNames() []string {
	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ByName creates the named program over the region [base, base+size).
func ByName(name string, base, size uint64) (Program, error) {
	f, ok := programs[name]
	if !ok {
		return Program{}, fmt.Errorf("unknown program %q", name)
	}

	return f(base, size), nil
}
