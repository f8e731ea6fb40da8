// Package workload parses and runs scripts of memory requests issued by
// simulated processes.
package workload

import (
	"fmt"

	"github.com/sarchlab/pagedmem/mem/vm"
)

// Op is the kind of an instruction.
type Op int

// All the supported operations.
const (
	OpAlloc Op = iota
	OpFree
	OpRead
	OpWrite
	OpDump
)

var opNames = map[Op]string{
	OpAlloc: "alloc",
	OpFree:  "free",
	OpRead:  "read",
	OpWrite: "write",
	OpDump:  "dump",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}

	return fmt.Sprintf("Op(%d)", int(o))
}

// An Instruction is one line of a script.
type Instruction struct {
	Line int
	Op   Op

	// PID is 0 for dump.
	PID vm.PID

	// Size is the byte count of an alloc.
	Size uint64

	// Addr is the virtual address of a free, read, or write.
	Addr uint64

	// Data is the byte to write.
	Data byte
}

func (i Instruction) String() string {
	switch i.Op {
	case OpAlloc:
		return fmt.Sprintf("%d alloc %d", i.PID, i.Size)
	case OpFree, OpRead:
		return fmt.Sprintf("%d %s 0x%x", i.PID, i.Op, i.Addr)
	case OpWrite:
		return fmt.Sprintf("%d write 0x%x 0x%02x", i.PID, i.Addr, i.Data)
	default:
		return i.Op.String()
	}
}

// A Script is a parsed list of instructions.
type Script struct {
	Instructions []Instruction
}

// PIDs returns the distinct process IDs of the script in order of first use.
func (s Script) PIDs() []vm.PID {
	var pids []vm.PID

	seen := make(map[vm.PID]bool)
	for _, inst := range s.Instructions {
		if inst.Op == OpDump || seen[inst.PID] {
			continue
		}

		seen[inst.PID] = true
		pids = append(pids, inst.PID)
	}

	return pids
}
