package mmu

import (
	"github.com/sarchlab/pagedmem/mem/vm"
	"github.com/sarchlab/pagedmem/sim"
)

var (
	// HookPosInit marks that the memory has been reset.
	HookPosInit = &sim.HookPos{Name: "MMU Init"}

	// HookPosAlloc marks the end of an allocation request.
	HookPosAlloc = &sim.HookPos{Name: "MMU Alloc"}

	// HookPosFree marks the end of a free request.
	HookPosFree = &sim.HookPos{Name: "MMU Free"}

	// HookPosRead marks the end of a read request.
	HookPosRead = &sim.HookPos{Name: "MMU Read"}

	// HookPosWrite marks the end of a write request.
	HookPosWrite = &sim.HookPos{Name: "MMU Write"}
)

// AccessDetail is the HookCtx.Detail of every request hook. The Item of the
// hook context is the *vm.Process that issued the request.
type AccessDetail struct {
	PID   vm.PID
	VAddr uint64

	// Size is the requested byte count of an allocation.
	Size uint64

	// Frames lists the physical frames of a successful allocation, in chain
	// order.
	Frames []int

	// Data is the byte read or written.
	Data byte

	Err error
}
