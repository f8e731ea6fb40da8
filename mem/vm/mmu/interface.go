package mmu

import (
	"io"

	"github.com/sarchlab/pagedmem/mem/vm"
)

// A Manager serves the memory requests of processes.
type Manager interface {
	NewProcess(pid vm.PID) (*vm.Process, error)
	Process(pid vm.PID) (*vm.Process, bool)
	Alloc(size uint64, proc *vm.Process) (uint64, error)
	Free(vAddr uint64, proc *vm.Process) error
	Read(vAddr uint64, proc *vm.Process) (byte, error)
	Write(vAddr uint64, proc *vm.Process, data byte) error
	Dump(w io.Writer) error
	Stats() Stats
}

var _ Manager = (*Comp)(nil)
