package workload

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/sarchlab/pagedmem/mem/vm"
	"github.com/sarchlab/pagedmem/mem/vm/mmu"
)

// ErrDataMismatch is returned by an agent that reads back a byte different
// from the one it wrote.
var ErrDataMismatch = errors.New("workload: read does not match write")

// An Agent plays one process that issues random requests and checks that
// every byte it reads back is the byte it last wrote there.
type Agent struct {
	Manager mmu.Manager
	Process *vm.Process

	MaxAllocSize uint64
	AllocLeft    int
	WriteLeft    int
	ReadLeft     int

	// KnownMemValue maps the virtual addresses written so far to their
	// values.
	KnownMemValue map[uint64]byte

	knownAddrs []uint64
	rng        *rand.Rand
}

// NewAgent creates an agent for a process. MaxAllocSize must be positive.
func NewAgent(manager mmu.Manager, proc *vm.Process, seed int64) *Agent {
	return &Agent{
		Manager:       manager,
		Process:       proc,
		MaxAllocSize:  4096,
		AllocLeft:     16,
		WriteLeft:     1000,
		ReadLeft:      1000,
		KnownMemValue: make(map[uint64]byte),
		rng:           rand.New(rand.NewSource(seed)),
	}
}

// Run issues requests until all the budgets are used. It stops at the first
// mismatch.
func (a *Agent) Run(ctx context.Context) error {
	for a.AllocLeft > 0 || a.WriteLeft > 0 || a.ReadLeft > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error

		switch {
		case a.shouldAlloc():
			a.doAlloc()
		case a.shouldRead():
			err = a.doRead()
		case a.WriteLeft > 0 && a.Process.BreakPointer > 0:
			err = a.doWrite()
		default:
			return nil
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (a *Agent) shouldAlloc() bool {
	if a.AllocLeft == 0 {
		return false
	}

	if a.Process.BreakPointer == 0 || (a.WriteLeft == 0 && a.ReadLeft == 0) {
		return true
	}

	return a.rng.Float64() < 0.05
}

func (a *Agent) shouldRead() bool {
	if len(a.KnownMemValue) == 0 || a.ReadLeft == 0 {
		return false
	}

	if a.WriteLeft == 0 || a.Process.BreakPointer == 0 {
		return true
	}

	return a.rng.Float64() > 0.5
}

func (a *Agent) doAlloc() {
	a.AllocLeft--

	maxSize := min(a.MaxAllocSize, math.MaxInt64)
	size := uint64(a.rng.Int63n(int64(maxSize))) + 1

	// Running out of frames or table entries is expected under load.
	_, _ = a.Manager.Alloc(size, a.Process)
}

func (a *Agent) doWrite() error {
	a.WriteLeft--

	addr := uint64(a.rng.Int63n(int64(a.Process.BreakPointer)))
	data := byte(a.rng.Intn(256))

	if err := a.Manager.Write(addr, a.Process, data); err != nil {
		return err
	}

	if _, known := a.KnownMemValue[addr]; !known {
		a.knownAddrs = append(a.knownAddrs, addr)
	}

	a.KnownMemValue[addr] = data

	return nil
}

func (a *Agent) doRead() error {
	a.ReadLeft--

	addr := a.knownAddrs[a.rng.Intn(len(a.knownAddrs))]

	data, err := a.Manager.Read(addr, a.Process)
	if err != nil {
		return err
	}

	if data != a.KnownMemValue[addr] {
		return fmt.Errorf("process %d at 0x%x: read 0x%02x, wrote 0x%02x: %w",
			a.Process.PID, addr, data, a.KnownMemValue[addr], ErrDataMismatch)
	}

	return nil
}
