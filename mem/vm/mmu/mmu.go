// Package mmu implements the memory manager that all the simulated processes
// share: it allocates physical frames, builds the two-level tables of the
// processes, and reads and writes bytes through address translation.
package mmu

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sarchlab/pagedmem/mem/vm"
	"github.com/sarchlab/pagedmem/mem/vm/addresstranslator"
	"github.com/sarchlab/pagedmem/memory"
	"github.com/sarchlab/pagedmem/sim"
)

type counters struct {
	allocations       atomic.Uint64
	failedAllocations atomic.Uint64
	frees             atomic.Uint64
	reads             atomic.Uint64
	writes            atomic.Uint64
	failedAccesses    atomic.Uint64
}

func (s *counters) reset() {
	s.allocations.Store(0)
	s.failedAllocations.Store(0)
	s.frees.Store(0)
	s.reads.Store(0)
	s.writes.Store(0)
	s.failedAccesses.Store(0)
}

// Comp is the default mmu implementation.
//
// Concurrency: an allocation holds the exclusive side of lock from the
// free-frame scan until the tables are extended, so at most one allocation
// commits at a time. Writes take the exclusive side as well. Reads and
// diagnostics take the shared side, so they never see a half-built table.
type Comp struct {
	sim.HookableBase

	name   string
	spec   Spec
	logger *slog.Logger

	lock       sync.RWMutex
	store      *memory.Store
	translator *addresstranslator.Translator
	processes  map[vm.PID]*vm.Process

	stats counters
}

// Name returns the name of the MMU.
func (c *Comp) Name() string {
	return c.name
}

// Spec returns the geometry of the memory.
func (c *Comp) Spec() Spec {
	return c.spec
}

// Init frees every frame, zeroes the memory, and forgets the registered
// processes. Process descriptors created before Init must not be used after
// it.
func (c *Comp) Init() {
	c.lock.Lock()
	c.store.Reset()
	c.processes = make(map[vm.PID]*vm.Process)
	c.stats.reset()
	c.lock.Unlock()

	c.logger.Info("memory initialized",
		"memory_size", c.spec.MemorySize,
		"frame_size", c.spec.FrameSize(),
		"num_frames", c.spec.NumFrames())

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosInit,
	})
}

// NewProcess creates a process with an empty address space sized by Spec
// and registers it so that it shows up in diagnostics.
func (c *Comp) NewProcess(pid vm.PID) (*vm.Process, error) {
	if pid == 0 {
		return nil, fmt.Errorf("creating process: %w", vm.ErrInvalidPID)
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if _, found := c.processes[pid]; found {
		return nil, fmt.Errorf("creating process %d: %w", pid, vm.ErrDuplicatePID)
	}

	proc := vm.NewProcess(pid, c.spec.MaxSegments, c.spec.MaxPagesPerSegment)
	c.processes[pid] = proc

	return proc, nil
}

// Process returns a registered process.
func (c *Comp) Process(pid vm.PID) (*vm.Process, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	proc, found := c.processes[pid]

	return proc, found
}

// processIDs returns the registered PIDs in increasing order. The caller must
// hold the lock.
func (c *Comp) processIDs() []vm.PID {
	pids := make([]vm.PID, 0, len(c.processes))
	for pid := range c.processes {
		pids = append(pids, pid)
	}

	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })

	return pids
}
