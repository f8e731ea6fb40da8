package mmu

import (
	"fmt"
	"log"

	"github.com/sarchlab/pagedmem/mem/vm"
	"github.com/sarchlab/pagedmem/sim"
)

// Alloc reserves size bytes of virtual memory for the process and backs them
// with a contiguous run of physical frames chosen by first fit. It returns the
// virtual base address of the region.
//
// A failed request changes nothing: no frame is claimed, the break pointer
// stays, and the tables are not extended.
func (c *Comp) Alloc(size uint64, proc *vm.Process) (uint64, error) {
	vAddr, frames, err := c.alloc(size, proc)

	if err != nil {
		c.stats.failedAllocations.Add(1)
		c.logger.Warn("allocation failed",
			"pid", proc.PID, "size", size, "error", err)
	} else {
		c.stats.allocations.Add(1)
		c.logger.Debug("allocated",
			"pid", proc.PID, "size", size, "vaddr", vAddr, "frames", frames)
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosAlloc,
		Item:   proc,
		Detail: AccessDetail{
			PID:    proc.PID,
			VAddr:  vAddr,
			Size:   size,
			Frames: frames,
			Err:    err,
		},
	})

	return vAddr, err
}

func (c *Comp) alloc(size uint64, proc *vm.Process) (uint64, []int, error) {
	if proc.PID == 0 {
		return 0, nil, fmt.Errorf("allocating %d bytes: %w", size, vm.ErrInvalidPID)
	}

	if size == 0 {
		return 0, nil, fmt.Errorf("allocating for process %d: %w",
			proc.PID, vm.ErrInvalidSize)
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	numFrames, ok := c.numFramesFor(size)
	if !ok {
		return 0, nil, fmt.Errorf("allocating %d bytes for process %d: %w",
			size, proc.PID, vm.ErrOutOfPhysicalMemory)
	}

	start, found := c.store.FindFreeRun(numFrames)
	if !found {
		return 0, nil, fmt.Errorf("allocating %d bytes for process %d: %w",
			size, proc.PID, vm.ErrOutOfPhysicalMemory)
	}

	base := proc.BreakPointer
	if err := c.checkTableCapacity(proc, base, numFrames); err != nil {
		return 0, nil, fmt.Errorf("allocating %d bytes for process %d: %w",
			size, proc.PID, err)
	}

	proc.BreakPointer += uint64(numFrames) * c.spec.FrameSize()

	frames := c.store.Claim(start, numFrames, uint32(proc.PID))
	for i, frame := range frames {
		vAddr := base + uint64(i)*c.spec.FrameSize()
		c.mapPage(proc, vAddr, frame)
	}

	return base, frames, nil
}

// numFramesFor rounds size up to whole frames. It reports false if the
// request can never fit in the physical memory.
func (c *Comp) numFramesFor(size uint64) (int, bool) {
	frameSize := c.spec.FrameSize()

	n := size / frameSize
	if size%frameSize != 0 {
		n++
	}

	if n > uint64(c.store.NumFrames()) {
		return 0, false
	}

	return int(n), true
}

// checkTableCapacity makes sure that the tables of the process can map
// numFrames pages starting at base, before anything is committed.
func (c *Comp) checkTableCapacity(
	proc *vm.Process,
	base uint64,
	numFrames int,
) error {
	layout := c.spec.Layout
	segTable := proc.SegmentTable

	newPages := make(map[uint64]int)
	newSegments := 0

	for i := 0; i < numFrames; i++ {
		vAddr := base + uint64(i)*c.spec.FrameSize()
		first := layout.FirstLevel(vAddr)
		second := layout.SecondLevel(vAddr)

		pages, found := segTable.Find(first)
		if !found {
			if _, planned := newPages[first]; !planned {
				newSegments++
				if segTable.Len()+newSegments > segTable.Cap() {
					return vm.ErrSegmentTableFull
				}
			}

			newPages[first]++
			if newPages[first] > segTable.PageCapacity() {
				return vm.ErrPageTableFull
			}

			continue
		}

		if _, mapped := pages.Find(second); mapped {
			continue
		}

		newPages[first]++
		if pages.Len()+newPages[first] > pages.Cap() {
			return vm.ErrPageTableFull
		}
	}

	return nil
}

// mapPage points the page that holds vAddr to the frame, creating the segment
// if needed. Capacity has been checked, so running out of room here is a bug.
func (c *Comp) mapPage(proc *vm.Process, vAddr uint64, frame int) {
	layout := c.spec.Layout
	first := layout.FirstLevel(vAddr)
	second := layout.SecondLevel(vAddr)

	pages, found := proc.SegmentTable.Find(first)
	if !found {
		var err error

		pages, err = proc.SegmentTable.Append(first)
		if err != nil {
			log.Panicf("mapping 0x%x of process %d: %v", vAddr, proc.PID, err)
		}
	}

	err := pages.Insert(second, uint64(frame))
	if err != nil {
		log.Panicf("mapping 0x%x of process %d: %v", vAddr, proc.PID, err)
	}
}

// Free does not reclaim anything. Memory stays owned for the lifetime of the
// process, so every call returns vm.ErrFreeNotSupported.
func (c *Comp) Free(vAddr uint64, proc *vm.Process) error {
	err := fmt.Errorf("freeing 0x%x of process %d: %w",
		vAddr, proc.PID, vm.ErrFreeNotSupported)

	c.stats.frees.Add(1)

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosFree,
		Item:   proc,
		Detail: AccessDetail{PID: proc.PID, VAddr: vAddr, Err: err},
	})

	return err
}
