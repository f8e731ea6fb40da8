package mmu

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sarchlab/pagedmem/mem/vm"
	"github.com/sarchlab/pagedmem/memory"
)

// ByteInfo is a non-zero byte of physical memory.
type ByteInfo struct {
	Addr  uint64 `json:"addr"`
	Value byte   `json:"value"`
}

// FrameInfo describes an owned frame.
type FrameInfo struct {
	Frame int    `json:"frame"`
	First uint64 `json:"first"`
	Last  uint64 `json:"last"`
	Owner vm.PID `json:"owner"`
	Index int    `json:"index"`
	Next  int    `json:"next"`

	// Data holds the non-zero bytes of the frame in address order.
	Data []ByteInfo `json:"data"`
}

// Frames returns a snapshot of all owned frames in frame order.
func (c *Comp) Frames() []FrameInfo {
	c.lock.RLock()
	defer c.lock.RUnlock()

	var frames []FrameInfo

	for i := 0; i < c.store.NumFrames(); i++ {
		status := c.store.Frame(i)
		if status.IsFree() {
			continue
		}

		frames = append(frames, c.frameInfo(i, status))
	}

	return frames
}

func (c *Comp) frameInfo(frame int, status memory.FrameStatus) FrameInfo {
	first, last := c.store.FrameRange(frame)

	info := FrameInfo{
		Frame: frame,
		First: first,
		Last:  last,
		Owner: vm.PID(status.Owner),
		Index: status.Index,
		Next:  status.Next,
	}

	for i, b := range c.store.FrameData(frame) {
		if b != 0 {
			info.Data = append(info.Data, ByteInfo{
				Addr:  first + uint64(i),
				Value: b,
			})
		}
	}

	return info
}

// Dump writes every owned frame and its non-zero bytes to w. The last frame
// of a chain shows -01 as its successor.
func (c *Comp) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, f := range c.Frames() {
		fmt.Fprintf(bw, "%03d: %05x-%05x - PID: %02d (idx %03d, nxt: %03d)\n",
			f.Frame, f.First, f.Last, f.Owner, f.Index, f.Next)

		for _, b := range f.Data {
			fmt.Fprintf(bw, "\t%05x: %02x\n", b.Addr, b.Value)
		}
	}

	return bw.Flush()
}

// SegmentInfo lists the pages mapped in a segment.
type SegmentInfo struct {
	VIndex uint64         `json:"vindex"`
	Pages  []vm.PageEntry `json:"pages"`
}

// ProcessInfo is a snapshot of the address space of a process.
type ProcessInfo struct {
	PID          vm.PID        `json:"pid"`
	BreakPointer uint64        `json:"break_pointer"`
	Segments     []SegmentInfo `json:"segments"`
}

// Processes returns snapshots of all registered processes, ordered by PID.
func (c *Comp) Processes() []ProcessInfo {
	c.lock.RLock()
	defer c.lock.RUnlock()

	infos := make([]ProcessInfo, 0, len(c.processes))
	for _, pid := range c.processIDs() {
		infos = append(infos, processInfo(c.processes[pid]))
	}

	return infos
}

// ProcessInfo returns the snapshot of a registered process.
func (c *Comp) ProcessInfo(pid vm.PID) (ProcessInfo, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	proc, found := c.processes[pid]
	if !found {
		return ProcessInfo{}, false
	}

	return processInfo(proc), true
}

func processInfo(proc *vm.Process) ProcessInfo {
	info := ProcessInfo{
		PID:          proc.PID,
		BreakPointer: proc.BreakPointer,
	}

	for _, seg := range proc.SegmentTable.Entries() {
		info.Segments = append(info.Segments, SegmentInfo{
			VIndex: seg.VIndex,
			Pages:  seg.Pages.Entries(),
		})
	}

	return info
}

// Stats summarizes the state of the memory and the requests served since the
// last Init.
type Stats struct {
	Name         string `json:"name"`
	MemorySize   uint64 `json:"memory_size"`
	FrameSize    uint64 `json:"frame_size"`
	NumFrames    int    `json:"num_frames"`
	FreeFrames   int    `json:"free_frames"`
	OwnedFrames  int    `json:"owned_frames"`
	NumProcesses int    `json:"num_processes"`

	Allocations       uint64 `json:"allocations"`
	FailedAllocations uint64 `json:"failed_allocations"`
	Frees             uint64 `json:"frees"`
	Reads             uint64 `json:"reads"`
	Writes            uint64 `json:"writes"`
	FailedAccesses    uint64 `json:"failed_accesses"`
}

// Stats returns the current statistics.
func (c *Comp) Stats() Stats {
	c.lock.RLock()
	free := c.store.NumFreeFrames()
	numProcesses := len(c.processes)
	c.lock.RUnlock()

	return Stats{
		Name:         c.name,
		MemorySize:   c.spec.MemorySize,
		FrameSize:    c.spec.FrameSize(),
		NumFrames:    c.spec.NumFrames(),
		FreeFrames:   free,
		OwnedFrames:  c.spec.NumFrames() - free,
		NumProcesses: numProcesses,

		Allocations:       c.stats.allocations.Load(),
		FailedAllocations: c.stats.failedAllocations.Load(),
		Frees:             c.stats.frees.Load(),
		Reads:             c.stats.reads.Load(),
		Writes:            c.stats.writes.Load(),
		FailedAccesses:    c.stats.failedAccesses.Load(),
	}
}
