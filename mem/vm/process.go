package vm

// A Process is the address-space descriptor of a simulated process.
//
// The process subsystem owns the descriptor. The memory manager only moves
// BreakPointer forward and extends SegmentTable, and only while holding its
// allocation lock.
type Process struct {
	PID PID

	// BreakPointer is the next unused virtual address. It never decreases.
	BreakPointer uint64

	SegmentTable *SegmentTable
}

// NewProcess creates a process with an empty address space.
func NewProcess(pid PID, maxSegments, maxPagesPerSegment int) *Process {
	return &Process{
		PID:          pid,
		SegmentTable: NewSegmentTable(maxSegments, maxPagesPerSegment),
	}
}
