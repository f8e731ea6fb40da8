package memory

// NoFrame terminates a frame chain.
const NoFrame = -1

// FrameStatus is the bookkeeping kept for one physical frame.
type FrameStatus struct {
	// Owner is the ID of the process that owns the frame. 0 means free.
	Owner uint32

	// Index is the position of the frame in the allocation it belongs to.
	Index int

	// Next is the frame number of the next frame in the same allocation, or
	// NoFrame if this frame is the last one.
	Next int
}

// IsFree tells if the frame is not owned by any process.
func (f FrameStatus) IsFree() bool {
	return f.Owner == 0
}
