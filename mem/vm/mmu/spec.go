package mmu

import (
	"fmt"

	"github.com/sarchlab/pagedmem/mem/vm"
)

// Spec holds the geometry of the simulated memory. All the components that
// share a memory must agree on it.
type Spec struct {
	// MemorySize is the size of the physical memory in bytes. It must be a
	// multiple of the frame size.
	MemorySize uint64

	// Layout splits virtual addresses. Its offset width also sets the frame
	// size.
	Layout vm.AddressLayout

	// MaxSegments bounds the segment table of every process.
	MaxSegments int

	// MaxPagesPerSegment bounds every second-level table.
	MaxPagesPerSegment int
}

// Defaults returns the geometry of the classic teaching simulator: 1 MiB of
// physical memory, 20-bit virtual addresses, 1 KiB frames, and 32-entry
// tables at both levels.
func Defaults() Spec {
	return Spec{
		MemorySize:         1 << 20,
		Layout:             vm.DefaultAddressLayout,
		MaxSegments:        32,
		MaxPagesPerSegment: 32,
	}
}

// Validate checks that the values are consistent with each other.
func (s Spec) Validate() error {
	if err := s.Layout.Validate(); err != nil {
		return err
	}

	if s.MemorySize == 0 {
		return fmt.Errorf("memory size must be > 0")
	}

	if s.MemorySize%s.FrameSize() != 0 {
		return fmt.Errorf("memory size %d is not a multiple of frame size %d",
			s.MemorySize, s.FrameSize())
	}

	if s.MaxSegments <= 0 ||
		uint64(s.MaxSegments) > uint64(1)<<s.Layout.FirstLevelBits {
		return fmt.Errorf("max segments must be in [1, %d]",
			uint64(1)<<s.Layout.FirstLevelBits)
	}

	if s.MaxPagesPerSegment <= 0 ||
		uint64(s.MaxPagesPerSegment) > uint64(1)<<s.Layout.SecondLevelBits {
		return fmt.Errorf("max pages per segment must be in [1, %d]",
			uint64(1)<<s.Layout.SecondLevelBits)
	}

	return nil
}

// FrameSize returns the size of a physical frame, which equals the page
// size.
func (s Spec) FrameSize() uint64 {
	return s.Layout.PageSize()
}

// NumFrames returns the number of physical frames.
func (s Spec) NumFrames() int {
	return int(s.MemorySize / s.FrameSize())
}
