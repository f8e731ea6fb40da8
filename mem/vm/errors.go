package vm

import "errors"

var (
	// ErrUnmappedSegment indicates that no segment entry matches the
	// first-level index of an address.
	ErrUnmappedSegment = errors.New("vm: unmapped segment")

	// ErrUnmappedPage indicates that the segment exists but has no entry for
	// the second-level index of an address.
	ErrUnmappedPage = errors.New("vm: unmapped page")

	// ErrOutOfPhysicalMemory indicates that no run of free frames is long
	// enough for the request. Nothing changed; the request can be retried.
	ErrOutOfPhysicalMemory = errors.New("vm: out of physical memory")

	// ErrSegmentTableFull indicates that the request needs more segments than
	// the segment table can hold.
	ErrSegmentTableFull = errors.New("vm: segment table full")

	// ErrPageTableFull indicates that the request needs more pages in a
	// segment than its page table can hold.
	ErrPageTableFull = errors.New("vm: page table full")

	// ErrInvalidSize indicates an allocation request of zero bytes.
	ErrInvalidSize = errors.New("vm: allocation size must be positive")

	// ErrInvalidPID indicates a process ID of 0, which marks free frames.
	ErrInvalidPID = errors.New("vm: invalid process ID")

	// ErrDuplicatePID indicates that a process with the same ID exists.
	ErrDuplicatePID = errors.New("vm: duplicate process ID")

	// ErrFreeNotSupported is returned by every free request. Memory is never
	// reclaimed.
	ErrFreeNotSupported = errors.New("vm: free has no effect")
)
