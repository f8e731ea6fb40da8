// Package memory models the physical memory of the simulated machine: a
// fixed-size byte arena and a status table with one entry per frame.
package memory

import (
	"fmt"
	"log"
)

// A Store is the physical memory shared by all the processes. It pairs the
// byte arena with the frame status table, both indexed by physical frame
// number.
//
// A Store is not safe for concurrent use. The memory manager that owns it
// serializes the accesses.
type Store struct {
	storage       *Storage
	frames        []FrameStatus
	log2FrameSize uint64
}

// NewStore creates a store of capacity bytes split into frames of
// 1<<log2FrameSize bytes. All frames start free and all bytes start zero.
func NewStore(capacity, log2FrameSize uint64) *Store {
	frameSize := uint64(1) << log2FrameSize
	if capacity%frameSize != 0 {
		log.Panicf("capacity %d is not a multiple of frame size %d",
			capacity, frameSize)
	}

	s := &Store{
		storage:       NewStorage(capacity, frameSize),
		frames:        make([]FrameStatus, capacity/frameSize),
		log2FrameSize: log2FrameSize,
	}
	s.resetFrames()

	return s
}

// Reset marks every frame free and clears every byte.
func (s *Store) Reset() {
	s.storage.Reset()
	s.resetFrames()
}

func (s *Store) resetFrames() {
	for i := range s.frames {
		s.frames[i] = FrameStatus{Next: NoFrame}
	}
}

// NumFrames returns the number of physical frames.
func (s *Store) NumFrames() int {
	return len(s.frames)
}

// FrameSize returns the size of a frame in bytes.
func (s *Store) FrameSize() uint64 {
	return uint64(1) << s.log2FrameSize
}

// Frame returns the status of a frame.
func (s *Store) Frame(frame int) FrameStatus {
	return s.frames[frame]
}

// FrameRange returns the first and the last physical address of a frame.
func (s *Store) FrameRange(frame int) (first, last uint64) {
	first = uint64(frame) << s.log2FrameSize
	last = first + s.FrameSize() - 1

	return first, last
}

// NumFreeFrames counts the frames that are not owned.
func (s *Store) NumFreeFrames() int {
	count := 0

	for _, f := range s.frames {
		if f.IsFree() {
			count++
		}
	}

	return count
}

// FindFreeRun scans the frame table from frame 0 upward and returns the
// first frame of the first run of n consecutive free frames.
func (s *Store) FindFreeRun(n int) (start int, found bool) {
	if n <= 0 || n > len(s.frames) {
		return 0, false
	}

	count := 0
	for i, f := range s.frames {
		if !f.IsFree() {
			count = 0
			continue
		}

		count++
		if count == n {
			return i - n + 1, true
		}
	}

	return 0, false
}

// Claim gives the n frames starting at start to owner and links them into a
// single chain. It returns the claimed frame numbers in chain order.
func (s *Store) Claim(start, n int, owner uint32) []int {
	if owner == 0 {
		panic("cannot claim frames for owner 0")
	}

	for i := start; i < start+n; i++ {
		if !s.frames[i].IsFree() {
			panic(fmt.Sprintf("frame %d is already owned by %d",
				i, s.frames[i].Owner))
		}
	}

	claimed := make([]int, 0, n)
	for i := start; i < start+n; i++ {
		next := i + 1
		if i == start+n-1 {
			next = NoFrame
		}

		s.frames[i] = FrameStatus{
			Owner: owner,
			Index: i - start,
			Next:  next,
		}
		claimed = append(claimed, i)
	}

	return claimed
}

// ByteAt reads one byte of physical memory.
func (s *Store) ByteAt(pAddr uint64) (byte, error) {
	return s.storage.ByteAt(pAddr)
}

// SetByte writes one byte of physical memory.
func (s *Store) SetByte(pAddr uint64, b byte) error {
	return s.storage.SetByte(pAddr, b)
}

// FrameData returns a copy of the bytes held by a frame.
func (s *Store) FrameData(frame int) []byte {
	first, _ := s.FrameRange(frame)

	data, err := s.storage.Read(first, s.FrameSize())
	if err != nil {
		panic(err)
	}

	return data
}
