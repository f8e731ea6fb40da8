package memory

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a physical address falls outside the
// storage.
var ErrOutOfRange = errors.New("memory: physical address beyond storage capacity")

// A Storage keeps the bytes of the simulated physical memory.
//
// The storage manages its bytes in units that have the size of a frame. A
// unit that has never been written is not backed by any host memory and reads
// back as zero.
type Storage struct {
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage of the given capacity, organized in units of
// unitSize bytes.
func NewStorage(capacity, unitSize uint64) *Storage {
	if unitSize == 0 {
		panic("unit size must be positive")
	}

	storage := new(Storage)
	storage.unitSize = unitSize
	storage.capacity = capacity
	storage.data = make(map[uint64][]byte)

	return storage
}

// Capacity returns the number of bytes the storage can hold.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

// UnitSize returns the size of a storage unit.
func (s *Storage) UnitSize() uint64 {
	return s.unitSize
}

// Reset drops all the content so that every byte reads as zero again.
func (s *Storage) Reset() {
	s.data = make(map[uint64][]byte)
}

func (s *Storage) parseAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr % s.unitSize
	baseAddr = addr - inUnitAddr

	return baseAddr, inUnitAddr
}

func (s *Storage) checkRange(addr, length uint64) error {
	if addr >= s.capacity || length > s.capacity-addr {
		return fmt.Errorf("accessing 0x%x (+%d): %w", addr, length, ErrOutOfRange)
	}

	return nil
}

// ByteAt returns the byte stored at the physical address.
func (s *Storage) ByteAt(addr uint64) (byte, error) {
	if err := s.checkRange(addr, 1); err != nil {
		return 0, err
	}

	baseAddr, inUnitAddr := s.parseAddress(addr)

	unit, ok := s.data[baseAddr]
	if !ok {
		return 0, nil
	}

	return unit[inUnitAddr], nil
}

// SetByte stores a byte at the physical address.
func (s *Storage) SetByte(addr uint64, b byte) error {
	if err := s.checkRange(addr, 1); err != nil {
		return err
	}

	baseAddr, inUnitAddr := s.parseAddress(addr)

	unit, ok := s.data[baseAddr]
	if !ok {
		if b == 0 {
			return nil
		}

		unit = make([]byte, s.unitSize)
		s.data[baseAddr] = unit
	}

	unit[inUnitAddr] = b

	return nil
}

// Read copies length bytes starting from the physical address.
func (s *Storage) Read(addr, length uint64) ([]byte, error) {
	if err := s.checkRange(addr, length); err != nil {
		return nil, err
	}

	res := make([]byte, length)
	currAddr := addr
	dataOffset := uint64(0)

	for dataOffset < length {
		baseAddr, inUnitAddr := s.parseAddress(currAddr)
		lenToRead := min(s.unitSize-inUnitAddr, length-dataOffset)

		if unit, ok := s.data[baseAddr]; ok {
			copy(res[dataOffset:dataOffset+lenToRead],
				unit[inUnitAddr:inUnitAddr+lenToRead])
		}

		dataOffset += lenToRead
		currAddr += lenToRead
	}

	return res, nil
}
