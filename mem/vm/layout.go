package vm

import "fmt"

// An AddressLayout splits a virtual address into, from the most significant
// bits down, a first-level index, a second-level index, and an offset.
type AddressLayout struct {
	OffsetBits      uint64
	FirstLevelBits  uint64
	SecondLevelBits uint64
}

// DefaultAddressLayout is the 20-bit layout with 1 KiB pages and 32-entry
// tables at both levels.
var DefaultAddressLayout = AddressLayout{
	OffsetBits:      10,
	FirstLevelBits:  5,
	SecondLevelBits: 5,
}

// Validate checks that the layout describes a usable address.
func (l AddressLayout) Validate() error {
	if l.OffsetBits == 0 {
		return fmt.Errorf("offset bits must be > 0")
	}

	if l.FirstLevelBits == 0 || l.SecondLevelBits == 0 {
		return fmt.Errorf("index bits must be > 0")
	}

	if l.AddressBits() > 63 {
		return fmt.Errorf("address width %d exceeds 63 bits", l.AddressBits())
	}

	return nil
}

// AddressBits returns the width of a virtual address.
func (l AddressLayout) AddressBits() uint64 {
	return l.OffsetBits + l.FirstLevelBits + l.SecondLevelBits
}

// AddressSpaceSize returns the number of addressable virtual bytes.
func (l AddressLayout) AddressSpaceSize() uint64 {
	return uint64(1) << l.AddressBits()
}

// PageSize returns the number of bytes covered by one page.
func (l AddressLayout) PageSize() uint64 {
	return uint64(1) << l.OffsetBits
}

// Offset returns the offset of the address within its page.
func (l AddressLayout) Offset(vAddr uint64) uint64 {
	return vAddr & (l.PageSize() - 1)
}

// FirstLevel returns the first-level index of the address. Bits above the
// address width stay in the index, so such addresses never match a segment.
func (l AddressLayout) FirstLevel(vAddr uint64) uint64 {
	return vAddr >> (l.OffsetBits + l.SecondLevelBits)
}

// SecondLevel returns the second-level index of the address.
func (l AddressLayout) SecondLevel(vAddr uint64) uint64 {
	mask := uint64(1)<<l.SecondLevelBits - 1
	return (vAddr >> l.OffsetBits) & mask
}

// Compose builds a virtual address from its three parts.
func (l AddressLayout) Compose(first, second, offset uint64) uint64 {
	return first<<(l.OffsetBits+l.SecondLevelBits) |
		second<<l.OffsetBits |
		offset
}

// PhysicalAddress builds a physical address from a frame number and an
// offset.
func (l AddressLayout) PhysicalAddress(frame, offset uint64) uint64 {
	return frame<<l.OffsetBits | offset
}
