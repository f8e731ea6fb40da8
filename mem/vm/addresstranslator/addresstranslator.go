// Package addresstranslator walks the two-level tables of a process to turn
// virtual addresses into physical addresses.
package addresstranslator

import (
	"fmt"

	"github.com/sarchlab/pagedmem/mem/vm"
)

// A Translator converts virtual addresses to physical addresses. It never
// changes the tables it walks.
type Translator struct {
	layout vm.AddressLayout
}

// Layout returns the address layout that the translator uses.
func (t *Translator) Layout() vm.AddressLayout {
	return t.layout
}

// Translate looks up the virtual address in the segment table. It returns
// vm.ErrUnmappedSegment or vm.ErrUnmappedPage, wrapped, on a miss.
func (t *Translator) Translate(
	vAddr uint64,
	segTable *vm.SegmentTable,
) (uint64, error) {
	first := t.layout.FirstLevel(vAddr)
	second := t.layout.SecondLevel(vAddr)
	offset := t.layout.Offset(vAddr)

	pages, found := segTable.Find(first)
	if !found {
		return 0, fmt.Errorf("translating 0x%x: segment %d: %w",
			vAddr, first, vm.ErrUnmappedSegment)
	}

	entry, found := pages.Find(second)
	if !found {
		return 0, fmt.Errorf("translating 0x%x: page %d of segment %d: %w",
			vAddr, second, first, vm.ErrUnmappedPage)
	}

	return t.layout.PhysicalAddress(entry.Frame, offset), nil
}

// TranslateProcess translates an address of the process.
func (t *Translator) TranslateProcess(
	vAddr uint64,
	proc *vm.Process,
) (uint64, error) {
	return t.Translate(vAddr, proc.SegmentTable)
}
