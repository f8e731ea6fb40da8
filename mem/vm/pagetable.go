package vm

import "fmt"

// PID stands for Process ID. PID 0 is reserved and marks free frames.
type PID uint32

// A PageEntry maps a second-level index to a physical frame.
type PageEntry struct {
	VIndex uint64
	Frame  uint64
}

// A PageTable is a second-level table. It maps the second-level indices of
// one segment to physical frames.
//
// Entries are kept in the order they are inserted and are searched linearly.
type PageTable struct {
	entries  []PageEntry
	capacity int
}

// NewPageTable creates an empty page table that can hold up to capacity
// entries.
func NewPageTable(capacity int) *PageTable {
	return &PageTable{
		entries:  make([]PageEntry, 0, capacity),
		capacity: capacity,
	}
}

// Len returns the number of entries.
func (t *PageTable) Len() int {
	return len(t.entries)
}

// Cap returns the maximum number of entries.
func (t *PageTable) Cap() int {
	return t.capacity
}

// Find returns the entry of a second-level index.
func (t *PageTable) Find(vIndex uint64) (PageEntry, bool) {
	for _, e := range t.entries {
		if e.VIndex == vIndex {
			return e, true
		}
	}

	return PageEntry{}, false
}

// Insert maps a second-level index to a frame.
func (t *PageTable) Insert(vIndex, frame uint64) error {
	if _, found := t.Find(vIndex); found {
		panic(fmt.Sprintf("page %d already mapped", vIndex))
	}

	if len(t.entries) >= t.capacity {
		return ErrPageTableFull
	}

	t.entries = append(t.entries, PageEntry{VIndex: vIndex, Frame: frame})

	return nil
}

// Entries returns a copy of the entries in insertion order.
func (t *PageTable) Entries() []PageEntry {
	return append([]PageEntry(nil), t.entries...)
}

// A SegmentEntry maps a first-level index to the page table that owns the
// second level of the segment.
type SegmentEntry struct {
	VIndex uint64
	Pages  *PageTable
}

// A SegmentTable is the first-level table of a process.
type SegmentTable struct {
	entries      []SegmentEntry
	capacity     int
	pageCapacity int
}

// NewSegmentTable creates an empty segment table with room for capacity
// segments. Every page table it creates can hold pageCapacity entries.
func NewSegmentTable(capacity, pageCapacity int) *SegmentTable {
	return &SegmentTable{
		entries:      make([]SegmentEntry, 0, capacity),
		capacity:     capacity,
		pageCapacity: pageCapacity,
	}
}

// Len returns the number of segments.
func (t *SegmentTable) Len() int {
	return len(t.entries)
}

// Cap returns the maximum number of segments.
func (t *SegmentTable) Cap() int {
	return t.capacity
}

// PageCapacity returns the capacity of the page tables of the segments.
func (t *SegmentTable) PageCapacity() int {
	return t.pageCapacity
}

// Find returns the page table of a first-level index.
func (t *SegmentTable) Find(vIndex uint64) (*PageTable, bool) {
	for _, e := range t.entries {
		if e.VIndex == vIndex {
			return e.Pages, true
		}
	}

	return nil, false
}

// Append adds a segment with an empty page table and returns the page table.
func (t *SegmentTable) Append(vIndex uint64) (*PageTable, error) {
	if _, found := t.Find(vIndex); found {
		panic(fmt.Sprintf("segment %d already exists", vIndex))
	}

	if len(t.entries) >= t.capacity {
		return nil, ErrSegmentTableFull
	}

	pages := NewPageTable(t.pageCapacity)
	t.entries = append(t.entries, SegmentEntry{VIndex: vIndex, Pages: pages})

	return pages, nil
}

// Entries returns a copy of the segment entries in insertion order. The page
// tables are shared, not copied.
func (t *SegmentTable) Entries() []SegmentEntry {
	return append([]SegmentEntry(nil), t.entries...)
}

// NumPages counts the pages mapped across all segments.
func (t *SegmentTable) NumPages() int {
	n := 0
	for _, e := range t.entries {
		n += e.Pages.Len()
	}

	return n
}
