package vm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PageTable", func() {
	var table *PageTable

	BeforeEach(func() {
		table = NewPageTable(2)
	})

	It("should find inserted entries", func() {
		Expect(table.Insert(3, 10)).To(Succeed())
		Expect(table.Insert(1, 11)).To(Succeed())

		e, found := table.Find(1)
		Expect(found).To(BeTrue())
		Expect(e.Frame).To(Equal(uint64(11)))
		Expect(table.Entries()).To(Equal([]PageEntry{
			{VIndex: 3, Frame: 10},
			{VIndex: 1, Frame: 11},
		}))
	})

	It("should miss unknown indices", func() {
		_, found := table.Find(0)

		Expect(found).To(BeFalse())
	})

	It("should stop at capacity", func() {
		Expect(table.Insert(0, 0)).To(Succeed())
		Expect(table.Insert(1, 1)).To(Succeed())

		Expect(table.Insert(2, 2)).To(MatchError(ErrPageTableFull))
		Expect(table.Len()).To(Equal(2))
	})

	It("should panic on remapping a page", func() {
		Expect(table.Insert(0, 0)).To(Succeed())

		Expect(func() { _ = table.Insert(0, 1) }).To(Panic())
	})
})

var _ = Describe("SegmentTable", func() {
	var table *SegmentTable

	BeforeEach(func() {
		table = NewSegmentTable(2, 4)
	})

	It("should create page tables with the configured capacity", func() {
		pages, err := table.Append(7)

		Expect(err).NotTo(HaveOccurred())
		Expect(pages.Cap()).To(Equal(4))

		found, ok := table.Find(7)
		Expect(ok).To(BeTrue())
		Expect(found).To(BeIdenticalTo(pages))
	})

	It("should stop at capacity", func() {
		_, _ = table.Append(0)
		_, _ = table.Append(1)

		_, err := table.Append(2)

		Expect(err).To(MatchError(ErrSegmentTableFull))
		Expect(table.Len()).To(Equal(2))
	})

	It("should count pages across segments", func() {
		a, _ := table.Append(0)
		b, _ := table.Append(1)
		Expect(a.Insert(0, 0)).To(Succeed())
		Expect(b.Insert(0, 1)).To(Succeed())
		Expect(b.Insert(1, 2)).To(Succeed())

		Expect(table.NumPages()).To(Equal(3))
	})
})
