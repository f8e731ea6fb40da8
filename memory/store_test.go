package memory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagedmem/memory"
)

var _ = Describe("Store", func() {
	var store *memory.Store

	BeforeEach(func() {
		store = memory.NewStore(32, 2)
	})

	It("should start with every frame free", func() {
		Expect(store.NumFrames()).To(Equal(8))
		Expect(store.FrameSize()).To(Equal(uint64(4)))
		Expect(store.NumFreeFrames()).To(Equal(8))

		for i := 0; i < store.NumFrames(); i++ {
			Expect(store.Frame(i).IsFree()).To(BeTrue())
			Expect(store.Frame(i).Next).To(Equal(memory.NoFrame))
		}
	})

	It("should report the address range of a frame", func() {
		first, last := store.FrameRange(3)

		Expect(first).To(Equal(uint64(12)))
		Expect(last).To(Equal(uint64(15)))
	})

	Context("first fit", func() {
		It("should find the first run", func() {
			start, found := store.FindFreeRun(3)

			Expect(found).To(BeTrue())
			Expect(start).To(Equal(0))
		})

		It("should skip runs that are too short", func() {
			store.Claim(1, 1, 9)
			store.Claim(4, 1, 9)

			start, found := store.FindFreeRun(3)

			Expect(found).To(BeTrue())
			Expect(start).To(Equal(5))
		})

		It("should fail when no run is long enough", func() {
			store.Claim(3, 1, 9)
			store.Claim(6, 1, 9)

			_, found := store.FindFreeRun(4)

			Expect(found).To(BeFalse())
		})

		It("should reject empty and oversized requests", func() {
			_, found := store.FindFreeRun(0)
			Expect(found).To(BeFalse())

			_, found = store.FindFreeRun(9)
			Expect(found).To(BeFalse())
		})
	})

	Context("claim", func() {
		It("should chain the claimed frames", func() {
			frames := store.Claim(2, 3, 7)

			Expect(frames).To(Equal([]int{2, 3, 4}))
			Expect(store.Frame(2)).To(Equal(memory.FrameStatus{Owner: 7, Index: 0, Next: 3}))
			Expect(store.Frame(3)).To(Equal(memory.FrameStatus{Owner: 7, Index: 1, Next: 4}))
			Expect(store.Frame(4)).To(Equal(memory.FrameStatus{Owner: 7, Index: 2, Next: memory.NoFrame}))
			Expect(store.NumFreeFrames()).To(Equal(5))
		})

		It("should panic when claiming an owned frame", func() {
			store.Claim(0, 2, 1)

			Expect(func() { store.Claim(1, 2, 2) }).To(Panic())
		})

		It("should panic when claiming for owner 0", func() {
			Expect(func() { store.Claim(0, 1, 0) }).To(Panic())
		})
	})

	It("should keep frame data", func() {
		Expect(store.SetByte(9, 0x11)).To(Succeed())

		Expect(store.FrameData(2)).To(Equal([]byte{0, 0x11, 0, 0}))
	})

	It("should free everything on reset", func() {
		store.Claim(0, 8, 1)
		Expect(store.SetByte(0, 1)).To(Succeed())

		store.Reset()

		Expect(store.NumFreeFrames()).To(Equal(8))
		b, _ := store.ByteAt(0)
		Expect(b).To(Equal(byte(0)))
	})
})
