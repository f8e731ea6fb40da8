package memory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagedmem/memory"
)

var _ = Describe("Storage", func() {
	var storage *memory.Storage

	BeforeEach(func() {
		storage = memory.NewStorage(64, 16)
	})

	It("should read zero from untouched units", func() {
		b, err := storage.ByteAt(17)

		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(byte(0)))
	})

	It("should read and write single bytes", func() {
		Expect(storage.SetByte(5, 0xAB)).To(Succeed())

		b, err := storage.ByteAt(5)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(byte(0xAB)))
	})

	It("should read a range in a single unit", func() {
		for i, b := range []byte{1, 2, 3, 4} {
			Expect(storage.SetByte(uint64(i), b)).To(Succeed())
		}

		res, _ := storage.Read(0, 2)
		Expect(res).To(Equal([]byte{1, 2}))

		res, _ = storage.Read(1, 2)
		Expect(res).To(Equal([]byte{2, 3}))
	})

	It("should read a range across units", func() {
		for i, b := range []byte{1, 2, 3, 4} {
			Expect(storage.SetByte(14+uint64(i), b)).To(Succeed())
		}

		res, err := storage.Read(14, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should return error if accessing over the capacity", func() {
		err := storage.SetByte(64, 1)
		Expect(err).To(MatchError(memory.ErrOutOfRange))

		_, err = storage.ByteAt(64)
		Expect(err).To(MatchError(memory.ErrOutOfRange))

		_, err = storage.Read(60, 8)
		Expect(err).To(MatchError(memory.ErrOutOfRange))
	})

	It("should clear everything on reset", func() {
		Expect(storage.SetByte(40, 7)).To(Succeed())

		storage.Reset()

		b, _ := storage.ByteAt(40)
		Expect(b).To(Equal(byte(0)))
	})
})
