package workload

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagedmem/mem/vm"
)

var _ = Describe("Parse", func() {
	It("should parse every operation", func() {
		script, err := Parse(strings.NewReader(`
# setup
1 alloc 6
1 write 0x0 0xab   # first byte
1 read 0
1 free 0x4
dump
`))

		Expect(err).NotTo(HaveOccurred())
		Expect(script.Instructions).To(Equal([]Instruction{
			{Line: 3, Op: OpAlloc, PID: 1, Size: 6},
			{Line: 4, Op: OpWrite, PID: 1, Addr: 0, Data: 0xab},
			{Line: 5, Op: OpRead, PID: 1, Addr: 0},
			{Line: 6, Op: OpFree, PID: 1, Addr: 4},
			{Line: 7, Op: OpDump},
		}))
	})

	It("should accept sizes with units", func() {
		script, err := Parse(strings.NewReader("2 alloc 4KiB\n3 alloc 1 KiB\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(script.Instructions[0].Size).To(Equal(uint64(4096)))
		Expect(script.Instructions[1].Size).To(Equal(uint64(1024)))
	})

	It("should ignore case in operation names", func() {
		script, err := Parse(strings.NewReader("1 ALLOC 8\nDUMP\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(script.Instructions[0].Op).To(Equal(OpAlloc))
		Expect(script.Instructions[1].Op).To(Equal(OpDump))
	})

	DescribeTable("should report the line of a bad instruction",
		func(text string) {
			_, err := Parse(strings.NewReader("1 alloc 4\n" + text + "\n"))

			Expect(err).To(MatchError(ErrSyntax))
			Expect(err.Error()).To(HavePrefix("line 2: "))
		},
		Entry("missing op", "1"),
		Entry("pid 0", "0 alloc 4"),
		Entry("bad pid", "x alloc 4"),
		Entry("unknown op", "1 jump 4"),
		Entry("zero size", "1 alloc 0"),
		Entry("bad size", "1 alloc lots"),
		Entry("missing address", "1 read"),
		Entry("bad address", "1 read zz"),
		Entry("missing byte", "1 write 0x10"),
		Entry("byte too large", "1 write 0x10 256"),
	)

	It("should list PIDs in order of first use", func() {
		script, err := Parse(strings.NewReader(
			"3 alloc 4\ndump\n1 alloc 4\n3 read 0\n2 alloc 4\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(script.PIDs()).To(Equal([]vm.PID{3, 1, 2}))
	})

	It("should print instructions like the input", func() {
		Expect(Instruction{Op: OpAlloc, PID: 1, Size: 6}.String()).
			To(Equal("1 alloc 6"))
		Expect(Instruction{Op: OpRead, PID: 2, Addr: 0x10}.String()).
			To(Equal("2 read 0x10"))
		Expect(Instruction{Op: OpWrite, PID: 2, Addr: 0x10, Data: 7}.String()).
			To(Equal("2 write 0x10 0x07"))
		Expect(Instruction{Op: OpDump}.String()).To(Equal("dump"))
		Expect(Op(9).String()).To(Equal("Op(9)"))
	})
})
