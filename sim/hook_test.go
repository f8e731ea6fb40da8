package sim

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HookableBase", func() {
	var (
		base *HookableBase
		pos  = &HookPos{Name: "Test"}
	)

	BeforeEach(func() {
		base = &HookableBase{}
	})

	It("should invoke hooks in registration order", func() {
		var calls []string
		base.AcceptHook(HookFunc(func(ctx HookCtx) {
			calls = append(calls, "a:"+ctx.Pos.Name)
		}))
		base.AcceptHook(HookFunc(func(ctx HookCtx) {
			calls = append(calls, "b:"+ctx.Detail.(string))
		}))

		base.InvokeHook(HookCtx{Pos: pos, Detail: "x"})

		Expect(base.NumHooks()).To(Equal(2))
		Expect(calls).To(Equal([]string{"a:Test", "b:x"}))
	})

	It("should allow concurrent invocation", func() {
		var (
			lock  sync.Mutex
			count int
			wg    sync.WaitGroup
		)
		base.AcceptHook(HookFunc(func(HookCtx) {
			lock.Lock()
			count++
			lock.Unlock()
		}))

		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				base.InvokeHook(HookCtx{Pos: pos})
			}()
		}
		wg.Wait()

		Expect(count).To(Equal(8))
	})
})

var _ = Describe("IDGenerator", func() {
	It("should generate sequential IDs", func() {
		g := NewSequentialIDGenerator()

		Expect(g.Generate()).To(Equal("1"))
		Expect(g.Generate()).To(Equal("2"))
	})

	It("should generate unique IDs in parallel", func() {
		g := NewParallelIDGenerator()

		Expect(g.Generate()).NotTo(Equal(g.Generate()))
	})
})
