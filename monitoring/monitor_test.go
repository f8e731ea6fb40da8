package monitoring

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagedmem/mem/vm"
	"github.com/sarchlab/pagedmem/mem/vm/mmu"
)

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		comp   *mmu.Comp
		server *httptest.Server
	)

	get := func(path string) (int, []byte) {
		rsp, err := http.Get(server.URL + path)
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())

		return rsp.StatusCode, body
	}

	BeforeEach(func() {
		comp = mmu.MakeBuilder().
			WithMemorySize(16).
			WithLayout(vm.AddressLayout{
				OffsetBits:      2,
				FirstLevelBits:  2,
				SecondLevelBits: 2,
			}).
			WithMaxSegments(4).
			WithMaxPagesPerSegment(4).
			Build("MMU")

		proc, err := comp.NewProcess(1)
		Expect(err).NotTo(HaveOccurred())
		_, err = comp.Alloc(6, proc)
		Expect(err).NotTo(HaveOccurred())
		Expect(comp.Write(0, proc, 0xAB)).To(Succeed())

		m = NewMonitor()
		m.RegisterComponent(comp)

		server = httptest.NewServer(m.Router())
	})

	AfterEach(func() {
		server.Close()
	})

	It("should list components", func() {
		status, body := get("/api/list_components")

		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`["MMU"]`))
	})

	It("should return 404 for unknown components", func() {
		status, body := get("/api/frames/L2")

		Expect(status).To(Equal(http.StatusNotFound))
		Expect(string(body)).To(Equal("Component not found"))
	})

	It("should list owned frames", func() {
		status, body := get("/api/frames/MMU")
		Expect(status).To(Equal(http.StatusOK))

		var frames []mmu.FrameInfo
		Expect(json.Unmarshal(body, &frames)).To(Succeed())
		Expect(frames).To(HaveLen(2))
		Expect(frames[0].Owner).To(Equal(vm.PID(1)))
		Expect(frames[0].Data).To(Equal([]mmu.ByteInfo{{Addr: 0, Value: 0xAB}}))
		Expect(frames[1].Next).To(Equal(-1))
	})

	It("should return an empty list when no frame is owned", func() {
		comp.Init()

		status, body := get("/api/frames/MMU")

		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`[]`))
	})

	It("should dump the memory as text", func() {
		status, body := get("/api/dump/MMU")

		Expect(status).To(Equal(http.StatusOK))
		Expect(string(body)).To(HavePrefix(
			"000: 00000-00003 - PID: 01 (idx 000, nxt: 001)\n\t00000: ab\n"))
	})

	It("should report statistics", func() {
		status, body := get("/api/stats/MMU")
		Expect(status).To(Equal(http.StatusOK))

		var stats mmu.Stats
		Expect(json.Unmarshal(body, &stats)).To(Succeed())
		Expect(stats.OwnedFrames).To(Equal(2))
		Expect(stats.FreeFrames).To(Equal(2))
		Expect(stats.Allocations).To(Equal(uint64(1)))
		Expect(stats.Writes).To(Equal(uint64(1)))
	})

	It("should list processes", func() {
		status, body := get("/api/processes/MMU")
		Expect(status).To(Equal(http.StatusOK))

		var infos []mmu.ProcessInfo
		Expect(json.Unmarshal(body, &infos)).To(Succeed())
		Expect(infos).To(HaveLen(1))
		Expect(infos[0].BreakPointer).To(Equal(uint64(8)))
		Expect(infos[0].Segments[0].Pages).To(HaveLen(2))
	})

	It("should show a process", func() {
		status, body := get("/api/process/MMU/1")
		Expect(status).To(Equal(http.StatusOK))

		var info mmu.ProcessInfo
		Expect(json.Unmarshal(body, &info)).To(Succeed())
		Expect(info.PID).To(Equal(vm.PID(1)))
	})

	It("should return 404 for unknown processes", func() {
		status, _ := get("/api/process/MMU/9")

		Expect(status).To(Equal(http.StatusNotFound))
	})

	It("should serve the web page", func() {
		status, body := get("/")

		Expect(status).To(Equal(http.StatusOK))
		Expect(string(body)).To(HavePrefix("<!DOCTYPE html>"))
	})

	Context("progress bars", func() {
		It("should show created bars", func() {
			bar := m.CreateProgressBar("workload", 10)
			bar.IncrementInProgress(3)
			bar.MoveInProgressToFinished(2)

			status, body := get("/api/progress")
			Expect(status).To(Equal(http.StatusOK))

			var bars []map[string]any
			Expect(json.Unmarshal(body, &bars)).To(Succeed())
			Expect(bars).To(HaveLen(1))
			Expect(bars[0]["name"]).To(Equal("workload"))
			Expect(bars[0]["finished"]).To(BeNumerically("==", 2))
			Expect(bars[0]["in_progress"]).To(BeNumerically("==", 1))
		})

		It("should hide completed bars", func() {
			bar := m.CreateProgressBar("workload", 10)
			m.CompleteProgressBar(bar)

			_, body := get("/api/progress")

			Expect(body).To(MatchJSON(`[]`))
		})
	})

	It("should start and stop a server", func() {
		url, err := m.StartServer()
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(HavePrefix("http://localhost:"))

		rsp, err := http.Get(url + "/api/list_components")
		Expect(err).NotTo(HaveOccurred())
		rsp.Body.Close()
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))

		Expect(m.StopServer()).To(Succeed())
	})
})
