package workload

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// A RunReport collects the results of a run.
type RunReport struct {
	Results []Result

	Allocations       int
	FailedAllocations int
	AllocatedBytes    uint64
	Reads             int
	Writes            int
	FailedAccesses    int
	Frees             int
}

func newReport(results []Result) *RunReport {
	r := &RunReport{Results: results}

	for _, res := range results {
		switch res.Instruction.Op {
		case OpAlloc:
			if res.Err != nil {
				r.FailedAllocations++
				continue
			}

			r.Allocations++
			r.AllocatedBytes += res.Instruction.Size
		case OpRead, OpWrite:
			if res.Err != nil {
				r.FailedAccesses++
				continue
			}

			if res.Instruction.Op == OpRead {
				r.Reads++
			} else {
				r.Writes++
			}
		case OpFree:
			r.Frees++
		}
	}

	return r
}

// WriteResults writes one line per result.
func (r *RunReport) WriteResults(w io.Writer) error {
	for _, res := range r.Results {
		if _, err := fmt.Fprintln(w, res); err != nil {
			return err
		}
	}

	return nil
}

// WriteSummary writes the totals in human-readable form.
func (r *RunReport) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"instructions: %s\n"+
			"allocations: %s ok, %s failed, %s requested\n"+
			"accesses: %s reads, %s writes, %s failed\n"+
			"frees: %s (no effect)\n",
		humanize.Comma(int64(len(r.Results))),
		humanize.Comma(int64(r.Allocations)),
		humanize.Comma(int64(r.FailedAllocations)),
		humanize.IBytes(r.AllocatedBytes),
		humanize.Comma(int64(r.Reads)),
		humanize.Comma(int64(r.Writes)),
		humanize.Comma(int64(r.FailedAccesses)),
		humanize.Comma(int64(r.Frees)))

	return err
}
