// Package trace provides hooks that record the requests served by an MMU.
package trace

import (
	"log/slog"
	"time"

	"github.com/sarchlab/pagedmem/datarecording"
	"github.com/sarchlab/pagedmem/mem/vm/mmu"
	"github.com/sarchlab/pagedmem/sim"
)

// The tables written by the database tracer.
const (
	AllocationTable = "allocations"
	AccessTable     = "accesses"
)

// AllocationEntry represents an allocation request in the database
type AllocationEntry struct {
	ID         string
	Location   string
	Time       float64
	PID        uint32
	Size       uint64
	VAddr      uint64
	NumFrames  int
	FirstFrame int
	Error      string
}

// AccessEntry represents a read, write, or free request in the database
type AccessEntry struct {
	ID       string
	Location string
	Time     float64
	What     string
	PID      uint32
	VAddr    uint64
	Data     uint8
	Error    string
}

// A dbTracer is a hook that records the requests of an MMU into a database
// using the data recorder.
type dbTracer struct {
	dataRecorder datarecording.DataRecorder
	idGenerator  sim.IDGenerator
	startTime    time.Time
}

// NewDBTracer creates a hook that writes the allocations table and the
// accesses table. Time is recorded in seconds since the tracer was created.
func NewDBTracer(
	dataRecorder datarecording.DataRecorder,
	idGenerator sim.IDGenerator,
) sim.Hook {
	t := &dbTracer{
		dataRecorder: dataRecorder,
		idGenerator:  idGenerator,
		startTime:    time.Now(),
	}

	t.dataRecorder.CreateTable(AllocationTable, AllocationEntry{})
	t.dataRecorder.CreateTable(AccessTable, AccessEntry{})

	return t
}

// Func records the request described by the hook context.
func (t *dbTracer) Func(ctx sim.HookCtx) {
	detail, ok := ctx.Detail.(mmu.AccessDetail)
	if !ok {
		return
	}

	now := time.Since(t.startTime).Seconds()

	if ctx.Pos == mmu.HookPosAlloc {
		t.dataRecorder.InsertData(AllocationTable, AllocationEntry{
			ID:         t.idGenerator.Generate(),
			Location:   ctx.Domain.Name(),
			Time:       now,
			PID:        uint32(detail.PID),
			Size:       detail.Size,
			VAddr:      detail.VAddr,
			NumFrames:  len(detail.Frames),
			FirstFrame: firstFrame(detail.Frames),
			Error:      errString(detail.Err),
		})

		return
	}

	what, ok := accessKind(ctx.Pos)
	if !ok {
		return
	}

	t.dataRecorder.InsertData(AccessTable, AccessEntry{
		ID:       t.idGenerator.Generate(),
		Location: ctx.Domain.Name(),
		Time:     now,
		What:     what,
		PID:      uint32(detail.PID),
		VAddr:    detail.VAddr,
		Data:     detail.Data,
		Error:    errString(detail.Err),
	})
}

// A logTracer is a hook that writes every request to a logger.
type logTracer struct {
	logger *slog.Logger
}

// NewLogTracer creates a hook that logs every request at the info level.
func NewLogTracer(logger *slog.Logger) sim.Hook {
	return &logTracer{logger: logger}
}

func (t *logTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos == mmu.HookPosInit {
		t.logger.Info("init", "location", ctx.Domain.Name())
		return
	}

	detail, ok := ctx.Detail.(mmu.AccessDetail)
	if !ok {
		return
	}

	attrs := []any{
		"location", ctx.Domain.Name(),
		"pid", detail.PID,
		"vaddr", detail.VAddr,
	}

	switch ctx.Pos {
	case mmu.HookPosAlloc:
		attrs = append(attrs, "size", detail.Size, "frames", detail.Frames)
	case mmu.HookPosRead, mmu.HookPosWrite:
		attrs = append(attrs, "data", detail.Data)
	}

	if detail.Err != nil {
		attrs = append(attrs, "error", detail.Err)
	}

	t.logger.Info(ctx.Pos.Name, attrs...)
}

func accessKind(pos *sim.HookPos) (string, bool) {
	switch pos {
	case mmu.HookPosRead:
		return "read", true
	case mmu.HookPosWrite:
		return "write", true
	case mmu.HookPosFree:
		return "free", true
	}

	return "", false
}

func firstFrame(frames []int) int {
	if len(frames) == 0 {
		return -1
	}

	return frames[0]
}

func errString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
