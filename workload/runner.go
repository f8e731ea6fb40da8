package workload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/sarchlab/pagedmem/mem/vm"
	"github.com/sarchlab/pagedmem/mem/vm/mmu"
)

// Progress receives updates as instructions run. *monitoring.ProgressBar
// implements it.
type Progress interface {
	IncrementInProgress(amount uint64)
	MoveInProgressToFinished(amount uint64)
}

// A Result is the outcome of one instruction.
type Result struct {
	Instruction Instruction

	// VAddr is the base address returned by an alloc.
	VAddr uint64

	// Data is the byte returned by a read.
	Data byte

	Err error
}

func (r Result) String() string {
	prefix := fmt.Sprintf("line %d: %s", r.Instruction.Line, r.Instruction)

	if r.Err != nil {
		return prefix + ": " + r.Err.Error()
	}

	switch r.Instruction.Op {
	case OpAlloc:
		return fmt.Sprintf("%s -> 0x%x", prefix, r.VAddr)
	case OpRead:
		return fmt.Sprintf("%s -> 0x%02x", prefix, r.Data)
	default:
		return prefix + ": ok"
	}
}

// A Runner executes scripts against a memory manager.
type Runner struct {
	manager    mmu.Manager
	parallel   bool
	dumpWriter io.Writer
	progress   Progress
	logger     *slog.Logger
}

// Run executes the script and returns the result of every instruction in
// script order. Processes are created on first use. Failed instructions are
// reported in their results; Run itself fails only if a process cannot be
// created or ctx is cancelled.
//
// In parallel mode every process runs its own instructions in a goroutine,
// and dump instructions run after all the processes finish.
func (r *Runner) Run(ctx context.Context, script Script) (*RunReport, error) {
	procs, err := r.prepareProcesses(script)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(script.Instructions))

	if r.parallel {
		err = r.runParallel(ctx, script, procs, results)
	} else {
		err = r.runSequential(ctx, script, procs, results)
	}

	if err != nil {
		return nil, err
	}

	return newReport(results), nil
}

func (r *Runner) prepareProcesses(script Script) (map[vm.PID]*vm.Process, error) {
	procs := make(map[vm.PID]*vm.Process)

	for _, pid := range script.PIDs() {
		proc, found := r.manager.Process(pid)
		if !found {
			var err error

			proc, err = r.manager.NewProcess(pid)
			if err != nil {
				return nil, err
			}
		}

		procs[pid] = proc
	}

	return procs, nil
}

func (r *Runner) runSequential(
	ctx context.Context,
	script Script,
	procs map[vm.PID]*vm.Process,
	results []Result,
) error {
	for i, inst := range script.Instructions {
		if err := ctx.Err(); err != nil {
			return err
		}

		results[i] = r.execute(inst, procs[inst.PID])
	}

	return nil
}

func (r *Runner) runParallel(
	ctx context.Context,
	script Script,
	procs map[vm.PID]*vm.Process,
	results []Result,
) error {
	streams := make(map[vm.PID][]int)

	var dumps []int

	for i, inst := range script.Instructions {
		if inst.Op == OpDump {
			dumps = append(dumps, i)
			continue
		}

		streams[inst.PID] = append(streams[inst.PID], i)
	}

	var wg sync.WaitGroup

	for pid, stream := range streams {
		wg.Add(1)

		go func(proc *vm.Process, stream []int) {
			defer wg.Done()

			for _, i := range stream {
				if ctx.Err() != nil {
					return
				}

				results[i] = r.execute(script.Instructions[i], proc)
			}
		}(procs[pid], stream)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	for _, i := range dumps {
		results[i] = r.execute(script.Instructions[i], nil)
	}

	return nil
}

func (r *Runner) execute(inst Instruction, proc *vm.Process) Result {
	if r.progress != nil {
		r.progress.IncrementInProgress(1)
		defer r.progress.MoveInProgressToFinished(1)
	}

	res := Result{Instruction: inst}

	switch inst.Op {
	case OpAlloc:
		res.VAddr, res.Err = r.manager.Alloc(inst.Size, proc)
	case OpFree:
		res.Err = r.manager.Free(inst.Addr, proc)
	case OpRead:
		res.Data, res.Err = r.manager.Read(inst.Addr, proc)
	case OpWrite:
		res.Data = inst.Data
		res.Err = r.manager.Write(inst.Addr, proc, inst.Data)
	case OpDump:
		res.Err = r.manager.Dump(r.dumpWriter)
	}

	r.logger.Debug("instruction done",
		"line", inst.Line, "instruction", inst.String(), "error", res.Err)

	return res
}
