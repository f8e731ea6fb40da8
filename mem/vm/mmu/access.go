package mmu

import (
	"fmt"
	"sync/atomic"

	"github.com/sarchlab/pagedmem/mem/vm"
	"github.com/sarchlab/pagedmem/sim"
)

// Read returns the byte at vAddr in the address space of the process. An
// unmapped address fails with vm.ErrUnmappedSegment or vm.ErrUnmappedPage.
func (c *Comp) Read(vAddr uint64, proc *vm.Process) (byte, error) {
	data, err := c.read(vAddr, proc)

	c.countAccess(&c.stats.reads, err)
	c.logAccess("read", vAddr, proc, data, err)

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosRead,
		Item:   proc,
		Detail: AccessDetail{PID: proc.PID, VAddr: vAddr, Data: data, Err: err},
	})

	return data, err
}

func (c *Comp) read(vAddr uint64, proc *vm.Process) (byte, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	pAddr, err := c.translator.TranslateProcess(vAddr, proc)
	if err != nil {
		return 0, err
	}

	data, err := c.store.ByteAt(pAddr)
	if err != nil {
		return 0, fmt.Errorf("reading 0x%x of process %d: %w",
			vAddr, proc.PID, err)
	}

	return data, nil
}

// Write stores one byte at vAddr in the address space of the process. The
// memory is left untouched if the address is not mapped.
func (c *Comp) Write(vAddr uint64, proc *vm.Process, data byte) error {
	err := c.write(vAddr, proc, data)

	c.countAccess(&c.stats.writes, err)
	c.logAccess("write", vAddr, proc, data, err)

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosWrite,
		Item:   proc,
		Detail: AccessDetail{PID: proc.PID, VAddr: vAddr, Data: data, Err: err},
	})

	return err
}

func (c *Comp) write(vAddr uint64, proc *vm.Process, data byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	pAddr, err := c.translator.TranslateProcess(vAddr, proc)
	if err != nil {
		return err
	}

	err = c.store.SetByte(pAddr, data)
	if err != nil {
		return fmt.Errorf("writing 0x%x of process %d: %w",
			vAddr, proc.PID, err)
	}

	return nil
}

func (c *Comp) countAccess(counter *atomic.Uint64, err error) {
	if err != nil {
		c.stats.failedAccesses.Add(1)
		return
	}

	counter.Add(1)
}

func (c *Comp) logAccess(
	op string,
	vAddr uint64,
	proc *vm.Process,
	data byte,
	err error,
) {
	if err != nil {
		c.logger.Warn(op+" failed",
			"pid", proc.PID, "vaddr", vAddr, "error", err)
		return
	}

	c.logger.Debug(op, "pid", proc.PID, "vaddr", vAddr, "data", data)
}
