package workload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sarchlab/pagedmem/mem/vm"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("workload: syntax error")

// Parse reads a script. Each line is one of
//
//	<pid> alloc <size>
//	<pid> free <addr>
//	<pid> read <addr>
//	<pid> write <addr> <byte>
//	dump
//
// Numbers are decimal or carry a 0x, 0o, or 0b prefix. Sizes may also carry a
// unit, such as 4KiB. Text after # is ignored.
func Parse(r io.Reader) (Script, error) {
	var script Script

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		inst, err := parseInstruction(fields)
		if err != nil {
			return Script{}, fmt.Errorf("line %d: %w", lineNum, err)
		}

		inst.Line = lineNum
		script.Instructions = append(script.Instructions, inst)
	}

	if err := scanner.Err(); err != nil {
		return Script{}, fmt.Errorf("reading script: %w", err)
	}

	return script, nil
}

func parseInstruction(fields []string) (Instruction, error) {
	if len(fields) == 1 && strings.EqualFold(fields[0], "dump") {
		return Instruction{Op: OpDump}, nil
	}

	if len(fields) < 2 {
		return Instruction{}, fmt.Errorf("%w: expected <pid> <op>", ErrSyntax)
	}

	pid, err := strconv.ParseUint(fields[0], 0, 32)
	if err != nil || pid == 0 {
		return Instruction{}, fmt.Errorf("%w: invalid pid %q", ErrSyntax, fields[0])
	}

	inst := Instruction{PID: vm.PID(pid)}
	args := fields[2:]

	switch strings.ToLower(fields[1]) {
	case "alloc":
		inst.Op = OpAlloc
		err = parseAlloc(&inst, args)
	case "free":
		inst.Op = OpFree
		err = parseAddrOnly(&inst, args)
	case "read":
		inst.Op = OpRead
		err = parseAddrOnly(&inst, args)
	case "write":
		inst.Op = OpWrite
		err = parseWrite(&inst, args)
	default:
		err = fmt.Errorf("%w: unknown operation %q", ErrSyntax, fields[1])
	}

	return inst, err
}

func parseAlloc(inst *Instruction, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: alloc needs a size", ErrSyntax)
	}

	text := strings.Join(args, " ")

	size, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		size, err = humanize.ParseBytes(text)
	}

	if err != nil || size == 0 {
		return fmt.Errorf("%w: invalid size %q", ErrSyntax, text)
	}

	inst.Size = size

	return nil
}

func parseAddrOnly(inst *Instruction, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: %s needs an address", ErrSyntax, inst.Op)
	}

	addr, err := parseAddr(args[0])
	if err != nil {
		return err
	}

	inst.Addr = addr

	return nil
}

func parseWrite(inst *Instruction, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: write needs an address and a byte", ErrSyntax)
	}

	addr, err := parseAddr(args[0])
	if err != nil {
		return err
	}

	data, err := strconv.ParseUint(args[1], 0, 8)
	if err != nil {
		return fmt.Errorf("%w: invalid byte %q", ErrSyntax, args[1])
	}

	inst.Addr = addr
	inst.Data = byte(data)

	return nil
}

func parseAddr(s string) (uint64, error) {
	addr, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid address %q", ErrSyntax, s)
	}

	return addr, nil
}
