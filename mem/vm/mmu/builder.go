package mmu

import (
	"io"
	"log"
	"log/slog"

	"github.com/sarchlab/pagedmem/mem/vm"
	"github.com/sarchlab/pagedmem/mem/vm/addresstranslator"
	"github.com/sarchlab/pagedmem/memory"
)

// A Builder can build MMU component
type Builder struct {
	spec   Spec
	logger *slog.Logger
}

// MakeBuilder creates a new builder
func MakeBuilder() Builder {
	return Builder{
		spec: Defaults(),
	}
}

// WithSpec replaces the whole geometry.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// WithMemorySize sets the size of the physical memory in bytes.
func (b Builder) WithMemorySize(size uint64) Builder {
	b.spec.MemorySize = size
	return b
}

// WithLayout sets how virtual addresses are split. The offset width also sets
// the frame size.
func (b Builder) WithLayout(layout vm.AddressLayout) Builder {
	b.spec.Layout = layout
	return b
}

// WithMaxSegments sets the capacity of the segment table of every process.
func (b Builder) WithMaxSegments(n int) Builder {
	b.spec.MaxSegments = n
	return b
}

// WithMaxPagesPerSegment sets the capacity of every second-level table.
func (b Builder) WithMaxPagesPerSegment(n int) Builder {
	b.spec.MaxPagesPerSegment = n
	return b
}

// WithLogger sets the logger. Logging is discarded if no logger is set.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// Build returns a newly created MMU component
func (b Builder) Build(name string) *Comp {
	if err := b.spec.Validate(); err != nil {
		log.Panicf("invalid MMU spec: %v", err)
	}

	c := &Comp{
		name: name,
		spec: b.spec,
	}

	b.createStore(c)
	b.createTranslator(c)
	b.configureLogger(c)
	c.processes = make(map[vm.PID]*vm.Process)

	return c
}

func (b Builder) createStore(c *Comp) {
	c.store = memory.NewStore(b.spec.MemorySize, b.spec.Layout.OffsetBits)
}

func (b Builder) createTranslator(c *Comp) {
	c.translator = addresstranslator.MakeBuilder().
		WithLayout(b.spec.Layout).
		Build()
}

func (b Builder) configureLogger(c *Comp) {
	if b.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}

	c.logger = b.logger.With("comp", c.name)
}
