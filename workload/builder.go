package workload

import (
	"io"
	"log/slog"

	"github.com/sarchlab/pagedmem/mem/vm/mmu"
)

// A Builder can build runners.
type Builder struct {
	parallel   bool
	dumpWriter io.Writer
	progress   Progress
	logger     *slog.Logger
}

// MakeBuilder creates a builder for a sequential runner that discards dumps.
func MakeBuilder() Builder {
	return Builder{
		dumpWriter: io.Discard,
	}
}

// WithParallel runs the instructions of each process in its own goroutine.
func (b Builder) WithParallel(parallel bool) Builder {
	b.parallel = parallel
	return b
}

// WithDumpWriter sets where dump instructions write.
func (b Builder) WithDumpWriter(w io.Writer) Builder {
	b.dumpWriter = w
	return b
}

// WithProgress sets the progress tracker.
func (b Builder) WithProgress(p Progress) Builder {
	b.progress = p
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// Build creates a runner that sends requests to the manager.
func (b Builder) Build(manager mmu.Manager) *Runner {
	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Runner{
		manager:    manager,
		parallel:   b.parallel,
		dumpWriter: b.dumpWriter,
		progress:   b.progress,
		logger:     logger,
	}
}
