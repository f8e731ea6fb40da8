package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/sarchlab/pagedmem/mem/vm"
	"github.com/sarchlab/pagedmem/workload"
	"github.com/spf13/cobra"
)

var (
	stressAgents    int
	stressSeed      int64
	stressAllocs    int
	stressAccesses  int
	stressAllocSize string
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run concurrent random processes and check what they read back.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		maxAllocSize, err := parseMaxAllocSize(stressAllocSize, cfg.Spec.MemorySize)
		if err != nil {
			return err
		}

		logger := newLogger(cfg)
		manager := buildManager(cfg, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		agents := make([]*workload.Agent, stressAgents)
		for i := range agents {
			proc, err := manager.NewProcess(vm.PID(i + 1))
			if err != nil {
				return err
			}

			agent := workload.NewAgent(manager, proc, stressSeed+int64(i))
			agent.MaxAllocSize = maxAllocSize
			agent.AllocLeft = stressAllocs
			agent.WriteLeft = stressAccesses
			agent.ReadLeft = stressAccesses
			agents[i] = agent
		}

		errs := make([]error, len(agents))

		var wg sync.WaitGroup
		for i, agent := range agents {
			i, agent := i, agent
			wg.Add(1)

			go func() {
				defer wg.Done()
				errs[i] = agent.Run(ctx)
			}()
		}

		wg.Wait()

		for i, err := range errs {
			if err != nil {
				return fmt.Errorf("process %d: %w", i+1, err)
			}
		}

		stats := manager.Stats()
		fmt.Fprintf(cmd.OutOrStdout(),
			"%d processes, %s allocations (%s failed), %s reads, %s writes, "+
				"%d of %d frames owned\n",
			stats.NumProcesses,
			humanize.Comma(int64(stats.Allocations)),
			humanize.Comma(int64(stats.FailedAllocations)),
			humanize.Comma(int64(stats.Reads)),
			humanize.Comma(int64(stats.Writes)),
			stats.OwnedFrames, stats.NumFrames)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(stressCmd)

	flags := stressCmd.Flags()
	flags.IntVar(&stressAgents, "processes", 4, "number of processes")
	flags.Int64Var(&stressSeed, "seed", 1, "seed of the first process")
	flags.IntVar(&stressAllocs, "allocs", 16, "allocations per process")
	flags.IntVar(&stressAccesses, "accesses", 1000,
		"reads and writes per process, each")
	flags.StringVar(&stressAllocSize, "max-alloc", "4KiB",
		"largest allocation")
}

// parseMaxAllocSize accepts sizes from one byte up to the physical memory
// size.
func parseMaxAllocSize(text string, memorySize uint64) (uint64, error) {
	size, err := humanize.ParseBytes(text)
	if err != nil || size == 0 {
		return 0, fmt.Errorf("invalid max allocation size %q", text)
	}

	if size > memorySize {
		return 0, fmt.Errorf("max allocation size %s exceeds the memory size %s",
			humanize.IBytes(size), humanize.IBytes(memorySize))
	}

	return size, nil
}
