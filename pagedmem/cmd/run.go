package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/sarchlab/pagedmem/config"
	"github.com/sarchlab/pagedmem/datarecording"
	"github.com/sarchlab/pagedmem/mem/trace"
	"github.com/sarchlab/pagedmem/mem/vm/mmu"
	"github.com/sarchlab/pagedmem/monitoring"
	"github.com/sarchlab/pagedmem/sim"
	"github.com/sarchlab/pagedmem/workload"
	"github.com/spf13/cobra"
)

type runOptions struct {
	parallel    bool
	record      string
	monitor     bool
	openBrowser bool
	traceLog    bool
	dumpFile    string
	quiet       bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a script of memory requests.",
	Long: `Run a script of memory requests. Each line of the script is one ` +
		`of "<pid> alloc <size>", "<pid> free <addr>", "<pid> read <addr>", ` +
		`"<pid> write <addr> <byte>", or "dump". Use - to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		script, err := readScript(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return runScript(ctx, cmd.OutOrStdout(), cfg, script, args[0], runOpts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.BoolVar(&runOpts.parallel, "parallel", false,
		"run the requests of each process in its own goroutine")
	flags.StringVar(&runOpts.record, "record", "",
		"record every request into this SQLite file")
	flags.BoolVar(&runOpts.monitor, "monitor", false,
		"serve the memory state over HTTP while running")
	flags.BoolVar(&runOpts.openBrowser, "open-browser", false,
		"open the monitor in a browser")
	flags.BoolVar(&runOpts.traceLog, "trace-log", false,
		"log every request at info level")
	flags.StringVar(&runOpts.dumpFile, "dump", "",
		"write dumps into this file instead of stdout")
	flags.BoolVarP(&runOpts.quiet, "quiet", "q", false,
		"print the summary only")
}

func readScript(stdin io.Reader, path string) (workload.Script, error) {
	if path == "-" {
		return workload.Parse(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return workload.Script{}, err
	}
	defer f.Close()

	script, err := workload.Parse(f)
	if err != nil {
		return workload.Script{}, fmt.Errorf("%s: %w", path, err)
	}

	return script, nil
}

func runScript(
	ctx context.Context,
	out io.Writer,
	cfg config.Config,
	script workload.Script,
	scriptName string,
	opts runOptions,
) error {
	if opts.traceLog && cfg.LogLevel > slog.LevelInfo {
		cfg.LogLevel = slog.LevelInfo
	}

	logger := newLogger(cfg)
	manager := buildManager(cfg, logger)

	if opts.traceLog {
		manager.AcceptHook(trace.NewLogTracer(logger))
	}

	if opts.record != "" {
		recorder := startRecording(manager, opts.record, scriptName, opts)
		defer func() { _ = recorder.Close() }()
	}

	builder := workloadBuilder(logger).
		WithParallel(opts.parallel).
		WithDumpWriter(out)

	if opts.dumpFile != "" {
		f, err := os.Create(opts.dumpFile)
		if err != nil {
			return err
		}
		defer f.Close()

		builder = builder.WithDumpWriter(f)
	}

	if opts.monitor {
		monitor, err := startMonitor(cfg, logger, manager, opts.openBrowser)
		if err != nil {
			return err
		}
		defer func() { _ = monitor.StopServer() }()

		bar := monitor.CreateProgressBar(scriptName,
			uint64(len(script.Instructions)))
		defer monitor.CompleteProgressBar(bar)

		builder = builder.WithProgress(bar)
	}

	report, err := builder.Build(manager).Run(ctx, script)
	if err != nil {
		return err
	}

	if !opts.quiet {
		if err := report.WriteResults(out); err != nil {
			return err
		}
	}

	return report.WriteSummary(out)
}

func workloadBuilder(logger *slog.Logger) workload.Builder {
	return workload.MakeBuilder().WithLogger(logger)
}

func startRecording(
	manager *mmu.Comp,
	path, scriptName string,
	opts runOptions,
) datarecording.DataRecorder {
	recorder := datarecording.NewDataRecorder(strings.TrimSuffix(path, ".sqlite3"))
	recorder.SetExecProperty("Script", scriptName)
	recorder.SetExecProperty("Parallel", fmt.Sprint(opts.parallel))

	spec := manager.Spec()
	recorder.SetExecProperty("Memory Size", fmt.Sprint(spec.MemorySize))
	recorder.SetExecProperty("Frame Size", fmt.Sprint(spec.FrameSize()))

	idGen := sim.NewSequentialIDGenerator()
	if opts.parallel {
		idGen = sim.NewParallelIDGenerator()
	}

	manager.AcceptHook(trace.NewDBTracer(recorder, idGen))

	return recorder
}

func startMonitor(
	cfg config.Config,
	logger *slog.Logger,
	manager *mmu.Comp,
	openBrowser bool,
) (*monitoring.Monitor, error) {
	monitor := monitoring.NewMonitor().
		WithPortNumber(cfg.MonitorPort).
		WithBrowser(openBrowser)
	monitor.RegisterComponent(manager)

	url, err := monitor.StartServer()
	if err != nil {
		return nil, err
	}

	logger.Info("monitor started", "url", url)

	return monitor, nil
}
