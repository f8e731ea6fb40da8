package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var serveOpenBrowser bool

var serveCmd = &cobra.Command{
	Use:   "serve [script]",
	Short: "Serve the memory state over HTTP until interrupted.",
	Long: `Serve the memory state over HTTP until interrupted. If a script ` +
		`is given, it runs first so that its result can be inspected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := newLogger(cfg)
		manager := buildManager(cfg, logger)

		monitor, err := startMonitor(cfg, logger, manager, serveOpenBrowser)
		if err != nil {
			return err
		}
		defer func() { _ = monitor.StopServer() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if len(args) == 1 {
			script, err := readScript(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			bar := monitor.CreateProgressBar(args[0],
				uint64(len(script.Instructions)))

			report, err := workloadBuilder(logger).
				WithProgress(bar).
				Build(manager).
				Run(ctx, script)
			monitor.CompleteProgressBar(bar)

			if err != nil {
				return err
			}

			if err := report.WriteSummary(cmd.OutOrStdout()); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.ErrOrStderr(), "Press Ctrl+C to stop.")
		<-ctx.Done()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveOpenBrowser, "open-browser", true,
		"open the monitor in a browser")
}
