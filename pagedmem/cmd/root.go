// Package cmd provides the command-line interface for pagedmem.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/pagedmem/config"
	"github.com/sarchlab/pagedmem/mem/vm/mmu"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var envFiles []string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pagedmem",
	Short: "pagedmem simulates a two-level paged memory shared by processes.",
	Long: `pagedmem simulates a physical memory split into frames and a ` +
		`two-level page table per process. It runs scripts of alloc, ` +
		`read, write, and dump requests, and can record them or serve ` +
		`the memory state to a browser.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. The exit handlers registered by recorders run before the
// process exits.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil,
		"env files to read the configuration from (default .env if present)")
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading configuration: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
}

func buildManager(cfg config.Config, logger *slog.Logger) *mmu.Comp {
	return mmu.MakeBuilder().
		WithSpec(cfg.Spec).
		WithLogger(logger).
		Build("MMU")
}
