package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/sarchlab/pagedmem/config"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the memory geometry of the configuration.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		printLayout(cmd.OutOrStdout(), cfg)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}

func printLayout(w io.Writer, cfg config.Config) {
	spec := cfg.Spec
	layout := spec.Layout

	fmt.Fprintf(w, "physical memory:   %s (%d frames of %s)\n",
		humanize.IBytes(spec.MemorySize),
		spec.NumFrames(),
		humanize.IBytes(spec.FrameSize()))
	fmt.Fprintf(w, "virtual address:   %d bits (%d first level, %d second level, %d offset)\n",
		layout.AddressBits(),
		layout.FirstLevelBits,
		layout.SecondLevelBits,
		layout.OffsetBits)
	fmt.Fprintf(w, "address space:     %s per process\n",
		humanize.IBytes(layout.AddressSpaceSize()))
	fmt.Fprintf(w, "segment table:     %d entries\n", spec.MaxSegments)
	fmt.Fprintf(w, "page table:        %d entries per segment\n",
		spec.MaxPagesPerSegment)
}
