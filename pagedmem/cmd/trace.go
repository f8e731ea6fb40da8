package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sarchlab/pagedmem/datarecording"
	"github.com/sarchlab/pagedmem/mem/trace"
	"github.com/spf13/cobra"
)

var (
	tracePID   uint32
	traceLimit int
)

var traceCmd = &cobra.Command{
	Use:   "trace <db>",
	Short: "Print the requests recorded by run --record.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := datarecording.NewReader(args[0])
		defer func() { _ = reader.Close() }()

		reader.MapTable(datarecording.ExecInfoTable, datarecording.ExecInfo{})
		reader.MapTable(trace.AllocationTable, trace.AllocationEntry{})
		reader.MapTable(trace.AccessTable, trace.AccessEntry{})

		params := datarecording.QueryParams{
			OrderBy: "Time",
			Limit:   traceLimit,
		}

		if tracePID != 0 {
			params.Where = "PID = ?"
			params.Args = []any{tracePID}
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

		if err := printExecInfo(cmd, tw, reader); err != nil {
			return err
		}

		if err := printAllocations(cmd, tw, reader, params); err != nil {
			return err
		}

		if err := printAccesses(cmd, tw, reader, params); err != nil {
			return err
		}

		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().Uint32Var(&tracePID, "pid", 0,
		"only show the requests of this process")
	traceCmd.Flags().IntVar(&traceLimit, "limit", 0,
		"show at most this many requests of each kind")
}

func printExecInfo(
	cmd *cobra.Command,
	w io.Writer,
	reader datarecording.DataReader,
) error {
	rows, _, err := reader.Query(cmd.Context(), datarecording.ExecInfoTable,
		datarecording.QueryParams{OrderBy: "rowid"})
	if err != nil {
		return err
	}

	for _, row := range rows {
		info := row.(*datarecording.ExecInfo)
		fmt.Fprintf(w, "%s:\t%s\n", info.Property, info.Value)
	}

	fmt.Fprintln(w)

	return nil
}

func printAllocations(
	cmd *cobra.Command,
	w io.Writer,
	reader datarecording.DataReader,
	params datarecording.QueryParams,
) error {
	rows, total, err := reader.Query(cmd.Context(), trace.AllocationTable, params)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "allocations (%d of %d)\n", len(rows), total)
	fmt.Fprintln(w, "TIME\tPID\tSIZE\tVADDR\tFRAMES\tFIRST\tERROR")

	for _, row := range rows {
		e := row.(*trace.AllocationEntry)
		fmt.Fprintf(w, "%.6f\t%d\t%d\t0x%x\t%d\t%d\t%s\n",
			e.Time, e.PID, e.Size, e.VAddr, e.NumFrames, e.FirstFrame, e.Error)
	}

	fmt.Fprintln(w)

	return nil
}

func printAccesses(
	cmd *cobra.Command,
	w io.Writer,
	reader datarecording.DataReader,
	params datarecording.QueryParams,
) error {
	rows, total, err := reader.Query(cmd.Context(), trace.AccessTable, params)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "accesses (%d of %d)\n", len(rows), total)
	fmt.Fprintln(w, "TIME\tWHAT\tPID\tVADDR\tDATA\tERROR")

	for _, row := range rows {
		e := row.(*trace.AccessEntry)
		fmt.Fprintf(w, "%.6f\t%s\t%d\t0x%x\t0x%02x\t%s\n",
			e.Time, e.What, e.PID, e.VAddr, e.Data, e.Error)
	}

	return nil
}
