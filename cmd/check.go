package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openshift-hyperfleet/kartograph-sub001/internal/history"
	"github.com/openshift-hyperfleet/kartograph-sub001/internal/oplog"
	"github.com/openshift-hyperfleet/kartograph-sub001/internal/summary"
)

var (
	checkJSON    bool
	checkSummary bool
	checkRecord  bool
)

var checkCmd = &cobra.Command{
	Use:   "check [file|-]",
	Short: "Parse and validate a mutation log, reporting warnings and errors",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		content, err := readInput(path)
		if err != nil {
			return err
		}

		// Large inputs go through the low-retention summarizer, same as the
		// editor's background path.
		if checkSummary || len(content) >= summary.LargeFileThreshold {
			return checkSummarized(path, content)
		}
		return checkFull(path, content)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output as JSON")
	checkCmd.Flags().BoolVar(&checkSummary, "summary", false, "Force the capped summary path")
	checkCmd.Flags().BoolVar(&checkRecord, "record", false, "Record this run in the history database")
	rootCmd.AddCommand(checkCmd)
}

func checkFull(path, content string) error {
	start := time.Now()
	result := oplog.ParseContent(content)
	elapsed := time.Since(start)

	breakdown := oplog.Breakdown(result.Operations)

	if checkJSON {
		out := struct {
			oplog.ParseResult
			Breakdown oplog.OperationBreakdown `json:"breakdown"`
		}{result, breakdown}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		printBreakdown(len(result.Operations), breakdown)
		for _, op := range result.Operations {
			for _, w := range op.Warnings {
				fmt.Printf("  op %d: %s\n", op.Index, w)
			}
		}
		for _, pe := range result.ParseErrors {
			fmt.Printf("  error: %s\n", pe.Message)
		}
	}

	if checkRecord {
		if err := recordRun(path, len(result.Operations), result.WarningCount(), len(result.ParseErrors), elapsed); err != nil {
			return err
		}
	}
	if n := len(result.ParseErrors); n > 0 {
		return fmt.Errorf("%d parse error(s)", n)
	}
	return nil
}

func checkSummarized(path, content string) error {
	res := summary.Summarize(content)

	if checkJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printBreakdown(res.TotalOps, res.Breakdown)
		fmt.Printf("warnings: %d, parse time: %s\n", res.TotalWarnings, res.ParseTime.Round(time.Millisecond))
		for _, pe := range res.ParseErrors {
			fmt.Printf("  error: %s\n", pe.Message)
		}
		if extra := res.TotalErrors - len(res.ParseErrors); extra > 0 {
			fmt.Printf("  ... and %d more error(s) not shown\n", extra)
		}
		if res.Truncated() > 0 {
			fmt.Printf("  (%d additional operation(s) not materialized)\n", res.Truncated())
		}
	}

	if checkRecord {
		if err := recordRun(path, res.TotalOps, res.TotalWarnings, res.TotalErrors, res.ParseTime); err != nil {
			return err
		}
	}
	if res.TotalErrors > 0 {
		return fmt.Errorf("%d parse error(s)", res.TotalErrors)
	}
	return nil
}

func printBreakdown(total int, b oplog.OperationBreakdown) {
	fmt.Printf("ops: %d (define %d, create %d, update %d, delete %d, unknown %d)\n",
		total, b.Define, b.Create, b.Update, b.Delete, b.Unknown)
}

// recordRun appends one run to the history database.
func recordRun(path string, ops, warnings, errors int, elapsed time.Duration) error {
	d, err := history.OpenDB(DiscoverHistoryDB())
	if err != nil {
		return err
	}
	defer d.Close()

	_, err = d.RecordRun(history.Run{
		File:     path,
		Ops:      ops,
		Warnings: warnings,
		Errors:   errors,
		Duration: elapsed.Milliseconds(),
	})
	return err
}
