package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openshift-hyperfleet/kartograph-sub001/internal/history"
)

var (
	statsJSON  bool
	statsLimit int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recent parse runs from the history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := history.OpenDB(DiscoverHistoryDB())
		if err != nil {
			return err
		}
		defer d.Close()

		runs, err := d.RecentRuns(statsLimit)
		if err != nil {
			return err
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}

		if len(runs) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}
		for _, r := range runs {
			ts := time.UnixMilli(r.CreatedAt).Format("2006-01-02 15:04:05")
			fmt.Printf("%s  %-30s ops=%d warnings=%d errors=%d %dms\n",
				ts, r.File, r.Ops, r.Warnings, r.Errors, r.Duration)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.Flags().IntVar(&statsLimit, "limit", 20, "Maximum runs to show")
	rootCmd.AddCommand(statsCmd)
}
