package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openshift-hyperfleet/kartograph-sub001/internal/oplog"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [file|-]",
	Short: "Rewrite a mutation log as canonical one-record-per-line JSONL",
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

		result := oplog.ParseContent(content)
		if n := len(result.ParseErrors); n > 0 {
			for _, pe := range result.ParseErrors {
				fmt.Fprintf(os.Stderr, "error: %s\n", pe.Message)
			}
			return fmt.Errorf("refusing to format: %d parse error(s)", n)
		}

		fmt.Print(oplog.SerializeOperations(result.Operations))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}
