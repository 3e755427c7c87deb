package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/openshift-hyperfleet/kartograph-sub001/internal/oplog"
)

var labelPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

var genIDCmd = &cobra.Command{
	Use:   "gen-id <label>",
	Short: "Generate a conforming identifier for the given label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := args[0]
		if !labelPattern.MatchString(label) {
			return fmt.Errorf("invalid label %q: must be lowercase alnum or underscore", label)
		}
		fmt.Println(oplog.NewOperationID(label))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genIDCmd)
}
