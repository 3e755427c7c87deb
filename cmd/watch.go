package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openshift-hyperfleet/kartograph-sub001/internal/oplog"
	"github.com/openshift-hyperfleet/kartograph-sub001/internal/summary"
)

var watchRecord bool

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-check a mutation log whenever it changes",
	Long: `Watches a mutation log and re-runs parsing and validation on every
write. Small files are checked immediately; large files go through the
debounced background path, so rapid successive saves coalesce into one parse
and a newer save supersedes the result of an older one still in flight.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(args[0])
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchRecord, "record", false, "Record each run in the history database")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	dispatcher := summary.NewDispatcher(logger)
	defer dispatcher.Close()
	dispatcher.OnResult(func(res summary.Result) {
		printBreakdown(res.TotalOps, res.Breakdown)
		fmt.Printf("warnings: %d, errors: %d, parse time: %s\n",
			res.TotalWarnings, res.TotalErrors, res.ParseTime.Round(time.Millisecond))
		recordWatchRun(path, res.TotalOps, res.TotalWarnings, res.TotalErrors, res.ParseTime)
	})

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory so atomic-rename saves are still seen.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	checkOnce := func() {
		content, err := readInput(abs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			return
		}
		if dispatcher.RequestParse(content) {
			logger.Debug("large file queued for background parse", zap.Int("size", len(content)))
			return
		}
		start := time.Now()
		result := oplog.ParseContent(content)
		elapsed := time.Since(start)
		printBreakdown(len(result.Operations), oplog.Breakdown(result.Operations))
		for _, op := range result.Operations {
			for _, w := range op.Warnings {
				fmt.Printf("  op %d: %s\n", op.Index, w)
			}
		}
		for _, pe := range result.ParseErrors {
			fmt.Printf("  error: %s\n", pe.Message)
		}
		recordWatchRun(path, len(result.Operations), result.WarningCount(), len(result.ParseErrors), elapsed)
	}

	checkOnce()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	fmt.Fprintf(os.Stderr, "watching %s\n", path)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			checkOnce()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case <-sig:
			fmt.Fprintln(os.Stderr, "stopping")
			return nil
		}
	}
}

func recordWatchRun(path string, ops, warnings, errors int, elapsed time.Duration) {
	if !watchRecord {
		return
	}
	if err := recordRun(path, ops, warnings, errors, elapsed); err != nil {
		logger.Warn("failed to record run", zap.Error(err))
	}
}
