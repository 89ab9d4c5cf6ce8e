package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	historyLimit     int
	historyPruneDays int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the board change log",
	Long: `Lists recorded changes, most recent first.
With --prune-days N, events older than N days are removed instead.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "Number of events to show")
	historyCmd.Flags().IntVar(&historyPruneDays, "prune-days", 0, "Remove events older than this many days")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	a, err := openApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if historyPruneDays > 0 {
		n, err := a.events.Prune(ctx, time.Now().AddDate(0, 0, -historyPruneDays))
		if err != nil {
			return err
		}
		logger.Info("events pruned", zap.Int64("removed", n))
		return nil
	}

	events, total, err := a.boardSvc.History(ctx, historyLimit, 0)
	if err != nil {
		return err
	}
	loc := a.board.Board().Location()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, ev := range events {
		entry := "-"
		if ev.EntryID != nil {
			entry = ev.EntryID.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ev.CreatedAt.In(loc).Format("2006-01-02 15:04:05"), ev.Type, entry, ev.Details)
	}
	fmt.Fprintf(tw, "%d of %d events\n", len(events), total)
	return tw.Flush()
}
