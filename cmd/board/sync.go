package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror entries with the kintone business database",
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Import remote records; the remote side wins",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		a, err := openApp(nil)
		if err != nil {
			return err
		}
		defer a.Close()

		rep, err := a.syncSvc.Pull(ctx)
		if err != nil {
			return err
		}
		logger.Info("pull finished",
			zap.Int("imported", rep.Imported),
			zap.Int("skipped", rep.Skipped),
			zap.Int("failed", rep.Failed),
		)
		if rep.Failed > 0 {
			return fmt.Errorf("%d records failed to import", rep.Failed)
		}
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send pending and modified entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		a, err := openApp(nil)
		if err != nil {
			return err
		}
		defer a.Close()

		rep, err := a.syncSvc.Push(ctx)
		if err != nil {
			return err
		}
		logger.Info("push finished",
			zap.Int("added", rep.Added),
			zap.Int("updated", rep.Updated),
			zap.Int("failed", rep.Failed),
		)
		for _, e := range rep.Errors {
			logger.Warn("push failed", zap.Error(e))
		}
		if rep.Failed > 0 {
			return fmt.Errorf("%d entries failed to push", rep.Failed)
		}
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncPushCmd)
}
