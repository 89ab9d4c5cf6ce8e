package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Leganyst/production-board/internal/model"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(nil)
		if err != nil {
			return err
		}
		defer a.Close()
		logger.Info("schema migrated")
		return nil
	},
}

var seedProductsCmd = &cobra.Command{
	Use:   "seed-products",
	Short: "Load the product weight master",
	Long:  "Inserts the factory product list. Products already present are left untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		a, err := openApp(nil)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.products.Seed(ctx, model.DefaultProducts)
		if err != nil {
			return err
		}
		logger.Info("products seeded", zap.Int64("inserted", n), zap.Int("known", len(model.DefaultProducts)))
		return nil
	},
}
