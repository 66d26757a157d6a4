package cmd

import (
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate the index schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setupApp(ctx)
		if err != nil {
			return err
		}
		defer a.Store.Close()

		if err := a.Store.Reset(ctx); err != nil {
			return err
		}

		a.Log.Info("schema reset complete")
		return nil
	},
}
