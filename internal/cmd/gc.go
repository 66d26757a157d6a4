package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aosc-dev/p-vector-go/internal/gc"
)

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Reclaim stale index rows, vanished repos, and excess by-hash copies",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setupApp(ctx)
		if err != nil {
			return err
		}
		defer a.Store.Close()

		return gc.New(a.Config, a.Store, a.Log).Run(ctx)
	},
}
