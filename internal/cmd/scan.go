package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aosc-dev/p-vector-go/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the pool and reconcile the index against it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setupApp(ctx)
		if err != nil {
			return err
		}
		defer a.Store.Close()

		pool := newPool(ctx, a.Config.Workers.Parse)
		defer pool.StopAndWait()

		s := scanner.New(a.Config, a.Store, a.Notifier, pool, a.Log)
		n, err := s.Run(ctx)
		if err != nil {
			return err
		}

		a.Log.Info("scan complete", "packages_changed", n)
		return nil
	},
}
