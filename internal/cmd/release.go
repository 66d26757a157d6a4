package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aosc-dev/p-vector-go/internal/release"
	"github.com/aosc-dev/p-vector-go/internal/sign"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Render dists/ for every branch that needs it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setupApp(ctx)
		if err != nil {
			return err
		}
		defer a.Store.Close()

		branches, err := resolveBranches(a.Config)
		if err != nil {
			return err
		}

		signer, err := sign.New(a.Config.Certificate)
		if err != nil {
			return err
		}

		pool := newPool(ctx, a.Config.Workers.Render)
		defer pool.StopAndWait()

		r := release.New(a.Config, a.Store, signer, pool, a.Log)
		if err := r.Run(ctx, branches); err != nil {
			return err
		}

		a.Log.Info("release complete", "branches", len(branches))
		return nil
	},
}
