package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aosc-dev/p-vector-go/internal/gc"
	"github.com/aosc-dev/p-vector-go/internal/release"
	"github.com/aosc-dev/p-vector-go/internal/scanner"
	"github.com/aosc-dev/p-vector-go/internal/sign"
)

// fullCmd runs scan, then gc, then maintenance's bookkeeping refresh, then
// release, against one shared store connection.
var fullCmd = &cobra.Command{
	Use:   "full",
	Short: "Run scan, gc, maintenance, and release in sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setupApp(ctx)
		if err != nil {
			return err
		}
		defer a.Store.Close()

		scanPool := newPool(ctx, a.Config.Workers.Parse)
		s := scanner.New(a.Config, a.Store, a.Notifier, scanPool, a.Log)
		changed, err := s.Run(ctx)
		scanPool.StopAndWait()
		if err != nil {
			return err
		}
		a.Log.Info("scan complete", "packages_changed", changed)

		if err := gc.New(a.Config, a.Store, a.Log).Run(ctx); err != nil {
			return err
		}

		touched, err := a.Store.TouchAllRepos(ctx)
		if err != nil {
			return err
		}
		dupes, err := a.Store.DuplicateCount(ctx)
		if err != nil {
			return err
		}
		a.Log.Info("maintenance complete", "repos_touched", touched, "duplicate_packages", dupes)

		branches, err := resolveBranches(a.Config)
		if err != nil {
			return err
		}
		signer, err := sign.New(a.Config.Certificate)
		if err != nil {
			return err
		}

		releasePool := newPool(ctx, a.Config.Workers.Render)
		defer releasePool.StopAndWait()

		r := release.New(a.Config, a.Store, signer, releasePool, a.Log)
		if err := r.Run(ctx, branches); err != nil {
			return err
		}

		a.Log.Info("full run complete", "branches", len(branches))
		return nil
	},
}
