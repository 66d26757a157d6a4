package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alitto/pond/v2"

	"github.com/aosc-dev/p-vector-go/internal/config"
	"github.com/aosc-dev/p-vector-go/internal/notify"
	"github.com/aosc-dev/p-vector-go/internal/repoindex"
	"github.com/aosc-dev/p-vector-go/internal/scanner"
)

// app bundles the collaborators every subcommand needs: loaded config, an
// open index store, the configured notifier, and the logger installed by
// the root command's PersistentPreRun.
type app struct {
	Config   *config.Config
	Store    *repoindex.Store
	Notifier notify.Notifier
	Log      *slog.Logger
}

func setupApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := slog.Default()

	store, err := repoindex.Open(ctx, cfg.DBConn, log)
	if err != nil {
		return nil, err
	}

	return &app{
		Config:   cfg,
		Store:    store,
		Notifier: notify.New(cfg.ChangeNotifier),
		Log:      log,
	}, nil
}

// resolveBranches returns the set of branches a subcommand should operate
// on, honoring Discover the same way for every subcommand that needs it.
func resolveBranches(cfg *config.Config) ([]string, error) {
	return scanner.ResolveBranches(cfg, cfg.PoolPath())
}

// newPool builds a dedicated work-stealing pool sized to n (falling back
// to the runtime default when n is zero), matching how the pipeline keeps
// blocking filesystem/crypto work off the asynchronous database path.
func newPool(ctx context.Context, n uint) pond.Pool {
	return pond.NewPool(int(n), pond.WithContext(ctx), pond.WithoutPanicRecovery())
}
