// Package gc reclaims space and index rows left behind by packages and
// branches that no longer exist on disk: stale duplicate rows, orphan
// repos, repos whose pool directory vanished, and excess by-hash copies
// beyond the configured retention count.
package gc

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/aosc-dev/p-vector-go/internal/config"
	pvlog "github.com/aosc-dev/p-vector-go/internal/log"
	"github.com/aosc-dev/p-vector-go/internal/pverr"
	"github.com/aosc-dev/p-vector-go/internal/repoindex"
)

// Collector drives the reclaim pass against one Store/Config pair.
type Collector struct {
	Config *config.Config
	Store  *repoindex.Store
	Log    *slog.Logger
}

func New(cfg *config.Config, store *repoindex.Store, log *slog.Logger) *Collector {
	return &Collector{Config: cfg, Store: store, Log: log}
}

// Run performs the full reclaim pass: stale duplicates, orphan repos,
// disk/db repo reconciliation, then by-hash retention pruning.
func (c *Collector) Run(ctx context.Context) error {
	dupes, err := c.Store.PruneStaleDuplicates(ctx)
	if err != nil {
		return err
	}
	c.Log.Info("pruned stale duplicates", pvlog.Stage("gc"), "count", dupes)

	orphans, err := c.Store.PruneOrphanRepos(ctx)
	if err != nil {
		return err
	}
	c.Log.Info("pruned orphan repos", pvlog.Stage("gc"), "count", orphans)

	if err := c.reconcileRepos(ctx); err != nil {
		return err
	}

	if c.Config.AcquireByHash > 0 {
		if err := c.pruneByHash(); err != nil {
			return err
		}
	}

	return nil
}

// reconcileRepos deletes every repo whose pool/<path> directory no longer
// exists on disk, along with its dists/<path> tree and the InRelease file
// one level up.
func (c *Collector) reconcileRepos(ctx context.Context) error {
	repos, err := c.Store.AllRepos(ctx)
	if err != nil {
		return err
	}

	for _, r := range repos {
		poolDir := filepath.Join(c.Config.PoolPath(), r.Path)
		if _, err := os.Stat(poolDir); err == nil {
			continue
		}

		if err := c.Store.DeleteRepo(ctx, r.Name); err != nil {
			return err
		}

		distsDir := filepath.Join(c.Config.DistsPath(), r.Path)
		if err := os.RemoveAll(distsDir); err != nil {
			if err := pverr.New(pverr.IoError, "gc", err); pverr.Fatal(err) {
				return err
			}
			c.Log.Warn("failed to remove dists tree for vanished repo",
				pvlog.Stage("gc"), "path", distsDir, "error", err)
		}

		parent := filepath.Dir(distsDir)
		if err := os.Remove(filepath.Join(parent, "InRelease")); err != nil && !os.IsNotExist(err) {
			if err := pverr.New(pverr.IoError, "gc", err); pverr.Fatal(err) {
				return err
			}
			c.Log.Warn("failed to remove InRelease for vanished repo",
				pvlog.Stage("gc"), "parent", parent, "error", err)
		}
		if err := os.Remove(parent); err != nil {
			if err := pverr.New(pverr.IoError, "gc", err); pverr.Fatal(err) {
				return err
			}
			c.Log.Warn("leaving non-empty or missing parent directory",
				pvlog.Stage("gc"), "parent", parent, "error", err)
		}

		c.Log.Info("removed vanished repo", pvlog.Stage("gc"), "repo", r.Name, "path", r.Path)
	}

	return nil
}

// pruneByHash estimates each branch's per-snapshot artifact count from the
// live tree, multiplies by the configured retention count, and deletes
// everything beyond that count in every by-hash/SHA256 directory, oldest
// first.
func (c *Collector) pruneByHash() error {
	distsRoot := c.Config.DistsPath()
	entries, err := os.ReadDir(distsRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return pverr.New(pverr.IoError, "gc", err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		branchDir := filepath.Join(distsRoot, e.Name())
		if err := c.pruneBranchByHash(branchDir); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) pruneBranchByHash(branchDir string) error {
	snapshotSize, err := countNonByHashFiles(branchDir)
	if err != nil {
		return err
	}
	keep := snapshotSize * c.Config.AcquireByHash

	byHashDir := filepath.Join(branchDir, "by-hash", "SHA256")
	if _, err := os.Stat(byHashDir); os.IsNotExist(err) {
		return nil
	}

	files, err := os.ReadDir(byHashDir)
	if err != nil {
		return pverr.New(pverr.IoError, "gc", err)
	}

	type fileMTime struct {
		name  string
		mtime int64
	}
	var withMTime []fileMTime
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		withMTime = append(withMTime, fileMTime{name: f.Name(), mtime: info.ModTime().Unix()})
	}

	sort.Slice(withMTime, func(i, j int) bool { return withMTime[i].mtime > withMTime[j].mtime })

	if keep >= len(withMTime) {
		return nil
	}

	for _, f := range withMTime[keep:] {
		path := filepath.Join(byHashDir, f.name)
		if err := os.Remove(path); err != nil {
			if err := pverr.New(pverr.IoError, "gc", err); pverr.Fatal(err) {
				return err
			}
			c.Log.Warn("failed to prune by-hash copy", pvlog.Stage("gc"), "path", path, "error", err)
		}
	}
	return nil
}

// countNonByHashFiles counts regular files under root excluding anything
// beneath a by-hash directory, approximating one snapshot's artifact count.
func countNonByHashFiles(root string) (int, error) {
	count := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			if info.Name() == "by-hash" {
				return filepath.SkipDir
			}
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return 0, pverr.New(pverr.IoError, "gc", err)
	}
	return count, nil
}
