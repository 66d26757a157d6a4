// Package scanner walks the mirror pool, reconciles it against the
// repository index, dispatches parallel Deb Reader work, and drives the
// index writes and change notifications in the order the core requires.
package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alitto/pond/v2"

	"github.com/aosc-dev/p-vector-go/internal/config"
	"github.com/aosc-dev/p-vector-go/internal/debscan"
	pvlog "github.com/aosc-dev/p-vector-go/internal/log"
	"github.com/aosc-dev/p-vector-go/internal/notify"
	"github.com/aosc-dev/p-vector-go/internal/pverr"
	"github.com/aosc-dev/p-vector-go/internal/repoindex"
)

// Scanner drives one full scan of the mirror pool against the index.
type Scanner struct {
	Config   *config.Config
	Store    *repoindex.Store
	Notifier notify.Notifier
	Pool     pond.Pool
	Log      *slog.Logger
}

// New constructs a Scanner with a dedicated work-stealing subpool sized to
// Config.Workers.Parse, so blocking filesystem/ELF work never runs on the
// asynchronous database goroutines.
func New(cfg *config.Config, store *repoindex.Store, notifier notify.Notifier, pool pond.Pool, log *slog.Logger) *Scanner {
	return &Scanner{Config: cfg, Store: store, Notifier: notifier, Pool: pool, Log: log}
}

// discoverTopics enumerates directories at depth exactly 2 under pool/,
// i.e. every "<branch>/<component>" pair actually present on disk.
func discoverTopics(poolRoot string) ([]string, error) {
	entries, err := os.ReadDir(poolRoot)
	if err != nil {
		return nil, pverr.New(pverr.IoError, "scanner", err)
	}

	var topics []string
	for _, branch := range entries {
		if !branch.IsDir() {
			continue
		}
		subEntries, err := os.ReadDir(filepath.Join(poolRoot, branch.Name()))
		if err != nil {
			return nil, pverr.New(pverr.IoError, "scanner", err)
		}
		for _, component := range subEntries {
			if component.IsDir() {
				topics = append(topics, filepath.Join(branch.Name(), component.Name()))
			}
		}
	}
	return topics, nil
}

// walkPool recursively collects every ".deb" file under poolRoot.
func walkPool(poolRoot string) ([]string, error) {
	var debs []string
	err := filepath.Walk(poolRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".deb") {
			debs = append(debs, path)
		}
		return nil
	})
	if err != nil {
		return nil, pverr.New(pverr.IoError, "scanner", err)
	}
	return debs, nil
}

// branchesFor resolves the configured/discovered set of branches to scan.
func (s *Scanner) branchesFor(poolRoot string) ([]string, error) {
	return ResolveBranches(s.Config, poolRoot)
}

// ResolveBranches resolves the set of branches a subcommand should operate
// on: the configured branch list, or (when Discover is set) every branch
// directory actually present under pool/. Scan and release both call this
// so the two commands never disagree about what "discover" means.
func ResolveBranches(cfg *config.Config, poolRoot string) ([]string, error) {
	if !cfg.Discover {
		return cfg.BranchNames(), nil
	}
	topics, err := discoverTopics(poolRoot)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var branches []string
	for _, t := range topics {
		branch := strings.SplitN(t, string(filepath.Separator), 2)[0]
		if _, ok := seen[branch]; !ok {
			seen[branch] = struct{}{}
			branches = append(branches, branch)
		}
	}
	return branches, nil
}

// reconciled is the classified db-vs-disk outcome of step 4.
type reconciled struct {
	toRemove    []string
	scanned     map[string]struct{}
	needsUpdate []repoindex.MTimeTouch
}

// reconcile classifies every db-known package against what's on disk,
// offloading the blocking stat/hash work to the CPU-bound pool.
func (s *Scanner) reconcile(ctx context.Context, poolRoot string, dbSet []repoindex.PackageRow) (*reconciled, error) {
	group := s.Pool.NewGroup()
	type outcome struct {
		remove     string
		scannedRel string
		touch      *repoindex.MTimeTouch
	}
	outcomes := make([]outcome, len(dbSet))

	for i, row := range dbSet {
		i, row := i, row
		group.SubmitErr(func() error {
			abs := filepath.Join(poolRoot, row.Filename)
			stat, err := os.Stat(abs)
			if err != nil {
				if os.IsNotExist(err) {
					outcomes[i] = outcome{remove: row.Filename}
					return nil
				}
				return nil
			}
			if stat.Size() != row.Size {
				return nil
			}
			if stat.ModTime().Unix() == row.MTime {
				outcomes[i] = outcome{scannedRel: row.Filename}
				return nil
			}
			sum, err := sha256File(abs)
			if err != nil || sum != row.SHA256 {
				return nil
			}
			outcomes[i] = outcome{
				scannedRel: row.Filename,
				touch:      &repoindex.MTimeTouch{Filename: row.Filename, MTime: stat.ModTime().Unix()},
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, pverr.New(pverr.IoError, "scanner", err)
	}

	out := &reconciled{scanned: make(map[string]struct{})}
	for _, o := range outcomes {
		switch {
		case o.remove != "":
			out.toRemove = append(out.toRemove, o.remove)
		case o.scannedRel != "":
			// Keyed by absolute path, the form walkPool reports the disk set in.
			out.scanned[filepath.Join(poolRoot, o.scannedRel)] = struct{}{}
			if o.touch != nil {
				out.needsUpdate = append(out.needsUpdate, *o.touch)
			}
		}
	}
	return out, nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// scanChanged runs the Deb Reader over every changed path in parallel.
// Per-file errors are dispatched through pverr.Fatal: the kinds a single
// .deb parse can produce are all non-fatal, so they are logged and
// skipped, but a fatal error aborts the scan and is returned to the
// caller instead.
func (s *Scanner) scanChanged(ctx context.Context, poolRoot string, changed []string) ([]*debscan.Parsed, error) {
	group := s.Pool.NewGroup()
	results := make([]*debscan.Parsed, len(changed))

	for i, path := range changed {
		i, path := i, path
		group.SubmitErr(func() error {
			parsed, err := debscan.Parse(poolRoot, path)
			if err != nil {
				if pverr.Fatal(err) {
					return err
				}
				s.Log.Warn("skipping .deb", pvlog.Stage("scan"), "path", path, "error", err)
				return nil
			}
			results[i] = parsed
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// Run executes the full scan pipeline over the configured/discovered
// branches. Returns the number of packages changed, for CLI reporting.
func (s *Scanner) Run(ctx context.Context) (int, error) {
	poolRoot := s.Config.PoolPath()

	branches, err := s.branchesFor(poolRoot)
	if err != nil {
		return 0, err
	}
	if len(branches) == 0 {
		return 0, nil
	}

	diskSet, err := walkPool(poolRoot)
	if err != nil {
		return 0, err
	}

	dbSet, err := s.Store.PackagesInBranches(ctx, branches)
	if err != nil {
		return 0, err
	}

	recon, err := s.reconcile(ctx, poolRoot, dbSet)
	if err != nil {
		return 0, err
	}

	changed := diffDiskScanned(diskSet, recon.scanned)
	if len(recon.toRemove) == 0 && len(changed) == 0 {
		return 0, nil
	}

	if len(recon.toRemove) > 0 {
		removedChanges, err := s.Store.Removed(ctx, toRelative(poolRoot, recon.toRemove))
		if err != nil {
			return 0, err
		}
		if err := s.Notifier.Publish(ctx, removedChanges); err != nil {
			s.Log.Warn("notifier publish failed", pvlog.Stage("scan"), "error", err)
		}
	}

	parsedList, err := s.scanChanged(ctx, poolRoot, changed)
	if err != nil {
		return 0, err
	}

	if len(parsedList) > 0 {
		candidates := make([]repoindex.ChangeCandidate, len(parsedList))
		for i, p := range parsedList {
			candidates[i] = toChangeCandidate(p)
		}
		changes, err := s.Store.WhatChanged(ctx, candidates)
		if err != nil {
			return 0, err
		}
		if err := s.Notifier.Publish(ctx, changes); err != nil {
			s.Log.Warn("notifier publish failed", pvlog.Stage("scan"), "error", err)
		}
	}

	if len(recon.needsUpdate) > 0 {
		// Only mtime drifted; applied last per the commit ordering the
		// orchestrator must preserve.
		defer func() {
			if err := s.Store.NeedsUpdate(ctx, recon.needsUpdate); err != nil {
				s.Log.Warn("needs-update failed", pvlog.Stage("scan"), "error", err)
			}
		}()
	}

	repos := collectRepos(parsedList)
	if err := s.Store.UpdateRepos(ctx, repos); err != nil {
		return 0, err
	}

	bundles := make([]repoindex.PackageBundle, len(parsedList))
	for i, p := range parsedList {
		bundles[i] = toBundle(p)
	}
	if err := s.Store.SavePackages(ctx, bundles); err != nil {
		return 0, err
	}

	return len(parsedList), nil
}

func diffDiskScanned(disk []string, scanned map[string]struct{}) []string {
	var out []string
	for _, p := range disk {
		if _, ok := scanned[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func toRelative(poolRoot string, abs []string) []string {
	out := make([]string, len(abs))
	for i, p := range abs {
		if strings.HasPrefix(p, poolRoot) {
			out[i] = filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(p, poolRoot), string(filepath.Separator)))
		} else {
			out[i] = p
		}
	}
	return out
}

func repoName(p *debscan.Parsed) string {
	key := repoindex.RepoKey(p.Component, p.Control.Architecture)
	return key + "/" + p.Branch
}

func collectRepos(parsed []*debscan.Parsed) []*repoindex.Repo {
	seen := make(map[string]*repoindex.Repo)
	for _, p := range parsed {
		name := repoName(p)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = &repoindex.Repo{
			Name:         name,
			Path:         p.Branch + "/" + p.Component,
			Branch:       p.Branch,
			Component:    p.Component,
			Architecture: p.Control.Architecture,
		}
	}
	out := make([]*repoindex.Repo, 0, len(seen))
	for _, r := range seen {
		out = append(out, r)
	}
	return out
}

func toChangeCandidate(p *debscan.Parsed) repoindex.ChangeCandidate {
	return repoindex.ChangeCandidate{
		Package:   toPackage(p),
		Branch:    p.Branch,
		Component: p.Component,
	}
}

func toPackage(p *debscan.Parsed) repoindex.Package {
	return repoindex.Package{
		Name:          p.Control.Package,
		Version:       p.Control.Version,
		Repo:          repoName(p),
		Architecture:  p.Control.Architecture,
		Filename:      p.Filename,
		Size:          p.Size,
		SHA256:        p.SHA256,
		MTime:         p.MTime,
		DebTime:       p.DebTime,
		Section:       p.Control.Section,
		InstalledSize: p.Control.InstalledSizeInt(),
		Maintainer:    p.Control.Maintainer,
		Description:   p.Control.Description,
		Features:      p.Control.Features,
	}
}

func toBundle(p *debscan.Parsed) repoindex.PackageBundle {
	pkg := toPackage(p)

	var deps []repoindex.PackageDependency
	for _, rel := range repoindex.RelationshipOrder {
		if v, ok := p.Control.Extra[string(rel)]; ok && v != "" {
			deps = append(deps, repoindex.PackageDependency{
				Package: pkg.Name, Version: pkg.Version, Repo: pkg.Repo,
				Relationship: rel, Value: v,
			})
		}
	}

	var sodeps []repoindex.PackageSoDep
	for so := range p.SoProvides {
		name, version := debscan.SplitSoName(so)
		sodeps = append(sodeps, repoindex.PackageSoDep{
			Package: pkg.Name, Version: pkg.Version, Repo: pkg.Repo,
			Direction: repoindex.SoProvides, SoName: name, SoVersion: version,
		})
	}
	for so := range p.SoRequires {
		name, version := debscan.SplitSoName(so)
		sodeps = append(sodeps, repoindex.PackageSoDep{
			Package: pkg.Name, Version: pkg.Version, Repo: pkg.Repo,
			Direction: repoindex.SoRequires, SoName: name, SoVersion: version,
		})
	}

	files := make([]repoindex.PackageFile, len(p.Files))
	for i, f := range p.Files {
		files[i] = repoindex.PackageFile{
			Package: pkg.Name, Version: pkg.Version, Repo: pkg.Repo,
			Path: f.Path, Filename: f.Name, Size: f.Size, Type: f.Type,
			Perms: f.Perms, UID: f.UID, GID: f.GID, UName: f.UName, GName: f.GName,
		}
	}

	return repoindex.PackageBundle{Package: pkg, Files: files, Dependencies: deps, SoDeps: sodeps}
}
