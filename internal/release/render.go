// Package release renders the per-branch dists/ tree: Packages and
// Contents indexes per component/architecture, a signed InRelease, and
// the by-hash/SHA256 layout, deciding per-branch whether regeneration is
// needed before doing any of it.
package release

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/aptly-dev/aptly/pgp"

	"github.com/aosc-dev/p-vector-go/internal/common"
	"github.com/aosc-dev/p-vector-go/internal/config"
	pvlog "github.com/aosc-dev/p-vector-go/internal/log"
	"github.com/aosc-dev/p-vector-go/internal/pverr"
	"github.com/aosc-dev/p-vector-go/internal/repoindex"
)

// Renderer drives regeneration of the dists/ tree for a set of branches.
type Renderer struct {
	Config *config.Config
	Store  *repoindex.Store
	Signer pgp.Signer
	Pool   pond.Pool
	Log    *slog.Logger
}

func New(cfg *config.Config, store *repoindex.Store, signer pgp.Signer, pool pond.Pool, log *slog.Logger) *Renderer {
	return &Renderer{Config: cfg, Store: store, Signer: signer, Pool: pool, Log: log}
}

// Run regenerates every branch in branches whose refresh decision says it
// needs it.
func (r *Renderer) Run(ctx context.Context, branches []string) error {
	decomp := common.NewDeCompressor(ctx, int(r.Config.Workers.Render))
	defer decomp.Shutdown()

	for _, branch := range branches {
		bc := r.Config.Branch(branch)
		inReleasePath := filepath.Join(r.Config.DistsPath(), branch, "InRelease")

		maxMTime, err := r.Store.MaxRepoMTime(ctx, branch)
		if err != nil {
			return err
		}
		needs, err := needsRegeneration(inReleasePath, maxMTime)
		if err != nil {
			return err
		}
		if !needs {
			continue
		}

		if err := r.renderBranch(ctx, decomp, branch, bc); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderBranch(ctx context.Context, decomp *common.DeCompressor, branch string, bc *config.BranchConfig) error {
	comps, err := r.Store.BranchComponents(ctx, branch)
	if err != nil {
		return err
	}
	if len(comps) == 0 {
		return nil
	}

	distsRoot := r.Config.DistsPath()
	if err := os.MkdirAll(distsRoot, 0o755); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}
	liveBranchDir := filepath.Join(distsRoot, branch)

	tmpBranchDir, err := os.MkdirTemp(distsRoot, "."+branch+".tmp-")
	if err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}
	defer func() { _ = os.RemoveAll(tmpBranchDir) }()

	group := r.Pool.NewGroup()
	for _, c := range comps {
		c := c
		group.SubmitErr(func() error {
			return r.renderComponent(ctx, decomp, tmpBranchDir, branch, c.Component, c.Architecture)
		})
	}
	if err := group.Wait(); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}

	architectures, components := archAndComponentSets(comps)

	cache := newBlake3Cache()
	files, err := collectPublishable(tmpBranchDir, cache)
	if err != nil {
		return err
	}

	ttl := r.Config.EffectiveTTL(bc)
	now := time.Now().UTC()
	description := ""
	if bc != nil {
		description = bc.Description
	}

	data := inReleaseData{
		Origin:        r.Config.Origin,
		Label:         r.Config.Label,
		Suite:         branch,
		Codename:      r.Config.Codename,
		Date:          now.Format(releaseDateLayout),
		ValidUntil:    now.Add(time.Duration(ttl) * 24 * time.Hour).Format(releaseDateLayout),
		Architectures: strings.Join(architectures, " "),
		Components:    strings.Join(components, " "),
		Description:   description,
		AcquireByHash: r.Config.AcquireByHash > 0,
		Files:         files,
	}

	var buf bytes.Buffer
	if err := renderInRelease(&buf, data); err != nil {
		return err
	}

	releaseFilePath := filepath.Join(tmpBranchDir, "Release")
	if err := os.WriteFile(releaseFilePath, buf.Bytes(), 0o644); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}

	finalName := "Release"
	if r.Signer != nil {
		inReleaseOut := filepath.Join(tmpBranchDir, "InRelease")
		if err := r.Signer.ClearSign(releaseFilePath, inReleaseOut); err != nil {
			return pverr.New(pverr.SignError, "release", err)
		}
		if err := os.Remove(releaseFilePath); err != nil {
			return pverr.New(pverr.IoError, "release", err)
		}
		finalName = "InRelease"
	} else {
		r.Log.Warn("no certificate configured, writing unsigned Release", pvlog.Stage("release"), "branch", branch)
	}

	if r.Config.AcquireByHash > 0 {
		if err := publishByHash(tmpBranchDir, files); err != nil {
			return err
		}
		if err := publishReleaseFileByHash(tmpBranchDir, filepath.Join(tmpBranchDir, finalName), cache); err != nil {
			return err
		}
	}

	return swapBranchDir(liveBranchDir, tmpBranchDir)
}

func (r *Renderer) renderComponent(ctx context.Context, decomp *common.DeCompressor, tmpBranchDir, branch, component, arch string) error {
	packages, err := r.Store.ListComponent(ctx, branch, component, arch)
	if err != nil {
		return err
	}

	binaryDir := filepath.Join(tmpBranchDir, component, "binary-"+arch)
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}

	var pkgBuf bytes.Buffer
	if err := renderPackagesText(&pkgBuf, packages); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}
	packagesPath := filepath.Join(binaryDir, "Packages")
	if err := os.WriteFile(packagesPath, pkgBuf.Bytes(), 0o644); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}
	if _, err := decomp.Compress(ctx, packagesPath, common.CompressionXZ).Wait(); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}

	rows, err := r.Store.ListContents(ctx, branch, component, arch)
	if err != nil {
		return err
	}

	componentDir := filepath.Join(tmpBranchDir, component)

	var contentsBuf bytes.Buffer
	if err := renderContentsText(&contentsBuf, rows); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}
	contentsPath := filepath.Join(componentDir, "Contents-"+arch)
	if err := os.WriteFile(contentsPath, contentsBuf.Bytes(), 0o644); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}
	if _, err := decomp.Compress(ctx, contentsPath, common.CompressionGzip, common.CompressionZstd).Wait(); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}

	var binContentsBuf bytes.Buffer
	if err := renderBinContentsText(&binContentsBuf, rows); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}
	binContentsPath := filepath.Join(componentDir, "BinContents-"+arch)
	return os.WriteFile(binContentsPath, binContentsBuf.Bytes(), 0o644)
}

func archAndComponentSets(comps []struct{ Component, Architecture string }) ([]string, []string) {
	archSet := make(map[string]struct{})
	compSet := make(map[string]struct{})
	for _, c := range comps {
		archSet[c.Architecture] = struct{}{}
		compSet[c.Component] = struct{}{}
	}
	return sortedKeys(archSet), sortedKeys(compSet)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// collectPublishable walks branchRoot and hashes every file
// common.IsPublishable accepts, relative to branchRoot. Digests go through
// cache so that byte-identical files produced for different
// architectures or components (an empty Contents file, a component with
// no binaries) only pay for sha256 once per render.
func collectPublishable(branchRoot string, cache *blake3Cache) ([]fileEntry, error) {
	var files []fileEntry
	err := filepath.Walk(branchRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(branchRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !common.IsPublishable(rel, info.IsDir()) {
			return nil
		}
		sum, err := cache.sha256For(path)
		if err != nil {
			return err
		}
		files = append(files, fileEntry{Path: rel, Size: info.Size(), SHA256: sum})
		return nil
	})
	if err != nil {
		return nil, pverr.New(pverr.IoError, "release", err)
	}
	return files, nil
}

// swapBranchDir replaces liveBranchDir's contents with tmpBranchDir's:
// rename the live tree aside, rename the new tree into place, then remove
// the old one. Each rename is atomic, but between the two the live path
// does not exist. A bare rename-over is not possible
// because POSIX rename refuses to replace a non-empty directory.
func swapBranchDir(liveBranchDir, tmpBranchDir string) error {
	backupDir := liveBranchDir + ".old"
	_ = os.RemoveAll(backupDir)

	if _, err := os.Stat(liveBranchDir); err == nil {
		if err := os.Rename(liveBranchDir, backupDir); err != nil {
			return pverr.New(pverr.IoError, "release", err)
		}
	}
	if err := os.Rename(tmpBranchDir, liveBranchDir); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}
	_ = os.RemoveAll(backupDir)
	return nil
}
