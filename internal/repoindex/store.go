package repoindex

import (
	"context"
	"log/slog"

	"github.com/aptly-dev/aptly/deb"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aosc-dev/p-vector-go/internal/pverr"
)

// Store wraps the persistent index: packages, files, dependencies, sodeps,
// and repo rows, plus the transactional operations the scan orchestrator
// drives.
type Store struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// Open establishes a connection pool against connString.
func Open(ctx context.Context, connString string, log *slog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	return &Store{pool: pool, log: log}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Reset drops and recreates every table Schema defines.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, DropAll); err != nil {
		return pverr.New(pverr.DbError, "repoindex", err)
	}
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return pverr.New(pverr.DbError, "repoindex", err)
	}
	return nil
}

// PackageRow is a package row as the scanner needs it for disk/db
// reconciliation: just enough to stat the file on disk and validate it.
type PackageRow struct {
	Package  string
	Version  string
	Repo     string
	Filename string
	Size     int64
	MTime    int64
	SHA256   string
}

// PackagesInBranches returns every package row belonging to a repo whose
// branch is one of the given branch names.
func (s *Store) PackagesInBranches(ctx context.Context, branches []string) ([]PackageRow, error) {
	if len(branches) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
SELECT p.package, p.version, p.repo, p.filename, p.size, p.mtime, p.sha256
FROM pv_packages p JOIN pv_repos r ON p.repo = r.name
WHERE r.branch = ANY($1)`, branches)
	if err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	defer rows.Close()

	var out []PackageRow
	for rows.Next() {
		var r PackageRow
		if err := rows.Scan(&r.Package, &r.Version, &r.Repo, &r.Filename, &r.Size, &r.MTime, &r.SHA256); err != nil {
			return nil, pverr.New(pverr.DbError, "repoindex", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateRepos upserts every repo row, bumping mtime on conflict.
func (s *Store) UpdateRepos(ctx context.Context, repos []*Repo) error {
	if len(repos) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return pverr.New(pverr.DbError, "repoindex", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, r := range repos {
		testing := 1
		if r.Branch == "stable" {
			testing = 0
		}
		_, err := tx.Exec(ctx, `
INSERT INTO pv_repos (name, path, testing, branch, component, architecture, mtime)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (name) DO UPDATE SET mtime = now()`,
			r.Name, r.Path, testing, r.Branch, r.Component, r.Architecture)
		if err != nil {
			return pverr.New(pverr.DbError, "repoindex", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return pverr.New(pverr.DbError, "repoindex", err)
	}
	return nil
}

// PackageBundle is one scanned package plus everything that hangs off its
// key: file inventory, dependency rows, and shared-object relations.
type PackageBundle struct {
	Package      Package
	Files        []PackageFile
	Dependencies []PackageDependency
	SoDeps       []PackageSoDep
}

// SavePackages writes every bundle in a single transaction. A SELECT on the
// key before the upsert tells INSERT from UPDATE: on UPDATE the updated
// main row is copied into the duplicate table under the losing filename and
// the file/dep/sodep rows for that key are rewritten fresh for the winner.
func (s *Store) SavePackages(ctx context.Context, bundles []PackageBundle) error {
	if len(bundles) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return pverr.New(pverr.DbError, "repoindex", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, b := range bundles {
		if err := s.savePackage(ctx, tx, b); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return pverr.New(pverr.DbError, "repoindex", err)
	}
	return nil
}

func (s *Store) savePackage(ctx context.Context, tx pgx.Tx, b PackageBundle) error {
	p := b.Package

	var oldFilename string
	err := tx.QueryRow(ctx, `
SELECT filename FROM pv_packages WHERE package = $1 AND version = $2 AND repo = $3`,
		p.Name, p.Version, p.Repo).Scan(&oldFilename)
	isUpdate := err == nil
	if err != nil && err != pgx.ErrNoRows {
		return pverr.New(pverr.DbError, "repoindex", err)
	}

	_, err = tx.Exec(ctx, `
INSERT INTO pv_packages
	(package, version, repo, architecture, filename, size, sha256, mtime, debtime,
	 section, installed_size, maintainer, description, features)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (package, version, repo) DO UPDATE SET
	filename=$5, size=$6, sha256=$7, mtime=$8, debtime=$9,
	section=$10, installed_size=$11, maintainer=$12, description=$13, features=$14`,
		p.Name, p.Version, p.Repo, p.Architecture, p.Filename, p.Size, p.SHA256,
		p.MTime, p.DebTime, p.Section, p.InstalledSize, p.Maintainer, p.Description, nullable(p.Features))
	if err != nil {
		return pverr.New(pverr.DbError, "repoindex", err)
	}

	if isUpdate {
		s.log.Warn("duplicate package key, archiving losing filename",
			"package", p.Name, "version", p.Version, "repo", p.Repo, "losing_filename", oldFilename)

		if _, err := tx.Exec(ctx, `DELETE FROM pv_package_sodep WHERE package=$1 AND version=$2 AND repo=$3`,
			p.Name, p.Version, p.Repo); err != nil {
			return pverr.New(pverr.DbError, "repoindex", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM pv_package_files WHERE package=$1 AND version=$2 AND repo=$3`,
			p.Name, p.Version, p.Repo); err != nil {
			return pverr.New(pverr.DbError, "repoindex", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM pv_package_dependencies WHERE package=$1 AND version=$2 AND repo=$3`,
			p.Name, p.Version, p.Repo); err != nil {
			return pverr.New(pverr.DbError, "repoindex", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM pv_package_duplicate WHERE package=$1 AND version=$2 AND repo=$3`,
			p.Name, p.Version, p.Repo); err != nil {
			return pverr.New(pverr.DbError, "repoindex", err)
		}

		_, err = tx.Exec(ctx, `
INSERT INTO pv_package_duplicate
	(package, version, repo, architecture, filename, size, sha256, mtime, debtime,
	 section, installed_size, maintainer, description, features)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			p.Name, p.Version, p.Repo, p.Architecture, oldFilename, p.Size, p.SHA256,
			p.MTime, p.DebTime, p.Section, p.InstalledSize, p.Maintainer, p.Description, nullable(p.Features))
		if err != nil {
			return pverr.New(pverr.DbError, "repoindex", err)
		}
	}

	for _, dep := range b.Dependencies {
		if dep.Value == "" {
			continue
		}
		_, err := tx.Exec(ctx, `
INSERT INTO pv_package_dependencies (package, version, repo, relationship, value)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (package, version, repo, relationship) DO UPDATE SET value=$5`,
			p.Name, p.Version, p.Repo, string(dep.Relationship), dep.Value)
		if err != nil {
			return pverr.New(pverr.DbError, "repoindex", err)
		}
	}

	for _, so := range b.SoDeps {
		_, err := tx.Exec(ctx, `
INSERT INTO pv_package_sodep (package, version, repo, direction, so_name, so_version)
VALUES ($1,$2,$3,$4,$5,$6)`,
			p.Name, p.Version, p.Repo, int(so.Direction), so.SoName, nullable(so.SoVersion))
		if err != nil {
			return pverr.New(pverr.DbError, "repoindex", err)
		}
	}

	for _, f := range b.Files {
		_, err := tx.Exec(ctx, `
INSERT INTO pv_package_files (package, version, repo, path, filename, size, type, perms, uid, gid, uname, gname)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			p.Name, p.Version, p.Repo, f.Path, f.Filename, f.Size, int16(f.Type), f.Perms, f.UID, f.GID,
			nullable(f.UName), nullable(f.GName))
		if err != nil {
			return pverr.New(pverr.DbError, "repoindex", err)
		}
	}

	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ChangeCandidate is one freshly-scanned package plus the branch/component
// labels needed to format a notifier message; Package.Repo is the lookup
// key into the index, the labels are not recoverable from it alone when the
// repo key is keyed purely on architecture (component == "main").
type ChangeCandidate struct {
	Package
	Branch    string
	Component string
}

// WhatChanged compares each candidate's version against the highest version
// already on file for (name, repo), emitting the four change codes. Must be
// called before SavePackages so the prior observation is undisturbed.
func (s *Store) WhatChanged(ctx context.Context, candidates []ChangeCandidate) ([]Change, error) {
	var changes []Change
	for _, c := range candidates {
		p := c.Package
		rows, err := s.pool.Query(ctx, `
SELECT version FROM pv_packages WHERE package=$1 AND repo=$2`, p.Name, p.Repo)
		if err != nil {
			return nil, pverr.New(pverr.DbError, "repoindex", err)
		}
		var versions []string
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return nil, pverr.New(pverr.DbError, "repoindex", err)
			}
			versions = append(versions, v)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, pverr.New(pverr.DbError, "repoindex", err)
		}

		label := c.Branch + "-" + c.Component

		if len(versions) == 0 {
			changes = append(changes, Change{
				Component: label, Package: p.Name, Arch: p.Architecture,
				Method: ChangeNew, ToVer: p.Version,
			})
			continue
		}

		highest := versions[0]
		for _, v := range versions[1:] {
			if deb.CompareVersions(v, highest) > 0 {
				highest = v
			}
		}

		switch {
		case deb.CompareVersions(p.Version, highest) > 0:
			changes = append(changes, Change{
				Component: label, Package: p.Name, Arch: p.Architecture,
				Method: ChangeUpgrade, FromVer: highest, ToVer: p.Version,
			})
		case p.Version == highest:
			changes = append(changes, Change{
				Component: label, Package: p.Name, Arch: p.Architecture,
				Method: ChangeRescan, FromVer: highest, ToVer: p.Version,
			})
		}
		// otherwise: older than what's already recorded, no emission.
	}

	return changes, nil
}

// Removed looks up the last known metadata for each filename, emits removal
// changes, and deletes the rows. Must be called before the transaction that
// performs the deletion commits, so the lookup observes pre-removal state.
func (s *Store) Removed(ctx context.Context, filenames []string) ([]Change, error) {
	if len(filenames) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
SELECT p.package, p.version, p.architecture, r.branch, r.component
FROM pv_packages p JOIN pv_repos r ON p.repo = r.name
WHERE p.filename = ANY($1)`, filenames)
	if err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}

	var changes []Change
	for rows.Next() {
		var name, version, arch, branch, component string
		if err := rows.Scan(&name, &version, &arch, &branch, &component); err != nil {
			rows.Close()
			return nil, pverr.New(pverr.DbError, "repoindex", err)
		}
		changes = append(changes, Change{
			Component: branch + "-" + component, Package: name, Arch: arch,
			Method: ChangeRemoved, FromVer: version,
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repoSet := make(map[string]struct{})
	rows2, err := tx.Query(ctx, `SELECT DISTINCT repo FROM pv_packages WHERE filename = ANY($1)`, filenames)
	if err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	for rows2.Next() {
		var r string
		if err := rows2.Scan(&r); err == nil {
			repoSet[r] = struct{}{}
		}
	}
	rows2.Close()

	if _, err := tx.Exec(ctx, `DELETE FROM pv_packages WHERE filename = ANY($1)`, filenames); err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	for repo := range repoSet {
		if _, err := tx.Exec(ctx, `UPDATE pv_repos SET mtime = now() WHERE name = $1`, repo); err != nil {
			return nil, pverr.New(pverr.DbError, "repoindex", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	return changes, nil
}

// MTimeTouch is a (filename, new mtime) pair applied when size/sha256
// already match but the on-disk mtime drifted.
type MTimeTouch struct {
	Filename string
	MTime    int64
}

// NeedsUpdate rewrites only the mtime column for each touch; it never
// triggers a re-scan.
func (s *Store) NeedsUpdate(ctx context.Context, touches []MTimeTouch) error {
	if len(touches) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return pverr.New(pverr.DbError, "repoindex", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, t := range touches {
		if _, err := tx.Exec(ctx, `UPDATE pv_packages SET mtime = $1 WHERE filename = $2`, t.MTime, t.Filename); err != nil {
			return pverr.New(pverr.DbError, "repoindex", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return pverr.New(pverr.DbError, "repoindex", err)
	}
	return nil
}

// ComponentPackage is one row of a Packages/Contents listing query: the
// package plus its concatenated dependency fields.
type ComponentPackage struct {
	Package
	Dependencies []PackageDependency
}

// ListComponent enumerates main-table packages in a component by joining
// the repo table on path. The duplicate table is not queried: duplicates
// never publish.
func (s *Store) ListComponent(ctx context.Context, branch, component, architecture string) ([]ComponentPackage, error) {
	path := branch + "/" + component
	rows, err := s.pool.Query(ctx, `
SELECT p.package, p.version, p.repo, p.architecture, p.filename, p.size, p.sha256,
       p.mtime, p.debtime, p.section, p.installed_size, p.maintainer, p.description, p.features
FROM pv_packages p
JOIN pv_repos r ON p.repo = r.name
WHERE r.path = $1 AND r.architecture = $2`, path, architecture)
	if err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	defer rows.Close()

	var out []ComponentPackage
	for rows.Next() {
		var cp ComponentPackage
		var features *string
		if err := rows.Scan(&cp.Name, &cp.Version, &cp.Repo, &cp.Architecture, &cp.Filename, &cp.Size,
			&cp.SHA256, &cp.MTime, &cp.DebTime, &cp.Section, &cp.InstalledSize, &cp.Maintainer,
			&cp.Description, &features); err != nil {
			return nil, pverr.New(pverr.DbError, "repoindex", err)
		}
		if features != nil {
			cp.Features = *features
		}
		out = append(out, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}

	for i := range out {
		deps, err := s.dependenciesFor(ctx, out[i].Name, out[i].Version, out[i].Repo)
		if err != nil {
			return nil, err
		}
		out[i].Dependencies = deps
	}

	return out, nil
}

func (s *Store) dependenciesFor(ctx context.Context, name, version, repo string) ([]PackageDependency, error) {
	rows, err := s.pool.Query(ctx, `
SELECT relationship, value FROM pv_package_dependencies WHERE package=$1 AND version=$2 AND repo=$3`,
		name, version, repo)
	if err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	defer rows.Close()

	var deps []PackageDependency
	for rows.Next() {
		var d PackageDependency
		var rel string
		if err := rows.Scan(&rel, &d.Value); err != nil {
			return nil, pverr.New(pverr.DbError, "repoindex", err)
		}
		d.Package, d.Version, d.Repo = name, version, repo
		d.Relationship = Relationship(rel)
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

// ContentsRow is a sorted file-path-to-owning-packages projection row.
type ContentsRow struct {
	Path     string
	Packages []string
}

// ListContents returns, for a (branch, component, architecture), every
// distinct regular-file path with its comma-joinable list of owning
// packages, sorted by path. f.type holds the raw tar typeflag, so regular
// files are stored as '0' (48).
func (s *Store) ListContents(ctx context.Context, branch, component, architecture string) ([]ContentsRow, error) {
	path := branch + "/" + component
	rows, err := s.pool.Query(ctx, `
SELECT concat_ws('/', NULLIF(f.path, ''), f.filename) AS full_path,
       array_agg(DISTINCT f.package ORDER BY f.package)
FROM pv_package_files f
JOIN pv_packages p ON f.package = p.package AND f.version = p.version AND f.repo = p.repo
JOIN pv_repos r ON p.repo = r.name
WHERE r.path = $1 AND r.architecture = $2 AND f.type = 48
GROUP BY full_path
ORDER BY full_path`, path, architecture)
	if err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	defer rows.Close()

	var out []ContentsRow
	for rows.Next() {
		var r ContentsRow
		if err := rows.Scan(&r.Path, &r.Packages); err != nil {
			return nil, pverr.New(pverr.DbError, "repoindex", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// BranchComponents lists every distinct (component, architecture) pair
// present in a branch.
func (s *Store) BranchComponents(ctx context.Context, branch string) ([]struct{ Component, Architecture string }, error) {
	rows, err := s.pool.Query(ctx, `
SELECT DISTINCT component, architecture FROM pv_repos WHERE branch = $1`, branch)
	if err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	defer rows.Close()

	var out []struct{ Component, Architecture string }
	for rows.Next() {
		var c, a string
		if err := rows.Scan(&c, &a); err != nil {
			return nil, pverr.New(pverr.DbError, "repoindex", err)
		}
		out = append(out, struct{ Component, Architecture string }{c, a})
	}
	return out, rows.Err()
}

// MaxRepoMTime returns the newest mtime among repo rows in a branch, used by
// the release renderer's refresh decision.
func (s *Store) MaxRepoMTime(ctx context.Context, branch string) (t int64, err error) {
	var unixSeconds int64
	err = s.pool.QueryRow(ctx, `
SELECT COALESCE(EXTRACT(EPOCH FROM MAX(mtime))::bigint, 0) FROM pv_repos WHERE branch = $1`, branch).Scan(&unixSeconds)
	if err != nil {
		return 0, pverr.New(pverr.DbError, "repoindex", err)
	}
	return unixSeconds, nil
}

// DiscoverBranches lists distinct branch names currently present in the
// index. The subcommands resolve their branches from the config or a pool
// walk instead and do not call it.
func (s *Store) DiscoverBranches(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT branch FROM pv_repos`)
	if err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, pverr.New(pverr.DbError, "repoindex", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// PruneStaleDuplicates deletes duplicate-table rows whose filename also
// appears in the main table: once the winning filename changes again, the
// previously-archived loser is no longer reachable by any live row and is
// pure deadweight.
func (s *Store) PruneStaleDuplicates(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
DELETE FROM pv_package_duplicate d
WHERE EXISTS (SELECT 1 FROM pv_packages p WHERE p.filename = d.filename)`)
	if err != nil {
		return 0, pverr.New(pverr.DbError, "repoindex", err)
	}
	return tag.RowsAffected(), nil
}

// PruneOrphanRepos deletes repo rows with zero packages, cascading to any
// files/deps/sodeps that still reference them.
func (s *Store) PruneOrphanRepos(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
DELETE FROM pv_repos r
WHERE NOT EXISTS (SELECT 1 FROM pv_packages p WHERE p.repo = r.name)`)
	if err != nil {
		return 0, pverr.New(pverr.DbError, "repoindex", err)
	}
	return tag.RowsAffected(), nil
}

// RepoPath is the minimal shape the garbage collector needs to test a
// repo's backing pool directory for existence.
type RepoPath struct {
	Name   string
	Path   string
	Branch string
}

// AllRepos lists every repo row's name/path/branch.
func (s *Store) AllRepos(ctx context.Context) ([]RepoPath, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, path, branch FROM pv_repos`)
	if err != nil {
		return nil, pverr.New(pverr.DbError, "repoindex", err)
	}
	defer rows.Close()

	var out []RepoPath
	for rows.Next() {
		var r RepoPath
		if err := rows.Scan(&r.Name, &r.Path, &r.Branch); err != nil {
			return nil, pverr.New(pverr.DbError, "repoindex", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteRepo removes a single repo row by name after deleting its
// duplicate-table rows; the delete cascades to its packages and their
// files/deps/sodeps.
func (s *Store) DeleteRepo(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM pv_package_duplicate WHERE repo = $1`, name); err != nil {
		return pverr.New(pverr.DbError, "repoindex", err)
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM pv_repos WHERE name = $1`, name); err != nil {
		return pverr.New(pverr.DbError, "repoindex", err)
	}
	return nil
}

// DuplicateCount reports how many rows currently sit in the duplicate
// table, for the maintenance report.
func (s *Store) DuplicateCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM pv_package_duplicate`).Scan(&n)
	if err != nil {
		return 0, pverr.New(pverr.DbError, "repoindex", err)
	}
	return n, nil
}

// TouchAllRepos bumps mtime on every repo row; used by the maintenance
// subcommand's bookkeeping refresh.
func (s *Store) TouchAllRepos(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE pv_repos SET mtime = now()`)
	if err != nil {
		return 0, pverr.New(pverr.DbError, "repoindex", err)
	}
	return tag.RowsAffected(), nil
}
