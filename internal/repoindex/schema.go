package repoindex

// Schema is the minimal DDL needed to operate against a fresh database. It
// is applied only by the reset subcommand; routine migrations and the
// quality-analysis SQL scripts live outside this package.
const Schema = `
CREATE TABLE IF NOT EXISTS pv_repos (
	name TEXT PRIMARY KEY,
	path TEXT NOT NULL,
	testing SMALLINT NOT NULL,
	branch TEXT NOT NULL,
	component TEXT NOT NULL,
	architecture TEXT NOT NULL,
	mtime TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS pv_packages (
	package TEXT NOT NULL,
	version TEXT NOT NULL,
	repo TEXT NOT NULL REFERENCES pv_repos(name) ON DELETE CASCADE,
	architecture TEXT NOT NULL,
	filename TEXT NOT NULL,
	size BIGINT NOT NULL,
	sha256 CHAR(64) NOT NULL,
	mtime INTEGER NOT NULL,
	debtime INTEGER NOT NULL,
	section TEXT NOT NULL,
	installed_size BIGINT NOT NULL,
	maintainer TEXT NOT NULL,
	description TEXT NOT NULL,
	features TEXT,
	PRIMARY KEY (package, version, repo)
);
CREATE INDEX IF NOT EXISTS pv_packages_filename_idx ON pv_packages (filename);
CREATE INDEX IF NOT EXISTS pv_packages_name_repo_idx ON pv_packages (package, repo);

CREATE TABLE IF NOT EXISTS pv_package_duplicate (
	LIKE pv_packages INCLUDING ALL
);

CREATE TABLE IF NOT EXISTS pv_package_files (
	package TEXT NOT NULL,
	version TEXT NOT NULL,
	repo TEXT NOT NULL,
	path TEXT,
	filename TEXT,
	size BIGINT NOT NULL,
	type SMALLINT NOT NULL,
	perms BIGINT NOT NULL,
	uid BIGINT NOT NULL,
	gid BIGINT NOT NULL,
	uname TEXT,
	gname TEXT,
	FOREIGN KEY (package, version, repo) REFERENCES pv_packages(package, version, repo) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS pv_package_files_pkg_idx ON pv_package_files (package, version, repo);

CREATE TABLE IF NOT EXISTS pv_package_dependencies (
	package TEXT NOT NULL,
	version TEXT NOT NULL,
	repo TEXT NOT NULL,
	relationship TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (package, version, repo, relationship),
	FOREIGN KEY (package, version, repo) REFERENCES pv_packages(package, version, repo) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS pv_package_sodep (
	package TEXT NOT NULL,
	version TEXT NOT NULL,
	repo TEXT NOT NULL,
	direction SMALLINT NOT NULL,
	so_name TEXT NOT NULL,
	so_version TEXT,
	FOREIGN KEY (package, version, repo) REFERENCES pv_packages(package, version, repo) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS pv_package_sodep_name_idx ON pv_package_sodep (so_name, direction);

CREATE TABLE IF NOT EXISTS pv_dbsync (
	url TEXT PRIMARY KEY,
	etag TEXT,
	last_modified TEXT
);
`

// DropAll tears down every table Schema creates, in dependency order. Used
// by the reset subcommand before reapplying Schema.
const DropAll = `
DROP TABLE IF EXISTS pv_package_sodep;
DROP TABLE IF EXISTS pv_package_dependencies;
DROP TABLE IF EXISTS pv_package_files;
DROP TABLE IF EXISTS pv_package_duplicate;
DROP TABLE IF EXISTS pv_packages;
DROP TABLE IF EXISTS pv_repos;
DROP TABLE IF EXISTS pv_dbsync;
`
