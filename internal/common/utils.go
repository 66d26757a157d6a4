// Package common holds small filesystem and compression helpers shared by
// the deb reader and the release renderer.
package common

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var hardlinkMutex sync.Mutex

// EnsureHardlink creates a hardlink from src to dst with force behavior.
// If dst exists and points to a different file, it is removed first; if it
// already points to the same file (same inode), nothing is done. Safe for
// concurrent use when multiple goroutines might create the same hardlink
// simultaneously. Used by the by-hash swap.
func EnsureHardlink(src, dst string) error {
	hardlinkMutex.Lock()
	defer hardlinkMutex.Unlock()

	dstInfo, err := os.Lstat(dst)
	if err == nil {
		srcInfo, err := os.Lstat(src)
		if err != nil {
			return err
		}
		if os.SameFile(srcInfo, dstInfo) {
			return nil
		}
		if err := os.Remove(dst); err != nil {
			return err
		}
	}

	return os.Link(src, dst)
}

// IsPublishable reports whether a relative path under dists/<branch> should
// be included in the InRelease files block: not a directory, not a
// dot-file, not named InRelease*/DEPRECATED*, and not already under
// by-hash/SHA256.
func IsPublishable(relPath string, isDir bool) bool {
	if isDir {
		return false
	}
	base := filepath.Base(relPath)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if strings.HasPrefix(base, "InRelease") || strings.HasPrefix(base, "DEPRECATED") {
		return false
	}
	if strings.Contains(filepath.ToSlash(relPath), "by-hash/SHA256") {
		return false
	}
	return true
}
