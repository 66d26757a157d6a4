package release

import (
	"os"
	"path/filepath"

	"github.com/aosc-dev/p-vector-go/internal/common"
	"github.com/aosc-dev/p-vector-go/internal/pverr"
)

// publishByHash hardlinks every published file into by-hash/SHA256/<digest>
// under branchRoot. Each fileEntry's SHA256 was already computed once by
// collectPublishable (via the shared blake3Cache), so there is nothing
// left to hash here.
func publishByHash(branchRoot string, files []fileEntry) error {
	byHashDir := filepath.Join(branchRoot, "by-hash", "SHA256")
	if err := os.MkdirAll(byHashDir, 0o755); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}

	for _, f := range files {
		src := filepath.Join(branchRoot, f.Path)
		dst := filepath.Join(byHashDir, f.SHA256)
		if err := common.EnsureHardlink(src, dst); err != nil {
			return pverr.New(pverr.IoError, "release", err)
		}
	}
	return nil
}

// publishReleaseFileByHash hashes the just-written release file (InRelease
// or Release) and places it under by-hash/SHA256 alongside everything else.
func publishReleaseFileByHash(branchRoot, releaseFilePath string, cache *blake3Cache) error {
	sha, err := cache.sha256For(releaseFilePath)
	if err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}
	byHashDir := filepath.Join(branchRoot, "by-hash", "SHA256")
	if err := os.MkdirAll(byHashDir, 0o755); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}
	dst := filepath.Join(byHashDir, sha)
	if err := common.EnsureHardlink(releaseFilePath, dst); err != nil {
		return pverr.New(pverr.IoError, "release", err)
	}
	return nil
}
