package release

import (
	"io"
	"os"
	"sync"

	"github.com/zeebo/blake3"
)

// blake3Cache maps a cheap blake3 fingerprint to the already-known sha256
// digest for a file whose content has been seen once already during this
// render: re-running Packages/Contents generation across architectures
// often reproduces byte-identical files (an empty architecture's Contents
// file, a component with no binaries), and this short-circuits the
// expensive sha256 pass on the second and later sightings. It is not a
// substitute for sha256 anywhere a digest is actually required on the
// wire — only an internal dedup check before paying for the real hash.
type blake3Cache struct {
	mu sync.Mutex
	m  map[string]string
}

func newBlake3Cache() *blake3Cache {
	return &blake3Cache{m: make(map[string]string)}
}

// sha256For returns the sha256 hex digest of path, reusing a previous
// computation if a file with the same blake3 fingerprint was already
// hashed during this cache's lifetime.
func (c *blake3Cache) sha256For(path string) (string, error) {
	fp, err := blake3Sum(path)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	sha, ok := c.m[fp]
	c.mu.Unlock()
	if ok {
		return sha, nil
	}

	sha, err = sha256Sum(path)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.m[fp] = sha
	c.mu.Unlock()
	return sha, nil
}

func blake3Sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	sum := h.Sum(nil)
	return string(sum), nil
}
