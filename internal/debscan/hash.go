package debscan

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// hashingReader wraps an io.Reader and feeds every byte read through a
// sha256 hasher, so the whole-file digest is computed in the same pass as
// ar/tar parsing rather than a second read of the file.
type hashingReader struct {
	r io.Reader
	h hash.Hash
}

func newHashingReader(r io.Reader) *hashingReader {
	h := sha256.New()
	return &hashingReader{r: io.TeeReader(r, h), h: h}
}

func (hr *hashingReader) Read(p []byte) (int, error) {
	return hr.r.Read(p)
}

// Finish drains any remaining bytes (in case the caller stopped reading
// before EOF) and returns the final hex digest.
func (hr *hashingReader) Finish() (string, error) {
	if _, err := io.Copy(io.Discard, hr.r); err != nil {
		return "", err
	}
	return hex.EncodeToString(hr.h.Sum(nil)), nil
}
