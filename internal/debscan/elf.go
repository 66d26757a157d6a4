package debscan

import (
	"bytes"
	"debug/elf"
	"regexp"

	"github.com/aosc-dev/p-vector-go/internal/pverr"
)

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// sharedObjectPath matches the general shape of a shared library path under
// lib/ or usr/lib/, any number of multiarch/subdirectory segments deep.
var sharedObjectPath = regexp.MustCompile(`^\./(usr/)?lib/(.*/)?[^/]+\.so($|\..+)`)

// isSharedObject reports whether a tar entry path looks like a shared
// library, independent of whether it resolves via SONAME: a shared object
// may have no SONAME, or a SONAME pointing at a different library shelf
// (CUDA-style stub libraries), so provides are always keyed on the file
// name rather than the ELF-reported SONAME.
func isSharedObject(path string) bool {
	return sharedObjectPath.MatchString(path)
}

// needsElfParse reports whether the first four bytes of body look like an
// ELF file.
func needsElfParse(body []byte) bool {
	return len(body) >= 4 && bytes.Equal(body[:4], elfMagic)
}

// elfNeeded parses DT_NEEDED entries out of an in-memory ELF image. Errors
// here are reported with the ElfParse kind; the caller logs and skips them
// rather than propagating them.
func elfNeeded(body []byte) ([]string, error) {
	f, err := elf.NewFile(bytes.NewReader(body))
	if err != nil {
		return nil, pverr.New(pverr.ElfParse, "debscan", err)
	}
	defer func() { _ = f.Close() }()

	needed, err := f.DynString(elf.DT_NEEDED)
	if err != nil {
		return nil, pverr.New(pverr.ElfParse, "debscan", err)
	}

	return needed, nil
}
