package debscan

import (
	"fmt"
	"path"
	"strings"

	"github.com/aosc-dev/p-vector-go/internal/pverr"
)

// splitBranchComponent derives (branch, component) from a path relative to
// the pool root: the first two path components. Any other shape fails with
// BadPath.
func splitBranchComponent(relPath string) (branch, component string, err error) {
	clean := strings.TrimPrefix(path.Clean(relPath), "./")
	parts := strings.Split(clean, "/")
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" {
		return "", "", pverr.New(pverr.BadPath, "debscan",
			fmt.Errorf("cannot determine branch/component for %q", relPath))
	}
	return parts[0], parts[1], nil
}

// normalizePath strips a leading "./" or "/" so stored paths never carry
// either prefix; "." itself normalizes to the empty string.
func normalizePath(p string) string {
	if p == "." {
		return ""
	}
	if rest, ok := strings.CutPrefix(p, "./"); ok {
		return rest
	}
	return strings.TrimPrefix(p, "/")
}

// SplitSoName splits a shared-object string at the first occurrence of the
// literal ".so": so_name is the prefix up to and including ".so"; so_version
// is the remainder, or empty if nothing follows.
func SplitSoName(name string) (soName, soVersion string) {
	idx := strings.Index(name, ".so")
	if idx < 0 {
		return name, ""
	}
	soName = name[:idx+3]
	if idx+3 >= len(name) {
		return soName, ""
	}
	return soName, name[idx+3:]
}
