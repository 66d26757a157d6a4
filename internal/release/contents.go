package release

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aosc-dev/p-vector-go/internal/repoindex"
)

// renderContentsText writes the Contents file format: one line per path,
// a tab, then the comma-joined owning package list.
func renderContentsText(w io.Writer, rows []repoindex.ContentsRow) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", r.Path, strings.Join(r.Packages, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// renderBinContentsText writes the same format restricted to rows whose
// path contains "usr/bin/".
func renderBinContentsText(w io.Writer, rows []repoindex.ContentsRow) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		if !strings.Contains(r.Path, "usr/bin/") {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", r.Path, strings.Join(r.Packages, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}
