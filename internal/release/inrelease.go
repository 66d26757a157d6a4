package release

import (
	"bufio"
	"bytes"
	"os"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/aosc-dev/p-vector-go/internal/pverr"
)

const releaseDateLayout = "Mon, 2 Jan 2006 15:04:05 MST"

const inReleaseTemplateText = `Origin: {{.Origin}}
Label: {{.Label}}
Suite: {{.Suite}}
Codename: {{.Codename}}
Date: {{.Date}}
Valid-Until: {{.ValidUntil}}
Architectures: {{.Architectures}}
Components: {{.Components}}
Description: {{ .Description | default (printf "AOSC OS Topic: %s" .Suite) }}
{{- if .AcquireByHash}}
Acquire-By-Hash: yes
{{- end}}
SHA256:
{{- range .Files}}
 {{.SHA256}} {{.Size}} {{.Path}}
{{- end}}
`

var inReleaseTemplate = template.Must(
	template.New("inrelease").Funcs(sprig.FuncMap()).Parse(inReleaseTemplateText))

// fileEntry is one (relative_path, size, sha256) triple published under a
// rendered dists/<branch> tree.
type fileEntry struct {
	Path   string
	Size   int64
	SHA256 string
}

type inReleaseData struct {
	Origin         string
	Label          string
	Suite          string
	Codename       string
	Date           string
	ValidUntil     string
	Architectures  string
	Components     string
	Description    string
	AcquireByHash  bool
	Files          []fileEntry
}

func renderInRelease(w *bytes.Buffer, d inReleaseData) error {
	sorted := make([]fileEntry, len(d.Files))
	copy(sorted, d.Files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	d.Files = sorted

	if err := inReleaseTemplate.Execute(w, d); err != nil {
		return pverr.New(pverr.TemplateError, "release", err)
	}
	return nil
}

// needsRegeneration implements the refresh decision: regenerate when the
// repo mtime is newer than the on-disk InRelease, or the existing file's
// Valid-Until is within 24h of now (or absent/unparseable).
func needsRegeneration(inReleasePath string, maxRepoMTime int64) (bool, error) {
	info, err := os.Stat(inReleasePath)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, pverr.New(pverr.IoError, "release", err)
	}

	if maxRepoMTime > info.ModTime().Unix() {
		return true, nil
	}

	validUntil, ok := readValidUntil(inReleasePath)
	if !ok {
		return true, nil
	}
	return time.Until(validUntil) < 24*time.Hour, nil
}

// readValidUntil locates the "Valid-Until:" substring in an existing
// InRelease/Release file and parses the rest of that line.
func readValidUntil(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, "Valid-Until:")
		if idx < 0 {
			continue
		}
		value := strings.TrimSpace(line[idx+len("Valid-Until:"):])
		t, err := time.Parse(releaseDateLayout, value)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
