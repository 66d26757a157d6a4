package release

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/aptly-dev/aptly/deb"

	"github.com/aosc-dev/p-vector-go/internal/repoindex"
)

// stanzaFieldOrder is the fixed field order a Packages paragraph renders
// in, ahead of the per-package relationship fields and the trailing
// X-AOSC-Features line. aptly's deb.Stanza.WriteTo canonical ordering is
// defined for the standard Debian field set and has no notion of
// X-AOSC-Features or this order's specific placement of Description before
// relationships, so the stanza is built as a deb.Stanza (to keep it the
// same map type aptly's control-file tooling uses) but serialized with an
// explicit key order instead of WriteTo.
var stanzaFieldOrder = []string{
	"Package", "Version", "Section", "Architecture", "Installed-Size",
	"Maintainer", "Filename", "Size", "SHA256", "Description",
}

func buildStanza(p repoindex.ComponentPackage) deb.Stanza {
	st := make(deb.Stanza)
	st["Package"] = p.Name
	st["Version"] = p.Version
	st["Section"] = p.Section
	st["Architecture"] = p.Architecture
	st["Installed-Size"] = strconv.FormatInt(p.InstalledSize, 10)
	st["Maintainer"] = p.Maintainer
	st["Filename"] = p.Filename
	st["Size"] = strconv.FormatInt(p.Size, 10)
	st["SHA256"] = p.SHA256
	st["Description"] = p.Description
	for _, rel := range repoindex.RelationshipOrder {
		for _, d := range p.Dependencies {
			if d.Relationship == rel && d.Value != "" {
				st[string(rel)] = d.Value
			}
		}
	}
	if p.Features != "" {
		st["X-AOSC-Features"] = p.Features
	}
	return st
}

func writeStanza(w io.Writer, p repoindex.ComponentPackage) error {
	st := buildStanza(p)

	for _, key := range stanzaFieldOrder {
		if v, ok := st[key]; ok && v != "" {
			if _, err := fmt.Fprintf(w, "%s: %s\n", key, v); err != nil {
				return err
			}
		}
	}
	for _, rel := range repoindex.RelationshipOrder {
		key := string(rel)
		if v, ok := st[key]; ok && v != "" {
			if _, err := fmt.Fprintf(w, "%s: %s\n", key, v); err != nil {
				return err
			}
		}
	}
	if v, ok := st["X-AOSC-Features"]; ok && v != "" {
		if _, err := fmt.Fprintf(w, "X-AOSC-Features: %s\n", v); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// renderPackagesText writes one Packages-format paragraph per package,
// blank-line separated, in the order the store returned them.
func renderPackagesText(w io.Writer, packages []repoindex.ComponentPackage) error {
	bw := bufio.NewWriter(w)
	for _, p := range packages {
		if err := writeStanza(bw, p); err != nil {
			return err
		}
	}
	return bw.Flush()
}
