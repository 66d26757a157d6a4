package debscan

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/aosc-dev/p-vector-go/internal/pverr"
)

// requiredFields are rejected with MissingField when absent from a control
// stanza.
var requiredFields = []string{
	"Package", "Version", "Section", "Description", "Architecture",
	"Installed-Size", "Maintainer",
}

// parseControlRecord parses one RFC-822-ish control stanza. Parsing is
// line-oriented: a key is everything up to the first ':' on a line, the
// separator is ':' followed by optional spaces/tabs, the value is the rest
// of the line. Records terminate at a blank line, but a missing terminator
// is tolerated (EOF ends the record too).
func parseControlRecord(data []byte) (map[string]string, error) {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		idx := bytes.IndexByte([]byte(line), ':')
		if idx < 0 {
			continue
		}
		key := line[:idx]
		value := line[idx+1:]
		for len(value) > 0 && (value[0] == ' ' || value[0] == '\t') {
			value = value[1:]
		}
		fields[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, pverr.New(pverr.ControlParse, "debscan", err)
	}

	return fields, nil
}

// buildControl validates required fields and splits off the known scalar
// fields from the leftover relationship/extension fields.
func buildControl(fields map[string]string) (Control, error) {
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return Control{}, pverr.New(pverr.MissingField, "debscan",
				fmt.Errorf("missing %q field", name))
		}
	}

	c := Control{
		Package:       fields["Package"],
		Version:       fields["Version"],
		Section:       fields["Section"],
		Description:   fields["Description"],
		Architecture:  fields["Architecture"],
		InstalledSize: fields["Installed-Size"],
		Maintainer:    fields["Maintainer"],
		Features:      fields["X-AOSC-Features"],
		Extra:         make(map[string]string),
	}

	known := map[string]bool{
		"Package": true, "Version": true, "Section": true,
		"Description": true, "Architecture": true, "Installed-Size": true,
		"Maintainer": true, "X-AOSC-Features": true,
	}
	for k, v := range fields {
		if !known[k] {
			c.Extra[k] = v
		}
	}

	return c, nil
}
