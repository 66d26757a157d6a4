package debscan

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blakesmith/ar"

	"github.com/aosc-dev/p-vector-go/internal/common"
	"github.com/aosc-dev/p-vector-go/internal/pverr"
)

// Parse reads one .deb file from disk, relative to poolRoot, and returns its
// parsed control metadata, file inventory, and shared-object relations. The
// outer byte source is owned exclusively by this call: the file handle is
// opened and closed within it.
func Parse(poolRoot, absPath string) (*Parsed, error) {
	relPath, err := filepath.Rel(poolRoot, absPath)
	if err != nil {
		return nil, pverr.New(pverr.BadPath, "debscan", err)
	}
	branch, component, err := splitBranchComponent(relPath)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(absPath)
	if err != nil {
		return nil, pverr.New(pverr.IoError, "debscan", err)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, pverr.New(pverr.IoError, "debscan", err)
	}
	defer func() { _ = f.Close() }()

	hr := newHashingReader(f)
	result, err := parseArStream(hr)
	if err != nil {
		return nil, err
	}

	sha256sum, err := hr.Finish()
	if err != nil {
		return nil, pverr.New(pverr.IoError, "debscan", err)
	}

	result.Size = stat.Size()
	result.MTime = stat.ModTime().Unix()
	result.SHA256 = sha256sum
	result.Branch = branch
	result.Component = component
	result.Filename = filepath.ToSlash(relPath)

	return result, nil
}

// parseArStream iterates the outer ar archive, dispatching control.tar and
// data.tar members by name prefix.
func parseArStream(r io.Reader) (*Parsed, error) {
	reader := ar.NewReader(r)

	var haveControl, haveData bool
	result := &Parsed{
		SoProvides: make(map[string]struct{}),
		SoRequires: make(map[string]struct{}),
	}

	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pverr.New(pverr.UnsupportedFormat, "debscan", err)
		}

		name := strings.TrimRight(header.Name, "/")
		switch {
		case strings.HasPrefix(name, "control.tar"):
			format := common.DetectCompressionFormat(name)
			decompressed, err := common.NewDecompressReader(format, reader)
			if err != nil {
				return nil, pverr.New(pverr.UnsupportedFormat, "debscan", err)
			}
			control, err := readControlMember(decompressed)
			if err != nil {
				return nil, err
			}
			result.Control = control
			result.DebTime = header.ModTime.Unix()
			haveControl = true
		case strings.HasPrefix(name, "data.tar"):
			format := common.DetectCompressionFormat(name)
			decompressed, err := common.NewDecompressReader(format, reader)
			if err != nil {
				return nil, pverr.New(pverr.UnsupportedFormat, "debscan", err)
			}
			files, provides, requires, err := readDataMember(decompressed)
			if err != nil {
				return nil, err
			}
			result.Files = files
			for k := range provides {
				result.SoProvides[k] = struct{}{}
			}
			for k := range requires {
				result.SoRequires[k] = struct{}{}
			}
			haveData = true
		}
	}

	if !haveControl || !haveData {
		return nil, pverr.New(pverr.UnsupportedFormat, "debscan",
			fmt.Errorf("control or data archive member not found"))
	}

	return result, nil
}

// readControlMember decompresses and parses the control.tar member,
// locating the "./control" entry and parsing its key/value records.
func readControlMember(r io.Reader) (Control, error) {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Control{}, pverr.New(pverr.ControlParse, "debscan", err)
		}
		if header.Name != "./control" {
			continue
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, tr); err != nil {
			return Control{}, pverr.New(pverr.ControlParse, "debscan", err)
		}
		fields, err := parseControlRecord(buf.Bytes())
		if err != nil {
			return Control{}, err
		}
		return buildControl(fields)
	}

	return Control{}, pverr.New(pverr.ControlParse, "debscan",
		fmt.Errorf("no ./control entry in control.tar"))
}

// readDataMember decompresses and walks the data.tar member, collecting the
// file inventory and shared-object provides/requires along the way.
func readDataMember(r io.Reader) ([]FileEntry, map[string]struct{}, map[string]struct{}, error) {
	tr := tar.NewReader(r)
	provides := make(map[string]struct{})
	requires := make(map[string]struct{})
	var files []FileEntry

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, pverr.New(pverr.IoError, "debscan", err)
		}

		dir, base := filepath.Split(header.Name)
		files = append(files, FileEntry{
			Path:  normalizePath(strings.TrimSuffix(dir, "/")),
			Name:  base,
			Size:  header.Size,
			Type:  byte(header.Typeflag),
			Perms: header.Mode,
			UID:   header.Uid,
			GID:   header.Gid,
			UName: header.Uname,
			GName: header.Gname,
		})

		shared := isSharedObject(header.Name)
		if shared && header.Typeflag == tar.TypeSymlink {
			provides[base] = struct{}{}
			continue
		}

		if header.Typeflag != tar.TypeReg || header.Size < 4 {
			continue
		}

		magic := make([]byte, 4)
		if _, err := io.ReadFull(tr, magic); err != nil {
			continue
		}
		if !needsElfParse(magic) {
			continue
		}

		body := make([]byte, header.Size)
		copy(body, magic)
		if _, err := io.ReadFull(tr, body[4:]); err != nil {
			continue
		}

		needed, err := elfNeeded(body)
		if err != nil {
			// Logged and skipped; one bad ELF member must not fail the
			// whole package.
			slog.Warn("skipping unparseable ELF member", "path", header.Name, "error", err)
			continue
		}
		for _, lib := range needed {
			requires[lib] = struct{}{}
		}

		if shared {
			provides[base] = struct{}{}
		}
	}

	return files, provides, requires, nil
}

// InstalledSizeInt parses Control.InstalledSize as an integer, returning 0
// on parse failure per the tolerant-parsing rule for that field.
func (c Control) InstalledSizeInt() int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(c.InstalledSize), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
