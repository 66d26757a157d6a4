package common

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alitto/pond/v2"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Result is the value produced by a worker-pool task group: the path of
// whatever file the task wrote.
type Result interface {
	Destination() string
}

// CompressionFormat represents a supported compression format.
type CompressionFormat string

const (
	CompressionNone  CompressionFormat = ""
	CompressionGzip  CompressionFormat = "gz"
	CompressionBzip2 CompressionFormat = "bz2"
	CompressionXZ    CompressionFormat = "xz"
	CompressionZstd  CompressionFormat = "zst"
)

// DetectCompressionFormat returns the compression format based on file
// extension. Mirrors the ar-member-suffix dispatch the deb reader uses for
// control.tar/data.tar, plus ".zst" which the format the reader must
// additionally support beyond gz/xz.
func DetectCompressionFormat(filename string) CompressionFormat {
	switch filepath.Ext(filename) {
	case ".gz":
		return CompressionGzip
	case ".bz2":
		return CompressionBzip2
	case ".xz":
		return CompressionXZ
	case ".zst":
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// Extension returns the file extension for the compression format.
func (f CompressionFormat) Extension() string {
	return "." + string(f)
}

// NewDecompressReader wraps r with a streaming decompressor for format. Used
// by the deb reader, which must decompress control.tar/data.tar members
// in-place while iterating the outer ar archive rather than writing them to
// disk first.
func NewDecompressReader(format CompressionFormat, r io.Reader) (io.Reader, error) {
	return getDecompressor(format, r)
}

// NewDeCompressor creates and initializes a new decompressor with a worker
// pool, used by the release renderer for the file-to-file batch work of
// producing Packages.xz and Contents-<arch>.{gz,zst}.
func NewDeCompressor(ctx context.Context, maxConcurrency int) *DeCompressor {
	pool := pond.NewResultPool[Result](maxConcurrency, pond.WithContext(ctx), pond.WithoutPanicRecovery())

	return &DeCompressor{
		pool: pool,
	}
}

// DeCompressor handles parallel compression/decompression operations.
type DeCompressor struct {
	pool pond.ResultPool[Result]
}

// DeCompressResult contains the outcome of a single compression job.
type DeCompressResult string

func (r *DeCompressResult) Destination() string {
	return string(*r)
}

func (d *DeCompressor) decompressSingle(sourcePath string) (*DeCompressResult, error) {
	format := DetectCompressionFormat(sourcePath)
	if format == CompressionNone {
		return nil, fmt.Errorf("unknown compression format for file: %s", sourcePath)
	}

	destPath := strings.TrimSuffix(sourcePath, format.Extension())

	compressedFile, err := os.Open(sourcePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = compressedFile.Close() }()

	reader, err := getDecompressor(format, compressedFile)
	if err != nil {
		return nil, err
	}

	uncompressedFile, err := os.Create(destPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := uncompressedFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(uncompressedFile, reader); err != nil {
		return nil, err
	}

	result := DeCompressResult(destPath)
	return &result, nil
}

func (d *DeCompressor) compressSingle(sourcePath string, format CompressionFormat) (*DeCompressResult, error) {
	if format == CompressionNone {
		return nil, fmt.Errorf("compression format required")
	}

	destPath := sourcePath + format.Extension()

	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = sourceFile.Close() }()

	compressedFile, err := os.Create(destPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := compressedFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	writer, err := getCompressor(format, compressedFile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := writer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(writer, sourceFile); err != nil {
		return nil, err
	}

	result := DeCompressResult(destPath)
	return &result, nil
}

// Shutdown gracefully stops the decompressor.
func (d *DeCompressor) Shutdown() {
	d.pool.StopAndWait()
}

// Decompress decompresses one or more files in parallel using a task group.
// Destination paths are derived by removing the compression extension.
func (d *DeCompressor) Decompress(ctx context.Context, sourcePaths ...string) pond.ResultTaskGroup[Result] {
	group := d.pool.NewGroupContext(ctx)

	for _, sourcePath := range sourcePaths {
		group.SubmitErr(func() (Result, error) {
			return d.decompressSingle(sourcePath)
		})
	}

	return group
}

// Compress compresses a file into multiple formats in parallel using a task
// group. Destination paths are derived by appending the format extension.
func (d *DeCompressor) Compress(ctx context.Context, sourcePath string, formats ...CompressionFormat) pond.ResultTaskGroup[Result] {
	group := d.pool.NewGroupContext(ctx)

	for _, format := range formats {
		group.SubmitErr(func() (Result, error) {
			return d.compressSingle(sourcePath, format)
		})
	}

	return group
}

// getDecompressor returns a Reader for the given compression format.
func getDecompressor(format CompressionFormat, r io.Reader) (io.Reader, error) {
	switch format {
	case CompressionNone:
		return r, nil
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionBzip2:
		return bzip2.NewReader(r, nil)
	case CompressionXZ:
		return xz.NewReader(r)
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unsupported decompression format: %s", format)
	}
}

// getCompressor returns a WriteCloser for the given compression format.
func getCompressor(format CompressionFormat, w io.Writer) (io.WriteCloser, error) {
	switch format {
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionBzip2:
		return bzip2.NewWriter(w, nil)
	case CompressionXZ:
		return xz.NewWriter(w)
	case CompressionZstd:
		return zstd.NewWriter(w)
	default:
		return nil, fmt.Errorf("unsupported compression format: %s", format)
	}
}
