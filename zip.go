package unarchive

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"

	"github.com/klauspost/compress/flate"
)

// unpackZip extracts a zip archive from src to dst. src must be the cached,
// random-access input; the prefix has already been sniffed as zip.
func unpackZip(ctx context.Context, dst string, src seekerReaderAt, c *Config, td *TelemetryData) (*Result, error) {
	c.Logger().Info("extracting zip")

	size, err := inputSize(src)
	if err != nil {
		return nil, handleError(c, td, "cannot determine input size", err)
	}

	// a broken central directory is terminal for the whole call
	reader, err := zip.NewReader(src, size)
	if err != nil {
		return nil, handleError(c, td, "cannot create zip reader", &CorruptArchiveError{Format: FormatZip, Err: err})
	}

	// swap in the faster deflate implementation
	reader.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	return extractFlat(ctx, FormatZip, dst, &zipWalker{zr: reader}, c, td)
}

// zipWalker is a walker for zip files
type zipWalker struct {
	zr *zip.Reader
	fp int
}

// Type returns the file extension for zip files
func (z *zipWalker) Type() string {
	return FormatZip.String()
}

// Next returns the next entry in the zip archive
func (z *zipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.zr.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &zipEntry{z.zr.File[z.fp]}, nil
}

// zipEntry is an entry in a zip archive
type zipEntry struct {
	zf *zip.File
}

// Name returns the name of the entry
func (z *zipEntry) Name() string {
	return z.zf.FileHeader.Name
}

// Size returns the uncompressed size of the entry
func (z *zipEntry) Size() int64 {
	return int64(z.zf.FileHeader.UncompressedSize64)
}

// Mode returns the mode of the entry
func (z *zipEntry) Mode() fs.FileMode {
	return z.zf.FileHeader.Mode()
}

// IsRegular returns true if the entry is a regular file
func (z *zipEntry) IsRegular() bool {
	return z.zf.FileHeader.Mode().IsRegular()
}

// IsDir returns true if the entry is a directory
func (z *zipEntry) IsDir() bool {
	return z.zf.FileHeader.Mode().IsDir()
}

// Open returns a reader for the entry
func (z *zipEntry) Open() (io.ReadCloser, error) {
	return z.zf.Open()
}
