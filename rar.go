package unarchive

import (
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/nwaples/rardecode"
)

// unpackRarLegacy extracts a legacy (pre-5.0) rar archive from src to dst.
// If src actually carries a modern archive, the decoder refuses with
// errRarVersionMismatch so the router can re-route instead of reporting a
// corrupt archive.
func unpackRarLegacy(ctx context.Context, dst string, src seekerReaderAt, c *Config, td *TelemetryData) (*Result, error) {
	header := make([]byte, sniffHeaderLength)
	n, err := src.ReadAt(header, 0)
	if err != nil && err != io.EOF {
		return nil, handleError(c, td, "cannot read archive header", &CorruptArchiveError{Format: FormatRarLegacy, Err: err})
	}
	if IsRarModern(header[:n]) {
		c.Logger().Debug("modern rar archive offered to legacy decoder")
		return nil, errRarVersionMismatch
	}

	c.Logger().Info("extracting legacy rar")
	return extractRar(ctx, FormatRarLegacy, dst, src, c, td)
}

// extractRar runs the in-process rar decoder over src. The decoder handles
// both container generations; f determines how failures are attributed.
func extractRar(ctx context.Context, f Format, dst string, src seekerReaderAt, c *Config, td *TelemetryData) (*Result, error) {
	// decode straight from the file if the input is cached on disk
	if s, ok := src.(*os.File); ok {
		a, err := rardecode.OpenReader(s.Name(), "")
		if err != nil {
			return nil, handleError(c, td, "cannot create rar decoder", &CorruptArchiveError{Format: f, Err: err})
		}
		defer a.Close()
		return extractFlat(ctx, f, dst, &rarWalker{r: &a.Reader, format: f}, c, td)
	}

	size, err := inputSize(src)
	if err != nil {
		return nil, handleError(c, td, "cannot determine input size", err)
	}

	a, err := rardecode.NewReader(io.NewSectionReader(src, 0, size), "")
	if err != nil {
		return nil, handleError(c, td, "cannot create rar decoder", &CorruptArchiveError{Format: f, Err: err})
	}
	return extractFlat(ctx, f, dst, &rarWalker{r: a, format: f}, c, td)
}

// rarWalker is an archiveWalker for rar files.
type rarWalker struct {
	r      *rardecode.Reader
	format Format
}

// Type returns the name of the decoded format.
func (rw *rarWalker) Type() string {
	return rw.format.String()
}

// Next returns the next entry in the rar file.
func (rw *rarWalker) Next() (archiveEntry, error) {
	fh, err := rw.r.Next()
	if err != nil {
		return nil, err
	}
	return &rarEntry{f: fh, r: rw.r}, nil
}

// rarEntry is an archiveEntry for rar files.
type rarEntry struct {
	f *rardecode.FileHeader
	r io.Reader
}

// Name returns the name of the file.
func (r *rarEntry) Name() string {
	return r.f.Name
}

// Size returns the unpacked size of the file.
func (r *rarEntry) Size() int64 {
	return r.f.UnPackedSize
}

// Mode returns the mode of the file.
func (r *rarEntry) Mode() fs.FileMode {
	return r.f.Mode()
}

// IsRegular returns true if the file is a regular file.
func (r *rarEntry) IsRegular() bool {
	return r.f.Mode().IsRegular()
}

// IsDir returns true if the file is a directory.
func (r *rarEntry) IsDir() bool {
	return r.f.IsDir
}

// Open returns a reader for the file.
func (r *rarEntry) Open() (io.ReadCloser, error) {
	return io.NopCloser(r.r), nil
}
