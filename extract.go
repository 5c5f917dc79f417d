package unarchive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Result describes a finished extraction. Extracted and Files cover the
// regular files written below the target directory; Skipped counts entries
// that were left out as unsafe or unsupported without failing the call.
type Result struct {
	// Files are the paths of the extracted regular files
	Files []string

	// Extracted is the number of extracted files
	Extracted int

	// Skipped is the number of skipped entries
	Skipped int
}

// handleError increases the error counter, sets the latest error and
// returns the error to end the extraction.
func handleError(c *Config, td *TelemetryData, msg string, err error) error {
	td.ExtractionErrors++
	td.LastExtractionError = fmt.Errorf("%s: %w", msg, err)
	c.Logger().Error(msg, "error", err)
	return td.LastExtractionError
}

// extractFlat reads entries from src and writes them directly below dst.
// Directory components are stripped from entry names, entries with
// traversal sequences in their path and non-regular entries are skipped
// with a warning. Read errors from the archive are reported as a
// [CorruptArchiveError] for format f.
func extractFlat(ctx context.Context, f Format, dst string, src archiveWalker, c *Config, td *TelemetryData) (*Result, error) {
	c.Logger().Info("start extraction", "type", src.Type())

	res := &Result{}
	var objectCounter int64
	var extractedBytes int64

	for {
		// check if context is canceled
		if err := ctx.Err(); err != nil {
			return nil, handleError(c, td, "context error", err)
		}

		// get next entry
		ae, err := src.Next()

		switch {

		// if no more entries are found exit loop
		case err == io.EOF:
			c.Logger().Info("extraction finished", "type", src.Type(), "files", res.Extracted, "skipped", res.Skipped)
			return res, nil

		// a broken archive structure is terminal for the whole call
		case err != nil:
			return nil, handleError(c, td, "cannot read archive", &CorruptArchiveError{Format: f, Err: err})

		// skip nil entries
		case ae == nil:
			continue
		}

		// check if maximum of entries is exceeded
		objectCounter++
		if err := c.CheckMaxFiles(objectCounter); err != nil {
			return nil, handleError(c, td, "max files check failed", err)
		}

		// directories are not materialized, entry names are flattened
		if ae.IsDir() {
			c.Logger().Debug("skipping directory entry", "name", ae.Name())
			continue
		}

		// symlinks, fifos and devices are not extracted
		if !ae.IsRegular() {
			c.Logger().Warn("skipping unsupported entry", "name", ae.Name(), "mode", ae.Mode())
			td.SkippedEntries++
			res.Skipped++
			continue
		}

		// strip directory components and reject traversal sequences
		name, ok := entryFileName(ae.Name())
		if !ok {
			c.Logger().Warn("skipping potentially unsafe entry name", "name", ae.Name())
			td.SkippedEntries++
			res.Skipped++
			continue
		}

		// check extraction size before and while writing
		if err := c.CheckExtractionSize(extractedBytes + ae.Size()); err != nil {
			return nil, handleError(c, td, "max extraction size check failed", err)
		}

		fin, err := ae.Open()
		if err != nil {
			return nil, handleError(c, td, "cannot open archive entry", &CorruptArchiveError{Format: f, Err: err})
		}

		target := filepath.Join(dst, name)
		written, err := createFile(c, target, fin, ae.Mode(), extractedBytes)
		fin.Close()
		if err != nil {
			return nil, handleError(c, td, "cannot create file", err)
		}

		c.Logger().Debug("extracted", "name", name, "size", written)
		extractedBytes += written
		td.ExtractionSize = extractedBytes
		td.ExtractedFiles++
		res.Files = append(res.Files, target)
		res.Extracted++
	}
}

// entryFileName strips all directory components from an archive entry name
// and reports whether the entry is safe to extract. Names with a traversal
// segment anywhere in their path are rejected.
func entryFileName(name string) (string, bool) {
	// archives may carry either separator regardless of platform
	n := strings.ReplaceAll(name, `\`, "/")

	for _, segment := range strings.Split(n, "/") {
		if segment == ".." {
			return "", false
		}
	}

	base := path.Base(n)
	if base == "." || base == "/" || base == "" {
		return "", false
	}
	return base, true
}

// createFile writes the content of src to dst, respecting the overwrite
// setting and the extraction size limit. alreadyWritten is the number of
// bytes extracted so far in this call.
func createFile(c *Config, dst string, src io.Reader, mode fs.FileMode, alreadyWritten int64) (int64, error) {
	// check for existence if overwrite is disabled
	if !c.Overwrite() {
		if _, err := os.Lstat(dst); err == nil {
			return 0, fmt.Errorf("file already exists: %s", dst)
		}
	}

	// archives may carry no permission bits at all
	perm := mode.Perm()
	if perm == 0 {
		perm = 0640
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, fmt.Errorf("cannot open %s: %w", dst, err)
	}
	defer f.Close()

	// bound the copy, the size in the entry header is not trusted
	reader := src
	if c.MaxExtractionSize() != -1 {
		remaining := c.MaxExtractionSize() - alreadyWritten
		reader = io.LimitReader(src, remaining+1)
		written, err := io.Copy(f, reader)
		if err != nil {
			return written, fmt.Errorf("cannot write %s: %w", dst, err)
		}
		if written > remaining {
			return written, ErrMaxExtractionSizeExceeded
		}
		return written, nil
	}

	written, err := io.Copy(f, reader)
	if err != nil {
		return written, fmt.Errorf("cannot write %s: %w", dst, err)
	}
	return written, nil
}
