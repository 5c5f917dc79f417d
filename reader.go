package unarchive

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// seekerReaderAt combines the io.ReaderAt and io.Seeker interfaces.
type seekerReaderAt interface {
	io.ReaderAt
	io.Seeker
}

// cacheReader ensures that src is seekable and random-access readable, so
// that the sniffed prefix remains available to the chosen decoder. Already
// seekable input is passed through; everything else is cached in memory or
// in a temp file, depending on the configuration. The returned cleanup
// removes a created temp file and must always be called.
func cacheReader(c *Config, src io.Reader) (seekerReaderAt, func(), error) {
	noop := func() {}

	if s, ok := src.(seekerReaderAt); ok {
		return s, noop, nil
	}

	// check if reader is a buffer
	if b, ok := src.(*bytes.Buffer); ok {
		return bytes.NewReader(b.Bytes()), noop, nil
	}

	// bound the input
	limited := src
	if c.MaxInputSize() != -1 {
		limited = io.LimitReader(src, c.MaxInputSize()+1)
	}

	// check how to cache
	if c.CacheInMemory() {
		b, err := io.ReadAll(limited)
		if err != nil {
			return nil, noop, fmt.Errorf("cannot read all from reader: %w", err)
		}
		if err := checkInputSize(c, int64(len(b))); err != nil {
			return nil, noop, err
		}
		return bytes.NewReader(b), noop, nil
	}

	// create temp file
	tmpFile, err := os.CreateTemp("", "unarchive-*")
	if err != nil {
		return nil, noop, fmt.Errorf("cannot create cache file: %w", err)
	}
	cleanup := func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}

	// copy reader to temp file
	n, err := io.Copy(tmpFile, limited)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("cannot copy reader to file: %w", err)
	}
	if err := checkInputSize(c, n); err != nil {
		cleanup()
		return nil, noop, err
	}

	// seek to start
	if _, err := tmpFile.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("cannot seek to start of cache file: %w", err)
	}

	return tmpFile, cleanup, nil
}

// checkInputSize checks n against the configured maximum input size.
func checkInputSize(c *Config, n int64) error {
	if c.MaxInputSize() != -1 && n > c.MaxInputSize() {
		return ErrMaxInputSizeExceeded
	}
	return nil
}

// inputSize returns the total size of the cached input.
func inputSize(src seekerReaderAt) (int64, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("cannot seek to end of reader: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("cannot seek to start of reader: %w", err)
	}
	return size, nil
}

// inputFile materializes the cached input as a file on disk, so that it can
// be handed to a subprocess. If the input already is a file, its path is
// reused. The returned cleanup removes a created temp file.
func inputFile(src seekerReaderAt) (string, func(), error) {
	noop := func() {}

	if f, ok := src.(*os.File); ok {
		return f.Name(), noop, nil
	}

	size, err := inputSize(src)
	if err != nil {
		return "", noop, err
	}

	tmpFile, err := os.CreateTemp("", "unarchive-*.rar")
	if err != nil {
		return "", noop, fmt.Errorf("cannot create archive file: %w", err)
	}
	cleanup := func() {
		os.Remove(tmpFile.Name())
	}

	if _, err := io.Copy(tmpFile, io.NewSectionReader(src, 0, size)); err != nil {
		tmpFile.Close()
		cleanup()
		return "", noop, fmt.Errorf("cannot copy archive to file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("cannot close archive file: %w", err)
	}

	return tmpFile.Name(), cleanup, nil
}
