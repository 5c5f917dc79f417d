package unarchive

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when the input matches no known
	// archive signature. The condition is terminal and not retryable.
	ErrUnsupportedFormat = errors.New("unable to determine archive format: supported formats are zip, legacy rar and modern rar")

	// ErrNativeUnavailable is returned by the provisioner when no native
	// unrar binary can be materialized on this host.
	ErrNativeUnavailable = errors.New("native unrar binary unavailable")

	// ErrMaxFilesExceeded is returned if an archive contains more entries
	// than configured.
	ErrMaxFilesExceeded = errors.New("maximum files exceeded")

	// ErrMaxExtractionSizeExceeded is returned if the extracted content
	// exceeds the configured maximum.
	ErrMaxExtractionSizeExceeded = errors.New("maximum extraction size exceeded")

	// ErrMaxInputSizeExceeded is returned if the input exceeds the
	// configured maximum.
	ErrMaxInputSizeExceeded = errors.New("maximum input size exceeded")

	// errRarVersionMismatch signals that a modern rar archive was handed to
	// the legacy rar decoder. The router reacts by re-routing to the modern
	// decoder; it never escapes the package.
	errRarVersionMismatch = errors.New("modern rar archive passed to legacy rar decoder")
)

// CorruptArchiveError is returned when the input carries a recognized
// signature but its structure cannot be parsed.
type CorruptArchiveError struct {
	Format Format
	Err    error
}

func (e *CorruptArchiveError) Error() string {
	return fmt.Sprintf("corrupt %s archive: %v", e.Format, e.Err)
}

func (e *CorruptArchiveError) Unwrap() error {
	return e.Err
}

// CapabilityUnavailableError is returned when the format was recognized but
// no working decoder exists on this run. It is distinct from
// [CorruptArchiveError] so callers can suggest an alternative format.
type CapabilityUnavailableError struct {
	Format Format
	Reason string
}

func (e *CapabilityUnavailableError) Error() string {
	return fmt.Sprintf("no working decoder for %s (RAR) archives: %s; convert the archive to zip or legacy rar and upload again", e.Format, e.Reason)
}

// SubprocessError is returned when the native unrar process could not be
// launched or exited non-zero. Output contains the captured diagnostics.
type SubprocessError struct {
	Path     string
	ExitCode int
	Output   string
	Err      error
}

func (e *SubprocessError) Error() string {
	return fmt.Sprintf("native unrar failed (%s, exit code %d): %v: %s", e.Path, e.ExitCode, e.Err, e.Output)
}

func (e *SubprocessError) Unwrap() error {
	return e.Err
}
