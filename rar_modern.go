package unarchive

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// rarStrategy is the decode strategy for modern rar archives, fixed once
// when the [Extractor] is assembled.
type rarStrategy int

const (
	rarStrategyNone rarStrategy = iota
	rarStrategyPure
	rarStrategyNative
)

// String returns a name for the strategy.
func (s rarStrategy) String() string {
	switch s {
	case rarStrategyPure:
		return "pure"
	case rarStrategyNative:
		return "native"
	default:
		return "none"
	}
}

// probeRarStrategy fixes the modern rar strategy from the configuration and
// the platform. The pure in-process decoder is preferred; the native
// subprocess is used when configured or when the pure decoder is disabled.
// The binary itself is provisioned on first demand, not here.
func probeRarStrategy(c *Config, p *Provisioner) rarStrategy {
	if c.NativeUnrar() {
		return rarStrategyNative
	}
	if c.PureRarDecoder() {
		return rarStrategyPure
	}
	if p.platform.Profile.Supported() || c.NativeUnrarPath() != "" {
		return rarStrategyNative
	}
	return rarStrategyNone
}

// unpackRarModern extracts a modern (5.0) rar archive from src to dst using
// the strategy fixed at assembly time.
func (e *Extractor) unpackRarModern(ctx context.Context, dst string, src seekerReaderAt, td *TelemetryData) (*Result, error) {
	c := e.config

	switch e.rarStrategy {

	case rarStrategyPure:
		c.Logger().Info("extracting modern rar", "strategy", rarStrategyPure)
		return extractRar(ctx, FormatRarModern, dst, src, c, td)

	case rarStrategyNative:
		bin, err := e.provisioner.EnsureAvailable()
		if err != nil {
			capErr := &CapabilityUnavailableError{Format: FormatRarModern, Reason: err.Error()}
			return nil, handleError(c, td, "native unrar unavailable", capErr)
		}
		td.NativeDecoder = true
		c.Logger().Info("extracting modern rar", "strategy", rarStrategyNative, "binary", bin.Path)
		return extractRarNative(ctx, dst, src, bin, c, td)

	default:
		capErr := &CapabilityUnavailableError{
			Format: FormatRarModern,
			Reason: "in-process decoder disabled and no native binary for this platform",
		}
		return nil, handleError(c, td, "no modern rar decoder", capErr)
	}
}

// extractRarNative invokes the provisioned unrar binary on the archive. The
// invocation uses an argument vector, never shell interpretation, and is
// bounded by the configured subprocess timeout. On success the target
// directory is listed recursively, as archives may nest files in subfolders.
func extractRarNative(ctx context.Context, dst string, src seekerReaderAt, bin *ProvisionedBinary, c *Config, td *TelemetryData) (*Result, error) {
	archivePath, cleanup, err := inputFile(src)
	if err != nil {
		return nil, handleError(c, td, "cannot materialize archive for subprocess", err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, c.SubprocessTimeout())
	defer cancel()

	// x: extract with paths, -y/-o+: overwrite without prompting,
	// -idq: quiet (errors only), -p-: never prompt for a password
	cmd := exec.CommandContext(ctx, bin.Path,
		"x", "-y", "-o+", "-idq", "-p-",
		archivePath, dst+string(os.PathSeparator),
	)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		spErr := &SubprocessError{
			Path:     bin.Path,
			ExitCode: exitCode,
			Output:   strings.TrimSpace(output.String()),
			Err:      err,
		}
		return nil, handleError(c, td, "native unrar failed", spErr)
	}

	res := &Result{}
	err = filepath.WalkDir(dst, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		res.Files = append(res.Files, path)
		res.Extracted++
		td.ExtractedFiles++
		td.ExtractionSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, handleError(c, td, "cannot list extracted files", err)
	}

	c.Logger().Info("extraction finished", "type", FormatRarModern, "files", res.Extracted)
	return res, nil
}
