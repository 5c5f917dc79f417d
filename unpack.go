package unarchive

import (
	"context"
	"errors"
	"io"
)

// Extractor is the façade of the archive-extraction subsystem. It owns the
// process-wide capabilities (the platform profile, the provisioned native
// binary and the fixed modern-rar strategy) and routes each call to the
// decoder matching the sniffed format.
//
// An Extractor is safe for concurrent use as long as every call receives
// its own target directory. Close releases the provisioned binary; the
// assembling caller owns the teardown.
type Extractor struct {
	config      *Config
	provisioner *Provisioner
	rarStrategy rarStrategy
}

// New assembles an Extractor. A nil config yields the default
// configuration.
func New(c *Config) *Extractor {
	if c == nil {
		c = NewConfig()
	}
	return newExtractor(c, NewProvisioner(c))
}

// newExtractor allows tests to inject a provisioner.
func newExtractor(c *Config, p *Provisioner) *Extractor {
	e := &Extractor{
		config:      c,
		provisioner: p,
		rarStrategy: probeRarStrategy(c, p),
	}
	c.Logger().Debug("assembled extractor", "platform", p.platform, "rar_strategy", e.rarStrategy)
	return e
}

// Close releases the provisioned native binary, best effort.
func (e *Extractor) Close() error {
	return e.provisioner.Close()
}

// Unpack sniffs the archive format of src from its byte content and
// extracts the archive to dst. The caller owns dst and must create it
// beforehand; on error, partially written output below dst is left for the
// caller to discard. Retries must use a fresh target directory.
//
// All failures surface through the package error taxonomy:
// [ErrUnsupportedFormat], [CorruptArchiveError],
// [CapabilityUnavailableError] and [SubprocessError]. Unsafe entries are
// skipped, counted on the [Result] and never fail the call.
func (e *Extractor) Unpack(ctx context.Context, src io.Reader, dst string) (*Result, error) {
	c := e.config

	// prepare telemetry data collection and emit
	td := &TelemetryData{}
	defer c.TelemetryHook()(ctx, td)
	defer captureExtractionDuration(td, now())

	// cache the input so the sniffed prefix stays available to the decoder
	sra, cleanup, err := cacheReader(c, src)
	if err != nil {
		return nil, handleError(c, td, "cannot cache reader", err)
	}
	defer cleanup()

	if size, err := inputSize(sra); err == nil {
		td.InputSize = size
		if err := checkInputSize(c, size); err != nil {
			return nil, handleError(c, td, "cannot unpack archive", err)
		}
	}

	// classify by content, never by filename
	header := make([]byte, sniffHeaderLength)
	n, _ := sra.ReadAt(header, 0)
	format := SniffFormat(header[:n])
	td.Format = format.String()
	c.Logger().Info("sniffed archive format", "format", format)

	switch format {

	case FormatZip:
		return unpackZip(ctx, dst, sra, c, td)

	case FormatRarLegacy:
		res, err := unpackRarLegacy(ctx, dst, sra, c, td)
		if errors.Is(err, errRarVersionMismatch) {
			// safety net; the sniffer should have caught this
			c.Logger().Warn("legacy rar decoder reported a modern archive, re-routing")
			return e.unpackRarModern(ctx, dst, sra, td)
		}
		return res, err

	case FormatRarModern:
		return e.unpackRarModern(ctx, dst, sra, td)

	default:
		return nil, handleError(c, td, "cannot route archive", ErrUnsupportedFormat)
	}
}

// Unpack extracts the archive in src to dst using a transient [Extractor]
// with the given configuration. Callers extracting more than once should
// assemble an [Extractor] instead and reuse it.
func Unpack(ctx context.Context, src io.Reader, dst string, c *Config) (*Result, error) {
	e := New(c)
	defer e.Close()
	return e.Unpack(ctx, src, dst)
}
