package unarchive

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// ConfigOption is a function pointer to implement the option pattern.
type ConfigOption func(*Config)

// Config provides a configuration struct and options to adjust the
// configuration of the extraction process.
//
// The default configuration extracts with overwrite enabled (matching the
// upload flow this package serves), bounds input and output sizes and uses
// the pure in-process decoder for modern rar archives.
type Config struct {
	// cacheInMemory caches streamed input in memory instead of a temp file
	cacheInMemory bool

	// logger stream for extraction
	logger logger

	// maxExtractionSize is the maximum size over all extracted files.
	// Set value to -1 to disable the check.
	maxExtractionSize int64

	// maxFiles is the maximum number of entries processed from an archive.
	// Set value to -1 to disable the check.
	maxFiles int64

	// maxInputSize is the maximum size of the input.
	// Set value to -1 to disable the check.
	maxInputSize int64

	// nativeUnrar prefers the provisioned native binary over the pure
	// in-process decoder for modern rar archives
	nativeUnrar bool

	// nativeUnrarPath overrides the provisioned binary with an existing
	// unrar executable
	nativeUnrarPath string

	// overwrite defines if files in the destination are overwritten
	overwrite bool

	// pureRarDecoder enables the in-process decoder for modern rar archives
	pureRarDecoder bool

	// subprocessTimeout bounds a native unrar invocation
	subprocessTimeout time.Duration

	// telemetryHook is a function to consume telemetry data after a
	// finished extraction
	telemetryHook TelemetryHook
}

// CacheInMemory returns true if streamed input is cached in memory. If set
// to false, the cache is stored on disk to avoid memory exhaustion.
func (c *Config) CacheInMemory() bool {
	return c.cacheInMemory
}

// CheckMaxFiles checks if counter exceeds the configured maximum. If the
// maximum is exceeded, a [ErrMaxFilesExceeded] error is returned.
func (c *Config) CheckMaxFiles(counter int64) error {
	if c.MaxFiles() == -1 {
		return nil
	}
	if counter > c.MaxFiles() {
		return ErrMaxFilesExceeded
	}
	return nil
}

// CheckExtractionSize checks if fileSize exceeds the configured maximum. If
// the maximum is exceeded, a [ErrMaxExtractionSizeExceeded] error is returned.
func (c *Config) CheckExtractionSize(fileSize int64) error {
	if c.MaxExtractionSize() == -1 {
		return nil
	}
	if fileSize > c.MaxExtractionSize() {
		return ErrMaxExtractionSizeExceeded
	}
	return nil
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// MaxExtractionSize returns the maximum size over all extracted files.
func (c *Config) MaxExtractionSize() int64 {
	return c.maxExtractionSize
}

// MaxFiles returns the maximum number of entries processed from an archive.
func (c *Config) MaxFiles() int64 {
	return c.maxFiles
}

// MaxInputSize returns the maximum size of the input.
func (c *Config) MaxInputSize() int64 {
	return c.maxInputSize
}

// NativeUnrar returns true if the native binary is preferred over the pure
// in-process decoder for modern rar archives.
func (c *Config) NativeUnrar() bool {
	return c.nativeUnrar
}

// NativeUnrarPath returns the path of an unrar executable that overrides
// the provisioned binary, or "".
func (c *Config) NativeUnrarPath() string {
	return c.nativeUnrarPath
}

// Overwrite returns true if files in the destination are overwritten.
func (c *Config) Overwrite() bool {
	return c.overwrite
}

// PureRarDecoder returns true if the in-process decoder is enabled for
// modern rar archives.
func (c *Config) PureRarDecoder() bool {
	return c.pureRarDecoder
}

// SubprocessTimeout returns the maximum duration of a native unrar
// invocation.
func (c *Config) SubprocessTimeout() time.Duration {
	return c.subprocessTimeout
}

// TelemetryHook returns the telemetry hook.
func (c *Config) TelemetryHook() TelemetryHook {
	if c.telemetryHook == nil {
		return func(ctx context.Context, d *TelemetryData) {
			// noop
		}
	}
	return c.telemetryHook
}

const (
	defaultCacheInMemory     = false            // cache streamed input on disk
	defaultMaxExtractionSize = 1 << (10 * 3)    // 1 Gb
	defaultMaxFiles          = 100000           // 100k entries
	defaultMaxInputSize      = 1 << (10 * 3)    // 1 Gb
	defaultNativeUnrar       = false            // prefer the pure decoder
	defaultOverwrite         = true             // truncate existing files
	defaultPureRarDecoder    = true             // in-process modern rar decode
	defaultSubprocessTimeout = 60 * time.Second // bound native unrar runs
)

var (
	// slog to discard
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	// no operation telemetry hook
	defaultTelemetryHook = func(ctx context.Context, d *TelemetryData) {
		// noop
	}
)

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style.
func NewConfig(opts ...ConfigOption) *Config {
	config := &Config{
		cacheInMemory:     defaultCacheInMemory,
		logger:            defaultLogger,
		maxExtractionSize: defaultMaxExtractionSize,
		maxFiles:          defaultMaxFiles,
		maxInputSize:      defaultMaxInputSize,
		nativeUnrar:       defaultNativeUnrar,
		overwrite:         defaultOverwrite,
		pureRarDecoder:    defaultPureRarDecoder,
		subprocessTimeout: defaultSubprocessTimeout,
		telemetryHook:     defaultTelemetryHook,
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// WithCacheInMemory options pattern function to enable/disable caching
// streamed input in memory instead of a temp file.
func WithCacheInMemory(cache bool) ConfigOption {
	return func(c *Config) {
		c.cacheInMemory = cache
	}
}

// WithLogger options pattern function to set a custom logger.
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithMaxExtractionSize options pattern function to set the maximum size
// over all extracted files. (-1 to disable check)
func WithMaxExtractionSize(maxExtractionSize int64) ConfigOption {
	return func(c *Config) {
		c.maxExtractionSize = maxExtractionSize
	}
}

// WithMaxFiles options pattern function to set the maximum number of
// entries processed from an archive. (-1 to disable check)
func WithMaxFiles(maxFiles int64) ConfigOption {
	return func(c *Config) {
		c.maxFiles = maxFiles
	}
}

// WithMaxInputSize options pattern function to set the maximum input size.
// (-1 to disable check)
func WithMaxInputSize(maxInputSize int64) ConfigOption {
	return func(c *Config) {
		c.maxInputSize = maxInputSize
	}
}

// WithNativeUnrar options pattern function to prefer the provisioned native
// binary over the pure in-process decoder for modern rar archives.
func WithNativeUnrar(native bool) ConfigOption {
	return func(c *Config) {
		c.nativeUnrar = native
	}
}

// WithNativeUnrarPath options pattern function to use an existing unrar
// executable instead of provisioning the bundled one.
func WithNativeUnrarPath(path string) ConfigOption {
	return func(c *Config) {
		c.nativeUnrarPath = path
	}
}

// WithOverwrite options pattern function to enable/disable overwriting
// existing files in the destination.
func WithOverwrite(overwrite bool) ConfigOption {
	return func(c *Config) {
		c.overwrite = overwrite
	}
}

// WithPureRarDecoder options pattern function to enable/disable the
// in-process decoder for modern rar archives.
func WithPureRarDecoder(pure bool) ConfigOption {
	return func(c *Config) {
		c.pureRarDecoder = pure
	}
}

// WithSubprocessTimeout options pattern function to bound the duration of a
// native unrar invocation.
func WithSubprocessTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.subprocessTimeout = timeout
	}
}

// WithTelemetryHook options pattern function to set a telemetry hook that
// consumes the [TelemetryData] of a finished extraction.
func WithTelemetryHook(hook TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}
