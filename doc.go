// Package unarchive extracts uploaded archives of unknown declared type to a
// target directory. The archive format is determined from the byte content,
// never from the filename, and the extraction is routed to a matching decoder
// for zip, legacy rar or modern rar archives.
//
// Modern rar archives are decoded in-process by default. If the pure decoder
// is disabled, a platform-specific unrar binary is provisioned from embedded
// resources and invoked as a subprocess. When neither is available, modern
// rar support degrades gracefully while zip and legacy rar keep working.
//
// Configuration is done using the [Config] option pattern. Telemetry data is
// collected during extraction and handed to an optional [TelemetryHook].
package unarchive
