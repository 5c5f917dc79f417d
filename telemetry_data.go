package unarchive

import (
	"context"
	"encoding/json"
	"time"
)

// now is a function pointer that returns time.Now to the caller.
var now = time.Now

// TelemetryData holds all telemetry data of an extraction.
type TelemetryData struct {
	// ExtractedFiles is the number of extracted files
	ExtractedFiles int64 `json:"extracted_files"`

	// ExtractionDuration is the time it took to extract the archive
	ExtractionDuration time.Duration `json:"extraction_duration"`

	// ExtractionErrors is the number of errors during extraction
	ExtractionErrors int64 `json:"extraction_errors"`

	// ExtractionSize is the size of the extracted files
	ExtractionSize int64 `json:"extraction_size"`

	// Format is the sniffed container format of the archive
	Format string `json:"format"`

	// InputSize is the size of the input
	InputSize int64 `json:"input_size"`

	// LastExtractionError is the last error during extraction
	LastExtractionError error `json:"last_extraction_error"`

	// NativeDecoder is true if the native unrar subprocess performed the
	// extraction
	NativeDecoder bool `json:"native_decoder"`

	// SkippedEntries is the number of entries skipped as unsafe or
	// unsupported
	SkippedEntries int64 `json:"skipped_entries"`
}

// String returns a string representation of [TelemetryData].
func (td TelemetryData) String() string {
	b, _ := json.Marshal(td)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (td TelemetryData) MarshalJSON() ([]byte, error) {
	var lastError string
	if td.LastExtractionError != nil {
		lastError = td.LastExtractionError.Error()
	}

	type Alias TelemetryData
	return json.Marshal(&struct {
		LastExtractionError string `json:"last_extraction_error"`
		*Alias
	}{
		LastExtractionError: lastError,
		Alias:               (*Alias)(&td),
	})
}

// TelemetryHook is a function type that performs operations on
// [TelemetryData] after an extraction has finished. It can be used to submit
// the [TelemetryData] to a telemetry service, for example.
type TelemetryHook func(context.Context, *TelemetryData)

// captureExtractionDuration captures the duration of the extraction.
func captureExtractionDuration(td *TelemetryData, start time.Time) {
	stop := now()
	td.ExtractionDuration = stop.Sub(start)
}
