package unarchive

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTelemetryDataString(t *testing.T) {
	td := TelemetryData{
		ExtractedFiles:      4,
		ExtractionDuration:  250 * time.Millisecond,
		ExtractionSize:      380,
		Format:              "zip",
		InputSize:           1024,
		LastExtractionError: errors.New("test error"),
		SkippedEntries:      1,
	}

	s := td.String()
	var decoded map[string]any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		t.Fatalf("String() is not valid json: %v", err)
	}
	if decoded["format"] != "zip" {
		t.Errorf("format = %v; want zip", decoded["format"])
	}
	if decoded["extracted_files"] != float64(4) {
		t.Errorf("extracted_files = %v; want 4", decoded["extracted_files"])
	}
	if decoded["last_extraction_error"] != "test error" {
		t.Errorf("last_extraction_error = %v; want the error string", decoded["last_extraction_error"])
	}
}

func TestTelemetryDataMarshalJSONNilError(t *testing.T) {
	td := TelemetryData{Format: "rar-modern", NativeDecoder: true}

	b, err := json.Marshal(td)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if !strings.Contains(string(b), `"last_extraction_error":""`) {
		t.Errorf("nil error not marshaled as empty string: %s", b)
	}
	if !strings.Contains(string(b), `"native_decoder":true`) {
		t.Errorf("native_decoder missing: %s", b)
	}
}

func TestCaptureExtractionDuration(t *testing.T) {
	base := time.Now()
	oldNow := now
	now = func() time.Time { return base.Add(3 * time.Second) }
	defer func() { now = oldNow }()

	td := &TelemetryData{}
	captureExtractionDuration(td, base)
	if td.ExtractionDuration != 3*time.Second {
		t.Errorf("ExtractionDuration = %v; want 3s", td.ExtractionDuration)
	}
}
