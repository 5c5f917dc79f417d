package unarchive_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cfm-gis/unarchive"
)

// zipEntry describes one file to place in a test archive.
type zipEntry struct {
	name string
	data []byte
}

// createTestZip builds a zip archive in memory.
func createTestZip(t *testing.T, entries []zipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("cannot create zip entry %q: %v", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			t.Fatalf("cannot write zip entry %q: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("cannot close zip writer: %v", err)
	}
	return buf.Bytes()
}

// streamOnly hides Seek/ReadAt from the extraction, forcing the caching path.
type streamOnly struct {
	io.Reader
}

func TestUnpackZipRoundTrip(t *testing.T) {
	entries := []zipEntry{
		{"a", []byte("alpha")},
		{"b", []byte("bravo")},
		{"c", []byte("charlie")},
	}
	archive := createTestZip(t, entries)

	tmpDir := t.TempDir()
	res, err := unarchive.Unpack(context.Background(), bytes.NewReader(archive), tmpDir, unarchive.NewConfig())
	if err != nil {
		t.Fatalf("error unpacking zip archive: %v", err)
	}

	if res.Extracted != len(entries) {
		t.Errorf("Extracted = %d; want %d", res.Extracted, len(entries))
	}
	if res.Skipped != 0 {
		t.Errorf("Skipped = %d; want 0", res.Skipped)
	}
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(tmpDir, e.name))
		if err != nil {
			t.Fatalf("missing extracted file %q: %v", e.name, err)
		}
		if !bytes.Equal(data, e.data) {
			t.Errorf("content of %q = %q; want %q", e.name, data, e.data)
		}
	}
}

func TestUnpackZipShapefileScenario(t *testing.T) {
	entries := []zipEntry{
		{"test.shp", bytes.Repeat([]byte("s"), 100)},
		{"test.shx", bytes.Repeat([]byte("x"), 50)},
		{"test.dbf", bytes.Repeat([]byte("d"), 200)},
		{"test.prj", bytes.Repeat([]byte("p"), 30)},
	}
	archive := createTestZip(t, entries)

	tmpDir := t.TempDir()
	res, err := unarchive.Unpack(context.Background(), bytes.NewReader(archive), tmpDir, unarchive.NewConfig())
	if err != nil {
		t.Fatalf("error unpacking shapefile archive: %v", err)
	}

	if res.Extracted != 4 {
		t.Fatalf("Extracted = %d; want 4", res.Extracted)
	}
	for _, e := range entries {
		info, err := os.Stat(filepath.Join(tmpDir, e.name))
		if err != nil {
			t.Fatalf("missing extracted file %q: %v", e.name, err)
		}
		if info.Size() != int64(len(e.data)) {
			t.Errorf("size of %q = %d; want %d", e.name, info.Size(), len(e.data))
		}
	}
}

func TestUnpackZipFlattensDirectories(t *testing.T) {
	archive := createTestZip(t, []zipEntry{
		{"data/", nil},
		{"data/inner/test.shp", []byte("shape")},
	})

	tmpDir := t.TempDir()
	res, err := unarchive.Unpack(context.Background(), bytes.NewReader(archive), tmpDir, unarchive.NewConfig())
	if err != nil {
		t.Fatalf("error unpacking zip archive: %v", err)
	}

	if res.Extracted != 1 {
		t.Fatalf("Extracted = %d; want 1", res.Extracted)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "test.shp")); err != nil {
		t.Errorf("flattened file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "data")); !os.IsNotExist(err) {
		t.Errorf("directory entry was materialized: %v", err)
	}
}

func TestUnpackZipSkipsTraversal(t *testing.T) {
	archive := createTestZip(t, []zipEntry{
		{"../../evil", []byte("payload")},
		{"good", []byte("fine")},
	})

	tmpDir := t.TempDir()
	res, err := unarchive.Unpack(context.Background(), bytes.NewReader(archive), tmpDir, unarchive.NewConfig())
	if err != nil {
		t.Fatalf("error unpacking zip archive: %v", err)
	}

	if res.Extracted != 1 || res.Skipped != 1 {
		t.Errorf("Extracted/Skipped = %d/%d; want 1/1", res.Extracted, res.Skipped)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "..", "..", "evil")); !os.IsNotExist(err) {
		t.Errorf("traversal entry escaped the target directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "evil")); !os.IsNotExist(err) {
		t.Errorf("traversal entry was written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "good")); err != nil {
		t.Errorf("safe entry missing: %v", err)
	}
}

func TestUnpackZipCorrupt(t *testing.T) {
	corrupt := append([]byte{0x50, 0x4B, 0x03, 0x04}, bytes.Repeat([]byte{0xFF}, 64)...)

	_, err := unarchive.Unpack(context.Background(), bytes.NewReader(corrupt), t.TempDir(), unarchive.NewConfig())
	var corruptErr *unarchive.CorruptArchiveError
	if !errors.As(err, &corruptErr) {
		t.Fatalf("error = %v; want CorruptArchiveError", err)
	}
	if corruptErr.Format != unarchive.FormatZip {
		t.Errorf("CorruptArchiveError.Format = %v; want FormatZip", corruptErr.Format)
	}
}

func TestUnpackZipOverwrite(t *testing.T) {
	archive := createTestZip(t, []zipEntry{
		{"a", []byte("alpha")},
		{"b", []byte("bravo")},
	})

	tmpDir := t.TempDir()
	ctx := context.Background()

	first, err := unarchive.Unpack(ctx, bytes.NewReader(archive), tmpDir, unarchive.NewConfig())
	if err != nil {
		t.Fatalf("error on first extraction: %v", err)
	}

	// overwrite-mode extraction into the non-empty directory yields the
	// same result set
	second, err := unarchive.Unpack(ctx, bytes.NewReader(archive), tmpDir, unarchive.NewConfig())
	if err != nil {
		t.Fatalf("error on repeated extraction: %v", err)
	}
	if second.Extracted != first.Extracted {
		t.Errorf("repeated extraction = %d files; want %d", second.Extracted, first.Extracted)
	}

	// strict mode refuses to overwrite
	_, err = unarchive.Unpack(ctx, bytes.NewReader(archive), tmpDir, unarchive.NewConfig(unarchive.WithOverwrite(false)))
	if err == nil {
		t.Fatal("expected error extracting over existing files with overwrite disabled")
	}
}

func TestUnpackZipFromStream(t *testing.T) {
	archive := createTestZip(t, []zipEntry{{"a", []byte("alpha")}})

	for _, inMemory := range []bool{false, true} {
		tmpDir := t.TempDir()
		cfg := unarchive.NewConfig(unarchive.WithCacheInMemory(inMemory))
		src := streamOnly{bytes.NewReader(archive)}

		res, err := unarchive.Unpack(context.Background(), src, tmpDir, cfg)
		if err != nil {
			t.Fatalf("error unpacking streamed zip (inMemory=%v): %v", inMemory, err)
		}
		if res.Extracted != 1 {
			t.Errorf("Extracted = %d; want 1 (inMemory=%v)", res.Extracted, inMemory)
		}
	}
}
