package unarchive_test

import (
	"testing"

	"github.com/cfm-gis/unarchive"
)

func TestIsZip(t *testing.T) {
	tests := []struct {
		header []byte
		want   bool
	}{
		{[]byte{0x50, 0x4B, 0x03, 0x04}, true},
		{[]byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00}, true},
		{[]byte{0x50, 0x4B, 0x05, 0x06}, false},
		{[]byte{0x00, 0x00, 0x00, 0x00}, false},
		{[]byte{0x50, 0x4B}, false},
	}

	for _, test := range tests {
		if got := unarchive.IsZip(test.header); got != test.want {
			t.Errorf("IsZip(%v) = %v; want %v", test.header, got, test.want)
		}
	}
}

func TestIsRarLegacy(t *testing.T) {
	tests := []struct {
		header []byte
		want   bool
	}{
		{[]byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00}, true},
		{[]byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00, 0xCF}, true},
		{[]byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}, false},
		{[]byte{0x52, 0x61, 0x72, 0x21}, false},
		{[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, false},
	}

	for _, test := range tests {
		if got := unarchive.IsRarLegacy(test.header); got != test.want {
			t.Errorf("IsRarLegacy(%v) = %v; want %v", test.header, got, test.want)
		}
	}
}

func TestIsRarModern(t *testing.T) {
	tests := []struct {
		header []byte
		want   bool
	}{
		{[]byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}, true},
		{[]byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00}, false},
		{[]byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01}, false},
		{[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, false},
	}

	for _, test := range tests {
		if got := unarchive.IsRarModern(test.header); got != test.want {
			t.Errorf("IsRarModern(%v) = %v; want %v", test.header, got, test.want)
		}
	}
}

func TestSniffFormat(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   unarchive.Format
	}{
		{"zip", []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x00, 0x00}, unarchive.FormatZip},
		{"rar legacy", []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00, 0xCF}, unarchive.FormatRarLegacy},
		{"rar modern", []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}, unarchive.FormatRarModern},
		{"gzip", []byte{0x1F, 0x8B, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00}, unarchive.FormatUnknown},
		{"plain text", []byte("not an ar"), unarchive.FormatUnknown},
		{"too short", []byte{0x52, 0x61, 0x72}, unarchive.FormatUnknown},
		{"empty", nil, unarchive.FormatUnknown},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := unarchive.SniffFormat(test.header); got != test.want {
				t.Errorf("SniffFormat(%v) = %v; want %v", test.header, got, test.want)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format unarchive.Format
		want   string
	}{
		{unarchive.FormatZip, "zip"},
		{unarchive.FormatRarLegacy, "rar-legacy"},
		{unarchive.FormatRarModern, "rar-modern"},
		{unarchive.FormatUnknown, "unknown"},
	}

	for _, test := range tests {
		if got := test.format.String(); got != test.want {
			t.Errorf("Format(%d).String() = %q; want %q", test.format, got, test.want)
		}
	}
}
