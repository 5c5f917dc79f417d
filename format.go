package unarchive

import "bytes"

// Format is the container format of an archive, determined from its magic
// signature. The set of formats is closed; anything unrecognized is
// FormatUnknown.
type Format int

const (
	FormatUnknown Format = iota
	FormatZip
	FormatRarLegacy
	FormatRarModern
)

// String returns a human readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatRarLegacy:
		return "rar-legacy"
	case FormatRarModern:
		return "rar-modern"
	default:
		return "unknown"
	}
}

// sniffHeaderLength is the number of bytes needed to match the longest
// magic signature.
const sniffHeaderLength = 8

// magicBytesZip contains the magic bytes for a zip archive.
var magicBytesZip = [][]byte{
	{0x50, 0x4B, 0x03, 0x04},
}

// magicBytesRarLegacy are the magic bytes for rar 1.5 - 4.x archives.
var magicBytesRarLegacy = [][]byte{
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00},
}

// magicBytesRarModern are the magic bytes for rar 5.0 archives.
var magicBytesRarModern = [][]byte{
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00},
}

// IsZip checks if data matches the magic bytes for a zip archive.
func IsZip(data []byte) bool {
	return matchesMagicBytes(data, 0, magicBytesZip)
}

// IsRarLegacy checks if data matches the magic bytes for a legacy rar archive.
func IsRarLegacy(data []byte) bool {
	return matchesMagicBytes(data, 0, magicBytesRarLegacy)
}

// IsRarModern checks if data matches the magic bytes for a modern rar archive.
func IsRarModern(data []byte) bool {
	return matchesMagicBytes(data, 0, magicBytesRarModern)
}

// SniffFormat classifies data by its magic signature. Classification is
// strictly content based. Input that is too short or matches no signature
// yields FormatUnknown.
func SniffFormat(data []byte) Format {
	switch {
	case IsZip(data):
		return FormatZip
	case IsRarModern(data):
		return FormatRarModern
	case IsRarLegacy(data):
		return FormatRarLegacy
	default:
		return FormatUnknown
	}
}

// matchesMagicBytes checks if data matches any of the given magic bytes at
// the given offset.
func matchesMagicBytes(data []byte, offset int, magicBytes [][]byte) bool {
	// check all possible magic bytes until match is found
	for _, mb := range magicBytes {
		// check if header is long enough
		if offset+len(mb) > len(data) {
			continue
		}

		// check for byte match
		if bytes.Equal(mb, data[offset:offset+len(mb)]) {
			return true
		}
	}

	// no match found
	return false
}
