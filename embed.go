package unarchive

import "embed"

// nativeBinaries holds the bundled unrar executables, one per supported
// profile. The binaries are placed under binaries/ by the release build;
// see binaries/README.md for the expected layout.
//
//go:embed all:binaries
var nativeBinaries embed.FS
