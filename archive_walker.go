package unarchive

import (
	"io"
	"io/fs"
)

// archiveWalker is an interface that represents a file walker in an archive
type archiveWalker interface {
	Type() string
	Next() (archiveEntry, error)
}

// archiveEntry is an interface that represents a file in an archive
type archiveEntry interface {
	IsDir() bool
	IsRegular() bool
	Mode() fs.FileMode
	Name() string
	Open() (io.ReadCloser, error)
	Size() int64
}
