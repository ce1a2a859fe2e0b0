package source

import (
	"context"
	"io"
)

// Place where repository files are located
type Source interface {
	// Human readable name of the repository, used in prompts and reports
	Name() string
	// Open source for iteration
	Open() (Iterator, error)
}

// Opened source
type Iterator interface {
	io.Closer

	// Get and open next file. Thread safe. If there are no files left, returns [io.EOF] error
	Next(ctx context.Context) (FileHandler, error)
}

type FileHandler interface {
	io.ReadCloser

	// Path to the file relative to the repository root, always slash separated
	Path() string
	// Size of the file in bytes. Negative if unknown in advance
	Size() int64
}
