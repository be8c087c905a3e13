package fsx

import (
	"context"
	"io"
	"path"
)

// FileReader reads whole objects from backing storage.
type FileReader interface {
	ReadFile(ctx context.Context, filePath string) ([]byte, error)
}

// FileSystem is the storage abstraction used for uploaded attachments.
// Paths are forward-slash keys regardless of backend.
type FileSystem interface {
	FileReader

	WriteFile(ctx context.Context, filePath string, data []byte) error
	WriteFileStream(ctx context.Context, filePath string, reader io.Reader) error
	ReadFileStream(ctx context.Context, filePath string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, filePath string) error
	Exists(ctx context.Context, filePath string) (bool, error)
	Join(elem ...string) string
}

// Join builds a storage key from path elements. Exposed so callers without a
// FileSystem handle can still construct keys consistently.
func Join(elem ...string) string {
	return path.Join(elem...)
}
