package bridgefs

import (
	"context"
	"io/fs"
)

// Driver defines the primitive operations the adapter composes. Implementations
// are synchronous and context-aware; the adapter layers concurrency on top and
// never retries a failed call.
//
// Errors may be driver-native. The adapter translates them at the boundary via
// [Translate]; drivers that want precise canonical mapping should wrap the
// io/fs sentinels (fs.ErrNotExist, fs.ErrExist) in the errors they return.
type Driver interface {
	// Stat returns the metadata snapshot for path.
	Stat(ctx context.Context, path string) (*Stats, error)

	// ReadFile returns the full contents of the file at path.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile replaces the contents of the file at path, creating it if absent.
	WriteFile(ctx context.Context, path string, data []byte) error

	// ReadDir returns the names of path's direct children.
	ReadDir(ctx context.Context, path string) ([]string, error)

	// Mkdir creates a single directory at path with the given mode.
	Mkdir(ctx context.Context, path string, mode fs.FileMode) error

	// Remove deletes the file or empty directory at path.
	Remove(ctx context.Context, path string) error

	// Rename moves oldPath to newPath, replacing newPath if it exists.
	Rename(ctx context.Context, oldPath, newPath string) error

	// Trash moves path to the driver's trash area instead of deleting it.
	Trash(ctx context.Context, path string) error
}
