package classifier

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotFound is returned when the directory to classify does not exist.
	ErrNotFound = errors.New("path not found")

	// ErrPermissionDenied is returned when the directory cannot be read.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotDirectory is returned when the path exists but is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrInvalidCatalog is returned when a catalog fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// pathError maps filesystem errors onto the classifier's error taxonomy.
func pathError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("reading %s: %w", path, err)
	}
}
