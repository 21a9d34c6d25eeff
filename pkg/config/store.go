package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// withFileLock runs fn while holding an exclusive lock next to path.
func withFileLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), PermConfigDirectory); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	lockPath := path + ".lock"
	fl := flock.New(lockPath)

	if err := fl.Lock(); err != nil {
		return fmt.Errorf("locking file %s: %w", lockPath, err)
	}
	defer func() {
		if err := fl.Unlock(); err != nil {
			log.Printf("failed to release file lock: %v", err)
		}
	}()

	return fn()
}

// readJSON decodes path into v. It reports false when the file does not exist.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return true, nil
}

// replaceFile writes data to a temporary file and renames it over path, so
// readers never see a partial file.
func replaceFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func marshalJSON(path string, v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	return data, nil
}

// writeJSON writes v as indented JSON under a file lock.
func writeJSON(path string, v any, perm os.FileMode) error {
	data, err := marshalJSON(path, v)
	if err != nil {
		return err
	}
	return withFileLock(path, func() error {
		return replaceFile(path, data, perm)
	})
}

// ReadJSONFile decodes path into v. It reports false when the file does not
// exist, leaving v untouched.
func ReadJSONFile(path string, v any) (bool, error) {
	return readJSON(path, v)
}

// UpdateJSONFile holds the lock on path for a whole read-modify-write: the
// current content is decoded into v, fn changes v and the result is written
// back. An error from fn aborts the write and is returned as is.
func UpdateJSONFile(path string, v any, perm os.FileMode, fn func() error) error {
	return withFileLock(path, func() error {
		if _, err := readJSON(path, v); err != nil {
			return err
		}
		if err := fn(); err != nil {
			return err
		}
		data, err := marshalJSON(path, v)
		if err != nil {
			return err
		}
		return replaceFile(path, data, perm)
	})
}
