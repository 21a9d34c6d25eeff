// Package state keeps the per-project metadata file written into every
// project that has been set up (.aigenio/project.json).
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aigenio/pkg/config"

	"github.com/google/uuid"
)

// ProjectState is the metadata stored inside a project.
type ProjectState struct {
	ID          string    `json:"id"`
	Name        string    `json:"project_name"`
	Type        string    `json:"project_type"`
	Framework   string    `json:"framework"`
	Languages   []string  `json:"languages"`
	Template    string    `json:"template,omitempty"`
	SetupAt     time.Time `json:"setup_date"`
	Version     string    `json:"version"`
	ToolVersion string    `json:"agent_version"`

	LastScore      int       `json:"last_score,omitempty"`
	LastValidation time.Time `json:"last_validation,omitempty"`
	LastBackup     time.Time `json:"last_backup,omitempty"`
	LastCommit     string    `json:"last_commit,omitempty"`
}

// GetStatePath returns the path to the metadata file of the project at dir.
func GetStatePath(dir string) string {
	return filepath.Join(dir, config.ProjectMetaDir, config.ProjectMetaFile)
}

// Exists reports whether the project at dir has a metadata file.
func Exists(dir string) bool {
	_, err := os.Stat(GetStatePath(dir))
	return err == nil
}

// LoadState loads the metadata of the project at dir. A missing file yields
// an empty state.
func LoadState(dir string) (*ProjectState, error) {
	data, err := os.ReadFile(GetStatePath(dir))
	if errors.Is(err, os.ErrNotExist) {
		return &ProjectState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project state: %w", err)
	}

	var st ProjectState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse project state: %w", err)
	}
	return &st, nil
}

// SaveState writes the metadata of the project at dir.
func SaveState(dir string, st *ProjectState) error {
	path := GetStatePath(dir)
	if err := os.MkdirAll(filepath.Dir(path), config.PermDirectory); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(path, data, config.PermGeneratedFile); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// MarkSetup records a setup run. The project ID survives repeated setups.
func MarkSetup(dir string, update ProjectState) (*ProjectState, error) {
	st, err := LoadState(dir)
	if err != nil {
		return nil, err
	}

	id := st.ID
	if id == "" {
		id = uuid.NewString()
	}
	keep := *st
	*st = update
	st.ID = id
	st.LastScore = keep.LastScore
	st.LastValidation = keep.LastValidation
	st.LastBackup = keep.LastBackup
	st.LastCommit = keep.LastCommit
	if st.SetupAt.IsZero() {
		st.SetupAt = time.Now()
	}
	st.Version = config.Version
	st.ToolVersion = config.Version

	if err := SaveState(dir, st); err != nil {
		return nil, err
	}
	return st, nil
}

// RecordValidation stores the latest validation score of a set-up project.
// Projects without metadata are left untouched.
func RecordValidation(dir string, score int) error {
	if !Exists(dir) {
		return nil
	}
	st, err := LoadState(dir)
	if err != nil {
		return err
	}
	st.LastScore = score
	st.LastValidation = time.Now()
	return SaveState(dir, st)
}

// RecordBackup stores the commit of the latest backup.
func RecordBackup(dir, commit string) error {
	if !Exists(dir) {
		return nil
	}
	st, err := LoadState(dir)
	if err != nil {
		return err
	}
	st.LastBackup = time.Now()
	if commit != "" {
		st.LastCommit = commit
	}
	return SaveState(dir, st)
}
