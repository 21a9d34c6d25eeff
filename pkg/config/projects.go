package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ErrProjectNotFound is returned when a registry lookup matches nothing.
var ErrProjectNotFound = errors.New("project not found")

// ProjectRecord is a project that has been set up with aigenio.
type ProjectRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Type       string    `json:"type"`
	Framework  string    `json:"framework"`
	Confidence float64   `json:"confidence"`
	Languages  []string  `json:"languages"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	LastSetup  time.Time `json:"last_setup"`
}

// ProjectRegistry stores set-up projects keyed by absolute path.
type ProjectRegistry struct {
	Projects    map[string]ProjectRecord `json:"projects"`
	LastUpdated time.Time                `json:"last_updated"`
}

func GetProjectsPath() string {
	return configPath(LocalProjectsFile)
}

// LoadProjects reads the registry, returning an empty one when none exists.
func LoadProjects() (*ProjectRegistry, error) {
	reg := &ProjectRegistry{}
	if _, err := readJSON(GetProjectsPath(), reg); err != nil {
		return nil, err
	}
	if reg.Projects == nil {
		reg.Projects = make(map[string]ProjectRecord)
	}
	return reg, nil
}

// UpdateProjects loads the registry, applies fn and saves it, holding the
// file lock throughout so concurrent runs never drop each other's entries.
// Nothing is written when fn fails.
func UpdateProjects(fn func(*ProjectRegistry) error) (*ProjectRegistry, error) {
	reg := &ProjectRegistry{}
	err := UpdateJSONFile(GetProjectsPath(), reg, PermConfigFile, func() error {
		if reg.Projects == nil {
			reg.Projects = make(map[string]ProjectRecord)
		}
		if err := fn(reg); err != nil {
			return err
		}
		reg.LastUpdated = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Save writes the registry under a file lock.
func (r *ProjectRegistry) Save() error {
	r.LastUpdated = time.Now().UTC()
	return writeJSON(GetProjectsPath(), r, PermConfigFile)
}

// Upsert records a project setup. The ID and creation time of an existing
// record are kept.
func (r *ProjectRegistry) Upsert(rec ProjectRecord) (ProjectRecord, error) {
	absPath, err := filepath.Abs(rec.Path)
	if err != nil {
		return ProjectRecord{}, fmt.Errorf("failed to resolve project path: %w", err)
	}
	rec.Path = absPath
	if rec.Name == "" {
		rec.Name = filepath.Base(absPath)
	}

	now := time.Now().UTC()
	if existing, ok := r.Projects[absPath]; ok {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
	}
	rec.LastSetup = now
	if rec.Languages == nil {
		rec.Languages = []string{}
	}

	r.Projects[absPath] = rec
	return rec, nil
}

// Find looks a project up by name, ID or path.
func (r *ProjectRegistry) Find(nameOrPath string) (ProjectRecord, bool) {
	if rec, ok := r.Projects[nameOrPath]; ok {
		return rec, true
	}
	if absPath, err := filepath.Abs(nameOrPath); err == nil {
		if rec, ok := r.Projects[absPath]; ok {
			return rec, true
		}
	}
	for _, rec := range r.List() {
		if rec.Name == nameOrPath || rec.ID == nameOrPath {
			return rec, true
		}
	}
	return ProjectRecord{}, false
}

// Forget removes a project. It reports whether anything was removed.
func (r *ProjectRegistry) Forget(nameOrPath string) bool {
	rec, ok := r.Find(nameOrPath)
	if !ok {
		return false
	}
	delete(r.Projects, rec.Path)
	return true
}

// List returns the projects, most recently set up first.
func (r *ProjectRegistry) List() []ProjectRecord {
	out := make([]ProjectRecord, 0, len(r.Projects))
	for _, rec := range r.Projects {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastSetup.Equal(out[j].LastSetup) {
			return out[i].LastSetup.After(out[j].LastSetup)
		}
		return out[i].Path < out[j].Path
	})
	return out
}
