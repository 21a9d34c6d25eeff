package classifier

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Signature
	}{
		{"empty", nil},
		{"missing name", []Signature{{Markers: []string{"a"}}}},
		{"no evidence", []Signature{{Name: "a"}}},
		{"duplicate", []Signature{{Name: "a", Markers: []string{"x"}}, {Name: "a", Markers: []string{"y"}}}},
		{"absolute marker", []Signature{{Name: "a", Markers: []string{"/etc/passwd"}}}},
		{"parent marker", []Signature{{Name: "a", Markers: []string{"../x"}}}},
		{"blank keyword", []Signature{{Name: "a", Keywords: []string{" "}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.entries)
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestCatalog_EntriesAreCopies(t *testing.T) {
	c := MustCatalog([]Signature{{Name: "a", Markers: []string{"a.txt"}}})

	entries := c.Entries()
	entries[0].Markers[0] = "mutated"

	got, ok := c.Lookup("a")
	if !ok {
		t.Fatal("expected entry a")
	}
	if got.Markers[0] != "a.txt" {
		t.Fatalf("catalog was mutated through Entries(): %v", got.Markers)
	}
}

func TestDefaultCatalog_EcosystemsBalanced(t *testing.T) {
	// Entries sharing a manifest marker must carry equal evidence, so a bare
	// manifest falls to the first one declared.
	byManifest := map[string]int{}
	for _, e := range Default().Entries() {
		for _, m := range e.Markers {
			switch m {
			case "composer.json", "requirements.txt", "package.json":
				if n, ok := byManifest[m]; ok && n != e.MaxEvidence() {
					t.Errorf("%s: evidence %d differs from %d for %s", e.Name, e.MaxEvidence(), n, m)
				}
				byManifest[m] = e.MaxEvidence()
			}
		}
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `frameworks:
  - name: hugo
    language: go
    category: documentation
    marker_files: [hugo.toml, content/]
  - name: astro
    language: javascript
    marker_files: [astro.config.mjs, package.json]
    dependency_keywords: [astro]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("LoadCatalogFile() error = %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	astro, ok := c.Lookup("astro")
	if !ok || len(astro.Keywords) != 1 || astro.Keywords[0] != "astro" {
		t.Errorf("unexpected astro entry: %+v", astro)
	}
	if entries := c.Entries(); entries[0].Name != "hugo" {
		t.Errorf("expected declaration order to be kept, got %s first", entries[0].Name)
	}
}

func TestLoadCatalogFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("frameworks:\n  - language: go\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCatalogFile(path); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}
