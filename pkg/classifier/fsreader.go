package classifier

import (
	"bytes"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// skipDirs are never descended into, regardless of .gitignore.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".idea":        true,
	".vscode":      true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".next":        true,
	".nuxt":        true,
}

// FSReader provides bounded, read-only filesystem access over fs.FS.
type FSReader struct {
	fsys     fs.FS
	maxDepth int
	maxFiles int
	ignore   gitignore.GitIgnore
	cache    map[string]cachedFile
}

type cachedFile struct {
	content string
	ok      bool
}

// NewFSReader creates a reader for fsys. maxDepth bounds how many
// subdirectory levels below the root are scanned; maxFiles caps the scan.
func NewFSReader(fsys fs.FS, maxDepth, maxFiles int) *FSReader {
	r := &FSReader{
		fsys:     fsys,
		maxDepth: maxDepth,
		maxFiles: maxFiles,
		cache:    map[string]cachedFile{},
	}
	if data, err := fs.ReadFile(fsys, ".gitignore"); err == nil {
		r.ignore = gitignore.New(bytes.NewReader(data), ".", nil)
	}
	return r
}

// Has checks if a file exists at the given path
func (r *FSReader) Has(p string) bool {
	fi, err := fs.Stat(r.fsys, p)
	return err == nil && !fi.IsDir()
}

// DirExists checks if a directory exists at the given path
func (r *FSReader) DirExists(p string) bool {
	fi, err := fs.Stat(r.fsys, p)
	return err == nil && fi.IsDir()
}

// Read returns the file content. Each path is read at most once per reader;
// ok is false when the file could not be read.
func (r *FSReader) Read(p string) (content string, ok bool) {
	if c, seen := r.cache[p]; seen {
		return c.content, c.ok
	}

	data, err := fs.ReadFile(r.fsys, p)
	if err != nil {
		log.Printf("classifier: skipping unreadable file %s: %v", p, err)
		r.cache[p] = cachedFile{}
		return "", false
	}

	r.cache[p] = cachedFile{content: string(data), ok: true}
	return string(data), true
}

// Matches reports whether any scanned file matches the doublestar pattern.
func (r *FSReader) Matches(files []string, pattern string) bool {
	for _, f := range files {
		if ok, _ := doublestar.Match(pattern, f); ok {
			return true
		}
	}
	return false
}

// ScanTree walks the filesystem up to the configured depth and returns the
// files it saw. truncated is set when the file ceiling was exceeded.
func (r *FSReader) ScanTree() (files []string, truncated bool, err error) {
	err = fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == "." {
				return walkErr
			}
			return nil
		}
		if p == "." {
			return nil
		}

		if d.IsDir() {
			if skipDirs[d.Name()] || r.ignored(p, true) {
				return fs.SkipDir
			}
			if depth(p) > r.maxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if r.ignored(p, false) {
			return nil
		}

		if r.maxFiles > 0 && len(files) >= r.maxFiles {
			truncated = true
			return fs.SkipAll
		}
		files = append(files, p)
		return nil
	})

	return files, truncated, err
}

func (r *FSReader) ignored(p string, isDir bool) bool {
	if r.ignore == nil {
		return false
	}
	match := r.ignore.Relative(p, isDir)
	return match != nil && match.Ignore()
}

// depth is the number of directory levels below the root a directory sits at.
func depth(dir string) int {
	return strings.Count(path.Clean(dir), "/") + 1
}
