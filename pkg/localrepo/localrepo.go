// Package localrepo is the on-disk artifact store that fronts every remote
// repository. Files are laid out exactly like a Maven repository, so an
// existing ~/.m2/repository can be used as-is.
package localrepo

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
)

// Repo is a path-addressed artifact store rooted at a directory.
// It is safe for concurrent use: writes go through a temporary file and an
// atomic rename, so readers never observe a partial artifact.
type Repo struct {
	dir string
}

// Open returns the store rooted at dir, creating the directory if needed.
func Open(dir string) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Repo{dir: abs}, nil
}

// Dir returns the absolute root directory.
func (r *Repo) Dir() string { return r.dir }

// PathOf returns where c lives in the store, whether or not it exists.
func (r *Repo) PathOf(c artifact.Coordinate) string {
	return filepath.Join(r.dir, filepath.FromSlash(c.Path()))
}

// Lookup returns the file of c if it is present.
func (r *Repo) Lookup(c artifact.Coordinate) (string, bool) {
	path := r.PathOf(c)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// Store writes data as the file of c and returns its path.
func (r *Repo) Store(c artifact.Coordinate, data []byte) (string, error) {
	path := r.PathOf(c)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.part")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return path, nil
}
