package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	ErrInvalidName     = errors.New("invalid file name")
	ErrInvalidLocation = errors.New("invalid file location")
)

const maxNameAttempts = 5

// Storage keeps team uploads under <root>/<team id>/<name>
type Storage struct {
	fs   afero.Fs
	root string
}

// New creates a storage rooted at root on fs
func New(fs afero.Fs, root string) *Storage {
	return &Storage{fs: fs, root: root}
}

// NewOS creates a storage on the local filesystem
func NewOS(root string) *Storage {
	return New(afero.NewOsFs(), root)
}

// Save writes r to the team's directory and returns the location to persist on the File row.
// A name already taken in the directory gets a random suffix so earlier files stay intact.
func (s *Storage) Save(teamID uuid.UUID, name string, r io.Reader) (string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, teamID.String())
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create team directory: %w", err)
	}

	stored, f, err := s.create(dir, clean)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(filepath.Join(dir, stored))
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	return path.Join(teamID.String(), stored), nil
}

// create opens a new file in dir, never one that already exists
func (s *Storage) create(dir, name string) (string, afero.File, error) {
	candidate := name
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		f, err := s.fs.OpenFile(filepath.Join(dir, candidate), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return candidate, f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, fmt.Errorf("create file: %w", err)
		}
		candidate = suffixed(name)
	}
	return "", nil, fmt.Errorf("create file: no free name for %q", name)
}

// Open opens a stored file by the location returned from Save
func (s *Storage) Open(location string) (afero.File, error) {
	full, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	return s.fs.Open(full)
}

// RemoveTeam deletes every stored file of a team; a missing directory is not an error
func (s *Storage) RemoveTeam(teamID uuid.UUID) error {
	return s.fs.RemoveAll(filepath.Join(s.root, teamID.String()))
}

func (s *Storage) resolve(location string) (string, error) {
	clean := path.Clean("/" + location)
	if clean == "/" || strings.Count(clean, "/") != 2 {
		return "", ErrInvalidLocation
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// CleanName reduces an uploaded name to its last path element
func CleanName(name string) (string, error) {
	base := filepath.Base(filepath.FromSlash(strings.ReplaceAll(name, "\\", "/")))
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return "", ErrInvalidName
	}
	return base, nil
}

// suffixed turns "plan.docx" into "plan-1a2b3c4d.docx"
func suffixed(name string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + uuid.NewString()[:8] + ext
}
