package keyfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"wgscan/pkg/frame"
)

// Extension is the file name extension of key files.
const Extension = ".wgn"

// ErrInvalidName is returned for key file names that are not plain file names.
var ErrInvalidName = errors.New("invalid key file name")

// Store keeps key files in a directory.
type Store struct {
	Dir string
}

// NewStore returns a store for the directory dir. The directory is created on
// the first Save.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// path returns the file path of the key file name, the extension is optional.
func (s *Store) path(name string) (string, error) {
	name = strings.TrimSuffix(name, Extension)
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.Dir, name+Extension), nil
}

// Save writes f to the key file name and returns its path.
func (s *Store) Save(name string, f *frame.Frame) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	file, err := os.Create(p)
	if err != nil {
		return "", err
	}

	if err = Encode(file, f); err != nil {
		_ = file.Close()
		_ = os.Remove(p)
		return "", err
	}
	return p, file.Close()
}

// Load reads the key file name.
func (s *Store) Load(name string) (frame.Frame, error) {
	p, err := s.path(name)
	if err != nil {
		return frame.Frame{}, err
	}
	return LoadFile(p)
}

// Exists reports whether the key file name exists.
func (s *Store) Exists(name string) bool {
	p, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// List returns the sorted names of all key files, without extension.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Extension {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Extension))
	}
	sort.Strings(names)
	return names, nil
}

// NextName returns a file name for a frame captured at t that is not used yet.
func (s *Store) NextName(t time.Time) string {
	base := "wiegand_" + t.Format("20060102-150405")
	name := base
	for i := 1; s.Exists(name); i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	return name
}

// LoadFile reads the key file at path.
func LoadFile(path string) (frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return frame.Frame{}, err
	}
	defer func() { _ = file.Close() }()

	f, err := Decode(file)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
