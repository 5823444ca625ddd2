package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const defaultFileMode = 0o644

// FSStore is the filesystem-backed content store. Store paths use forward
// slashes and are joined under the configured root.
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem store rooted at root, creating the root
// folder if needed.
func NewFSStore(root string) (*FSStore, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &FSStore{root: absRoot}, nil
}

// Root returns the absolute storage root.
func (s *FSStore) Root() string {
	return s.root
}

func (s *FSStore) abs(p string) string {
	return filepath.Join(s.root, filepath.FromSlash(p))
}

// Write stores data, creating parent folders as needed. The write is a
// whole-file overwrite, not atomic.
func (s *FSStore) Write(_ context.Context, path string, data []byte) error {
	target := s.abs(path)

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create folder for %s: %w", path, err)
	}

	if err := os.WriteFile(target, data, defaultFileMode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func (s *FSStore) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(s.abs(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}

// List returns file names directly under dir; a missing dir yields an
// empty list, not an error.
func (s *FSStore) List(_ context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(s.abs(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		names = append(names, e.Name())
	}

	return names, nil
}

func (s *FSStore) Exists(_ context.Context, path string) (bool, error) {
	info, err := os.Stat(s.abs(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	return !info.IsDir(), nil
}

func (s *FSStore) RemoveAll(_ context.Context, dir string) error {
	if err := os.RemoveAll(s.abs(dir)); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}

	return nil
}
