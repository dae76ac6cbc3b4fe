// Package localfs implements the journal file capability over the local
// filesystem. It is the default backend for the CLI, the MCP server and the
// TUI; the journal core itself only sees the journal.FS interface.
package localfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pensieve-md/pensieve/pkg/journal"
)

// Dir is a journal.FS rooted at a single directory.
type Dir struct {
	root string
}

// New returns a Dir rooted at root, creating the directory if needed.
func New(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("localfs: abs %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("localfs: init directory %s: %w", abs, err)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute directory this capability is rooted at.
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) pathFor(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("localfs: invalid file name (empty)")
	}
	if strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("localfs: invalid file name %q (contains path separator)", name)
	}
	resolved := filepath.Join(d.root, name)
	if !strings.HasPrefix(resolved, d.root+string(filepath.Separator)) {
		return "", fmt.Errorf("localfs: path traversal detected for %q", name)
	}
	return resolved, nil
}

// Open returns a handle for name. When create is false and the file is
// absent, it reports journal.ErrNotFound; when create is true, an empty file
// is created on the spot so a subsequent ReadText succeeds.
func (d *Dir) Open(name string, create bool) (journal.File, error) {
	path, err := d.pathFor(name)
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		if !create {
			return nil, fmt.Errorf("localfs: %s: %w", name, journal.ErrNotFound)
		}
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			return nil, fmt.Errorf("localfs: create %s: %w", name, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("localfs: stat %s: %w", name, err)
	}
	return &file{path: path}, nil
}

// List enumerates the immediate children of the journal directory.
func (d *Dir) List() ([]journal.DirEntry, error) {
	children, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("localfs: list %s: %w", d.root, err)
	}
	out := make([]journal.DirEntry, 0, len(children))
	for _, c := range children {
		out = append(out, journal.DirEntry{Name: c.Name(), IsDir: c.IsDir()})
	}
	return out, nil
}

type file struct {
	path string
}

func (f *file) ReadText() (string, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("localfs: %s: %w", f.path, journal.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("localfs: read %s: %w", f.path, err)
	}
	return string(b), nil
}

// WriteText overwrites the file atomically via a temporary file and rename so
// a crash mid-write never leaves a truncated day file behind.
func (f *file) WriteText(text string) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o600); err != nil {
		return fmt.Errorf("localfs: write temp file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("localfs: atomic rename %s: %w", f.path, err)
	}
	return nil
}
