package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrNotFound reports that a file is absent and creation was not requested.
// Read paths treat it as the normal "new day" case, never as a fault.
var ErrNotFound = errors.New("journal: file not found")

// FS is the injected file-access capability the store operates through. It
// stands in for whatever platform actually holds the journal directory; the
// store never touches ambient global state.
type FS interface {
	// Open returns a handle to the named file inside the journal directory,
	// creating it when create is true. When the file is absent and create is
	// false it returns ErrNotFound (possibly wrapped).
	Open(name string, create bool) (File, error)
	// List enumerates the immediate children of the journal directory.
	List() ([]DirEntry, error)
}

// File is a handle to one journal file.
type File interface {
	// ReadText returns the file's full text.
	ReadText() (string, error)
	// WriteText overwrites the file's full text.
	WriteText(text string) error
}

// DirEntry is one child of the journal directory.
type DirEntry struct {
	Name  string
	IsDir bool
}

// Store provides day-level CRUD over one-file-per-day Markdown documents.
//
// Same-day mutations take a per-file mutex so that two overlapping
// read-modify-write cycles from this process cannot interleave. External
// writers are still unguarded; the journal is a single-user local format.
type Store struct {
	fs FS

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore wraps an FS capability in a Store.
func NewStore(fs FS) *Store {
	return &Store{fs: fs, locks: make(map[string]*sync.Mutex)}
}

func (s *Store) dayLock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// readDayText returns the raw text of a day file, or "" when the file does
// not exist or cannot be read. Absence is the normal new-day case.
func (s *Store) readDayText(day time.Time) string {
	f, err := s.fs.Open(DayFileName(day), false)
	if err != nil {
		return ""
	}
	text, err := f.ReadText()
	if err != nil {
		return ""
	}
	return text
}

// ReadDay parses the day's journal file into entries. A missing or unreadable
// file yields an empty list, not an error.
func (s *Store) ReadDay(ctx context.Context, day time.Time) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := DayFileName(day)
	lock := s.dayLock(name)
	lock.Lock()
	defer lock.Unlock()

	return ParseDay(s.readDayText(day), day), nil
}

// Append serializes one entry and adds it to the physical end of the day's
// file. The write is a full read-modify-write rather than a positional append
// because the capability only exposes whole-file overwrite; a newline guard
// separates the new block from existing content without inserting blank
// lines. Timestamp order within the file is not enforced here.
func (s *Store) Append(ctx context.Context, day time.Time, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := DayFileName(day)
	lock := s.dayLock(name)
	lock.Lock()
	defer lock.Unlock()

	f, err := s.fs.Open(name, true)
	if err != nil {
		return fmt.Errorf("journal: open %s: %w", name, err)
	}
	current, err := f.ReadText()
	if err != nil {
		current = ""
	}

	text := current
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	text += FormatEntry(e) + "\n"

	if err := f.WriteText(text); err != nil {
		return fmt.Errorf("journal: write %s: %w", name, err)
	}
	return nil
}

// Rewrite replaces the day's file with the given entries, sorted ascending by
// timestamp. Used for edit, delete and importance toggles, since the
// capability has no in-place line edit.
func (s *Store) Rewrite(ctx context.Context, day time.Time, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := DayFileName(day)
	lock := s.dayLock(name)
	lock.Lock()
	defer lock.Unlock()

	f, err := s.fs.Open(name, true)
	if err != nil {
		return fmt.Errorf("journal: open %s: %w", name, err)
	}
	if err := f.WriteText(FormatDay(entries)); err != nil {
		return fmt.Errorf("journal: write %s: %w", name, err)
	}
	return nil
}

// Dates enumerates the journal directory and returns the set of ISO
// yyyy-mm-dd keys that have a day file. File contents are not read.
func (s *Store) Dates(ctx context.Context) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	children, err := s.fs.List()
	if err != nil {
		return nil, fmt.Errorf("journal: list directory: %w", err)
	}
	dates := make(map[string]struct{})
	for _, c := range children {
		if c.IsDir {
			continue
		}
		if key, ok := ParseDayFileName(c.Name); ok {
			dates[key] = struct{}{}
		}
	}
	return dates, nil
}
