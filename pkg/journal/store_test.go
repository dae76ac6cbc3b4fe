package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeFS is an in-memory journal.FS. Files named in failReads return an error
// from ReadText, simulating a file deleted or corrupted out-of-band.
type fakeFS struct {
	mu        sync.Mutex
	files     map[string]string
	failReads map[string]bool
	listErr   error
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: make(map[string]string), failReads: make(map[string]bool)}
}

func (f *fakeFS) Open(name string, create bool) (File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[name]; !ok {
		if !create {
			return nil, fmt.Errorf("fake: %s: %w", name, ErrNotFound)
		}
		f.files[name] = ""
	}
	return &fakeFile{fs: f, name: name}, nil
}

func (f *fakeFS) List() ([]DirEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []DirEntry
	for name := range f.files {
		out = append(out, DirEntry{Name: name})
	}
	return out, nil
}

type fakeFile struct {
	fs   *fakeFS
	name string
}

func (f *fakeFile) ReadText() (string, error) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	if f.fs.failReads[f.name] {
		return "", errors.New("fake: injected read failure")
	}
	return f.fs.files[f.name], nil
}

func (f *fakeFile) WriteText(text string) error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	f.fs.files[f.name] = text
	return nil
}

func day(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := ParseDateKey(key)
	if err != nil {
		t.Fatalf("Failed to parse date key %s: %v", key, err)
	}
	return d
}

func TestReadDayAbsentFileYieldsEmptyList(t *testing.T) {
	store := NewStore(newFakeFS())

	entries, err := store.ReadDay(context.Background(), day(t, "2024-01-05"))
	if err != nil {
		t.Fatalf("ReadDay on missing file should not error, got: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected 0 entries for a day without a file, got %d", len(entries))
	}
}

func TestReadDayParsesExistingFile(t *testing.T) {
	fs := newFakeFS()
	fs.files["240105.md"] = "- 08:00 first\n- 09:30 second\n"
	store := NewStore(fs)

	entries, err := store.ReadDay(context.Background(), day(t, "2024-01-05"))
	if err != nil {
		t.Fatalf("ReadDay failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Content != "first" || entries[1].Content != "second" {
		t.Errorf("Unexpected contents: %q, %q", entries[0].Content, entries[1].Content)
	}
}

func TestAppend(t *testing.T) {
	d := day(t, "2024-01-05")

	t.Run("to missing file creates it", func(t *testing.T) {
		fs := newFakeFS()
		store := NewStore(fs)

		e := Entry{Timestamp: d.Add(8 * time.Hour), HasTime: true, Source: SourceUser, Content: "a"}
		if err := store.Append(context.Background(), d, e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if got := fs.files["240105.md"]; got != "- 08:00 a\n" {
			t.Errorf("Unexpected file text %q", got)
		}
	})

	t.Run("preserves prior content", func(t *testing.T) {
		fs := newFakeFS()
		fs.files["240105.md"] = "- 08:00 a\n"
		store := NewStore(fs)

		e := Entry{Timestamp: d.Add(9 * time.Hour), HasTime: true, Source: SourceUser, Content: "b"}
		if err := store.Append(context.Background(), d, e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		want := "- 08:00 a\n- 09:00 b\n"
		if got := fs.files["240105.md"]; got != want {
			t.Errorf("Append produced %q, want %q", got, want)
		}
	})

	t.Run("inserts separator when file lacks trailing newline", func(t *testing.T) {
		fs := newFakeFS()
		fs.files["240105.md"] = "- 08:00 a"
		store := NewStore(fs)

		e := Entry{Timestamp: d.Add(9 * time.Hour), HasTime: true, Source: SourceUser, Content: "b"}
		if err := store.Append(context.Background(), d, e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		want := "- 08:00 a\n- 09:00 b\n"
		if got := fs.files["240105.md"]; got != want {
			t.Errorf("Append produced %q, want %q", got, want)
		}
	})

	t.Run("appends to physical end regardless of time order", func(t *testing.T) {
		fs := newFakeFS()
		fs.files["240105.md"] = "- 12:00 noon\n"
		store := NewStore(fs)

		e := Entry{Timestamp: d.Add(7 * time.Hour), HasTime: true, Source: SourceUser, Content: "early"}
		if err := store.Append(context.Background(), d, e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		want := "- 12:00 noon\n- 07:00 early\n"
		if got := fs.files["240105.md"]; got != want {
			t.Errorf("Append produced %q, want %q", got, want)
		}
	})
}

func TestRewriteSortsAndOverwrites(t *testing.T) {
	d := day(t, "2024-01-05")
	fs := newFakeFS()
	fs.files["240105.md"] = "- 12:00 stale\n"
	store := NewStore(fs)

	entries := []Entry{
		{Timestamp: d.Add(10 * time.Hour), HasTime: true, Source: SourceUser, Content: "later"},
		{Timestamp: d.Add(8 * time.Hour), HasTime: true, Source: SourceUser, Content: "earlier"},
	}
	if err := store.Rewrite(context.Background(), d, entries); err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	want := "- 08:00 earlier\n- 10:00 later\n"
	if got := fs.files["240105.md"]; got != want {
		t.Errorf("Rewrite produced %q, want %q", got, want)
	}
}

func TestRewriteEmptyClearsFile(t *testing.T) {
	d := day(t, "2024-01-05")
	fs := newFakeFS()
	fs.files["240105.md"] = "- 08:00 going away\n"
	store := NewStore(fs)

	if err := store.Rewrite(context.Background(), d, nil); err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if got := fs.files["240105.md"]; got != "" {
		t.Errorf("Expected empty file after rewriting with no entries, got %q", got)
	}
}

func TestDates(t *testing.T) {
	fs := newFakeFS()
	fs.files["240105.md"] = "- 08:00 a\n"
	fs.files["240212.md"] = "- 09:00 b\n"
	fs.files["notes.md"] = "not a day file"
	fs.files["240105.md.tmp"] = "leftover temp"
	store := NewStore(fs)

	dates, err := store.Dates(context.Background())
	if err != nil {
		t.Fatalf("Dates failed: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("Expected 2 dates, got %d: %v", len(dates), dates)
	}
	for _, key := range []string{"2024-01-05", "2024-02-12"} {
		if _, ok := dates[key]; !ok {
			t.Errorf("Expected date %s in set", key)
		}
	}
}

func TestDatesEnumerationFailureIsFatal(t *testing.T) {
	fs := newFakeFS()
	fs.listErr = errors.New("fake: enumeration broken")
	store := NewStore(fs)

	if _, err := store.Dates(context.Background()); err == nil {
		t.Fatalf("Expected error when directory enumeration fails")
	}
}

func TestAppendCancelledContext(t *testing.T) {
	store := NewStore(newFakeFS())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := Entry{Timestamp: testDay, Source: SourceUser, Content: "never written"}
	if err := store.Append(ctx, day(t, "2024-01-05"), e); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
