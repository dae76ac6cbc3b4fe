package localfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pensieve-md/pensieve/pkg/journal"
)

func TestOpenMissingWithoutCreate(t *testing.T) {
	dir, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = dir.Open("240105.md", false)
	if !errors.Is(err, journal.ErrNotFound) {
		t.Errorf("Expected journal.ErrNotFound, got %v", err)
	}
}

func TestOpenCreateThenReadWrite(t *testing.T) {
	root := t.TempDir()
	dir, err := New(root)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	f, err := dir.Open("240105.md", true)
	if err != nil {
		t.Fatalf("Open with create failed: %v", err)
	}

	text, err := f.ReadText()
	if err != nil {
		t.Fatalf("ReadText on fresh file failed: %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty fresh file, got %q", text)
	}

	if err := f.WriteText("- 08:00 hello\n"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	got, err := f.ReadText()
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if got != "- 08:00 hello\n" {
		t.Errorf("Unexpected content %q", got)
	}

	// The write must not leave a temp file behind.
	if _, err := os.Stat(filepath.Join(root, "240105.md.tmp")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected temp file to be cleaned up, stat err: %v", err)
	}
}

func TestPathValidation(t *testing.T) {
	dir, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, name := range []string{"", "../escape.md", "a/b.md", `a\b.md`} {
		if _, err := dir.Open(name, true); err == nil {
			t.Errorf("Expected error for invalid name %q", name)
		}
	}
}

func TestList(t *testing.T) {
	root := t.TempDir()
	dir, err := New(root)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "240105.md"), []byte("- 08:00 a\n"), 0o600); err != nil {
		t.Fatalf("Seed write failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(root, "attachments"), 0o750); err != nil {
		t.Fatalf("Seed mkdir failed: %v", err)
	}

	children, err := dir.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(children))
	}
	byName := map[string]journal.DirEntry{}
	for _, c := range children {
		byName[c.Name] = c
	}
	if e, ok := byName["240105.md"]; !ok || e.IsDir {
		t.Errorf("Expected 240105.md file entry, got %+v", e)
	}
	if e, ok := byName["attachments"]; !ok || !e.IsDir {
		t.Errorf("Expected attachments dir entry, got %+v", e)
	}
}

func TestStoreOverLocalFS(t *testing.T) {
	dir, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	store := journal.NewStore(dir)
	ctx := context.Background()
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)

	e := journal.Entry{
		Timestamp: day.Add(8 * time.Hour),
		HasTime:   true,
		Source:    journal.SourceUser,
		Content:   "written through the real capability",
	}
	if err := store.Append(ctx, day, e); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := store.ReadDay(ctx, day)
	if err != nil {
		t.Fatalf("ReadDay failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Content != e.Content {
		t.Fatalf("Round trip through localfs failed: %+v", entries)
	}

	dates, err := store.Dates(ctx)
	if err != nil {
		t.Fatalf("Dates failed: %v", err)
	}
	if _, ok := dates["2024-01-05"]; !ok {
		t.Errorf("Expected 2024-01-05 in dates, got %v", dates)
	}
}
