package tui

import (
	"context"
	"database/sql"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pensieve-md/pensieve/pkg/journal"
	"github.com/pensieve-md/pensieve/pkg/trash"
)

type datesMsg []string

type entriesMsg struct {
	dateKey string
	entries []journal.Entry
}

// A day file was changed on disk and its entries should be reloaded
type dayChangedMsg struct {
	dateKey string
}

// Load the set of journal dates and return tea data, newest first
func loadDates(store *journal.Store) tea.Cmd {
	return func() tea.Msg {
		dates, err := store.Dates(context.Background())
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(dates))
		for key := range dates {
			keys = append(keys, key)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
		return datesMsg(keys)
	}
}

// Load one day's entries from the store and return tea data
func loadEntries(store *journal.Store, dateKey string) tea.Cmd {
	return func() tea.Msg {
		day, err := journal.ParseDateKey(dateKey)
		if err != nil {
			return err
		}
		entries, err := store.ReadDay(context.Background(), day)
		if err != nil {
			return err
		}
		return entriesMsg{dateKey: dateKey, entries: entries}
	}
}

// Append a new user entry to the given day. Entries written to today carry
// the wall-clock time; entries written to past days are untimed bullets.
func appendEntry(store *journal.Store, dateKey, content string) tea.Cmd {
	return func() tea.Msg {
		day, err := journal.ParseDateKey(dateKey)
		if err != nil {
			return err
		}
		now := time.Now()
		e := journal.Entry{
			Timestamp: day,
			Source:    journal.SourceUser,
			Content:   content,
		}
		if journal.DateKey(now) == dateKey {
			e.Timestamp = now
			e.HasTime = true
		}
		if err := store.Append(context.Background(), day, e); err != nil {
			return err
		}
		return dayChangedMsg{dateKey: dateKey}
	}
}

// Flip the important marker on one entry and rewrite the day file
func toggleImportant(store *journal.Store, dateKey string, entries []journal.Entry, idx int) tea.Cmd {
	return func() tea.Msg {
		day, err := journal.ParseDateKey(dateKey)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(entries) {
			return dayChangedMsg{dateKey: dateKey}
		}
		updated := make([]journal.Entry, len(entries))
		copy(updated, entries)
		updated[idx].Important = !updated[idx].Important
		if err := store.Rewrite(context.Background(), day, updated); err != nil {
			return err
		}
		return dayChangedMsg{dateKey: dateKey}
	}
}

// Move an entry to the trash and rewrite its day file without it. Without a
// sidecar the entry is removed outright.
func deleteEntry(store *journal.Store, db *sql.DB, dateKey string, entries []journal.Entry, idx int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		day, err := journal.ParseDateKey(dateKey)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(entries) {
			return dayChangedMsg{dateKey: dateKey}
		}

		if db != nil {
			if _, err := trash.Delete(ctx, db, store, day, entries, idx); err != nil {
				return err
			}
			return dayChangedMsg{dateKey: dateKey}
		}

		remaining := make([]journal.Entry, 0, len(entries)-1)
		remaining = append(remaining, entries[:idx]...)
		remaining = append(remaining, entries[idx+1:]...)
		if err := store.Rewrite(ctx, day, remaining); err != nil {
			return err
		}
		return dayChangedMsg{dateKey: dateKey}
	}
}
