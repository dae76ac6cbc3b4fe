// Package trash implements the soft-delete lifecycle for journal entries,
// plus the likes and comments enrichments. All of it lives in the SQLite
// sidecar because the Markdown day files have no representation for any of
// it: a deleted entry is simply absent from its day file, and this package
// keeps it recoverable until it is purged.
package trash

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pensieve-md/pensieve/pkg/journal"
)

var (
	ErrRecordNotFound  = errors.New("trash: record not found")
	ErrCommentNotFound = errors.New("trash: comment not found")
)

// Record is one trashed entry row. The row ID exists because entry IDs are
// only unique within a single day's file and cannot address trash rows on
// their own.
type Record struct {
	ID uuid.UUID `json:"id"`
	journal.DeletedEntry
}

const (
	addRecordStatement = `
	INSERT INTO deleted_entries (id, entry_id, original_date_key, entry_time, has_time, source, content, important)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	getRecordStatement = `
	SELECT id, entry_id, original_date_key, entry_time, has_time, source, content, important, deleted_at
	FROM deleted_entries
	WHERE id = ?
	`

	listRecordsStatement = `
	SELECT id, entry_id, original_date_key, entry_time, has_time, source, content, important, deleted_at
	FROM deleted_entries
	ORDER BY deleted_at DESC
	`

	purgeRecordStatement = `
	DELETE FROM deleted_entries
	WHERE id = ?
	`

	purgeAllRecordsStatement = `
	DELETE FROM deleted_entries
	`
)

// Add moves an entry into the trash. The caller is responsible for rewriting
// the entry's day file without it; Add only records the recoverable copy.
func Add(ctx context.Context, db *sql.DB, e journal.Entry, originalDateKey string) (Record, error) {
	recordID := uuid.New()

	_, err := db.ExecContext(
		ctx,
		addRecordStatement,
		recordID,
		e.ID,
		originalDateKey,
		float64(e.Timestamp.Unix()),
		e.HasTime,
		string(e.Source),
		e.Content,
		e.Important,
	)
	if err != nil {
		return Record{}, fmt.Errorf("trash: add record: %w", err)
	}

	return Get(ctx, db, recordID)
}

// Delete moves entries[idx] into the trash and rewrites its day file without
// it. The record is written first so a crash between the two steps leaves the
// entry recoverable rather than lost; when the rewrite itself fails the
// record is purged again, since the entry is still in its day file and a
// later restore would duplicate it.
func Delete(ctx context.Context, db *sql.DB, store *journal.Store, day time.Time, entries []journal.Entry, idx int) (Record, error) {
	if idx < 0 || idx >= len(entries) {
		return Record{}, fmt.Errorf("trash: entry index %d out of range (day has %d entries)", idx, len(entries))
	}

	rec, err := Add(ctx, db, entries[idx], journal.DateKey(day))
	if err != nil {
		return Record{}, err
	}

	remaining := make([]journal.Entry, 0, len(entries)-1)
	remaining = append(remaining, entries[:idx]...)
	remaining = append(remaining, entries[idx+1:]...)
	if err := store.Rewrite(ctx, day, remaining); err != nil {
		if purgeErr := Purge(ctx, db, rec.ID); purgeErr != nil {
			return Record{}, fmt.Errorf("trash: rewrite day failed (%v) and record rollback failed: %w", err, purgeErr)
		}
		return Record{}, fmt.Errorf("trash: rewrite day after delete: %w", err)
	}
	return rec, nil
}

// Get retrieves a single trash record by its row ID.
func Get(ctx context.Context, db *sql.DB, id uuid.UUID) (Record, error) {
	row := db.QueryRowContext(ctx, getRecordStatement, id)
	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns all trash records, most recently deleted first. There is no
// automatic expiry; retention is the caller's policy.
func List(ctx context.Context, db *sql.DB) ([]Record, error) {
	rows, err := db.QueryContext(ctx, listRecordsStatement)
	if err != nil {
		return nil, fmt.Errorf("trash: list records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Restore removes a record from the trash and hands its entry back so the
// caller can re-insert it into its original day file.
func Restore(ctx context.Context, db *sql.DB, id uuid.UUID) (Record, error) {
	rec, err := Get(ctx, db, id)
	if err != nil {
		return Record{}, err
	}
	if err := Purge(ctx, db, id); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Purge permanently discards a trash record. The entry is already absent
// from its day file, so there is no file effect.
func Purge(ctx context.Context, db *sql.DB, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, purgeRecordStatement, id)
	if err != nil {
		return fmt.Errorf("trash: purge record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// PurgeAll empties the trash and reports how many records were discarded.
func PurgeAll(ctx context.Context, db *sql.DB) (int64, error) {
	res, err := db.ExecContext(ctx, purgeAllRecordsStatement)
	if err != nil {
		return 0, fmt.Errorf("trash: purge all: %w", err)
	}
	return res.RowsAffected()
}

type scanFunc func(dest ...any) error

func scanRecord(scan scanFunc) (Record, error) {
	var (
		rec       Record
		entryTime float64
		source    string
		deletedAt float64
	)
	err := scan(
		&rec.ID,
		&rec.Entry.ID,
		&rec.OriginalDateKey,
		&entryTime,
		&rec.HasTime,
		&source,
		&rec.Content,
		&rec.Important,
		&deletedAt,
	)
	if err != nil {
		return Record{}, err
	}
	rec.Timestamp = time.Unix(int64(entryTime), 0)
	rec.Source = journal.Source(source)
	rec.Saved = true
	rec.DeletedAt = time.Unix(int64(deletedAt), 0)
	return rec, nil
}
