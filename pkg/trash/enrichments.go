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

// Likes and comments are keyed by (date_key, entry_id). Entry IDs are stable
// across re-parses of an unmodified day file but shift when earlier lines are
// edited, so enrichments on heavily edited days can detach; acceptable for a
// single-user local tool.

const (
	addLikeStatement = `
	INSERT INTO likes (date_key, entry_id, liked_at)
	VALUES (?, ?, ?)
	`

	listLikesStatement = `
	SELECT liked_at
	FROM likes
	WHERE date_key = ? AND entry_id = ?
	ORDER BY liked_at ASC
	`

	addCommentStatement = `
	INSERT INTO comments (id, date_key, entry_id, body)
	VALUES (?, ?, ?, ?)
	`

	listCommentsStatement = `
	SELECT id, body, created_at
	FROM comments
	WHERE date_key = ? AND entry_id = ?
	ORDER BY created_at ASC
	`

	deleteCommentStatement = `
	DELETE FROM comments
	WHERE id = ?
	`
)

// AddLike records one like event for an entry.
func AddLike(ctx context.Context, db *sql.DB, dateKey, entryID string, at time.Time) error {
	_, err := db.ExecContext(ctx, addLikeStatement, dateKey, entryID, float64(at.Unix()))
	if err != nil {
		return fmt.Errorf("trash: add like: %w", err)
	}
	return nil
}

// ListLikes returns an entry's like events in chronological order.
func ListLikes(ctx context.Context, db *sql.DB, dateKey, entryID string) ([]time.Time, error) {
	rows, err := db.QueryContext(ctx, listLikesStatement, dateKey, entryID)
	if err != nil {
		return nil, fmt.Errorf("trash: list likes: %w", err)
	}
	defer rows.Close()

	var likes []time.Time
	for rows.Next() {
		var at float64
		if err := rows.Scan(&at); err != nil {
			return nil, err
		}
		likes = append(likes, time.Unix(int64(at), 0))
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return likes, nil
}

// AddComment attaches a comment to an entry.
func AddComment(ctx context.Context, db *sql.DB, dateKey, entryID, body string) (journal.Comment, error) {
	if body == "" {
		return journal.Comment{}, errors.New("trash: comment body cannot be empty")
	}
	commentID := uuid.New()

	_, err := db.ExecContext(ctx, addCommentStatement, commentID, dateKey, entryID, body)
	if err != nil {
		return journal.Comment{}, fmt.Errorf("trash: add comment: %w", err)
	}

	comments, err := ListComments(ctx, db, dateKey, entryID)
	if err != nil {
		return journal.Comment{}, err
	}
	for _, c := range comments {
		if c.ID == commentID {
			return c, nil
		}
	}
	return journal.Comment{}, ErrCommentNotFound
}

// ListComments returns an entry's comments in chronological order.
func ListComments(ctx context.Context, db *sql.DB, dateKey, entryID string) ([]journal.Comment, error) {
	rows, err := db.QueryContext(ctx, listCommentsStatement, dateKey, entryID)
	if err != nil {
		return nil, fmt.Errorf("trash: list comments: %w", err)
	}
	defer rows.Close()

	var comments []journal.Comment
	for rows.Next() {
		var (
			c         journal.Comment
			createdAt float64
		)
		if err := rows.Scan(&c.ID, &c.Text, &createdAt); err != nil {
			return nil, err
		}
		c.Date = time.Unix(int64(createdAt), 0)
		comments = append(comments, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment removes a comment by its ID.
func DeleteComment(ctx context.Context, db *sql.DB, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, deleteCommentStatement, id)
	if err != nil {
		return fmt.Errorf("trash: delete comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// Annotate loads the likes and comments stored for a day's entries into the
// entry values, matched by entry ID. The input slice is not modified.
func Annotate(ctx context.Context, db *sql.DB, dateKey string, entries []journal.Entry) ([]journal.Entry, error) {
	out := make([]journal.Entry, len(entries))
	copy(out, entries)
	for i := range out {
		likes, err := ListLikes(ctx, db, dateKey, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Likes = likes

		comments, err := ListComments(ctx, db, dateKey, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Comments = comments
	}
	return out, nil
}
