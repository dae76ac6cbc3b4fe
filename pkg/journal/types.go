package journal

import (
	"time"

	"github.com/google/uuid"
)

// Source tags where an entry came from. It is informational only; the codec
// renders it as an optional bracketed prefix and otherwise ignores it.
type Source string

const (
	SourceUser Source = "user"
	SourceWeb  Source = "web-input"
	SourceNote Source = "note"
	SourceAI   Source = "ai-reply"
)

// Markers recognized inside entry content. ImportantTag is the canonical
// form; StarTag is a legacy alias that parses to the same flag but is never
// written back.
const (
	ImportantTag = "#important"
	StarTag      = "#star"
)

// Entry is one logged thought inside a day's journal file.
//
// ID is stable across re-parses of an unmodified file but not across edits
// that change line positions, and not globally unique. It is derived from the
// day's epoch millis plus the head line's index.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	HasTime   bool      `json:"has_time"`
	Source    Source    `json:"source"`
	Content   string    `json:"content"`
	Important bool      `json:"important"`
	Saved     bool      `json:"saved"`

	// Likes and Comments have no representation in the day file; they are
	// persisted out of band (see pkg/trash sidecar).
	Likes    []time.Time `json:"likes,omitempty"`
	Comments []Comment   `json:"comments,omitempty"`
}

// Comment is a short annotation attached to an entry.
type Comment struct {
	ID   uuid.UUID `json:"id"`
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

// DeletedEntry is an Entry moved to the trash. OriginalDateKey records the
// ISO date of the day file it was removed from so a restore can re-insert it.
type DeletedEntry struct {
	Entry
	DeletedAt       time.Time `json:"deleted_at"`
	OriginalDateKey string    `json:"original_date_key"`
}
