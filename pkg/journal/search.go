package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// DefaultSearchLimit bounds how many matches a directory scan may return.
const DefaultSearchLimit = 50

const snippetLength = 150

// SearchOptions tune a directory-wide recall scan.
type SearchOptions struct {
	// Limit caps the number of returned results. Zero means
	// DefaultSearchLimit.
	Limit int
	// ExcludeDate skips the day file with this ISO yyyy-mm-dd key, typically
	// the day currently being written.
	ExcludeDate string
}

// SearchResult is one recalled entry from a historical day file.
type SearchResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	FullContent string `json:"full_content"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	// Keyword is the longest of the keywords that matched this entry.
	Keyword string `json:"keyword"`
	// RelevanceScore counts the distinct keywords that matched.
	RelevanceScore int `json:"relevance_score"`
}

// Search scans every day file in the journal directory for the given
// keywords. An entry matches when at least one keyword is contained in its
// content, case-insensitively. A single file that cannot be read or parsed is
// logged and skipped so one corrupt day cannot abort the scan; a directory
// enumeration failure is fatal. Results are ordered by relevance score
// descending, ties broken by date descending (safe lexicographically because
// the key format is zero-padded ISO).
func (s *Store) Search(ctx context.Context, keywords []string, opts SearchOptions) ([]SearchResult, error) {
	if len(keywords) == 0 {
		return []SearchResult{}, nil
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	children, err := s.fs.List()
	if err != nil {
		return nil, fmt.Errorf("journal: list directory: %w", err)
	}

	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	var results []SearchResult
	for _, c := range children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.IsDir {
			continue
		}
		key, ok := ParseDayFileName(c.Name)
		if !ok {
			continue
		}
		if opts.ExcludeDate != "" && key == opts.ExcludeDate {
			continue
		}
		day, err := ParseDateKey(key)
		if err != nil {
			continue
		}

		entries, err := s.readDayEntries(c.Name, day)
		if err != nil {
			slog.Warn("journal: skipping unreadable day file", "file", c.Name, "err", err)
			continue
		}

		for _, e := range entries {
			res, matched := matchEntry(e, keywords, lowered, key, day)
			if matched {
				results = append(results, res)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RelevanceScore != results[j].RelevanceScore {
			return results[i].RelevanceScore > results[j].RelevanceScore
		}
		return results[i].Date > results[j].Date
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// readDayEntries reads and parses one named day file, propagating read
// failures so the scan can account for them.
func (s *Store) readDayEntries(name string, day time.Time) ([]Entry, error) {
	f, err := s.fs.Open(name, false)
	if err != nil {
		return nil, err
	}
	text, err := f.ReadText()
	if err != nil {
		return nil, err
	}
	return ParseDay(text, day), nil
}

func matchEntry(e Entry, keywords, lowered []string, dateKey string, day time.Time) (SearchResult, bool) {
	content := strings.ToLower(e.Content)

	score := 0
	best := ""
	for i, kw := range lowered {
		if kw == "" || !strings.Contains(content, kw) {
			continue
		}
		score++
		if len(keywords[i]) > len(best) {
			best = keywords[i]
		}
	}
	if score == 0 {
		return SearchResult{}, false
	}

	return SearchResult{
		ID:             e.ID,
		Title:          day.Format("January 2, 2006"),
		Snippet:        snippet(e.Content),
		FullContent:    e.Content,
		Date:           dateKey,
		Type:           "journal",
		Keyword:        best,
		RelevanceScore: score,
	}, true
}

// snippet truncates content to snippetLength characters. The cut happens on
// rune boundaries, never byte offsets, so multibyte journals stay valid UTF-8.
func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLength {
		return content
	}
	return string(runes[:snippetLength]) + "..."
}
