package journal

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Line classification patterns, tried in priority order. A line that carries
// a well-formed HH:mm after the bullet is a timed entry; any other bullet is
// an untimed one; everything else is continuation or orphan text. The generic
// bullet pattern is a strict superset of the timed one, so malformed times
// (e.g. "- 9:0 text") degrade to untimed bullets with the literal text kept.
var (
	timedLineRe    = regexp.MustCompile(`^- (\d{1,2}:\d{2})(?: \[(.*?)\])? (.*)$`)
	bulletLineRe   = regexp.MustCompile(`^[-*] (.*)$`)
	dayFileNameRe  = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})\.md$`)
	dateKeyLayout  = "2006-01-02"
	headTimeLayout = "15:04"
)

// DayFileName maps a day to its journal filename, e.g. 2024-01-05 maps to
// "240105.md". Years are truncated to two digits; dates outside 2000-2099
// collide with their in-range counterparts, which is a known limitation of
// the format.
func DayFileName(day time.Time) string {
	return fmt.Sprintf("%02d%02d%02d.md", day.Year()%100, int(day.Month()), day.Day())
}

// ParseDayFileName maps a journal filename back to an ISO yyyy-mm-dd date
// key. The second return value reports whether the name is a day file at all.
func ParseDayFileName(name string) (string, bool) {
	m := dayFileNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("20%s-%s-%s", m[1], m[2], m[3]), true
}

// DateKey renders a day as its ISO yyyy-mm-dd key.
func DateKey(day time.Time) string {
	return day.Format(dateKeyLayout)
}

// ParseDateKey parses an ISO yyyy-mm-dd key into a local midnight time.
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, key, time.Local)
}

// startOfDay zeroes the clock component in the day's own location.
func startOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}

// FormatEntry renders a single entry as its on-disk lines. The head line is
//
//	- [HH:mm ]?[[source] ]?content [#important]?
//
// Continuation lines of multi-line content are emitted as-is after the head
// line. The #important marker is appended only when the flag is set and the
// content does not already contain the marker text, so repeated round trips
// never stack markers.
func FormatEntry(e Entry) string {
	lines := strings.Split(e.Content, "\n")

	var sb strings.Builder
	sb.WriteString("- ")
	if e.HasTime {
		sb.WriteString(e.Timestamp.Format(headTimeLayout))
		sb.WriteString(" ")
	}
	if e.Source != "" && e.Source != SourceUser {
		sb.WriteString("[")
		sb.WriteString(string(e.Source))
		sb.WriteString("] ")
	}
	sb.WriteString(lines[0])
	if e.Important && !strings.Contains(e.Content, ImportantTag) {
		sb.WriteString(" ")
		sb.WriteString(ImportantTag)
	}
	for _, line := range lines[1:] {
		sb.WriteString("\n")
		sb.WriteString(line)
	}
	return sb.String()
}

// FormatDay renders a full day file: entries sorted ascending by timestamp,
// one serialized entry per head line, trailing newline. An empty entry list
// produces an empty document.
func FormatDay(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	parts := make([]string, 0, len(sorted))
	for _, e := range sorted {
		parts = append(parts, FormatEntry(e))
	}
	return strings.Join(parts, "\n") + "\n"
}

// ParseDay parses a day file's text into entries. The pass is line-oriented
// and forward-only with three classifications tried in fixed priority order:
// timed bullet, generic bullet, then continuation. Orphan text that appears
// before any bullet becomes a synthetic untimed entry rather than being
// dropped. The parser has no reject path; malformed input at worst yields no
// entries or mis-bucketed content.
func ParseDay(text string, day time.Time) []Entry {
	dayStart := startOfDay(day)
	dayEpochMillis := dayStart.UnixMilli()

	var entries []Entry
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := timedLineRe.FindStringSubmatch(line); m != nil {
			hour, minute := splitClock(m[1])
			src := SourceUser
			if m[2] != "" {
				src = Source(m[2])
			}
			important := containsImportantTag(m[3])
			entries = append(entries, Entry{
				ID:        entryID(dayEpochMillis, i),
				Timestamp: time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), hour, minute, 0, 0, dayStart.Location()),
				HasTime:   true,
				Source:    src,
				Content:   stripTrailingImportant(m[3]),
				Important: important,
				Saved:     true,
			})
			continue
		}

		if m := bulletLineRe.FindStringSubmatch(line); m != nil {
			important := containsImportantTag(m[1])
			entries = append(entries, Entry{
				ID:        entryID(dayEpochMillis, i),
				Timestamp: dayStart,
				HasTime:   false,
				Source:    SourceUser,
				Content:   stripTrailingImportant(m[1]),
				Important: important,
				Saved:     true,
			})
			continue
		}

		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			// Bullet-ish but unparseable (e.g. "-no space"); dropped.
			continue
		}

		if len(entries) > 0 {
			last := &entries[len(entries)-1]
			last.Content += "\n" + strings.TrimSpace(line)
			continue
		}

		// Orphan text before any bullet becomes its own untimed entry.
		trimmed := strings.TrimSpace(line)
		entries = append(entries, Entry{
			ID:        entryID(dayEpochMillis, i),
			Timestamp: dayStart,
			HasTime:   false,
			Source:    SourceUser,
			Content:   stripTrailingImportant(trimmed),
			Important: containsImportantTag(trimmed),
			Saved:     true,
		})
	}
	return entries
}

func entryID(dayEpochMillis int64, lineIndex int) string {
	return fmt.Sprintf("%d-%d", dayEpochMillis, lineIndex)
}

// splitClock parses an HH:mm capture. The pattern guarantees the shape, so
// conversion errors cannot occur.
func splitClock(clock string) (hour, minute int) {
	parts := strings.SplitN(clock, ":", 2)
	hour, _ = strconv.Atoi(parts[0])
	minute, _ = strconv.Atoi(parts[1])
	return hour, minute
}

func containsImportantTag(content string) bool {
	return strings.Contains(content, ImportantTag) || strings.Contains(content, StarTag)
}

// stripTrailingImportant removes the trailing importance marker that
// FormatEntry appends, keeping the flag and the content independent so that
// format/parse round trips do not grow the content. Markers embedded in the
// middle of the text are left alone.
func stripTrailingImportant(content string) string {
	return strings.TrimSuffix(content, " "+ImportantTag)
}
