package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pensieve-md/pensieve/pkg/journal"
	"github.com/pensieve-md/pensieve/pkg/trash"
)

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Pensieve MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_pensieve"), nil
}

// RegisterAppendEntryTool registers the append_entry tool.
func RegisterAppendEntryTool(s *server.MCPServer, store *journal.Store) {
	appendEntry := mcp.NewTool("append_entry",
		mcp.WithDescription("Appends a journal entry to a day's Markdown file."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Entry text. May contain newlines for continuation lines.")),
		mcp.WithString("date", mcp.Description("Day to append to as yyyy-mm-dd. Defaults to today.")),
		mcp.WithString("time", mcp.Description("Wall-clock time HH:mm. Omit for an untimed entry.")),
		mcp.WithString("source", mcp.Description("Origin tag: user, web-input, note or ai-reply. Defaults to user.")),
		mcp.WithBoolean("important", mcp.Description("Mark the entry important.")),
	)
	s.AddTool(appendEntry, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, contentOk := request.Params.Arguments["content"].(string)
		if !contentOk || content == "" {
			return mcp.NewToolResultError("'content' parameter is required and must be a non-empty string."), nil
		}

		day, err := dayArgument(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		entry := journal.Entry{
			Timestamp: day,
			Source:    journal.SourceUser,
			Content:   content,
		}
		if clock, ok := request.Params.Arguments["time"].(string); ok && clock != "" {
			at, err := time.ParseInLocation("15:04", clock, day.Location())
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid 'time' value %q, expected HH:mm.", clock)), nil
			}
			entry.Timestamp = time.Date(day.Year(), day.Month(), day.Day(), at.Hour(), at.Minute(), 0, 0, day.Location())
			entry.HasTime = true
		}
		if src, ok := request.Params.Arguments["source"].(string); ok && src != "" {
			entry.Source = journal.Source(src)
		}
		if important, ok := request.Params.Arguments["important"].(bool); ok {
			entry.Important = important
		}

		if err := store.Append(ctx, day, entry); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to append entry: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Appended entry to %s.", journal.DateKey(day))), nil
	})
}

// RegisterReadDayTool registers the read_day tool.
func RegisterReadDayTool(s *server.MCPServer, store *journal.Store) {
	readDay := mcp.NewTool("read_day",
		mcp.WithDescription("Reads all entries of one day. A day without a file yields an empty list."),
		mcp.WithString("date", mcp.Description("Day to read as yyyy-mm-dd. Defaults to today.")),
	)
	s.AddTool(readDay, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		day, err := dayArgument(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		entries, err := store.ReadDay(ctx, day)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to read day: %v", err)), nil
		}
		return jsonResult(entries)
	})
}

// RegisterListDatesTool registers the list_dates tool.
func RegisterListDatesTool(s *server.MCPServer, store *journal.Store) {
	listDates := mcp.NewTool("list_dates",
		mcp.WithDescription("Lists all dates that have journal entries, as yyyy-mm-dd strings."),
	)
	s.AddTool(listDates, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dates, err := store.Dates(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list dates: %v", err)), nil
		}
		keys := make([]string, 0, len(dates))
		for key := range dates {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return jsonResult(keys)
	})
}

// RegisterSearchJournalTool registers the search_journal tool.
func RegisterSearchJournalTool(s *server.MCPServer, store *journal.Store) {
	searchJournal := mcp.NewTool("search_journal",
		mcp.WithDescription("Searches all historical entries for keywords. Results are ranked by how many distinct keywords matched, then by date."),
		mcp.WithString("keywords", mcp.Required(), mcp.Description("Comma-separated keywords, matched case-insensitively as substrings.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results.")),
		mcp.WithString("exclude_date", mcp.Description("A yyyy-mm-dd day to skip, typically today.")),
	)
	s.AddTool(searchJournal, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, ok := request.Params.Arguments["keywords"].(string)
		if !ok || strings.TrimSpace(raw) == "" {
			return mcp.NewToolResultError("'keywords' parameter is required and must be a non-empty string."), nil
		}
		var keywords []string
		for _, kw := range strings.Split(raw, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}

		opts := journal.SearchOptions{}
		if limit, ok := request.Params.Arguments["limit"].(float64); ok {
			opts.Limit = int(limit)
		}
		if excl, ok := request.Params.Arguments["exclude_date"].(string); ok {
			opts.ExcludeDate = excl
		}

		results, err := store.Search(ctx, keywords, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Search failed: %v", err)), nil
		}
		return jsonResult(results)
	})
}

// RegisterListTrashTool registers the list_trash tool.
func RegisterListTrashTool(s *server.MCPServer, db *sql.DB) {
	listTrash := mcp.NewTool("list_trash",
		mcp.WithDescription("Lists soft-deleted entries, most recently deleted first."),
	)
	s.AddTool(listTrash, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		records, err := trash.List(ctx, db)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list trash: %v", err)), nil
		}
		return jsonResult(records)
	})
}

// RegisterRestoreEntryTool registers the restore_entry tool, which moves a
// trashed entry back into its original day file.
func RegisterRestoreEntryTool(s *server.MCPServer, db *sql.DB, store *journal.Store) {
	restoreEntry := mcp.NewTool("restore_entry",
		mcp.WithDescription("Restores a soft-deleted entry into its original day."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Trash record UUID from list_trash.")),
	)
	s.AddTool(restoreEntry, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawID, ok := request.Params.Arguments["id"].(string)
		if !ok || rawID == "" {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid trash record ID: %v", err)), nil
		}

		rec, err := trash.Restore(ctx, db, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to restore entry: %v", err)), nil
		}

		day, err := journal.ParseDateKey(rec.OriginalDateKey)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Trash record has invalid date key %q: %v", rec.OriginalDateKey, err)), nil
		}
		if err := store.Append(ctx, day, rec.Entry); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to write restored entry: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Restored entry into %s.", rec.OriginalDateKey)), nil
	})
}

// dayArgument extracts the optional "date" argument, defaulting to today.
func dayArgument(request mcp.CallToolRequest) (time.Time, error) {
	raw, ok := request.Params.Arguments["date"].(string)
	if !ok || raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	day, err := journal.ParseDateKey(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid 'date' value %q, expected yyyy-mm-dd", raw)
	}
	return day, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
