package ai

import (
	"strings"
	"testing"
	"time"

	"github.com/pensieve-md/pensieve/pkg/journal"
)

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"keywords": ["coffee", "morning run"]}`,
			want: []string{"coffee", "morning run"},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"keywords\": [\"focus\"]}\n```",
			want: []string{"focus"},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"keywords\": [\"rain\"]}\n```",
			want: []string{"rain"},
		},
		{
			name: "blank keywords dropped",
			raw:  `{"keywords": ["  ", "walk", ""]}`,
			want: []string{"walk"},
		},
		{
			name:    "empty list rejected",
			raw:     `{"keywords": []}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     "sorry, I cannot do that",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKeywords(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseKeywords failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d keywords, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Keyword %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildKeywordsPrompt(t *testing.T) {
	prompt := buildKeywordsPrompt("when did I last see Dana?", "English")
	if !strings.Contains(prompt, "when did I last see Dana?") {
		t.Errorf("Prompt should contain the query")
	}
	if !strings.Contains(prompt, "English") {
		t.Errorf("Prompt should mention the requested language")
	}
	if !strings.Contains(prompt, "ONLY the JSON") {
		t.Errorf("Prompt should demand a JSON-only answer")
	}
}

func TestBuildSummaryPromptListsEntries(t *testing.T) {
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)
	entries := []journal.Entry{
		{Timestamp: day.Add(8 * time.Hour), HasTime: true, Content: "slow start"},
		{Timestamp: day, Content: "untimed thought"},
	}
	prompt := buildSummaryPrompt(entries, "")
	if !strings.Contains(prompt, "08:00 slow start") {
		t.Errorf("Timed entry should carry its clock, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- untimed thought") {
		t.Errorf("Untimed entry should be listed without a clock, got:\n%s", prompt)
	}
}

func TestNewRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := New(""); err == nil {
		t.Errorf("Expected error when no API key is available")
	}
}
