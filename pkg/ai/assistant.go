// Package ai wraps the hosted LLM used for recall keyword extraction, day
// summaries and reply suggestions. The journal core never imports this
// package; callers feed its keyword output into the store's search.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pensieve-md/pensieve/pkg/journal"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.ChatModelGPT4o

// Assistant talks to an OpenAI-compatible chat completions endpoint.
type Assistant struct {
	client openai.Client
	model  openai.ChatModel
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithModel overrides the chat model.
func WithModel(model string) Option {
	return func(a *Assistant) {
		if model != "" {
			a.model = openai.ChatModel(model)
		}
	}
}

// New creates an Assistant. If apiKey is empty it falls back to the
// OPENAI_API_KEY environment variable; OPENAI_BASE_URL, when set, redirects
// requests to a compatible endpoint (local models, proxies).
func New(apiKey string, opts ...Option) (*Assistant, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ai: API key is required (set OPENAI_API_KEY)")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	a := &Assistant{
		client: openai.NewClient(reqOpts...),
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ExtractKeywords asks the model for recall keywords matching a free-text
// query, suitable for feeding into the journal store's search.
func (a *Assistant) ExtractKeywords(ctx context.Context, query, language string) ([]string, error) {
	prompt := buildKeywordsPrompt(query, language)
	raw, err := a.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	keywords, err := parseKeywords(raw)
	if err != nil {
		return nil, err
	}
	return keywords, nil
}

// SummarizeDay produces a short narrative summary of one day's entries.
func (a *Assistant) SummarizeDay(ctx context.Context, entries []journal.Entry, language string) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("ai: nothing to summarize")
	}
	return a.complete(ctx, buildSummaryPrompt(entries, language))
}

// SuggestReply drafts a gentle reply to the day's latest entries, in the
// voice of a journaling companion.
func (a *Assistant) SuggestReply(ctx context.Context, entries []journal.Entry, language string) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("ai: nothing to reply to")
	}
	return a.complete(ctx, buildReplyPrompt(entries, language))
}

func (a *Assistant) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ai: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildKeywordsPrompt(query, language string) string {
	var sb strings.Builder
	sb.WriteString("Extract search keywords from this journal query. Return JSON only.\n\n")
	sb.WriteString("Query:\n")
	sb.WriteString(query)
	sb.WriteString("\n\n")
	sb.WriteString(`Return a JSON object with this structure:
{
  "keywords": ["keyword", "another keyword"]
}

Rules:
- Suggest 2-6 short keywords or phrases likely to appear verbatim in past journal entries
- Keywords are matched as plain substrings, so prefer simple word stems over full sentences
`)
	if language != "" {
		fmt.Fprintf(&sb, "- Keywords must be in %s\n", language)
	}
	sb.WriteString("\nReturn ONLY the JSON, no other text.")
	return sb.String()
}

func buildSummaryPrompt(entries []journal.Entry, language string) string {
	var sb strings.Builder
	sb.WriteString("Summarize this day's journal entries in 2-4 sentences. Be concrete and warm, not clinical.\n")
	if language != "" {
		fmt.Fprintf(&sb, "Answer in %s.\n", language)
	}
	sb.WriteString("\nEntries:\n")
	writeEntries(&sb, entries)
	return sb.String()
}

func buildReplyPrompt(entries []journal.Entry, language string) string {
	var sb strings.Builder
	sb.WriteString("You are a thoughtful journaling companion. Write a short, encouraging reply to the latest entries below. One or two sentences, no advice lists.\n")
	if language != "" {
		fmt.Fprintf(&sb, "Answer in %s.\n", language)
	}
	sb.WriteString("\nEntries:\n")
	writeEntries(&sb, entries)
	return sb.String()
}

func writeEntries(sb *strings.Builder, entries []journal.Entry) {
	for _, e := range entries {
		sb.WriteString("- ")
		if e.HasTime {
			sb.WriteString(e.Timestamp.Format("15:04"))
			sb.WriteString(" ")
		}
		sb.WriteString(e.Content)
		sb.WriteString("\n")
	}
}

type keywordsResponse struct {
	Keywords []string `json:"keywords"`
}

// parseKeywords decodes the model's JSON keyword list, tolerating Markdown
// code fences around the payload.
func parseKeywords(raw string) ([]string, error) {
	cleaned := stripCodeFences(raw)

	var resp keywordsResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("ai: parse keywords: %w (response: %s)", err, cleaned)
	}

	keywords := make([]string, 0, len(resp.Keywords))
	for _, kw := range resp.Keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("ai: no keywords in response")
	}
	return keywords, nil
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
