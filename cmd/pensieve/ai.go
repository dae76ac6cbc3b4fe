package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pensieve-md/pensieve/pkg/ai"
	"github.com/pensieve-md/pensieve/pkg/journal"
)

var (
	aiLanguageFlag string
	recallLimit    int
)

// newAssistant builds the LLM helper from the environment. The model can be
// overridden with PENSIEVE_MODEL for OpenAI-compatible endpoints.
func newAssistant() (*ai.Assistant, error) {
	assistant, err := ai.New("", ai.WithModel(os.Getenv("PENSIEVE_MODEL")))
	if err != nil {
		return nil, err
	}
	return assistant, nil
}

var recallCmd = &cobra.Command{
	Use:   "recall [query]",
	Short: "Search the journal with a free-text question",
	Long: `Asks the configured LLM to turn a free-text question into search keywords
and runs them through the journal search. Requires OPENAI_API_KEY.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return errors.New("recall query cannot be empty")
		}

		assistant, err := newAssistant()
		if err != nil {
			return err
		}

		keywords, err := assistant.ExtractKeywords(cmd.Context(), query, aiLanguageFlag)
		if err != nil {
			return fmt.Errorf("failed to extract keywords: %w", err)
		}
		if len(keywords) == 0 {
			fmt.Println("The model produced no keywords for this query.")
			return nil
		}

		fmt.Printf("Searching for: %s\n", strings.Join(keywords, ", "))

		store, _, err := openStore()
		if err != nil {
			return err
		}

		results, err := store.Search(cmd.Context(), keywords, journal.SearchOptions{Limit: recallLimit})
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(results) == 0 {
			fmt.Println("No entries found.")
			return nil
		}

		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format search results: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [date]",
	Short: "Summarize a day with the configured LLM",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := readDayForAI(cmd, args)
		if err != nil {
			return err
		}
		if entries == nil {
			return nil
		}

		assistant, err := newAssistant()
		if err != nil {
			return err
		}

		summary, err := assistant.SummarizeDay(cmd.Context(), entries, aiLanguageFlag)
		if err != nil {
			return fmt.Errorf("failed to summarize day: %w", err)
		}

		fmt.Println(summary)
		return nil
	},
}

var replyCmd = &cobra.Command{
	Use:   "reply [date]",
	Short: "Draft an empathetic reply to a day's entries",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := readDayForAI(cmd, args)
		if err != nil {
			return err
		}
		if entries == nil {
			return nil
		}

		assistant, err := newAssistant()
		if err != nil {
			return err
		}

		reply, err := assistant.SuggestReply(cmd.Context(), entries, aiLanguageFlag)
		if err != nil {
			return fmt.Errorf("failed to draft reply: %w", err)
		}

		fmt.Println(reply)
		return nil
	},
}

// readDayForAI loads the entries of the optional positional date. A nil slice
// with nil error means the day was empty and a message was already printed.
func readDayForAI(cmd *cobra.Command, args []string) ([]journal.Entry, error) {
	dateArg := ""
	if len(args) > 0 {
		dateArg = args[0]
	}
	day, err := parseDayArg(dateArg)
	if err != nil {
		return nil, err
	}

	store, _, err := openStore()
	if err != nil {
		return nil, err
	}

	entries, err := store.ReadDay(cmd.Context(), day)
	if err != nil {
		return nil, fmt.Errorf("failed to read day: %w", err)
	}
	if len(entries) == 0 {
		fmt.Printf("No entries for %s.\n", day.Format("January 2, 2006"))
		return nil, nil
	}
	return entries, nil
}

func initAICmd() {
	for _, cmd := range []*cobra.Command{recallCmd, summarizeCmd, replyCmd} {
		cmd.Flags().StringVar(&aiLanguageFlag, "language", "English", "Language for LLM prompts and answers")
	}
	recallCmd.Flags().IntVarP(&recallLimit, "limit", "l", journal.DefaultSearchLimit, "Maximum number of results")
}
