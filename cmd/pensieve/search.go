package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pensieve-md/pensieve/pkg/journal"
)

var (
	searchLimitFlag       int
	searchExcludeDateFlag string
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword]...",
	Short: "Search the journal for keywords",
	Long: `Scans every day file for case-insensitive keyword matches. Results are
ordered by the number of distinct keywords an entry matches, most recent day
first within the same relevance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}

		results, err := store.Search(cmd.Context(), args, journal.SearchOptions{
			Limit:       searchLimitFlag,
			ExcludeDate: searchExcludeDateFlag,
		})
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(results) == 0 {
			fmt.Println("No entries found matching the specified keywords.")
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

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the days that have journal entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, dir, err := openStore()
		if err != nil {
			return err
		}

		dates, err := store.Dates(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list dates: %w", err)
		}

		if len(dates) == 0 {
			fmt.Printf("No day files in %s.\n", dir)
			return nil
		}

		keys := make([]string, 0, len(dates))
		for key := range dates {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Println(key)
		}
		return nil
	},
}

func initSearchCmd() {
	searchCmd.Flags().IntVarP(&searchLimitFlag, "limit", "l", journal.DefaultSearchLimit, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchExcludeDateFlag, "exclude-date", "", "Skip entries from this day (yyyy-mm-dd)")
}
