package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pensieve-md/pensieve/pkg/journal"
	"github.com/pensieve-md/pensieve/pkg/trash"
)

var (
	entryDateFlag       string
	entryTimeFlag       string
	entrySourceFlag     string
	entryImportantFlag  bool
	entryContentFlag    string
	showAnnotationsFlag bool
)

var addCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a journal entry",
	Long: `Appends an entry to a day file. The content is taken from the positional
arguments joined with spaces. Without --date the entry goes to today's file and
carries the current wall-clock time; with --date it is written as an untimed
bullet unless --time is also given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := strings.TrimSpace(strings.Join(args, " "))
		if content == "" {
			return errors.New("entry content cannot be empty")
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}

		e := journal.Entry{
			Source:    journal.Source(entrySourceFlag),
			Content:   content,
			Important: entryImportantFlag,
		}

		day := time.Now()
		if entryDateFlag == "" {
			e.Timestamp = day
			e.HasTime = true
		} else {
			day, err = parseDayArg(entryDateFlag)
			if err != nil {
				return err
			}
			e.Timestamp = day
		}

		if entryTimeFlag != "" {
			clock, err := time.Parse("15:04", entryTimeFlag)
			if err != nil {
				return fmt.Errorf("invalid time %q (expected HH:mm): %w", entryTimeFlag, err)
			}
			e.Timestamp = time.Date(day.Year(), day.Month(), day.Day(),
				clock.Hour(), clock.Minute(), 0, 0, day.Location())
			e.HasTime = true
		}

		if err := store.Append(cmd.Context(), day, e); err != nil {
			return fmt.Errorf("failed to append entry: %w", err)
		}

		fmt.Printf("Entry added to %s.\n", journal.DayFileName(day))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the entries of a day",
	Long:  `Prints the entries of a day (today when no date is given), numbered for use with edit, important, and delete.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dateArg := ""
		if len(args) > 0 {
			dateArg = args[0]
		}
		day, err := parseDayArg(dateArg)
		if err != nil {
			return err
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}

		entries, err := store.ReadDay(cmd.Context(), day)
		if err != nil {
			return fmt.Errorf("failed to read day: %w", err)
		}

		if len(entries) == 0 {
			fmt.Printf("No entries for %s.\n", day.Format("January 2, 2006"))
			return nil
		}

		if showAnnotationsFlag {
			dbConn, _, err := openDB()
			if err != nil {
				return err
			}
			defer dbConn.Close()

			entries, err = trash.Annotate(cmd.Context(), dbConn, journal.DateKey(day), entries)
			if err != nil {
				return fmt.Errorf("failed to load annotations: %w", err)
			}
		}

		fmt.Printf("%s (%s):\n", day.Format("January 2, 2006"), journal.DayFileName(day))
		for i, e := range entries {
			fmt.Printf("%3d  %s\n", i+1, journal.FormatEntry(e))
			if len(e.Likes) > 0 {
				fmt.Printf("     ♥ %d\n", len(e.Likes))
			}
			for _, c := range e.Comments {
				fmt.Printf("     > %s (%s, %s)\n", c.Text, c.ID, c.Date.Format("2006-01-02 15:04"))
			}
		}
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [date] [number]",
	Short: "Edit the content of an entry",
	Long:  `Replaces the content of the numbered entry (see 'pensieve show') with the value of --content and rewrites the day file.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := strings.TrimSpace(entryContentFlag)
		if content == "" {
			return errors.New("new entry content is required (use --content)")
		}

		return withDayEntry(cmd, args, func(entries []journal.Entry, idx int) ([]journal.Entry, string, error) {
			entries[idx].Content = content
			return entries, "Entry updated.", nil
		})
	},
}

var importantCmd = &cobra.Command{
	Use:   "important [date] [number]",
	Short: "Toggle the important marker on an entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDayEntry(cmd, args, func(entries []journal.Entry, idx int) ([]journal.Entry, string, error) {
			entries[idx].Important = !entries[idx].Important
			state := "unmarked"
			if entries[idx].Important {
				state = "marked important"
			}
			return entries, fmt.Sprintf("Entry %s.", state), nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [date] [number]",
	Short: "Move an entry to the trash",
	Long:  `Removes the numbered entry from its day file and records it in the sidecar database trash, from where it can be restored or purged.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, day, entries, idx, err := resolveDayEntry(cmd, args)
		if err != nil {
			return err
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		record, err := trash.Delete(cmd.Context(), dbConn, store, day, entries, idx)
		if err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		fmt.Printf("Entry moved to trash (record %s).\n", record.ID)
		return nil
	},
}

// resolveDayEntry reads the day named by args[0] and locates the 1-based
// entry number in args[1], returning the store so callers can write back.
func resolveDayEntry(cmd *cobra.Command, args []string) (*journal.Store, time.Time, []journal.Entry, int, error) {
	day, err := parseDayArg(args[0])
	if err != nil {
		return nil, time.Time{}, nil, 0, err
	}
	number, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, time.Time{}, nil, 0, fmt.Errorf("invalid entry number %q: %w", args[1], err)
	}

	store, _, err := openStore()
	if err != nil {
		return nil, time.Time{}, nil, 0, err
	}

	entries, err := store.ReadDay(cmd.Context(), day)
	if err != nil {
		return nil, time.Time{}, nil, 0, fmt.Errorf("failed to read day: %w", err)
	}
	if number < 1 || number > len(entries) {
		return nil, time.Time{}, nil, 0, fmt.Errorf("entry number %d out of range (day has %d entries)", number, len(entries))
	}
	return store, day, entries, number - 1, nil
}

// withDayEntry resolves a day and entry number, applies mutate, and rewrites
// the day file with its result.
func withDayEntry(cmd *cobra.Command, args []string, mutate func(entries []journal.Entry, idx int) ([]journal.Entry, string, error)) error {
	store, day, entries, idx, err := resolveDayEntry(cmd, args)
	if err != nil {
		return err
	}

	updated, message, err := mutate(entries, idx)
	if err != nil {
		return err
	}

	if err := store.Rewrite(cmd.Context(), day, updated); err != nil {
		return fmt.Errorf("failed to rewrite day: %w", err)
	}

	fmt.Println(message)
	return nil
}

func initEntriesCmd() {
	showCmd.Flags().BoolVarP(&showAnnotationsFlag, "annotations", "a", false, "Include likes and comments from the sidecar database")

	addCmd.Flags().StringVarP(&entryDateFlag, "date", "d", "", "Day to write to (yyyy-mm-dd or yymmdd, default today)")
	addCmd.Flags().StringVarP(&entryTimeFlag, "time", "t", "", "Clock time of the entry (HH:mm)")
	addCmd.Flags().StringVarP(&entrySourceFlag, "source", "s", string(journal.SourceUser), "Source marker of the entry (user, web-input, note, ai-reply)")
	addCmd.Flags().BoolVarP(&entryImportantFlag, "important", "i", false, "Mark the entry as important")

	editCmd.Flags().StringVarP(&entryContentFlag, "content", "c", "", "New content for the entry (required)")
	editCmd.MarkFlagRequired("content")
}
