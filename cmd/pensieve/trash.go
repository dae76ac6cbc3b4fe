package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pensieve-md/pensieve/pkg/journal"
	"github.com/pensieve-md/pensieve/pkg/trash"
)

var purgeAllFlag bool

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Manage deleted entries",
	Long:  `Deleted entries are kept in the sidecar database until restored or purged. There is no automatic expiry.`,
}

var trashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deleted entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		records, err := trash.List(cmd.Context(), dbConn)
		if err != nil {
			return fmt.Errorf("failed to list trash: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("Trash is empty.")
			return nil
		}

		output, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format trash output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var trashRestoreCmd = &cobra.Command{
	Use:   "restore [record-id]",
	Short: "Restore a deleted entry to its original day",
	Long:  `Removes the record from the trash and appends the entry back to the day file it was deleted from.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recordID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid record ID: %w", err)
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		record, err := trash.Restore(cmd.Context(), dbConn, recordID)
		if errors.Is(err, trash.ErrRecordNotFound) {
			return fmt.Errorf("trash record not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to restore entry: %w", err)
		}

		day, err := journal.ParseDateKey(record.OriginalDateKey)
		if err != nil {
			return fmt.Errorf("trash record has invalid date key %q: %w", record.OriginalDateKey, err)
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Append(cmd.Context(), day, record.Entry); err != nil {
			return fmt.Errorf("failed to write restored entry: %w", err)
		}

		fmt.Printf("Entry restored to %s.\n", journal.DayFileName(day))
		return nil
	},
}

var trashPurgeCmd = &cobra.Command{
	Use:   "purge [record-id]",
	Short: "Permanently remove entries from the trash",
	Long:  `Deletes a single trash record, or every record when --all is given. Purged entries cannot be recovered.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if purgeAllFlag == (len(args) == 1) {
			return errors.New("provide either a record ID or the --all flag")
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if purgeAllFlag {
			purged, err := trash.PurgeAll(cmd.Context(), dbConn)
			if err != nil {
				return fmt.Errorf("failed to purge trash: %w", err)
			}
			fmt.Printf("Purged %d trash records.\n", purged)
			return nil
		}

		recordID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid record ID: %w", err)
		}

		err = trash.Purge(cmd.Context(), dbConn, recordID)
		if errors.Is(err, trash.ErrRecordNotFound) {
			return fmt.Errorf("trash record not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to purge trash record: %w", err)
		}

		fmt.Printf("Trash record %s purged.\n", args[0])
		return nil
	},
}

func initTrashCmd() {
	trashPurgeCmd.Flags().BoolVar(&purgeAllFlag, "all", false, "Purge every record in the trash")
	trashCmd.AddCommand(trashListCmd, trashRestoreCmd, trashPurgeCmd)
}
