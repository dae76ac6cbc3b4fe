package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pensieve-md/pensieve/pkg/journal"
	"github.com/pensieve-md/pensieve/pkg/trash"
)

var likeCmd = &cobra.Command{
	Use:   "like [date] [number]",
	Short: "Like an entry",
	Long:  `Records a like for the numbered entry (see 'pensieve show') in the sidecar database. The day file itself is not touched.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, day, entries, idx, err := resolveDayEntry(cmd, args)
		if err != nil {
			return err
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := trash.AddLike(cmd.Context(), dbConn, journal.DateKey(day), entries[idx].ID, time.Now()); err != nil {
			return fmt.Errorf("failed to record like: %w", err)
		}

		likes, err := trash.ListLikes(cmd.Context(), dbConn, journal.DateKey(day), entries[idx].ID)
		if err != nil {
			return fmt.Errorf("failed to count likes: %w", err)
		}
		fmt.Printf("Entry liked (%d total).\n", len(likes))
		return nil
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage entry comments",
	Long:  `Comments live in the sidecar database, keyed by day and entry; day files are never modified by commenting.`,
}

var commentAddCmd = &cobra.Command{
	Use:   "add [date] [number] [text]...",
	Short: "Attach a comment to an entry",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := strings.TrimSpace(strings.Join(args[2:], " "))
		if body == "" {
			return errors.New("comment text cannot be empty")
		}

		_, day, entries, idx, err := resolveDayEntry(cmd, args[:2])
		if err != nil {
			return err
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		comment, err := trash.AddComment(cmd.Context(), dbConn, journal.DateKey(day), entries[idx].ID, body)
		if err != nil {
			return fmt.Errorf("failed to add comment: %w", err)
		}

		fmt.Printf("Comment added (%s).\n", comment.ID)
		return nil
	},
}

var commentListCmd = &cobra.Command{
	Use:   "list [date] [number]",
	Short: "List an entry's comments",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, day, entries, idx, err := resolveDayEntry(cmd, args)
		if err != nil {
			return err
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		comments, err := trash.ListComments(cmd.Context(), dbConn, journal.DateKey(day), entries[idx].ID)
		if err != nil {
			return fmt.Errorf("failed to list comments: %w", err)
		}

		if len(comments) == 0 {
			fmt.Println("No comments on this entry.")
			return nil
		}

		output, err := json.MarshalIndent(comments, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format comments output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete [comment-id]",
	Short: "Delete a comment by its ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid comment ID: %w", err)
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		err = trash.DeleteComment(cmd.Context(), dbConn, commentID)
		if errors.Is(err, trash.ErrCommentNotFound) {
			return fmt.Errorf("comment not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}

		fmt.Printf("Comment %s deleted.\n", args[0])
		return nil
	},
}

func initAnnotationsCmd() {
	commentCmd.AddCommand(commentAddCmd, commentListCmd, commentDeleteCmd)
}
