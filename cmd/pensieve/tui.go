package main

import (
	"github.com/spf13/cobra"

	"github.com/pensieve-md/pensieve/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show terminal UI",
	Long:  `Display an interactive terminal UI for browsing the journal. Deleted entries go to the sidecar database trash.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, resolvedDir, err := openStore()
		if err != nil {
			return err
		}

		dbConn, resolvedDBPath, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return tui.ShowTUI(store, dbConn, resolvedDir, resolvedDBPath)
	},
}
