package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pensieve-md/pensieve/pkg/mcp"
	"github.com/pensieve-md/pensieve/pkg/utils"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the pensieve MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes the journal
directory as MCP tools via STDIO.

Both --journal-dir and --dbpath are optional. If not provided, system-specific
default locations are used:
- Windows: %USERPROFILE%\AppData\Roaming\pensieve\
- macOS: ~/Library/Application Support/pensieve/
- Linux: ~/.local/share/pensieve/

Example:

  pensieve mcp --journal-dir ~/journal | tee server.log

  # Or simply use the default locations:
  pensieve mcp`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		effectiveDBPath := dbPath
		if effectiveDBPath == "" {
			// Trash tools need the sidecar; fall back to its default location.
			effectiveDBPath = utils.GetDefaultDBPathOnly()
		}

		srv, err := mcp.NewPensieveMCPServer(journalDir, effectiveDBPath)
		if err != nil {
			return err
		}
		defer srv.Close()

		// Register all tools.
		store := srv.Store()
		db := srv.DB()
		s := srv.MCPRawServer()

		mcp.RegisterPingTool(s)
		mcp.RegisterAppendEntryTool(s, store)
		mcp.RegisterReadDayTool(s, store)
		mcp.RegisterListDatesTool(s, store)
		mcp.RegisterSearchJournalTool(s, store)

		tools := "ping, append_entry, read_day, list_dates, search_journal"
		if db != nil {
			mcp.RegisterListTrashTool(s, db)
			mcp.RegisterRestoreEntryTool(s, db, store)
			tools += ", list_trash, restore_entry"
		}

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		fmt.Fprintf(os.Stderr, "Pensieve MCP server started. Journal: %s DB: %s\n", srv.JournalDir, srv.DBPath)
		fmt.Fprintf(os.Stderr, "Available tools: %s\n", tools)
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		// Run the server (blocks until stdio closes).
		return srv.Start()
	},
}
