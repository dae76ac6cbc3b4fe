package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	pensieve "github.com/pensieve-md/pensieve/pkg"
	pkgdb "github.com/pensieve-md/pensieve/pkg/db"
	"github.com/pensieve-md/pensieve/pkg/journal"
	"github.com/pensieve-md/pensieve/pkg/localfs"
	"github.com/pensieve-md/pensieve/pkg/utils"
)

var (
	journalDir string
	dbPath     string
	walMode    bool
	syncMode   string
)

var rootCmd = &cobra.Command{
	Use:     "pensieve",
	Short:   "A local-first Markdown journal with keyword recall for you and your AI models.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", pensieve.Version),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for pensieve.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(pensieve completion bash)

  Bash (persist):
    $ pensieve completion bash > /etc/bash_completion.d/pensieve

  Zsh:
    $ pensieve completion zsh > "${fpath[1]}/_pensieve"

  Fish:
    $ pensieve completion fish | source
    $ pensieve completion fish > ~/.config/fish/completions/pensieve.fish

  PowerShell:
    PS> pensieve completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pensieve",
	Long:  `All software has versions. This is pensieve's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(pensieve.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the pensieve sidecar database",
	Long:  `Provides commands for managing the pensieve SQLite sidecar database, including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the sidecar database schema to the latest version for the sidecardb component",
	Long: `Connects to the SQLite database at the specified path (provided with the --dbpath flag, or
the system-specific default) and applies any necessary schema migrations to bring the sidecardb
component up to the current application schema version. If the database does not exist or is
uninitialized for this component, it will be created and initialized with the latest schema.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolvedPath, err := utils.ResolveAndEnsureDBPath(dbPath)
		if err != nil {
			return err
		}

		fmt.Printf("Attempting to upgrade sidecardb component in database at: %s (WAL: %t, Sync: %s)\n", resolvedPath, walMode, syncMode)

		dbConn, err := pkgdb.OpenDBConnection(resolvedPath, walMode, syncMode)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(dbConn, resolvedPath, pkgdb.TargetSchemaVersion)
	},
}

// openStore resolves the journal directory (flag or system default) and wraps
// it in a day-file store.
func openStore() (*journal.Store, string, error) {
	resolvedDir, err := utils.ResolveAndEnsureDir(journalDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve journal directory: %w", err)
	}
	fsys, err := localfs.New(resolvedDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open journal directory: %w", err)
	}
	return journal.NewStore(fsys), resolvedDir, nil
}

// openDB resolves the sidecar database path (flag or system default), opens
// the connection and brings the schema up to date.
func openDB() (*sql.DB, string, error) {
	resolvedPath, err := utils.ResolveAndEnsureDBPath(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve database path: %w", err)
	}
	dbConn, err := pkgdb.OpenDBConnection(resolvedPath, walMode, syncMode)
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pkgdb.UpgradeDB(dbConn, resolvedPath, pkgdb.TargetSchemaVersion); err != nil {
		dbConn.Close()
		return nil, "", err
	}
	return dbConn, resolvedPath, nil
}

// parseDayArg interprets an optional positional date argument. Accepts the ISO
// form ("2024-01-05") and day-file keys ("240105"); an empty argument means today.
func parseDayArg(arg string) (time.Time, error) {
	if arg == "" {
		return time.Now(), nil
	}
	if day, err := journal.ParseDateKey(arg); err == nil {
		return day, nil
	}
	if key, ok := journal.ParseDayFileName(arg + ".md"); ok {
		return journal.ParseDateKey(key)
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected yyyy-mm-dd or yymmdd)", arg)
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&journalDir, "journal-dir", "", "Path to the journal directory (uses system-specific default if not provided)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "dbpath", "", "Path to the sidecar SQLite database file (uses system-specific default if not provided)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", true, "Enable SQLite WAL (Write-Ahead Logging) mode.")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", "NORMAL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA).")

	dbCmd.AddCommand(dbUpgradeCmd)

	initEntriesCmd()
	initAnnotationsCmd()
	initTrashCmd()
	initSearchCmd()
	initAICmd()

	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd,
		addCmd, showCmd, editCmd, importantCmd, deleteCmd,
		likeCmd, commentCmd,
		trashCmd, searchCmd, datesCmd,
		recallCmd, summarizeCmd, replyCmd,
		mcpCmd, tuiCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
