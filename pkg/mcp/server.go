// Package mcp exposes the journal to AI agents over the Model Context
// Protocol. Every tool operates through the same journal.Store and sidecar
// database the CLI uses; nothing here bypasses the capability boundary.
package mcp

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	pensieve "github.com/pensieve-md/pensieve/pkg"
	pkgdb "github.com/pensieve-md/pensieve/pkg/db"
	"github.com/pensieve-md/pensieve/pkg/journal"
	"github.com/pensieve-md/pensieve/pkg/localfs"
	"github.com/pensieve-md/pensieve/pkg/utils"
)

// PensieveMCPServer bundles the MCP stdio server with the journal store and
// the optional sidecar database the tools operate on.
type PensieveMCPServer struct {
	mcpServer  *server.MCPServer
	store      *journal.Store
	db         *sql.DB
	JournalDir string
	DBPath     string
}

// NewPensieveMCPServer spins up an MCP server over the journal directory at
// journalDir. When dbPath is non-empty the sidecar database is opened and
// migrated too, enabling the trash tools.
func NewPensieveMCPServer(journalDir, dbPath string) (*PensieveMCPServer, error) {
	resolvedDir, err := utils.ResolveAndEnsureDir(journalDir)
	if err != nil {
		return nil, err
	}
	dir, err := localfs.New(resolvedDir)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		"Pensieve MCP Server",
		pensieve.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	srv := &PensieveMCPServer{
		mcpServer:  s,
		store:      journal.NewStore(dir),
		JournalDir: resolvedDir,
	}

	if dbPath != "" {
		resolvedDBPath, err := utils.ResolveAndEnsureDBPath(dbPath)
		if err != nil {
			return nil, err
		}
		dbConn, err := pkgdb.OpenDBConnection(resolvedDBPath, true, "FULL")
		if err != nil {
			return nil, fmt.Errorf("failed to open sidecar database: %w", err)
		}
		if err := pkgdb.UpgradeDB(dbConn, resolvedDBPath, pkgdb.TargetSchemaVersion); err != nil {
			dbConn.Close()
			return nil, fmt.Errorf("failed to initialize/upgrade sidecar schema for '%s': %w", resolvedDBPath, err)
		}
		srv.db = dbConn
		srv.DBPath = resolvedDBPath
	}

	return srv, nil
}

// Start runs the stdio event loop. Make sure to register tools beforehand.
func (s *PensieveMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// Store returns the underlying journal store.
func (s *PensieveMCPServer) Store() *journal.Store {
	return s.store
}

// DB returns the sidecar database, or nil when none was configured.
func (s *PensieveMCPServer) DB() *sql.DB {
	return s.db
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *PensieveMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close cleans up allocated resources.
func (s *PensieveMCPServer) Close() error {
	if s.db != nil {
		// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
		if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: WAL checkpoint failed during close: %v\n", err)
		}
		return s.db.Close()
	}
	return nil
}
