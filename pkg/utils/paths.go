package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// GetDefaultJournalDirOnly returns a system-appropriate default directory for
// the Markdown day files.
func GetDefaultJournalDirOnly() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "journal"
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming", "pensieve", "journal")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "pensieve", "journal")
	default: // Primarily Linux, but also other UNIX-like systems.
		return filepath.Join(homeDir, ".local", "share", "pensieve", "journal")
	}
}

// GetDefaultDBPathOnly returns a system-appropriate default path for the
// sidecar database. It lives next to the journal directory, never inside it,
// so the day-file scan never trips over it.
func GetDefaultDBPathOnly() string {
	return filepath.Join(filepath.Dir(GetDefaultJournalDirOnly()), "sidecar.db")
}

// ResolveAndEnsureDir expands, absolutizes and creates a directory path,
// falling back to the default journal directory when providedPath is empty.
func ResolveAndEnsureDir(providedPath string) (string, error) {
	targetPath := providedPath
	if targetPath == "" {
		targetPath = GetDefaultJournalDirOnly()
	}

	targetPath, err := expandAndAbs(targetPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(targetPath, 0o750); err != nil {
		return "", fmt.Errorf("failed to create journal directory '%s': %w", targetPath, err)
	}
	return targetPath, nil
}

// ResolveAndEnsureDBPath expands a sidecar database path and creates its
// parent directory, falling back to the default location when providedPath
// is empty.
func ResolveAndEnsureDBPath(providedPath string) (string, error) {
	targetPath := providedPath
	if targetPath == "" {
		targetPath = GetDefaultDBPathOnly()
	}

	targetPath, err := expandAndAbs(targetPath)
	if err != nil {
		return "", err
	}

	dbDir := filepath.Dir(targetPath)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory '%s' for database: %w", dbDir, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to stat directory '%s' for database: %w", dbDir, err)
	}

	return targetPath, nil
}

func expandAndAbs(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory to expand path '%s': %w", path, err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", path, err)
	}
	return absPath, nil
}
