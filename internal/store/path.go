package store

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultFileName is the phonebook file created inside the data directory.
const DefaultFileName = "phonebook.csv"

// ResolveDataDir returns the directory used for phonebook data.
// Order: PHONEBOOK_DATA_DIR env override, then OS-specific default.
func ResolveDataDir() (string, error) {
	if custom := os.Getenv("PHONEBOOK_DATA_DIR"); custom != "" {
		return custom, nil
	}

	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return filepath.Join(appdata, "phonebook"), nil
		}
		return "", errors.New("APPDATA not set")
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			return filepath.Join(home, "Library", "Application Support", "phonebook"), nil
		}
		return "", errors.New("home directory not found")
	default: // linux and others
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			return filepath.Join(home, ".local", "share", "phonebook"), nil
		}
		return "", errors.New("home directory not found")
	}
}

// DefaultPath returns the phonebook file inside the resolved data directory.
func DefaultPath() (string, error) {
	dir, err := ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultFileName), nil
}
