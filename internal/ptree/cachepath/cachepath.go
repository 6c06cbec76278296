// Package cachepath resolves the default cache file location, following the
// same environment-variable precedence the teacher's pkg/filesystem home/path
// helpers use for locating per-user state.
package cachepath

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// defaultFileName is the cache file's name under its resolved directory.
const defaultFileName = "ptree.dat"

// Default resolves the default cache file path: $XDG_CACHE_HOME/ptree/ptree.dat
// on Unix-like systems when XDG_CACHE_HOME is set, %APPDATA%\ptree\ptree.dat
// on Windows, and otherwise $HOME/.cache/ptree/ptree.dat (or, on Windows
// without APPDATA, %USERPROFILE%\.cache\ptree\ptree.dat).
func Default() (string, error) {
	dir, err := defaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ptree", defaultFileName), nil
}

func defaultDir() (string, error) {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.New("cachepath: unable to determine home directory")
		}
		return filepath.Join(home, ".cache"), nil
	}

	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("cachepath: unable to determine home directory")
	}
	return filepath.Join(home, ".cache"), nil
}

// WithDir joins dir (a user-supplied --cache-dir override) with the cache
// file name, so callers don't need to know the literal file name.
func WithDir(dir string) string {
	return filepath.Join(dir, defaultFileName)
}
