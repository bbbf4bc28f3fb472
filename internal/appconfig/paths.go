package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths lists the per-user data directories, already namespaced by AppName.
// DataHome is where new files are written; DataDirs are searched after it.
type Paths struct {
	DataHome string
	DataDirs []string
}

// DefaultPaths follows the XDG base directory layout:
// $XDG_DATA_HOME (default ~/.local/share) and $XDG_DATA_DIRS
// (default /usr/local/share:/usr/share).
func DefaultPaths() (Paths, error) {
	home := os.Getenv("XDG_DATA_HOME")
	if !filepath.IsAbs(home) {
		h, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, fmt.Errorf("resolve home: %w", err)
		}
		home = filepath.Join(h, ".local", "share")
	}
	dirs := os.Getenv("XDG_DATA_DIRS")
	if dirs == "" {
		dirs = "/usr/local/share:/usr/share"
	}
	p := Paths{DataHome: filepath.Join(home, AppName)}
	for _, d := range strings.Split(dirs, string(os.PathListSeparator)) {
		if !filepath.IsAbs(d) {
			continue
		}
		p.DataDirs = append(p.DataDirs, filepath.Join(d, AppName))
	}
	return p, nil
}

// FindDataFile returns the first regular file named name, searching DataHome
// then DataDirs.
func (p Paths) FindDataFile(name string) (string, bool) {
	for _, dir := range append([]string{p.DataHome}, p.DataDirs...) {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, name)
		if st, err := os.Stat(path); err == nil && st.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// PlaceDataFile returns name inside DataHome, creating DataHome if needed.
func (p Paths) PlaceDataFile(name string) (string, error) {
	if p.DataHome == "" {
		return "", fmt.Errorf("no data directory configured")
	}
	if err := os.MkdirAll(p.DataHome, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(p.DataHome, name), nil
}
