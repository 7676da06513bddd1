package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Entry is a lazily listed directory, symlinks pointing to directories are listed as directories
type Entry struct {
	path string

	listed      bool
	dirs, files map[string]Entry
}

func NewEntry(path string) Entry {
	return Entry{
		path: path,
	}
}

func (e *Entry) list() error {
	entries, err := os.ReadDir(e.path)
	if err != nil {
		return fmt.Errorf("cannot read \"%s\" directory: %w", e.path, err)
	}

	var dirs, files = make(map[string]Entry), make(map[string]Entry)

	for _, entry := range entries {
		path := filepath.Join(e.path, entry.Name())
		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(path)
			isDir = err == nil && info.IsDir()
		}
		if isDir {
			dirs[entry.Name()] = NewEntry(path)
		} else {
			files[entry.Name()] = NewEntry(path)
		}
	}
	e.dirs = dirs
	e.files = files
	e.listed = true
	return nil
}

func (e *Entry) Dirs() (map[string]Entry, error) {
	if !e.listed {
		err := e.list()
		if err != nil {
			return map[string]Entry{}, err
		}
	}
	return e.dirs, nil
}

func (e *Entry) Files() (map[string]Entry, error) {
	if !e.listed {
		err := e.list()
		if err != nil {
			return map[string]Entry{}, err
		}
	}
	return e.files, nil
}

// Match returns names of directories matching the pattern in lexical order
func (e *Entry) Match(pattern *regexp.Regexp) ([]string, error) {
	dirs, err := e.Dirs()
	if err != nil {
		return nil, err
	}
	var names []string
	for name := range dirs {
		if pattern.MatchString(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (e Entry) Path() string {
	return e.path
}
