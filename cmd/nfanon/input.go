package main

import (
	"os"
	"path/filepath"
	"sort"
)

// enumerateInputs implements spec.md §6's "-r path": a single file, or
// every entry directly inside a directory that is not itself a
// directory (subdirectories are skipped, not descended), enumerated in a
// stable (lexical) order so a rerun walks files identically.
func enumerateInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, filepath.Join(path, e.Name()))
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil, errNoFilesInDir
	}
	return out, nil
}
