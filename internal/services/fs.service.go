package services

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"deskbridge/internal/models"
)

// ReadDirectory lists the children of path as DirectoryEntry records.
// Children whose metadata cannot be read are omitted from the result
// rather than failing the whole call; callers should not assume every
// enumerated name appears in the listing.
func ReadDirectory(path string) ([]models.DirectoryEntry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, notFoundf("path does not exist: %s", path)
	}

	dirents, err := os.ReadDir(path)
	if err != nil {
		return nil, readErrorf("failed to read directory: %v", err)
	}

	entries := make([]models.DirectoryEntry, 0, len(dirents))
	for _, d := range dirents {
		info, err := d.Info()
		if err != nil {
			continue
		}

		var size uint64
		if !info.IsDir() {
			size = uint64(info.Size())
		}

		var modified uint64
		if secs := info.ModTime().Unix(); secs > 0 {
			modified = uint64(secs)
		}

		entries = append(entries, models.DirectoryEntry{
			Name:        d.Name(),
			Path:        filepath.Join(path, d.Name()),
			IsDirectory: info.IsDir(),
			Size:        size,
			ModifiedAt:  modified,
		})
	}

	// Directories first, then case-insensitive by name. Stable, so
	// names differing only by case keep their enumeration order.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDirectory != entries[j].IsDirectory {
			return entries[i].IsDirectory
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries, nil
}

// ReadFileContent loads the entire file at path as one text payload.
func ReadFileContent(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", readErrorf("failed to read file: %v", err)
	}
	if !utf8.Valid(data) {
		return "", readErrorf("failed to read file: %s is not valid UTF-8 text", path)
	}
	return string(data), nil
}

// WriteFileContent overwrites the file at path with content in full,
// creating it if absent. A failed write may leave the file partially
// written; there is no atomic-replace or backup step.
func WriteFileContent(path string, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return writeErrorf("failed to write file: %v", err)
	}
	return nil
}

// HomeDirectory returns the current user's home directory path.
func HomeDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", notFoundf("could not determine home directory")
	}
	return home, nil
}
