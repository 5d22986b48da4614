package models

// DirectoryEntry describes one child of a listed directory.
// Entries are built fresh per request and never cached or mutated.
type DirectoryEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	IsDirectory bool   `json:"is_directory"`
	Size        uint64 `json:"size"`        // bytes, 0 for directories
	ModifiedAt  uint64 `json:"modified_at"` // seconds since epoch, 0 if unavailable
}

// FileContent is the payload for whole-file reads and writes.
type FileContent struct {
	Path    string `json:"path" binding:"required"`
	Content string `json:"content"`
}
