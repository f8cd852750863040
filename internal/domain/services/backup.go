package services

import (
	"context"
	"io"
)

// BackupService exports and restores the full data set as a JSON document
type BackupService interface {
	// Export writes a pretty-printed backup document with every folder,
	// tag and note, including archived and trashed ones
	Export(ctx context.Context, w io.Writer) error

	// Restore reads a backup document and merges it additively: rows
	// whose ids collide are replaced, everything else is kept. Folders
	// are restored first, then tags, then notes.
	Restore(ctx context.Context, r io.Reader) (*RestoreSummary, error)
}

// RestoreSummary reports how many rows a restore brought in
type RestoreSummary struct {
	Folders int `json:"folders"`
	Tags    int `json:"tags"`
	Notes   int `json:"notes"`
}
