package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Note is the canonical note record. FolderName and Tags are derived at read
// time (resolved from the owning folder and the tag links), not persisted on
// the note row itself.
type Note struct {
	ID               int64           `json:"id"`
	Title            string          `json:"title"`
	Content          string          `json:"content"`
	PlainTextContent string          `json:"plainTextContent"`
	FolderID         *int64          `json:"folderId"`
	FolderName       string          `json:"folderName,omitempty"`
	Color            *NoteColor      `json:"color"`
	IsPinned         bool            `json:"isPinned"`
	IsArchived       bool            `json:"isArchived"`
	IsInTrash        bool            `json:"isInTrash"`
	IsChecklist      bool            `json:"isChecklist"`
	ChecklistItems   []ChecklistItem `json:"checklistItems"`
	Tags             []Tag           `json:"tags,omitempty"`
	CreatedAt        int64           `json:"createdAt"` // epoch millis
	UpdatedAt        int64           `json:"updatedAt"` // epoch millis
	TrashedAt        *int64          `json:"trashedAt"` // non-nil iff IsInTrash
}

// IsEmpty reports whether the note carries no content worth persisting:
// blank title, blank plain text, and every checklist item blank. Empty notes
// are never saved.
func (n Note) IsEmpty() bool {
	if strings.TrimSpace(n.Title) != "" || strings.TrimSpace(n.PlainTextContent) != "" {
		return false
	}
	for _, item := range n.ChecklistItems {
		if strings.TrimSpace(item.Text) != "" {
			return false
		}
	}
	return true
}

// Preview returns the first 200 characters of the plain-text mirror with
// newlines collapsed, for list rendering. Truncation is rune-aware so a
// multi-byte character is never split.
func (n Note) Preview() string {
	text := n.PlainTextContent
	if runes := []rune(text); len(runes) > 200 {
		text = string(runes[:200])
	}
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}

// ChecklistItem is one entry of a checklist note. Items are persisted as a
// single JSON document on the note row.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsChecked bool   `json:"isChecked"`
	Indent    int    `json:"indent"`
}

// NewChecklistItem creates an unchecked item with a fresh id.
func NewChecklistItem(text string) ChecklistItem {
	return ChecklistItem{ID: uuid.NewString(), Text: text}
}

// ParseChecklist decodes the persisted checklist document. A malformed
// document degrades to an empty checklist, never an error.
func ParseChecklist(doc string) []ChecklistItem {
	if doc == "" {
		return []ChecklistItem{}
	}
	var items []ChecklistItem
	if err := json.Unmarshal([]byte(doc), &items); err != nil {
		return []ChecklistItem{}
	}
	if items == nil {
		items = []ChecklistItem{}
	}
	return items
}

// RenderChecklist encodes checklist items to the persisted document form.
func RenderChecklist(items []ChecklistItem) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}
