package models

// Tag labels notes. Names are globally unique, case-sensitively: "Work" and
// "work" are distinct tags.
type Tag struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Color      *string `json:"color"`
	NotesCount int     `json:"notesCount"`
	CreatedAt  int64   `json:"createdAt"` // epoch millis
}

// NoteTagLink associates a note with a tag. The (NoteID, TagID) pair is its
// identity; deleting either side removes the link.
type NoteTagLink struct {
	NoteID int64 `json:"noteId"`
	TagID  int64 `json:"tagId"`
}
