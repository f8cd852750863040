package models

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNoteIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		note Note
		want bool
	}{
		{
			name: "zero note",
			note: Note{},
			want: true,
		},
		{
			name: "whitespace only",
			note: Note{Title: "   ", PlainTextContent: "\n\t "},
			want: true,
		},
		{
			name: "title present",
			note: Note{Title: "Groceries"},
			want: false,
		},
		{
			name: "body present",
			note: Note{PlainTextContent: "milk"},
			want: false,
		},
		{
			name: "checklist with blank items",
			note: Note{
				IsChecklist:    true,
				ChecklistItems: []ChecklistItem{{Text: ""}, {Text: "  "}},
			},
			want: true,
		},
		{
			name: "checklist with one filled item",
			note: Note{
				IsChecklist:    true,
				ChecklistItems: []ChecklistItem{{Text: ""}, {Text: "milk"}},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.note.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotePreview(t *testing.T) {
	n := Note{PlainTextContent: "first line\nsecond line"}
	if got := n.Preview(); got != "first line second line" {
		t.Errorf("Preview() = %q", got)
	}

	long := Note{PlainTextContent: strings.Repeat("a", 500)}
	if got := len(long.Preview()); got != 200 {
		t.Errorf("Preview() length = %d, want 200", got)
	}

	// Truncation may not cut a multi-byte rune in half.
	wide := Note{PlainTextContent: strings.Repeat("日", 500)}
	got := wide.Preview()
	if !utf8.ValidString(got) {
		t.Errorf("Preview() produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 200 {
		t.Errorf("Preview() rune count = %d, want 200", n)
	}
}

func TestParseChecklist(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		count int
	}{
		{name: "empty string", doc: "", count: 0},
		{name: "empty array", doc: "[]", count: 0},
		{name: "malformed json", doc: "{not json", count: 0},
		{name: "wrong shape", doc: `{"a":1}`, count: 0},
		{
			name:  "valid items",
			doc:   `[{"id":"a","text":"milk","isChecked":true,"indent":0},{"id":"b","text":"eggs","isChecked":false,"indent":1}]`,
			count: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ParseChecklist(tt.doc)
			if len(items) != tt.count {
				t.Errorf("ParseChecklist() returned %d items, want %d", len(items), tt.count)
			}
		})
	}
}

func TestChecklistRoundTrip(t *testing.T) {
	items := []ChecklistItem{
		NewChecklistItem("milk"),
		{ID: "fixed", Text: "eggs", IsChecked: true, Indent: 2},
	}
	parsed := ParseChecklist(RenderChecklist(items))
	if len(parsed) != 2 {
		t.Fatalf("round trip lost items: got %d", len(parsed))
	}
	if parsed[1].Text != "eggs" || !parsed[1].IsChecked || parsed[1].Indent != 2 {
		t.Errorf("round trip mangled item: %+v", parsed[1])
	}
}

func TestParseNoteColor(t *testing.T) {
	if c, ok := ParseNoteColor("TEAL"); !ok || c != ColorTeal {
		t.Errorf("ParseNoteColor(TEAL) = %v, %v", c, ok)
	}
	if _, ok := ParseNoteColor("MAGENTA"); ok {
		t.Error("ParseNoteColor accepted an unknown color")
	}
}
