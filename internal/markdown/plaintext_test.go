package markdown

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "empty",
			source: "",
			want:   "",
		},
		{
			name:   "whitespace only",
			source: "  \n\t",
			want:   "",
		},
		{
			name:   "plain paragraph",
			source: "just some text",
			want:   "just some text",
		},
		{
			name:   "emphasis stripped",
			source: "this is **bold** and *italic*",
			want:   "this is bold and italic",
		},
		{
			name:   "strikethrough stripped",
			source: "~~gone~~ still here",
			want:   "gone still here",
		},
		{
			name:   "heading prefix stripped",
			source: "# Title\n\nbody",
			want:   "Title\nbody",
		},
		{
			name:   "inline code backticks stripped",
			source: "run `go build` first",
			want:   "run go build first",
		},
		{
			name:   "link keeps text",
			source: "see [the docs](https://example.com)",
			want:   "see the docs",
		},
		{
			name:   "list prefixes stripped",
			source: "- milk\n- eggs",
			want:   "milk\neggs",
		},
		{
			name:   "blockquote prefix stripped",
			source: "> quoted line",
			want:   "quoted line",
		},
		{
			name:   "fenced code kept verbatim",
			source: "```\nfmt.Println(\"hi\")\n```",
			want:   "fmt.Println(\"hi\")",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.source); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		s, substr string
		want      bool
	}{
		{"Grocery List", "grocery", true},
		{"grocery list", "GROCERY", true},
		{"grocery list", "bread", false},
		{"anything", "", true},
	}

	for _, tt := range tests {
		if got := ContainsFold(tt.s, tt.substr); got != tt.want {
			t.Errorf("ContainsFold(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.want)
		}
	}
}
