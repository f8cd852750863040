package models

import "testing"

func TestSettingsNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want func(Settings) bool
	}{
		{
			name: "font size clamped down",
			in:   Settings{EditorFontSize: 99},
			want: func(s Settings) bool { return s.EditorFontSize == MaxEditorFontSize },
		},
		{
			name: "font size clamped up",
			in:   Settings{EditorFontSize: 4},
			want: func(s Settings) bool { return s.EditorFontSize == MinEditorFontSize },
		},
		{
			name: "unknown enums backfilled",
			in:   Settings{ThemeMode: "NEON", SortBy: "RANDOM", SortOrder: "SIDEWAYS", ViewMode: "CUBE"},
			want: func(s Settings) bool {
				return s.ThemeMode == ThemeSystem &&
					s.SortBy == SortByDateModified &&
					s.SortOrder == SortDescending &&
					s.ViewMode == ViewList
			},
		},
		{
			name: "non-positive intervals restored",
			in:   Settings{AutoSaveIntervalSeconds: 0, TrashRetentionDays: -3},
			want: func(s Settings) bool {
				return s.AutoSaveIntervalSeconds == 5 && s.TrashRetentionDays == 30
			},
		},
		{
			name: "valid snapshot untouched",
			in: Settings{
				ThemeMode: ThemeDark, ViewMode: ViewGrid,
				SortBy: SortByTitle, SortOrder: SortAscending,
				EditorFontSize: 18, AutoSaveIntervalSeconds: 10, TrashRetentionDays: 7,
			},
			want: func(s Settings) bool {
				return s.ThemeMode == ThemeDark && s.ViewMode == ViewGrid &&
					s.SortBy == SortByTitle && s.SortOrder == SortAscending &&
					s.EditorFontSize == 18
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalized(); !tt.want(got) {
				t.Errorf("Normalized() = %+v", got)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	d := DefaultSettings()
	if !d.AutoSave || d.AutoSaveIntervalSeconds != 5 {
		t.Errorf("auto-save defaults wrong: %+v", d)
	}
	if d.TrashRetentionDays != 30 || d.EditorFontSize != 16 {
		t.Errorf("retention/font defaults wrong: %+v", d)
	}
	if d.ThemeMode != ThemeSystem || d.ViewMode != ViewList ||
		d.SortBy != SortByDateModified || d.SortOrder != SortDescending {
		t.Errorf("enum defaults wrong: %+v", d)
	}
}
