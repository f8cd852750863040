package models

// ThemeMode selects the app theme.
type ThemeMode string

const (
	ThemeSystem ThemeMode = "SYSTEM"
	ThemeLight  ThemeMode = "LIGHT"
	ThemeDark   ThemeMode = "DARK"
)

// ParseThemeMode falls back to ThemeSystem on unknown input.
func ParseThemeMode(s string) ThemeMode {
	switch ThemeMode(s) {
	case ThemeLight, ThemeDark:
		return ThemeMode(s)
	default:
		return ThemeSystem
	}
}

// ViewMode selects the note list presentation.
type ViewMode string

const (
	ViewList ViewMode = "LIST"
	ViewGrid ViewMode = "GRID"
)

func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == ViewGrid {
		return ViewGrid
	}
	return ViewList
}

// SortBy is the user's chosen sort key for unpinned notes.
type SortBy string

const (
	SortByDateModified SortBy = "DATE_MODIFIED"
	SortByDateCreated  SortBy = "DATE_CREATED"
	SortByTitle        SortBy = "TITLE"
	SortByColor        SortBy = "COLOR"
)

func ParseSortBy(s string) SortBy {
	switch SortBy(s) {
	case SortByDateCreated, SortByTitle, SortByColor:
		return SortBy(s)
	default:
		return SortByDateModified
	}
}

// SortOrder is the sort direction for the chosen key.
type SortOrder string

const (
	SortAscending  SortOrder = "ASCENDING"
	SortDescending SortOrder = "DESCENDING"
)

func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortAscending {
		return SortAscending
	}
	return SortDescending
}

// Editor font size bounds.
const (
	MinEditorFontSize = 12
	MaxEditorFontSize = 24
)

// Settings is the immutable preference snapshot. Updates go through the
// settings service, which normalizes and republishes a fresh snapshot.
type Settings struct {
	OnboardingCompleted     bool      `json:"onboardingCompleted" yaml:"onboarding_completed"`
	ThemeMode               ThemeMode `json:"themeMode" yaml:"theme_mode"`
	DynamicColors           bool      `json:"dynamicColors" yaml:"dynamic_colors"`
	ViewMode                ViewMode  `json:"viewMode" yaml:"view_mode"`
	SortBy                  SortBy    `json:"sortBy" yaml:"sort_by"`
	SortOrder               SortOrder `json:"sortOrder" yaml:"sort_order"`
	ShowNotePreview         bool      `json:"showNotePreview" yaml:"show_note_preview"`
	ShowNoteDate            bool      `json:"showNoteDate" yaml:"show_note_date"`
	ConfirmDelete           bool      `json:"confirmDelete" yaml:"confirm_delete"`
	AutoSave                bool      `json:"autoSave" yaml:"auto_save"`
	AutoSaveIntervalSeconds int       `json:"autoSaveIntervalSeconds" yaml:"auto_save_interval_seconds"`
	TrashRetentionDays      int       `json:"trashRetentionDays" yaml:"trash_retention_days"`
	DefaultFolderID         *int64    `json:"defaultFolderId" yaml:"default_folder_id"`
	EditorFontSize          int       `json:"editorFontSize" yaml:"editor_font_size"`
	ShowLineNumbers         bool      `json:"showLineNumbers" yaml:"show_line_numbers"`
	MarkdownPreview         bool      `json:"markdownPreview" yaml:"markdown_preview"`
}

// DefaultSettings returns the out-of-the-box snapshot.
func DefaultSettings() Settings {
	return Settings{
		ThemeMode:               ThemeSystem,
		DynamicColors:           true,
		ViewMode:                ViewList,
		SortBy:                  SortByDateModified,
		SortOrder:               SortDescending,
		ShowNotePreview:         true,
		ShowNoteDate:            true,
		ConfirmDelete:           true,
		AutoSave:                true,
		AutoSaveIntervalSeconds: 5,
		TrashRetentionDays:      30,
		EditorFontSize:          16,
	}
}

// Normalized clamps and back-fills fields so a snapshot read from storage is
// always usable.
func (s Settings) Normalized() Settings {
	s.ThemeMode = ParseThemeMode(string(s.ThemeMode))
	s.ViewMode = ParseViewMode(string(s.ViewMode))
	s.SortBy = ParseSortBy(string(s.SortBy))
	s.SortOrder = ParseSortOrder(string(s.SortOrder))
	if s.EditorFontSize < MinEditorFontSize {
		s.EditorFontSize = MinEditorFontSize
	}
	if s.EditorFontSize > MaxEditorFontSize {
		s.EditorFontSize = MaxEditorFontSize
	}
	if s.AutoSaveIntervalSeconds <= 0 {
		s.AutoSaveIntervalSeconds = 5
	}
	if s.TrashRetentionDays <= 0 {
		s.TrashRetentionDays = 30
	}
	return s
}
