package config

import "time"

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in VARCHAR(255) and provide reasonable UX
	// (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxTagNameLength is the maximum length for tag names. Same bound as
	// folder names for consistency.
	MaxTagNameLength = 255

	// MaxNoteTitleLength is the maximum length for note titles.
	MaxNoteTitleLength = 255

	// SearchDebounce is how long the search input must be quiet before a
	// backing query actually runs.
	SearchDebounce = 300 * time.Millisecond

	// AutoSaveInactivity is how long after the last edit an editing
	// session schedules a save.
	AutoSaveInactivity = 3 * time.Second
)
