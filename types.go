package inkwell

import (
	"log/slog"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
	"inkwell/internal/service"
	"inkwell/internal/stream"
)

// The implementation lives under internal/, which importers of this module
// cannot reach. Everything a caller needs to drive the App is aliased here.

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = domain.ErrNotFound
	ErrConflict   = domain.ErrConflict
	ErrValidation = domain.ErrValidation
)

type (
	// CycleError is returned when moving a folder under itself or one of
	// its descendants.
	CycleError = domain.CycleError
	// BackupError wraps a backup read or write failure.
	BackupError = domain.BackupError
)

// Entities and preference types.
type (
	Note           = models.Note
	ChecklistItem  = models.ChecklistItem
	NoteColor      = models.NoteColor
	Folder         = models.Folder
	FolderTreeNode = models.FolderTreeNode
	Tag            = models.Tag
	Settings       = models.Settings
	ThemeMode      = models.ThemeMode
	ViewMode       = models.ViewMode
	SortBy         = models.SortBy
	SortOrder      = models.SortOrder
)

const (
	ColorRed    = models.ColorRed
	ColorOrange = models.ColorOrange
	ColorYellow = models.ColorYellow
	ColorGreen  = models.ColorGreen
	ColorTeal   = models.ColorTeal
	ColorBlue   = models.ColorBlue
	ColorIndigo = models.ColorIndigo
	ColorPurple = models.ColorPurple
	ColorPink   = models.ColorPink
	ColorBrown  = models.ColorBrown
	ColorGray   = models.ColorGray
)

const (
	ThemeSystem = models.ThemeSystem
	ThemeLight  = models.ThemeLight
	ThemeDark   = models.ThemeDark

	ViewList = models.ViewList
	ViewGrid = models.ViewGrid

	SortByDateModified = models.SortByDateModified
	SortByDateCreated  = models.SortByDateCreated
	SortByTitle        = models.SortByTitle
	SortByColor        = models.SortByColor

	SortAscending  = models.SortAscending
	SortDescending = models.SortDescending
)

// DefaultSettings returns the preference defaults.
func DefaultSettings() Settings { return models.DefaultSettings() }

// NewChecklistItem creates an unchecked item with a fresh id.
func NewChecklistItem(text string) ChecklistItem { return models.NewChecklistItem(text) }

// Service interfaces and their request/response types, as carried on App.
type (
	FolderTreeService = services.FolderTreeService
	NoteService       = services.NoteService
	TagService        = services.TagService
	SettingsService   = services.SettingsService
	BackupService     = services.BackupService

	CreateFolderRequest = services.CreateFolderRequest
	UpdateFolderRequest = services.UpdateFolderRequest
	SaveNoteRequest     = services.SaveNoteRequest
	CreateTagRequest    = services.CreateTagRequest
	UpdateTagRequest    = services.UpdateTagRequest
	RestoreSummary      = services.RestoreSummary
)

// Sessions opened through App.OpenEditor and App.OpenSearch.
type (
	EditorSession        = service.EditorSession
	EditorSessionOptions = service.EditorSessionOptions
	SearchSession        = service.SearchSession
	SearchResult         = service.SearchResult
)

// Stream is the observable every Watch method and session returns:
// subscribers get the current value first, then conflated updates.
type (
	Stream[T any]       = stream.Stream[T]
	Subscription[T any] = stream.Subscription[T]
)

// Engine is the persistence contract behind an App, for NewWithEngine and
// advanced callers.
type Engine = repositories.Engine

// Config selects and tunes the persistence engine and logging.
type Config = config.Config

// LoadConfig reads configuration from the environment, after loading .env
// if one exists. An optional INKWELL_CONFIG yaml file provides base values
// the environment overrides.
func LoadConfig() *Config { return config.Load() }

// NewLogger builds the slog logger the services expect, per Config.
func NewLogger(cfg *Config) *slog.Logger { return config.NewLogger(cfg) }
