package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/repository/memory"
)

// testEnv wires every service over a fresh in-memory engine.
type testEnv struct {
	engine   *memory.Engine
	folders  services.FolderTreeService
	notes    services.NoteService
	tags     services.TagService
	settings services.SettingsService
	backup   services.BackupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := testLogger()
	engine := memory.NewEngine()
	t.Cleanup(engine.Close)

	settings := NewSettingsService(engine, logger)
	return &testEnv{
		engine:   engine,
		folders:  NewFolderTreeService(engine, logger),
		notes:    NewNoteService(engine, settings, logger),
		tags:     NewTagService(engine, logger),
		settings: settings,
		backup:   NewBackupService(engine, logger),
	}
}

func (e *testEnv) mustFolder(t *testing.T, name string, parentID *int64) *models.Folder {
	t.Helper()
	folder, err := e.folders.CreateFolder(context.Background(), &services.CreateFolderRequest{
		Name:     name,
		ParentID: parentID,
	})
	if err != nil {
		t.Fatalf("create folder %q: %v", name, err)
	}
	return folder
}

func (e *testEnv) mustNote(t *testing.T, req *services.SaveNoteRequest) *models.Note {
	t.Helper()
	note, err := e.notes.Save(context.Background(), req)
	if err != nil {
		t.Fatalf("save note %q: %v", req.Title, err)
	}
	if note == nil {
		t.Fatalf("note %q was unexpectedly elided", req.Title)
	}
	return note
}

func ptr[T any](v T) *T { return &v }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
