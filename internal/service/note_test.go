package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
)

func TestSaveDerivesPlainText(t *testing.T) {
	env := newTestEnv(t)

	note := env.mustNote(t, &services.SaveNoteRequest{
		Title:   "Readme",
		Content: "# Heading\n\nsome **bold** text",
	})
	assert.Equal(t, "Heading\nsome bold text", note.PlainTextContent)

	checklist := env.mustNote(t, &services.SaveNoteRequest{
		Title:       "Groceries",
		IsChecklist: true,
		ChecklistItems: []models.ChecklistItem{
			models.NewChecklistItem("milk"),
			models.NewChecklistItem("eggs"),
		},
	})
	assert.Equal(t, "milk\neggs", checklist.PlainTextContent)
}

func TestSaveElidesEmptyDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// An empty new draft is never created.
	note, err := env.notes.Save(ctx, &services.SaveNoteRequest{Title: "  ", Content: ""})
	require.NoError(t, err)
	assert.Nil(t, note)

	count, err := env.notes.CountActive(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Saving an existing note down to nothing deletes it.
	existing := env.mustNote(t, &services.SaveNoteRequest{Title: "keep me"})
	note, err = env.notes.Save(ctx, &services.SaveNoteRequest{ID: existing.ID})
	require.NoError(t, err)
	assert.Nil(t, note)

	_, err = env.notes.Get(ctx, existing.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveReplacesTagLinks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	urgent, err := env.tags.GetOrCreate(ctx, "urgent")
	require.NoError(t, err)
	later, err := env.tags.GetOrCreate(ctx, "later")
	require.NoError(t, err)

	note := env.mustNote(t, &services.SaveNoteRequest{
		Title:  "tagged",
		TagIDs: []int64{urgent.ID},
	})
	require.Len(t, note.Tags, 1)
	assert.Equal(t, "urgent", note.Tags[0].Name)

	// Re-saving with a different tag set replaces the links.
	note = env.mustNote(t, &services.SaveNoteRequest{
		ID:     note.ID,
		Title:  "tagged",
		TagIDs: []int64{later.ID},
	})
	require.Len(t, note.Tags, 1)
	assert.Equal(t, "later", note.Tags[0].Name)
}

func TestLifecycleTransitionsKeepPartitionsExclusive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	note := env.mustNote(t, &services.SaveNoteRequest{Title: "subject"})
	require.NoError(t, env.notes.SetPinned(ctx, note.ID, true))

	// Archiving clears the pin.
	require.NoError(t, env.notes.SetArchived(ctx, note.ID, true))
	got, err := env.notes.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)
	assert.False(t, got.IsPinned)
	assert.False(t, got.IsInTrash)

	// Trashing clears the archive flag and stamps trashedAt.
	require.NoError(t, env.notes.MoveToTrash(ctx, note.ID))
	got, err = env.notes.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.True(t, got.IsInTrash)
	assert.False(t, got.IsArchived)
	require.NotNil(t, got.TrashedAt)

	// Restoring clears the trash state completely.
	require.NoError(t, env.notes.RestoreFromTrash(ctx, note.ID))
	got, err = env.notes.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.False(t, got.IsInTrash)
	assert.Nil(t, got.TrashedAt)
}

func TestTrashLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	keep := env.mustNote(t, &services.SaveNoteRequest{Title: "keep"})
	toss := env.mustNote(t, &services.SaveNoteRequest{Title: "toss"})

	require.NoError(t, env.notes.MoveToTrash(ctx, toss.ID))

	trashed, err := env.notes.ListTrashed(ctx)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.Equal(t, toss.ID, trashed[0].ID)

	active, err := env.notes.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, keep.ID, active[0].ID)

	deleted, err := env.notes.EmptyTrash(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = env.notes.Get(ctx, toss.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	count, err := env.notes.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSweepExpiredTrash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	old := env.mustNote(t, &services.SaveNoteRequest{Title: "old"})
	fresh := env.mustNote(t, &services.SaveNoteRequest{Title: "fresh"})

	require.NoError(t, env.notes.MoveToTrash(ctx, old.ID))
	require.NoError(t, env.notes.MoveToTrash(ctx, fresh.ID))

	// Backdate the first note past the 30-day default retention.
	stored, err := env.engine.Notes().GetByID(ctx, old.ID)
	require.NoError(t, err)
	expired := time.Now().UnixMilli() - 31*24*time.Hour.Milliseconds()
	stored.TrashedAt = &expired
	require.NoError(t, env.engine.Notes().Update(ctx, stored))

	deleted, err := env.notes.SweepExpiredTrash(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = env.notes.Get(ctx, old.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.notes.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	folder := env.mustFolder(t, "Work", nil)
	tag, err := env.tags.GetOrCreate(ctx, "urgent")
	require.NoError(t, err)

	original := env.mustNote(t, &services.SaveNoteRequest{
		Title:    "Plan",
		Content:  "details",
		FolderID: &folder.ID,
		Color:    ptr(models.ColorBlue),
		TagIDs:   []int64{tag.ID},
	})
	require.NoError(t, env.notes.SetPinned(ctx, original.ID, true))

	copied, err := env.notes.Duplicate(ctx, original.ID)
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, copied.ID)
	assert.Equal(t, "Plan (Copy)", copied.Title)
	assert.Equal(t, "details", copied.Content)
	assert.False(t, copied.IsPinned, "a duplicate is never pinned")
	require.NotNil(t, copied.FolderID)
	assert.Equal(t, folder.ID, *copied.FolderID)
	require.NotNil(t, copied.Color)
	assert.Equal(t, models.ColorBlue, *copied.Color)
	require.Len(t, copied.Tags, 1)
	assert.Equal(t, "urgent", copied.Tags[0].Name)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustNote(t, &services.SaveNoteRequest{Title: "Grocery list", Content: "milk and eggs"})
	env.mustNote(t, &services.SaveNoteRequest{Title: "Meeting notes", Content: "discuss groceries budget"})
	other := env.mustNote(t, &services.SaveNoteRequest{Title: "Unrelated", Content: "nothing here"})
	trashed := env.mustNote(t, &services.SaveNoteRequest{Title: "grocery receipt", Content: "old"})
	require.NoError(t, env.notes.MoveToTrash(ctx, trashed.ID))

	// Case-insensitive, matches title or body, excludes trash.
	found, err := env.notes.Search(ctx, "GROCER")
	require.NoError(t, err)
	assert.Len(t, found, 2)
	for _, n := range found {
		assert.NotEqual(t, trashed.ID, n.ID)
		assert.NotEqual(t, other.ID, n.ID)
	}

	// Blank queries return nothing.
	found, err = env.notes.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	percent := env.mustNote(t, &services.SaveNoteRequest{Title: "Deploy", Content: "rollout at 50% traffic"})
	env.mustNote(t, &services.SaveNoteRequest{Title: "Other", Content: "rollout at half traffic"})
	underscore := env.mustNote(t, &services.SaveNoteRequest{Title: "snake_case naming", Content: "style"})
	env.mustNote(t, &services.SaveNoteRequest{Title: "snakeXcase naming", Content: "style"})

	// % and _ are plain characters, not match-anything patterns.
	found, err := env.notes.Search(ctx, "50%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, percent.ID, found[0].ID)

	found, err = env.notes.Search(ctx, "snake_case")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, underscore.ID, found[0].ID)
}

func TestListActiveOrderingAndEnrichment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	folder := env.mustFolder(t, "Work", nil)

	plain := env.mustNote(t, &services.SaveNoteRequest{Title: "plain", FolderID: &folder.ID})
	pinned := env.mustNote(t, &services.SaveNoteRequest{Title: "pinned"})
	require.NoError(t, env.notes.SetPinned(ctx, pinned.ID, true))

	active, err := env.notes.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, pinned.ID, active[0].ID, "pinned notes come first")
	assert.Equal(t, "Work", active[1].FolderName)
	_ = plain
}

func TestSortForDisplay(t *testing.T) {
	env := newTestEnv(t)

	notes := []models.Note{
		{ID: 1, Title: "banana", CreatedAt: 30, UpdatedAt: 10},
		{ID: 2, Title: "apple", CreatedAt: 10, UpdatedAt: 30},
		{ID: 3, Title: "Cherry", CreatedAt: 20, UpdatedAt: 5, IsPinned: true},
		{ID: 4, Title: "date", CreatedAt: 40, UpdatedAt: 50, IsPinned: true},
	}

	ids := func(sorted []models.Note) []int64 {
		out := make([]int64, 0, len(sorted))
		for _, n := range sorted {
			out = append(out, n.ID)
		}
		return out
	}

	// Pinned partition always leads, newest update first, regardless of key.
	byTitle := env.notes.SortForDisplay(notes, models.SortByTitle, models.SortAscending)
	assert.Equal(t, []int64{4, 3, 2, 1}, ids(byTitle))

	byModifiedDesc := env.notes.SortForDisplay(notes, models.SortByDateModified, models.SortDescending)
	assert.Equal(t, []int64{4, 3, 2, 1}, ids(byModifiedDesc))

	byCreatedAsc := env.notes.SortForDisplay(notes, models.SortByDateCreated, models.SortAscending)
	assert.Equal(t, []int64{4, 3, 2, 1}, ids(byCreatedAsc))

	byCreatedDesc := env.notes.SortForDisplay(notes, models.SortByDateCreated, models.SortDescending)
	assert.Equal(t, []int64{4, 3, 1, 2}, ids(byCreatedDesc))

	// Input order is untouched.
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(notes))
}

func TestWatchActiveSeesMutations(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env.mustNote(t, &services.SaveNoteRequest{Title: "first"})

	active := env.notes.WatchActive(ctx)
	sub := active.Subscribe()
	defer sub.Cancel()

	initial := <-sub.C()
	require.Len(t, initial, 1)

	env.mustNote(t, &services.SaveNoteRequest{Title: "second"})

	deadline := time.After(2 * time.Second)
	for {
		select {
		case notes, ok := <-sub.C():
			require.True(t, ok, "stream closed early")
			if len(notes) == 2 {
				return
			}
		case <-deadline:
			t.Fatal("watcher never saw the second note")
		}
	}
}
