package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain"
	"inkwell/internal/domain/services"
)

func TestGetOrCreateIsCaseSensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.tags.GetOrCreate(ctx, "work")
	require.NoError(t, err)

	same, err := env.tags.GetOrCreate(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, first.ID, same.ID)

	// Differently-cased names are distinct tags.
	upper, err := env.tags.GetOrCreate(ctx, "Work")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, upper.ID)

	_, err = env.tags.GetOrCreate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateTagRejectsDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tags.CreateTag(ctx, &services.CreateTagRequest{Name: "urgent"})
	require.NoError(t, err)

	_, err = env.tags.CreateTag(ctx, &services.CreateTagRequest{Name: "urgent"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTagLinks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	note := env.mustNote(t, &services.SaveNoteRequest{Title: "n"})
	tag, err := env.tags.GetOrCreate(ctx, "urgent")
	require.NoError(t, err)

	require.NoError(t, env.tags.AddTagToNote(ctx, note.ID, tag.ID))
	// Linking twice is a no-op, not an error.
	require.NoError(t, env.tags.AddTagToNote(ctx, note.ID, tag.ID))

	tags, err := env.tags.TagsForNote(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	count, err := env.engine.Tags().CountNotesForTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, env.tags.RemoveTagFromNote(ctx, note.ID, tag.ID))
	tags, err = env.tags.TagsForNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestDeleteTagDropsLinks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	note := env.mustNote(t, &services.SaveNoteRequest{Title: "n"})
	tag, err := env.tags.GetOrCreate(ctx, "doomed")
	require.NoError(t, err)
	require.NoError(t, env.tags.AddTagToNote(ctx, note.ID, tag.ID))

	require.NoError(t, env.tags.DeleteTag(ctx, tag.ID))

	// The note survives with no tags; the tag is gone.
	got, err := env.notes.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	_, err = env.tags.GetTag(ctx, tag.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteNoteDropsLinks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	note := env.mustNote(t, &services.SaveNoteRequest{Title: "n"})
	tag, err := env.tags.GetOrCreate(ctx, "survivor")
	require.NoError(t, err)
	require.NoError(t, env.tags.AddTagToNote(ctx, note.ID, tag.ID))

	require.NoError(t, env.notes.Delete(ctx, note.ID))

	count, err := env.engine.Tags().CountNotesForTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListTagsCarriesCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.mustNote(t, &services.SaveNoteRequest{Title: "a"})
	b := env.mustNote(t, &services.SaveNoteRequest{Title: "b"})

	busy, err := env.tags.GetOrCreate(ctx, "busy")
	require.NoError(t, err)
	_, err = env.tags.GetOrCreate(ctx, "idle")
	require.NoError(t, err)

	require.NoError(t, env.tags.AddTagToNote(ctx, a.ID, busy.ID))
	require.NoError(t, env.tags.AddTagToNote(ctx, b.ID, busy.ID))

	tags, err := env.tags.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	// Ordered by name: busy, idle.
	assert.Equal(t, "busy", tags[0].Name)
	assert.Equal(t, 2, tags[0].NotesCount)
	assert.Equal(t, "idle", tags[1].Name)
	assert.Zero(t, tags[1].NotesCount)
}

func TestUpdateTagRename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tag, err := env.tags.GetOrCreate(ctx, "old")
	require.NoError(t, err)
	taken, err := env.tags.GetOrCreate(ctx, "taken")
	require.NoError(t, err)

	renamed, err := env.tags.UpdateTag(ctx, tag.ID, &services.UpdateTagRequest{Name: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", renamed.Name)

	_, err = env.tags.UpdateTag(ctx, tag.ID, &services.UpdateTagRequest{Name: &taken.Name})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
