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

func TestCreateFolderValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.folders.CreateFolder(ctx, &services.CreateFolderRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.folders.CreateFolder(ctx, &services.CreateFolderRequest{
		Name:     "orphan",
		ParentID: ptr(int64(999)),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateFolderRejectsDuplicateSiblingName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	root := env.mustFolder(t, "Work", nil)

	_, err := env.folders.CreateFolder(ctx, &services.CreateFolderRequest{Name: "Work"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Same name under a different parent is fine.
	_, err = env.folders.CreateFolder(ctx, &services.CreateFolderRequest{
		Name:     "Work",
		ParentID: &root.ID,
	})
	assert.NoError(t, err)
}

func TestMoveRejectsCycles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.mustFolder(t, "a", nil)
	b := env.mustFolder(t, "b", &a.ID)
	c := env.mustFolder(t, "c", &b.ID)

	// Into itself.
	var cycleErr *domain.CycleError
	err := env.folders.Move(ctx, a.ID, &a.ID)
	require.ErrorAs(t, err, &cycleErr)

	// Under a deep descendant.
	err = env.folders.Move(ctx, a.ID, &c.ID)
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, a.ID, cycleErr.FolderID)
	assert.Equal(t, c.ID, cycleErr.NewParentID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Legal move: c up to the root.
	require.NoError(t, env.folders.Move(ctx, c.ID, nil))
	moved, err := env.folders.GetFolder(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)
}

func TestDeleteFolderCascadesAndUnfoldersNotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parent := env.mustFolder(t, "parent", nil)
	child := env.mustFolder(t, "child", &parent.ID)
	grandchild := env.mustFolder(t, "grandchild", &child.ID)

	inParent := env.mustNote(t, &services.SaveNoteRequest{Title: "p", FolderID: &parent.ID})
	inGrandchild := env.mustNote(t, &services.SaveNoteRequest{Title: "g", FolderID: &grandchild.ID})

	require.NoError(t, env.folders.DeleteFolder(ctx, parent.ID))

	for _, id := range []int64{parent.ID, child.ID, grandchild.ID} {
		_, err := env.folders.GetFolder(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}

	// The notes survive, unfoldered.
	for _, id := range []int64{inParent.ID, inGrandchild.ID} {
		note, err := env.notes.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, note.FolderID)
	}
}

func TestBuildTreeCountsAndNesting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	work := env.mustFolder(t, "Work", nil)
	ideas := env.mustFolder(t, "Ideas", &work.ID)
	env.mustFolder(t, "Personal", nil)

	env.mustNote(t, &services.SaveNoteRequest{Title: "one", FolderID: &work.ID})
	env.mustNote(t, &services.SaveNoteRequest{Title: "two", FolderID: &work.ID})
	archived := env.mustNote(t, &services.SaveNoteRequest{Title: "three", FolderID: &work.ID})
	require.NoError(t, env.notes.SetArchived(ctx, archived.ID, true))
	env.mustNote(t, &services.SaveNoteRequest{Title: "idea", FolderID: &ideas.ID})

	roots, err := env.folders.BuildTree(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	byName := map[string]int{}
	for _, root := range roots {
		byName[root.Name] = root.NotesCount
	}
	// Archived notes do not count.
	assert.Equal(t, 2, byName["Work"])
	assert.Equal(t, 0, byName["Personal"])

	for _, root := range roots {
		if root.Name != "Work" {
			continue
		}
		require.Len(t, root.Children, 1)
		assert.Equal(t, "Ideas", root.Children[0].Name)
		assert.Equal(t, 1, root.Children[0].NotesCount)
		assert.Equal(t, 1, root.Children[0].Depth)
	}
}

func TestFlattenRespectsCollapse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.mustFolder(t, "a", nil)
	b := env.mustFolder(t, "b", &a.ID)
	env.mustFolder(t, "c", &b.ID)
	env.mustFolder(t, "z", nil)

	// Everything expanded: all four rows visible.
	flat, err := env.folders.FlattenForDisplay(ctx)
	require.NoError(t, err)
	require.Len(t, flat, 4)
	assert.Equal(t, "a", flat[0].Folder.Name)
	assert.Equal(t, "b", flat[1].Folder.Name)
	assert.Equal(t, "c", flat[2].Folder.Name)
	assert.Equal(t, "z", flat[3].Folder.Name)
	assert.Equal(t, 2, flat[2].Depth)
	assert.False(t, flat[0].IsLastChild)
	assert.True(t, flat[3].IsLastChild)

	// Collapsing b hides c but keeps b itself visible.
	require.NoError(t, env.folders.ToggleExpanded(ctx, b.ID))
	flat, err = env.folders.FlattenForDisplay(ctx)
	require.NoError(t, err)
	require.Len(t, flat, 3)
	assert.Equal(t, []string{"a", "b", "z"}, flatNames(flat))

	// Collapsing a hides its whole subtree.
	require.NoError(t, env.folders.ToggleExpanded(ctx, a.ID))
	flat, err = env.folders.FlattenForDisplay(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "z"}, flatNames(flat))
}

func flatNames(flat []models.FolderTreeNode) []string {
	names := make([]string, 0, len(flat))
	for _, node := range flat {
		names = append(names, node.Folder.Name)
	}
	return names
}

func TestFolderWatchRepublishesOnChange(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env.mustFolder(t, "first", nil)

	tree := env.folders.WatchTree(ctx)
	sub := tree.Subscribe()
	defer sub.Cancel()

	initial := <-sub.C()
	require.Len(t, initial, 1)

	env.mustFolder(t, "second", nil)

	// The watcher re-derives on the change tick; drain until both roots
	// show up.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case roots, ok := <-sub.C():
			require.True(t, ok, "stream closed early")
			if len(roots) == 2 {
				return
			}
		case <-deadline:
			t.Fatal("watcher never saw the second folder")
		}
	}
}

func TestSearchFolders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustFolder(t, "Work Projects", nil)
	env.mustFolder(t, "Personal", nil)

	found, err := env.folders.SearchFolders(ctx, "work")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Work Projects", found[0].Name)
}
