package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain/services"
)

func awaitResult(t *testing.T, sub <-chan SearchResult, match func(SearchResult) bool) SearchResult {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case r, ok := <-sub:
			require.True(t, ok, "results stream closed early")
			if match(r) {
				return r
			}
		case <-deadline:
			t.Fatal("timed out waiting for a search result")
		}
	}
}

func TestSearchSessionDebounces(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustNote(t, &services.SaveNoteRequest{Title: "grocery list", Content: "milk"})
	env.mustNote(t, &services.SaveNoteRequest{Title: "garden notes", Content: "tomatoes"})

	session := NewSearchSession(ctx, env.notes, testLogger(), 20*time.Millisecond)
	defer session.Close()

	sub := session.Results().Subscribe()
	defer sub.Cancel()

	// Rapid typing: only the final query runs.
	session.SetQuery("g")
	session.SetQuery("gr")
	session.SetQuery("groc")

	result := awaitResult(t, sub.C(), func(r SearchResult) bool { return r.Query != "" })
	assert.Equal(t, "groc", result.Query)
	require.Len(t, result.Notes, 1)
	assert.Equal(t, "grocery list", result.Notes[0].Title)
}

func TestSearchSessionClearsOnEmptyQuery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustNote(t, &services.SaveNoteRequest{Title: "findable"})

	session := NewSearchSession(ctx, env.notes, testLogger(), 10*time.Millisecond)
	defer session.Close()

	sub := session.Results().Subscribe()
	defer sub.Cancel()

	session.SetQuery("find")
	awaitResult(t, sub.C(), func(r SearchResult) bool { return len(r.Notes) == 1 })

	// Clearing the query clears results immediately and supersedes any
	// in-flight search.
	session.SetQuery("")
	result := awaitResult(t, sub.C(), func(r SearchResult) bool { return r.Query == "" })
	assert.Empty(t, result.Notes)

	// A pending debounced search for the old query must not resurface.
	time.Sleep(50 * time.Millisecond)
	current, ok := session.Results().Current()
	require.True(t, ok)
	assert.Equal(t, "", current.Query)
}

func TestSearchSessionLastQueryWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustNote(t, &services.SaveNoteRequest{Title: "alpha"})
	env.mustNote(t, &services.SaveNoteRequest{Title: "beta"})

	session := NewSearchSession(ctx, env.notes, testLogger(), 10*time.Millisecond)
	defer session.Close()

	sub := session.Results().Subscribe()
	defer sub.Cancel()

	session.SetQuery("alpha")
	time.Sleep(30 * time.Millisecond)
	session.SetQuery("beta")

	final := awaitResult(t, sub.C(), func(r SearchResult) bool { return r.Query == "beta" })
	require.Len(t, final.Notes, 1)
	assert.Equal(t, "beta", final.Notes[0].Title)

	// Whatever arrived last reflects the newest query.
	current, ok := session.Results().Current()
	require.True(t, ok)
	assert.Equal(t, "beta", current.Query)
}
