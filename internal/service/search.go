package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bep/debounce"

	"inkwell/internal/config"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/stream"
)

// SearchResult pairs a query with the notes that matched it.
type SearchResult struct {
	Query string
	Notes []models.Note
}

// SearchSession debounces note searches as the user types. Results are
// last-query-wins: a slow search for an old query never overwrites the
// results of a newer one.
type SearchSession struct {
	notes   services.NoteService
	logger  *slog.Logger
	results *stream.Stream[SearchResult]

	debounced  func(func())
	generation atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
}

// NewSearchSession opens a search session. A zero delay uses the default
// debounce window.
func NewSearchSession(ctx context.Context, notes services.NoteService, logger *slog.Logger, delay time.Duration) *SearchSession {
	if delay <= 0 {
		delay = config.SearchDebounce
	}
	sessionCtx, cancel := context.WithCancel(ctx)
	return &SearchSession{
		notes:     notes,
		logger:    logger,
		results:   stream.New[SearchResult](),
		debounced: debounce.New(delay),
		ctx:       sessionCtx,
		cancel:    cancel,
	}
}

// SetQuery schedules a search after the debounce window. Typing again
// within the window replaces the pending search.
func (s *SearchSession) SetQuery(query string) {
	gen := s.generation.Add(1)

	if query == "" {
		// Clearing the box clears results immediately, no debounce.
		s.results.Publish(SearchResult{})
		return
	}

	s.debounced(func() {
		go s.run(gen, query)
	})
}

func (s *SearchSession) run(gen uint64, query string) {
	notes, err := s.notes.Search(s.ctx, query)
	if err != nil {
		if s.ctx.Err() == nil {
			s.logger.Error("search failed", "query", query, "error", err)
		}
		return
	}
	// Discard if a newer query took over while this one ran.
	if s.generation.Load() != gen {
		return
	}
	s.results.Publish(SearchResult{Query: query, Notes: notes})
}

// Results is the stream search results arrive on.
func (s *SearchSession) Results() *stream.Stream[SearchResult] {
	return s.results
}

// Close stops the session; pending debounced searches are abandoned.
func (s *SearchSession) Close() {
	s.generation.Add(1)
	s.cancel()
	s.results.Close()
}
