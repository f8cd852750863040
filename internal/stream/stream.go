// Package stream provides a small push-based observable used to expose
// reactive query results: a subscriber receives the current value first,
// then every subsequent published value. Delivery is latest-wins - a slow
// subscriber observes the newest value, not every intermediate one.
package stream

import (
	"sync"

	"github.com/google/uuid"
)

// Stream holds a current value and fans published values out to subscribers.
// The zero value is not usable; create streams with New or NewWithValue.
type Stream[T any] struct {
	mu       sync.Mutex
	current  T
	hasValue bool
	subs     map[string]chan T
	closed   bool
}

// New creates an empty stream. Subscribers receive nothing until the first
// Publish.
func New[T any]() *Stream[T] {
	return &Stream[T]{subs: make(map[string]chan T)}
}

// NewWithValue creates a stream seeded with an initial value.
func NewWithValue[T any](v T) *Stream[T] {
	s := New[T]()
	s.current = v
	s.hasValue = true
	return s
}

// Publish replaces the current value and notifies all subscribers.
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.current = v
	s.hasValue = true
	for _, ch := range s.subs {
		send(ch, v)
	}
}

// send delivers v without blocking. A full subscriber buffer is drained
// first so the subscriber always ends up with the newest value.
func send[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

// Subscribe registers a new subscriber. If the stream carries a value, it is
// delivered immediately. The caller must Cancel the subscription when done.
func (s *Stream[T]) Subscribe() *Subscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan T, 1)
	if s.closed {
		close(ch)
		return &Subscription[T]{ch: ch}
	}

	id := uuid.NewString()
	s.subs[id] = ch
	if s.hasValue {
		ch <- s.current
	}
	return &Subscription[T]{stream: s, id: id, ch: ch}
}

// Current returns the current value and whether one has been published.
func (s *Stream[T]) Current() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.hasValue
}

// Close terminates the stream and closes every subscriber channel.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

// Subscription is a single subscriber's handle on a stream.
type Subscription[T any] struct {
	stream *Stream[T]
	id     string
	ch     chan T
	once   sync.Once
}

// C returns the channel values are delivered on. It is closed when the
// subscription is cancelled or the stream closes.
func (sub *Subscription[T]) C() <-chan T {
	return sub.ch
}

// Cancel removes the subscription. Safe to call more than once.
func (sub *Subscription[T]) Cancel() {
	sub.once.Do(func() {
		if sub.stream == nil {
			return
		}
		sub.stream.mu.Lock()
		defer sub.stream.mu.Unlock()
		if ch, ok := sub.stream.subs[sub.id]; ok {
			delete(sub.stream.subs, sub.id)
			close(ch)
		}
	})
}
