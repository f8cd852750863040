package stream

import (
	"testing"
	"time"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed while expecting a value")
		}
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a value")
	}
	var zero T
	return zero
}

func TestSubscribeDeliversCurrentValueFirst(t *testing.T) {
	s := New[int]()
	s.Publish(42)

	sub := s.Subscribe()
	defer sub.Cancel()

	if got := recv(t, sub.C()); got != 42 {
		t.Errorf("initial value = %d, want 42", got)
	}

	s.Publish(43)
	if got := recv(t, sub.C()); got != 43 {
		t.Errorf("update = %d, want 43", got)
	}
}

func TestEmptyStreamDeliversNothingUntilPublish(t *testing.T) {
	s := New[string]()
	sub := s.Subscribe()
	defer sub.Cancel()

	select {
	case v := <-sub.C():
		t.Fatalf("unexpected value %q before first publish", v)
	case <-time.After(20 * time.Millisecond):
	}

	s.Publish("hello")
	if got := recv(t, sub.C()); got != "hello" {
		t.Errorf("got %q", got)
	}
}

func TestSlowSubscriberSeesNewestValue(t *testing.T) {
	s := New[int]()
	sub := s.Subscribe()
	defer sub.Cancel()

	// Nobody reading; intermediate values are conflated away.
	for i := 1; i <= 100; i++ {
		s.Publish(i)
	}

	if got := recv(t, sub.C()); got != 100 {
		t.Errorf("conflated value = %d, want 100", got)
	}
}

func TestCurrent(t *testing.T) {
	s := New[int]()
	if _, ok := s.Current(); ok {
		t.Error("empty stream reported a current value")
	}
	s.Publish(7)
	if v, ok := s.Current(); !ok || v != 7 {
		t.Errorf("Current() = %d, %v", v, ok)
	}
}

func TestCloseClosesSubscribers(t *testing.T) {
	s := New[int]()
	sub := s.Subscribe()
	s.Close()

	select {
	case _, ok := <-sub.C():
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}

	// Publishing after close is a no-op, not a panic.
	s.Publish(1)

	late := s.Subscribe()
	if _, ok := <-late.C(); ok {
		t.Error("subscription on a closed stream should be closed immediately")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	s := New[int]()
	sub := s.Subscribe()
	sub.Cancel()
	sub.Cancel()

	s.Publish(1)
	if _, ok := <-sub.C(); ok {
		t.Error("cancelled subscription received a value")
	}
}

func TestNotifierTicksAreOrdered(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	sub := n.Watch()
	defer sub.Cancel()

	n.Broadcast()
	first := recv(t, sub.C())

	n.Broadcast()
	n.Broadcast()
	second := recv(t, sub.C())

	if second <= first {
		t.Errorf("sequence went backwards: %d then %d", first, second)
	}
}
