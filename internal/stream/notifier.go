package stream

import "sync/atomic"

// Notifier is the change-tick fan-out a persistence engine uses to tell
// derived views that some row changed. Ticks carry a monotonically
// increasing sequence number; within one subscription they arrive in order.
type Notifier struct {
	seq    atomic.Uint64
	stream *Stream[uint64]
}

func NewNotifier() *Notifier {
	return &Notifier{stream: New[uint64]()}
}

// Broadcast publishes the next change sequence number.
func (n *Notifier) Broadcast() {
	n.stream.Publish(n.seq.Add(1))
}

// Watch subscribes to change ticks.
func (n *Notifier) Watch() *Subscription[uint64] {
	return n.stream.Subscribe()
}

// Close terminates all watchers.
func (n *Notifier) Close() {
	n.stream.Close()
}
