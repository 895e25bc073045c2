// Package notifier provides a broadcast primitive for SSE updates.
package notifier

import "sync"

// Notifier fans out change pings to subscribed SSE connections. A ping
// carries no payload; receivers re-read the session store on wake.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe registers a listener and returns its channel together with
// an unsubscribe function. The unsubscribe function must be called when
// the connection ends.
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		delete(n.listeners, ch)
		n.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

// Broadcast wakes every listener. A listener whose buffer is already
// full is skipped; it will pick up the change on its next read.
func (n *Notifier) Broadcast() {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len reports the number of active listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
