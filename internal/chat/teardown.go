package chat

import "sync"

// Teardown carries handles of finished connections from handler goroutines
// to the coordinator. Send never blocks: handles are queued and a single
// wake token is posted on ready, like a self-pipe.
type Teardown struct {
	mu    sync.Mutex
	queue []Handle
	ready chan struct{}
}

func NewTeardown() *Teardown {
	return &Teardown{ready: make(chan struct{}, 1)}
}

func (t *Teardown) Send(h Handle) {
	t.mu.Lock()
	t.queue = append(t.queue, h)
	t.mu.Unlock()

	select {
	case t.ready <- struct{}{}:
	default:
		// a wake-up is already pending
	}
}

// Ready fires when at least one handle may be waiting in Drain.
func (t *Teardown) Ready() <-chan struct{} {
	return t.ready
}

// Drain returns and clears every queued handle. It may return nil after a
// wake-up whose handles were taken by an earlier Drain.
func (t *Teardown) Drain() []Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	q := t.queue
	t.queue = nil
	return q
}

func (t *Teardown) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.queue)
}
