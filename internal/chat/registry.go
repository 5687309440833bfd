package chat

import (
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/samber/lo"
)

type member struct {
	nick string
	out  io.Writer
}

// Registry is the set of sessions that completed #nick and have not yet
// been torn down. Every read and write of the map happens under mu.
type Registry struct {
	mu       sync.Mutex
	sessions map[Handle]member
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[Handle]member),
		logger:   logger,
	}
}

// Register inserts or overwrites the entry for h.
func (r *Registry) Register(h Handle, nick string, out io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[h] = member{nick: nick, out: out}
	RegisteredSessions.Set(float64(len(r.sessions)))
	r.logger.Debug("registry insert", "conn", h.String(), "nickname", nick, "size", len(r.sessions))
}

// Unregister removes h if present. Removing an absent handle is a no-op;
// the returned bool reports whether anything was removed.
func (r *Registry) Unregister(h Handle) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.sessions[h]
	if !ok {
		return "", false
	}
	delete(r.sessions, h)
	RegisteredSessions.Set(float64(len(r.sessions)))
	r.logger.Debug("registry remove", "conn", h.String(), "nickname", m.nick, "size", len(r.sessions))
	return m.nick, true
}

func (r *Registry) Contains(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[h]
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Snapshot returns a copy of handle -> nickname taken under the lock.
func (r *Registry) Snapshot() map[Handle]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return lo.MapValues(r.sessions, func(m member, _ Handle) string {
		return m.nick
	})
}

// Nicknames returns the registered nicknames, sorted. Duplicates are kept.
func (r *Registry) Nicknames() []string {
	names := lo.Values(r.Snapshot())
	sort.Strings(names)
	return names
}

// fanOut calls f for every member while holding the lock. f must not call
// back into the registry.
func (r *Registry) fanOut(f func(h Handle, nick string, out io.Writer)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for h, m := range r.sessions {
		f(h, m.nick, m.out)
	}
}
