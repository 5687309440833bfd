package chat

import (
	"net"
	"time"

	"github.com/google/uuid"
)

// Handle identifies one accepted connection for its whole lifetime.
type Handle = uuid.UUID

func NewHandle() Handle {
	return uuid.New()
}

// Session is the per-connection state. Nickname and the registered flag
// belong to the handler goroutine; nothing else reads them.
type Session struct {
	Handle   Handle
	Conn     net.Conn
	Nickname string

	peer       *peer
	registered bool
}

func NewSession(conn net.Conn, writeTimeout time.Duration) *Session {
	return &Session{
		Handle: NewHandle(),
		Conn:   conn,
		peer:   newPeer(conn, writeTimeout),
	}
}

// Registered reports whether the session has completed #nick.
func (s *Session) Registered() bool {
	return s.registered
}

type errorString string

func (e errorString) Error() string { return string(e) }

var (
	ErrServerClosed     = errorString("chat: server closed")
	ErrListenerRequired = errorString("chat: listener is required")
	ErrAlreadyStarted   = errorString("chat: server already started")
)
