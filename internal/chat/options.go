package chat

import (
	"fmt"
	"time"
)

const (
	defaultMaxLineLength   = 4096
	defaultShutdownTimeout = 5 * time.Second
	acceptBackoff          = 50 * time.Millisecond
)

type Option func(s *Server) error

// WithWriteTimeout bounds every write to a peer. Zero disables the deadline,
// in which case a stalled peer can hold up a broadcast indefinitely.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		if timeout < 0 {
			return fmt.Errorf("chat.WithWriteTimeout: invalid timeout (%v)", timeout)
		}
		s.writeTimeout = timeout
		return nil
	}
}

// WithMaxLineLength truncates incoming lines to n bytes. Zero means no limit.
func WithMaxLineLength(n int) Option {
	return func(s *Server) error {
		if n < 0 {
			return fmt.Errorf("chat.WithMaxLineLength: invalid length (%d)", n)
		}
		s.maxLine = n
		return nil
	}
}

func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		if timeout <= 0 {
			return fmt.Errorf("chat.WithShutdownTimeout: invalid timeout (%v)", timeout)
		}
		s.shutdownTimeout = timeout
		return nil
	}
}
