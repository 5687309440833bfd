package chat

import (
	"errors"
	"net"
	"os"
	"sync"
	"time"
)

// peer serializes writes to one connection so a private reply never
// interleaves with a broadcast line.
type peer struct {
	mu      sync.Mutex
	conn    net.Conn
	timeout time.Duration
}

func newPeer(conn net.Conn, timeout time.Duration) *peer {
	return &peer{conn: conn, timeout: timeout}
}

// Write sends b in one call. A write that hits its deadline may have left a
// partial line on the wire, so the connection is closed and the peer's own
// handler tears the session down.
func (p *peer) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timeout > 0 {
		if err := p.conn.SetWriteDeadline(time.Now().Add(p.timeout)); err != nil {
			return 0, err
		}
	}
	n, err := p.conn.Write(b)
	if err != nil && errors.Is(err, os.ErrDeadlineExceeded) {
		_ = p.conn.Close()
	}
	return n, err
}

func (p *peer) WriteString(s string) error {
	_, err := p.Write([]byte(s))
	return err
}
