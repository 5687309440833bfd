// Package client is an interactive line client for the chat relay. It
// forwards local input to the server, prints whatever the server sends and
// gives up after a configurable idle period.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/gookit/color"
)

type errorString string

func (e errorString) Error() string { return string(e) }

var (
	ErrIdleTimeout  = errorString("client: idle timeout")
	ErrServerClosed = errorString("client: server closed the connection")
)

const (
	joinSuffix  = " has joined the chat."
	leaveSuffix = " has left the chat."
	listHeader  = "Connected users:"
	listItem    = " - "
)

type Client struct {
	conn   net.Conn
	idle   time.Duration
	colors bool
	logger *slog.Logger
}

type Option func(c *Client)

// WithIdleTimeout ends Run when neither side has sent anything for d.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *Client) { c.idle = d }
}

func WithColors(enabled bool) Option {
	return func(c *Client) { c.colors = enabled }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(conn net.Conn, opts ...Option) *Client {
	c := &Client{conn: conn, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func Dial(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", addr, err)
	}
	return New(conn, opts...), nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Run pumps lines between in, the server and out until in is exhausted,
// the server hangs up, the idle timeout fires or ctx is done. The
// connection is closed on return.
func (c *Client) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	defer c.conn.Close()

	activity := make(chan struct{}, 1)
	errs := make(chan error, 2)
	touch := func() {
		select {
		case activity <- struct{}{}:
		default:
		}
	}

	go func() { errs <- c.upload(in, touch) }()
	go func() { errs <- c.download(out, touch) }()

	var idle <-chan time.Time
	var timer *time.Timer
	if c.idle > 0 {
		timer = time.NewTimer(c.idle)
		defer timer.Stop()
		idle = timer.C
	}

	for {
		select {
		case <-activity:
			if timer != nil {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(c.idle)
			}
		case err := <-errs:
			return err
		case <-idle:
			c.logger.Info("no activity, disconnecting", "idle", c.idle)
			return ErrIdleTimeout
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// upload returns nil when in is exhausted.
func (c *Client) upload(in io.Reader, touch func()) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		touch()
		if _, err := io.WriteString(c.conn, scanner.Text()+"\n"); err != nil {
			return fmt.Errorf("client: send: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("client: read input: %w", err)
	}
	return nil
}

func (c *Client) download(out io.Writer, touch func()) error {
	reader := bufio.NewReader(c.conn)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			touch()
			if _, werr := io.WriteString(out, c.render(line)); werr != nil {
				return fmt.Errorf("client: write output: %w", werr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrServerClosed
			}
			return fmt.Errorf("client: receive: %w", err)
		}
	}
}

func (c *Client) render(line string) string {
	if !c.colors {
		return line
	}
	text := strings.TrimSuffix(line, "\n")
	var styled string
	switch {
	case strings.HasSuffix(text, joinSuffix):
		styled = color.Green.Sprint(text)
	case strings.HasSuffix(text, leaveSuffix):
		styled = color.Yellow.Sprint(text)
	case text == listHeader, strings.HasPrefix(text, listItem):
		styled = color.Cyan.Sprint(text)
	default:
		return line
	}
	return styled + "\n"
}
