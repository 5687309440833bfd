package chat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"
)

// Handler runs the line protocol for one connection at a time; one
// HandleSession call per accepted connection, each on its own goroutine.
type Handler struct {
	registry    *Registry
	broadcaster *Broadcaster
	teardown    *Teardown
	logger      *slog.Logger
	maxLine     int
}

func NewHandler(registry *Registry, broadcaster *Broadcaster, teardown *Teardown, logger *slog.Logger, maxLine int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry:    registry,
		broadcaster: broadcaster,
		teardown:    teardown,
		logger:      logger,
		maxLine:     maxLine,
	}
}

// HandleSession reads lines until EOF or a read error, then tears the
// session down and reports the handle on the teardown channel.
func (h *Handler) HandleSession(s *Session) {
	log := h.logger.With("conn", s.Handle.String(), "remote", remoteAddr(s.Conn))
	log.Debug("session started")

	defer h.finish(s, log)

	reader := bufio.NewReader(s.Conn)
	for {
		line, err := readLine(reader, h.maxLine)
		if err != nil {
			if !isExpectedClose(err) {
				log.Debug("read failed", "error", err)
			}
			return
		}
		h.dispatch(s, line, log)
	}
}

func (h *Handler) dispatch(s *Session, line string, log *slog.Logger) {
	start := time.Now()
	kind := h.handleLine(s, line, log)
	MessagesTotal.WithLabelValues(kind).Inc()
	EventProcessingDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (h *Handler) handleLine(s *Session, line string, log *slog.Logger) string {
	if !s.registered {
		nick, ok := ParseNick(line)
		if !ok {
			log.Info("line ignored without nickname")
			return "ignored"
		}
		s.Nickname = nick
		s.registered = true
		h.registry.Register(s.Handle, nick, s.peer)
		log.Info("user registered", "nickname", nick)
		h.broadcaster.Broadcast(s.Handle, nick, JoinNotice, true)
		return "nick"
	}

	if IsList(line) {
		if err := s.peer.WriteString(FormatList(h.registry.Nicknames())); err != nil {
			log.Debug("list reply failed", "error", err)
		}
		return "list"
	}

	h.broadcaster.Broadcast(s.Handle, s.Nickname, line, false)
	return "chat"
}

func (h *Handler) finish(s *Session, log *slog.Logger) {
	h.registry.Unregister(s.Handle)
	if s.registered {
		h.broadcaster.Broadcast(s.Handle, s.Nickname, LeaveNotice, true)
		log.Info("user left", "nickname", s.Nickname)
	}
	if err := s.Conn.Close(); err != nil && !isExpectedClose(err) {
		log.Debug("close failed", "error", err)
	}
	h.teardown.Send(s.Handle)
}

// readLine returns the next line without its terminator. Bytes beyond max
// are discarded up to the newline; max <= 0 means no limit. A final line
// without a newline is returned before io.EOF.
func readLine(r *bufio.Reader, max int) (string, error) {
	var buf []byte
	for {
		chunk, err := r.ReadSlice('\n')
		if max > 0 && len(buf)+len(chunk) > max {
			chunk = chunk[:max-len(buf)]
		}
		buf = append(buf, chunk...)

		switch {
		case err == nil:
			return trimTerminator(string(buf)), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && len(buf) > 0:
			return trimTerminator(string(buf)), nil
		case errors.Is(err, io.EOF):
			return "", io.EOF
		default:
			return "", fmt.Errorf("read: %w", err)
		}
	}
}

func isExpectedClose(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}

func remoteAddr(conn net.Conn) string {
	if conn == nil || conn.RemoteAddr() == nil {
		return ""
	}
	return conn.RemoteAddr().String()
}
