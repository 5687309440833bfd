package chat

import (
	"io"
	"log/slog"
)

// Broadcaster fans formatted lines out to registry members.
type Broadcaster struct {
	registry *Registry
	logger   *slog.Logger
}

func NewBroadcaster(registry *Registry, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{registry: registry, logger: logger}
}

// Broadcast writes "<nick>: <message>\n" to every registered session,
// skipping the sender's own connection unless includeSender is set.
// The registry lock is held for the whole fan-out so lines from one sender
// reach each recipient in order. A failed write only affects that
// recipient; its handler notices the dead connection on its next read.
// It returns the number of successful deliveries.
func (b *Broadcaster) Broadcast(sender Handle, nick, message string, includeSender bool) int {
	line := []byte(FormatLine(nick, message))

	delivered := 0
	b.registry.fanOut(func(h Handle, _ string, out io.Writer) {
		if !includeSender && h == sender {
			return
		}
		if _, err := out.Write(line); err != nil {
			BroadcastWrites.WithLabelValues("error").Inc()
			b.logger.Debug("broadcast write failed", "conn", h.String(), "error", err)
			return
		}
		BroadcastWrites.WithLabelValues("ok").Inc()
		delivered++
	})
	return delivered
}
