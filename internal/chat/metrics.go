package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connected_clients",
		Help: "Number of accepted connections not yet reconciled by the coordinator",
	})

	RegisteredSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_registered_sessions",
		Help: "Number of sessions that completed #nick",
	})

	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Total lines processed by type",
	}, []string{"type"})

	BroadcastWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_broadcast_writes_total",
		Help: "Per-recipient broadcast writes by result",
	}, []string{"result"})

	TeardownNotifications = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_teardown_notifications_total",
		Help: "Handles drained from the teardown channel",
	})

	AcceptErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_accept_errors_total",
		Help: "Failed accept calls on the listening socket",
	})

	EventProcessingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chat_event_processing_seconds",
		Help:    "Time to process each line type",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(ConnectedClients)
	prometheus.MustRegister(RegisteredSessions)
	prometheus.MustRegister(MessagesTotal)
	prometheus.MustRegister(BroadcastWrites)
	prometheus.MustRegister(TeardownNotifications)
	prometheus.MustRegister(AcceptErrors)
	prometheus.MustRegister(EventProcessingDuration)
}
