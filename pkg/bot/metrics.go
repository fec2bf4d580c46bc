package bot

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the bot's counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	commands    *prometheus.CounterVec
	denied      prometheus.Counter
	helpHints   prometheus.Counter
	opened      prometheus.Counter
	closed      prometheus.Counter
	storeWrites prometheus.Counter
}

// NewMetrics creates and registers the counters.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticketbot_commands_total",
			Help: "Commands dispatched, by operation.",
		}, []string{"op"}),
		denied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticketbot_denied_total",
			Help: "Messages answered with the not-allowed notice.",
		}),
		helpHints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticketbot_help_hints_total",
			Help: "Usage hints sent for messages that matched no command.",
		}),
		opened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticketbot_tickets_opened_total",
			Help: "Tickets opened.",
		}),
		closed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticketbot_tickets_closed_total",
			Help: "Tickets closed with a record.",
		}),
		storeWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticketbot_store_writes_total",
			Help: "Durable store document writes.",
		}),
	}
	m.registry.MustRegister(m.commands, m.denied, m.helpHints, m.opened, m.closed, m.storeWrites)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// TicketOpened implements ticket.Observer.
func (m *Metrics) TicketOpened() { m.opened.Inc() }

// TicketClosed implements ticket.Observer.
func (m *Metrics) TicketClosed() { m.closed.Inc() }

// StoreWrite is passed to store.WithPersistHook.
func (m *Metrics) StoreWrite() { m.storeWrites.Inc() }

func (m *Metrics) command(op string) { m.commands.WithLabelValues(op).Inc() }
func (m *Metrics) deny()             { m.denied.Inc() }
func (m *Metrics) hint()             { m.helpHints.Inc() }
