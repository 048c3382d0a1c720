// Package metrics exposes Prometheus instrumentation for the simulator.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives engine events. The engine calls it on the dispatch
// path, so implementations must be cheap and non-blocking.
type Recorder interface {
	// ObserveDispatch records one completed dispatch by route name and
	// response status.
	ObserveDispatch(route string, status int)
	// RateLimited records one request denied by the rate limiter.
	RateLimited()
	// WebhookTriggered records one accepted webhook trigger.
	WebhookTriggered()
	// SetShipments records the current number of live shipments.
	SetShipments(n int)
}

// Nop is a Recorder that does nothing.
type Nop struct{}

func (Nop) ObserveDispatch(string, int) {}
func (Nop) RateLimited()                {}
func (Nop) WebhookTriggered()           {}
func (Nop) SetShipments(int)            {}

// Prom is a Recorder backed by Prometheus collectors.
type Prom struct {
	dispatches  *prometheus.CounterVec
	rateLimited prometheus.Counter
	webhooks    prometheus.Counter
	shipments   prometheus.Gauge
}

// NewProm creates a Prometheus recorder registered against reg.
func NewProm(reg prometheus.Registerer) *Prom {
	factory := promauto.With(reg)
	return &Prom{
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stubdock_dispatches_total",
			Help: "Dispatched requests by route and response status.",
		}, []string{"route", "status"}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "stubdock_rate_limited_total",
			Help: "Requests denied by the fixed-window rate limiter.",
		}),
		webhooks: factory.NewCounter(prometheus.CounterOpts{
			Name: "stubdock_webhook_events_total",
			Help: "Webhook events accepted into the audit log.",
		}),
		shipments: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stubdock_shipments_live",
			Help: "Current number of live shipments.",
		}),
	}
}

func (p *Prom) ObserveDispatch(route string, status int) {
	p.dispatches.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (p *Prom) RateLimited() {
	p.rateLimited.Inc()
}

func (p *Prom) WebhookTriggered() {
	p.webhooks.Inc()
}

func (p *Prom) SetShipments(n int) {
	p.shipments.Set(float64(n))
}
