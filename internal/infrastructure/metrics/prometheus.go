// Package metrics contadores Prometheus de facturación y del libro.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/pedidos-api/internal/application/billing"
	"github.com/jhoicas/pedidos-api/internal/application/ledger"
)

var (
	_ billing.Metrics = (*Recorder)(nil)
	_ ledger.Metrics  = (*Recorder)(nil)
)

const namespace = "pedidos"

// Recorder agrupa los contadores en un registro propio.
type Recorder struct {
	registry      *prometheus.Registry
	webhookEvents *prometheus.CounterVec
	provisioning  *prometheus.CounterVec
	intentsSwept  *prometheus.CounterVec
	trialNotices  *prometheus.CounterVec
	ledgerEntries *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
}

// New registra los contadores y los colectores de proceso y runtime.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		webhookEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "webhook_events_total",
			Help:      "Eventos de webhook del proveedor por tipo y resultado.",
		}, []string{"event", "outcome"}),
		provisioning: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "provisioning_total",
			Help:      "Intentos de creación de suscripción por resultado.",
		}, []string{"outcome"}),
		intentsSwept: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "intents_swept_total",
			Help:      "Intenciones de aprovisionamiento resueltas por el barrido.",
		}, []string{"status"}),
		trialNotices: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "trial_notices_total",
			Help:      "Avisos de fin de prueba enviados.",
		}, []string{"kind"}),
		ledgerEntries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "entries_created_total",
			Help:      "Movimientos creados en el libro por origen.",
		}, []string{"source"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Solicitudes HTTP por ruta y código.",
		}, []string{"method", "route", "status"}),
	}
}

func (r *Recorder) WebhookEvent(event, outcome string) {
	if event == "" {
		event = "unknown"
	}
	r.webhookEvents.WithLabelValues(event, outcome).Inc()
}

func (r *Recorder) Provisioning(outcome string)      { r.provisioning.WithLabelValues(outcome).Inc() }
func (r *Recorder) IntentSwept(status string)        { r.intentsSwept.WithLabelValues(status).Inc() }
func (r *Recorder) TrialNotice(kind string)          { r.trialNotices.WithLabelValues(kind).Inc() }
func (r *Recorder) LedgerEntryCreated(source string) { r.ledgerEntries.WithLabelValues(source).Inc() }

// Registry para tests y colectores adicionales.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler expone /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
