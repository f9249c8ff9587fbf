package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
)

// Collector counts signup activity. It satisfies signups.Recorder.
type Collector struct {
	signups      *prometheus.CounterVec
	skippedFull  *prometheus.CounterVec
	saveFailures prometheus.Counter
	adminDenied  prometheus.Counter
	loads        *prometheus.CounterVec
}

// NewCollector creates the counters and registers them with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cupvol_signups_total",
			Help: "Volunteer entries added, by day",
		}, []string{"day"}),
		skippedFull: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cupvol_signup_skipped_full_total",
			Help: "Requested days skipped because they were full",
		}, []string{"day"}),
		saveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cupvol_record_save_failures_total",
			Help: "Failed overwrites of the shared record",
		}),
		adminDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cupvol_admin_denied_total",
			Help: "Rejected admin passcode attempts",
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cupvol_record_load_total",
			Help: "Record loads at startup, by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.signups,
		c.skippedFull,
		c.saveFailures,
		c.adminDenied,
		c.loads,
	)

	return c
}

func (c *Collector) RecordSignup(day model.Day) {
	c.signups.WithLabelValues(string(day)).Inc()
}

func (c *Collector) RecordSkippedFull(day model.Day) {
	c.skippedFull.WithLabelValues(string(day)).Inc()
}

func (c *Collector) RecordSaveFailure() {
	c.saveFailures.Inc()
}

func (c *Collector) RecordAdminDenied() {
	c.adminDenied.Inc()
}

func (c *Collector) RecordLoad(outcome string) {
	c.loads.WithLabelValues(outcome).Inc()
}

// Handler serves the gathered metrics for scraping
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
