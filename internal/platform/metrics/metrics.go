// Copyright (c) 2026 FormGrid. All rights reserved.

// Package metrics provides Prometheus collection and exposition for the
// authentication flow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface used by the auth service to record outcomes.
type Recorder interface {
	RecordLoginSuccess(accountType string)
	RecordLoginFailure(flag string)
	RecordLockout()
	RecordBootOut(flag string)
	RecordLogout()
}

// Collector implements [Recorder] using Prometheus metrics.
type Collector struct {
	loginSuccess *prometheus.CounterVec
	loginFailure *prometheus.CounterVec
	lockouts     prometheus.Counter
	bootOuts     *prometheus.CounterVec
	logouts      prometheus.Counter
}

// NewCollector creates a new Collector and registers its metrics with the
// provided registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "formgrid_login_success_total",
			Help: "Successful logins by account type.",
		}, []string{"account_type"}),
		loginFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "formgrid_login_failure_total",
			Help: "Failed logins by validation flag.",
		}, []string{"flag"}),
		lockouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "formgrid_account_lockouts_total",
			Help: "Client accounts disabled by the failed-login threshold.",
		}),
		bootOuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "formgrid_bootouts_total",
			Help: "Forced session invalidations by flag.",
		}, []string{"flag"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "formgrid_logouts_total",
			Help: "Explicit logout operations.",
		}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFailure,
		c.lockouts,
		c.bootOuts,
		c.logouts,
	)

	return c
}

// RecordLoginSuccess records a successful login.
func (c *Collector) RecordLoginSuccess(accountType string) {
	c.loginSuccess.WithLabelValues(accountType).Inc()
}

// RecordLoginFailure records a rejected login attempt.
func (c *Collector) RecordLoginFailure(flag string) {
	c.loginFailure.WithLabelValues(flag).Inc()
}

// RecordLockout records an account disabled by the lockout policy.
func (c *Collector) RecordLockout() {
	c.lockouts.Inc()
}

// RecordBootOut records a forced session invalidation.
func (c *Collector) RecordBootOut(flag string) {
	c.bootOuts.WithLabelValues(flag).Inc()
}

// RecordLogout records an explicit logout.
func (c *Collector) RecordLogout() {
	c.logouts.Inc()
}

// Handler returns the HTTP handler exposing the registry at /metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// NopRecorder discards all observations. Used in tests.
type NopRecorder struct{}

func (NopRecorder) RecordLoginSuccess(string) {}
func (NopRecorder) RecordLoginFailure(string) {}
func (NopRecorder) RecordLockout()            {}
func (NopRecorder) RecordBootOut(string)      {}
func (NopRecorder) RecordLogout()             {}
