// Copyright (c) 2026 FormGrid. All rights reserved.

package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/formgrid/formgrid/internal/platform/metrics"
)

/*
TestCollector_Counters verifies that each recorder method increments the
expected series.
*/
func TestCollector_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	collector.RecordLoginSuccess("client")
	collector.RecordLoginSuccess("client")
	collector.RecordLoginFailure("wrong_password")
	collector.RecordLockout()
	collector.RecordBootOut("invalid_permissions")
	collector.RecordLogout()

	families, err := registry.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)

	count, err := testutil.GatherAndCount(registry,
		"formgrid_login_success_total",
		"formgrid_login_failure_total",
		"formgrid_account_lockouts_total",
		"formgrid_bootouts_total",
		"formgrid_logouts_total",
	)
	assert.NoError(t, err)
	assert.Equal(t, 5, count)
}
