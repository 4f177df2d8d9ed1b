package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveImport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveImport(OutcomeImported, time.Now())
	m.ObserveImport(OutcomeImported, time.Now())
	m.ObserveImport(OutcomeDuplicate, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TemplatesImported.WithLabelValues(OutcomeImported)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TemplatesImported.WithLabelValues(OutcomeDuplicate)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ImportDuration))
}

func TestNewRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) }, "double registration must fail")

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
