package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()

	c.Captured("E_WARNING", "warning")
	c.Captured("E_WARNING", "warning")
	c.Suppressed("E_NOTICE")
	c.FatalFaults.Inc()
	c.CacheMiss()
	c.CacheHit()
	c.CacheHit()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.FaultsCaptured.WithLabelValues("E_WARNING", "warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.FaultsSuppressed.WithLabelValues("E_NOTICE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.FatalFaults))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ContextCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ContextCache.WithLabelValues("miss")))

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestDefaultIsShared(t *testing.T) {
	ResetForTesting()
	t.Cleanup(ResetForTesting)

	assert.Same(t, Default(), Default())
}
