package daemon

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jnylund/vartija/internal/engine"
)

func TestMetricsObserveSuccessfulRun(t *testing.T) {
	m := NewMetrics()

	m.Observe(&engine.Report{
		Created: []string{"snap-1", "snap-2"},
		Deleted: []string{"snap-3"},
		Errors:  []error{errors.New("delete failed")},
	}, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.failures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.creates))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deletes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors))
}

func TestMetricsObserveFatalRun(t *testing.T) {
	m := NewMetrics()

	m.Observe(nil, errors.New("config error"))

	assert.Equal(t, 0.0, testutil.ToFloat64(m.runs))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures))
}
