package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordExtraction(t *testing.T) {
	m := New()
	m.RecordExtraction(3, nil)
	m.RecordExtraction(0, nil)
	m.RecordExtraction(0, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("error")))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.RecordMutation(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.MutationsTotal.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.MutationsTotal.WithLabelValues("ok")))
}
