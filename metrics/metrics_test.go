package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCompletion_IncrementsCounterAndObservesHistogram(t *testing.T) {
	before := testutil.ToFloat64(completionsTotal.WithLabelValues("Naive"))
	RecordCompletion("Naive", 42)
	after := testutil.ToFloat64(completionsTotal.WithLabelValues("Naive"))

	assert.Equal(t, before+1, after)
}

func TestSetHeadPosition_UpdatesGauges(t *testing.T) {
	SetHeadPosition(7, 180)

	assert.Equal(t, float64(7), testutil.ToFloat64(headTrack))
	assert.Equal(t, float64(180), testutil.ToFloat64(headAngle))
}

func TestSetWebSocketConnections_UpdatesGauge(t *testing.T) {
	SetWebSocketConnections(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(websocketConnections))
}
