package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMetrics_Record tests the recording helpers
func TestMetrics_Record(t *testing.T) {
	m := NewMetrics()

	m.RecordFrameReceived()
	m.RecordFrameReceived()
	m.RecordFrameDropped()
	m.RecordMatch(-45)
	m.RecordTruncated()
	m.RecordUnrecognized(3)
	m.RecordMessage("BASIC_ID")
	m.RecordMessage("BASIC_ID")
	m.RecordMessage("LOCATION_VECTOR")
	m.RecordScan(nil)
	m.RecordScan(errors.New("radio busy"))
	m.SetScanState(2)
	m.RecordSinkError("store")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FramesReceived))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesMatched))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PacksTruncated))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SlotsUnrecognized))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Messages.WithLabelValues("BASIC_ID")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Messages.WithLabelValues("LOCATION_VECTOR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Scans.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Scans.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ScanState))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SinkErrors.WithLabelValues("store")))
}

// TestMetrics_IndependentRegistries tests that instances do not collide
func TestMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordFrameReceived()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.FramesReceived))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FramesReceived))
}

// TestMetrics_Handler tests the exposition endpoint
func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordMessage("SYSTEM")

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `odid_messages_total{type="SYSTEM"} 1`)
	assert.Contains(t, string(body), "odid_frames_received_total 0")
}
