package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/channels", http.StatusOK, 15*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/channels", http.StatusOK, 5*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)
	m.ObserveBotCommand("play", "ok")
	m.ObserveBotCommand("play", "invalid_source")
	m.ObserveEvent("channel.created", nil)
	m.ObserveEvent("channel.created", errors.New("broker down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/channels", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.botCommands.WithLabelValues("play", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.botCommands.WithLabelValues("play", "invalid_source")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues("channel.created", "error")))
}

func TestMetrics_Gauges(t *testing.T) {
	m := New()

	m.SetCatalogSize(50)
	m.SetQueueLength("music-bot-004", 3)
	m.SetQueueLength("music-bot-004", 2)

	assert.Equal(t, 50.0, testutil.ToFloat64(m.catalogSize))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.queueLength.WithLabelValues("music-bot-004")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.SetCatalogSize(12)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "corvid_catalog_channels 12")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.SetCatalogSize(1)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.catalogSize))
}
