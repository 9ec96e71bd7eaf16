package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordPersistence(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordPersistence(nil)
	m.RecordPersistence(errors.New("insert failed"))
	m.RecordPersistence(errors.New("insert failed again"))

	if got := testutil.ToFloat64(m.PersistenceSuccesses); got != 1 {
		t.Errorf("Expected 1 persistence success, got %v", got)
	}

	if got := testutil.ToFloat64(m.PersistenceFailures); got != 2 {
		t.Errorf("Expected 2 persistence failures, got %v", got)
	}
}

func TestMetrics_RecordProviderCall(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordProviderCall(150*time.Millisecond, nil)
	m.RecordProviderCall(2*time.Second, errors.New("provider down"))

	if got := testutil.ToFloat64(m.ProviderRequests); got != 2 {
		t.Errorf("Expected 2 provider requests, got %v", got)
	}

	if got := testutil.ToFloat64(m.ProviderFailures); got != 1 {
		t.Errorf("Expected 1 provider failure, got %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(nil)
	m.RecordRequest(OutcomeSuccess)
	m.RecordRequest(OutcomeClientError)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `relay_transcribe_requests_total{outcome="success"} 1`) {
		t.Errorf("Expected success counter in exposition, got:\n%s", body)
	}

	if !strings.Contains(body, `relay_transcribe_requests_total{outcome="client_error"} 1`) {
		t.Errorf("Expected client_error counter in exposition, got:\n%s", body)
	}
}
