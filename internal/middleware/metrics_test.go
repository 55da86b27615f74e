package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type spyStatusRecorder struct {
	recorded []int
}

func (s *spyStatusRecorder) RecordHTTPStatus(statusCode int) {
	s.recorded = append(s.recorded, statusCode)
}

func TestMetricsMiddleware_RecordsStatus(t *testing.T) {
	spy := &spyStatusRecorder{}
	handler := NewMetricsMiddleware(spy)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	req := httptest.NewRequest(http.MethodGet, "/callback", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if len(spy.recorded) != 1 || spy.recorded[0] != http.StatusUnauthorized {
		t.Errorf("recorded = %v, want [%d]", spy.recorded, http.StatusUnauthorized)
	}
}

func TestMetricsMiddleware_RecordsImplicit200(t *testing.T) {
	spy := &spyStatusRecorder{}
	handler := NewMetricsMiddleware(spy)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if len(spy.recorded) != 1 || spy.recorded[0] != http.StatusOK {
		t.Errorf("recorded = %v, want [%d]", spy.recorded, http.StatusOK)
	}
}
