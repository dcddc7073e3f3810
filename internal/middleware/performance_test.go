// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func TestPerformanceMonitor_Window(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(3, 0, zerolog.Nop())
	for i := int64(1); i <= 5; i++ {
		pm.RecordRequest(&RequestMetrics{Route: "/r", Method: http.MethodGet, DurationMS: i * 10, StatusCode: 200})
	}

	recent := pm.GetRecentMetrics(10)
	if len(recent) != 3 {
		t.Fatalf("window holds %d metrics, want 3", len(recent))
	}
	for i, want := range []int64{30, 40, 50} {
		if recent[i].DurationMS != want {
			t.Errorf("recent[%d] = %d ms, want %d", i, recent[i].DurationMS, want)
		}
	}
	if got := pm.GetRecentMetrics(1); len(got) != 1 || got[0].DurationMS != 50 {
		t.Errorf("GetRecentMetrics(1) = %+v", got)
	}
	if got := pm.GetRecentMetrics(0); len(got) != 0 {
		t.Errorf("GetRecentMetrics(0) = %+v", got)
	}
}

func TestPerformanceMonitor_GetStats(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(100, 0, zerolog.Nop())
	for _, d := range []int64{10, 20, 30, 40, 100} {
		pm.RecordRequest(&RequestMetrics{Route: "/api/v1/recommend", Method: http.MethodPost, DurationMS: d, StatusCode: 200})
	}
	pm.RecordRequest(&RequestMetrics{Route: "/api/v1/health", Method: http.MethodGet, DurationMS: 1, StatusCode: 503})

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(stats))
	}

	rec := stats[0]
	if rec.Endpoint != "POST /api/v1/recommend" || rec.RequestCount != 5 {
		t.Fatalf("busiest endpoint = %+v", rec)
	}
	if rec.AvgDuration != 40 || rec.P50Duration != 30 || rec.MinDuration != 10 || rec.MaxDuration != 100 {
		t.Errorf("recommend stats = %+v", rec)
	}
	if stats[1].ErrorCount != 1 {
		t.Errorf("health error count = %d, want 1", stats[1].ErrorCount)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10, time.Nanosecond, zerolog.Nop())

	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Get("/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/9", nil))

	recent := pm.GetRecentMetrics(1)
	if len(recent) != 1 {
		t.Fatal("request not recorded")
	}
	if recent[0].Route != "/products/{id}" || recent[0].StatusCode != http.StatusNotFound {
		t.Errorf("recorded %+v", recent[0])
	}
	if pm.SlowRequests() != 1 {
		t.Errorf("slow requests = %d, want 1", pm.SlowRequests())
	}
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sorted []int64
		p      float64
		want   int64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []int64{7}, 0.99, 7},
		{"median", []int64{1, 2, 3, 4, 5}, 0.5, 3},
		{"p95 of ten", []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.95, 9},
		{"max", []int64{1, 2, 3}, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := percentile(tt.sorted, tt.p); got != tt.want {
				t.Errorf("percentile(%v, %g) = %d, want %d", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}
