// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/skinmatch/internal/middleware"
	"github.com/tomtom215/skinmatch/internal/models"
	"github.com/tomtom215/skinmatch/internal/recommend"
)

// staticCatalog serves fixed rows.
type staticCatalog struct {
	rows []recommend.RawRow
	err  error
}

func (s *staticCatalog) LoadCatalog(context.Context) ([]recommend.RawRow, error) {
	return s.rows, s.err
}

// fakeHistory stores records in memory.
type fakeHistory struct {
	mu      sync.Mutex
	records []recommend.HistoryRecord
	err     error
	limits  []int
}

func (f *fakeHistory) Record(rec recommend.HistoryRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
}

func (f *fakeHistory) List(_ context.Context, userID string, limit int) ([]recommend.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	var out []recommend.HistoryRecord
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].UserID == userID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

func (f *fakeHistory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func catalogRows() []recommend.RawRow {
	return []recommend.RawRow{
		{"id": 1, "name": "Gentle Cleanser", "brand": "Acme", "skintype": "all skin types", "category": "cleanser", "price": "250", "benefit": "hydrating gentle acne care"},
		{"id": 2, "name": "Retinol Serum", "brand": "Lumen", "skintype": "oily", "category": "serum", "price": "890", "benefit": "anti-aging wrinkle acne"},
		{"id": 3, "name": "Daily Sunscreen", "brand": "Sol", "skintype": "dry", "category": "sunscreen", "price": "450", "benefit": "uv protection hydrating"},
		{"id": 4, "name": "Clay Mask", "brand": "Acme", "skintype": "oily", "category": "mask", "price": "1200", "benefit": "pores oil control acne"},
	}
}

type testServer struct {
	handler http.Handler
	engine  *recommend.Engine
	history *fakeHistory
	perfMon *middleware.PerformanceMonitor
}

type serverOption func(*serverOptions)

type serverOptions struct {
	rows     []recommend.RawRow
	noLoad   bool
	noHist   bool
	reloader CatalogReloader
}

func withoutLoad() serverOption { return func(o *serverOptions) { o.noLoad = true } }
func withoutHistory() serverOption { return func(o *serverOptions) { o.noHist = true } }
func withRows(rows []recommend.RawRow) serverOption {
	return func(o *serverOptions) { o.rows = rows }
}
func withReloader(r CatalogReloader) serverOption {
	return func(o *serverOptions) { o.reloader = r }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	o := serverOptions{rows: catalogRows()}
	for _, opt := range opts {
		opt(&o)
	}

	engine, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.SetCatalogProvider(&staticCatalog{rows: o.rows})

	ts := &testServer{engine: engine}
	var reader HistoryReader
	if !o.noHist {
		ts.history = &fakeHistory{}
		engine.SetHistorySink(ts.history)
		reader = ts.history
	}
	if !o.noLoad {
		if _, err := engine.Reload(context.Background()); err != nil {
			t.Fatalf("Reload() error = %v", err)
		}
	}

	ts.perfMon = middleware.NewPerformanceMonitor(100, time.Minute, zerolog.Nop())
	h := NewHandler(engine, o.reloader, reader, ts.perfMon, HandlerConfig{
		HistoryDefaultLimit: 2,
		HistoryMaxLimit:     3,
	})
	chiMw := NewChiMiddlewareFromSecurity([]string{"*"}, 100, time.Minute, true)
	ts.handler = NewRouter(h, chiMw, ts.perfMon).SetupChi()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// decodeEnvelope decodes the response envelope, placing data into out.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) models.APIResponse {
	t.Helper()

	var raw struct {
		Status   string           `json:"status"`
		Data     json.RawMessage  `json:"data"`
		Metadata models.Metadata  `json:"metadata"`
		Error    *models.APIError `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode envelope: %v\nbody: %s", err, rec.Body.String())
	}
	if out != nil && len(raw.Data) > 0 && string(raw.Data) != "null" {
		if err := json.Unmarshal(raw.Data, out); err != nil {
			t.Fatalf("decode data: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return models.APIResponse{Status: raw.Status, Metadata: raw.Metadata, Error: raw.Error}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) *models.APIError {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec, nil)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %s, want %s", env.Error.Code, code)
	}
	return env.Error
}
