// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/skinmatch/internal/cache"
	"github.com/tomtom215/skinmatch/internal/recommend/algorithms"
)

// snapshot is one immutable generation of catalog-derived state. A reload
// builds a new snapshot and swaps it in atomically; requests load the
// pointer once and never observe a partially built generation.
type snapshot struct {
	version  int64
	loadedAt time.Time

	catalog *Catalog
	index   *algorithms.TFIDFIndex
	report  LoadReport

	// ratings is nil when no rating data is usable
	ratings        *algorithms.RatingTable
	ratingsWarning error
}

// Engine filters, scores and ranks catalog products for user profiles.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	tables *KeywordTables
	scorer *Scorer

	catalogProvider CatalogProvider
	ratingProvider  RatingProvider
	history         HistorySink

	snap     atomic.Pointer[snapshot]
	version  atomic.Int64
	reloadMu sync.Mutex

	cache *cache.LRUCache[*Response]

	// Metrics
	requestCount atomic.Int64
	noMatchCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
	reloadCount  atomic.Int64
	skippedRows  atomic.Int64

	now func() time.Time
}

// NewEngine creates a new recommendation engine. The engine serves no
// requests until the first successful Reload.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = cfg.Clone()

	tables := cfg.Keywords.clone()
	tables.Normalize()

	e := &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		tables: &tables,
		scorer: NewScorer(cfg.Weights, cfg.Blend, cfg.Scoring, &tables),
		now:    time.Now,
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewLRUCache[*Response](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return e, nil
}

// SetCatalogProvider sets the catalog source used by Reload.
func (e *Engine) SetCatalogProvider(p CatalogProvider) {
	e.catalogProvider = p
}

// SetRatingProvider sets the optional ratings source used by Reload.
func (e *Engine) SetRatingProvider(p RatingProvider) {
	e.ratingProvider = p
}

// SetHistorySink sets the optional history collaborator.
func (e *Engine) SetHistorySink(h HistorySink) {
	e.history = h
}

// Tables returns the normalized keyword tables in use.
func (e *Engine) Tables() *KeywordTables {
	return e.tables
}

// Recommend generates recommendations for a profile.
//
// It returns an *InvalidProfileError (via ProfileErrors) for bad input and
// ErrNoSnapshot before the first catalog load. An empty candidate set is
// not an error: the response carries StatusNoMatches.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := e.now()
	e.requestCount.Add(1)

	snap := e.snap.Load()
	if snap == nil {
		e.errorCount.Add(1)
		return nil, ErrNoSnapshot
	}

	requestedTopN := req.TopN
	req = e.prepareRequest(req)
	profile, err := ResolveProfile(&req, e.tables, start)
	if err != nil {
		return nil, err
	}

	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	key := e.cacheKey(snap.version, &profile, req)
	if resp := e.tryGetCachedResponse(key, req, start, logger); resp != nil {
		resp.Metadata.TopNClamped = requestedTopN > req.TopN
		e.emitHistory(req, &profile, resp)
		return resp, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := FilterCandidates(snap.catalog, &profile, e.tables)
	scored, skipped := e.scorer.Score(ScoreInput{
		Candidates: candidates,
		Profile:    &profile,
		Strategy:   req.Strategy,
		Index:      snap.index,
		Ratings:    snap.ratings,
		RaterID:    req.RaterID,
	})
	if skipped > 0 {
		e.skippedRows.Add(int64(skipped))
		logger.Warn().Int("skipped", skipped).Msg("skipped unscorable candidates")
	}

	ranked := Rank(scored, req.TopN, req.Mode, e.tables)
	resp := e.buildResponse(req, &profile, snap, ranked, len(candidates), skipped, start)
	resp.Metadata.TopNClamped = requestedTopN > req.TopN
	if resp.Status == StatusNoMatches {
		e.noMatchCount.Add(1)
	}
	e.cacheResponse(key, resp)
	e.emitHistory(req, &profile, resp)

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(resp.Items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest applies defaults and generates request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	if req.TopN == 0 {
		req.TopN = e.config.Limits.DefaultTopN
	}
	if req.TopN > e.config.Limits.MaxTopN {
		req.TopN = e.config.Limits.MaxTopN
	}
	if req.Strategy == "" {
		req.Strategy = e.config.Scoring.Strategy
	}

	return req
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("strategy", string(req.Strategy)).
		Str("mode", req.Mode.String()).
		Logger()
}

// cacheKey identifies a request against one snapshot generation.
//
//nolint:gocritic // hugeParam: req passed by value for simplicity
func (e *Engine) cacheKey(version int64, profile *UserProfile, req Request) string {
	b, err := json.Marshal(struct {
		Version  int64        `json:"v"`
		Profile  *UserProfile `json:"p"`
		TopN     int          `json:"n"`
		Mode     string       `json:"m"`
		Strategy Strategy     `json:"s"`
		RaterID  *int         `json:"r,omitempty"`
	}{version, profile, req.TopN, req.Mode.String(), req.Strategy, req.RaterID})
	if err != nil {
		return ""
	}
	return string(b)
}

// tryGetCachedResponse attempts to retrieve a cached response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetCachedResponse(key string, req Request, start time.Time, logger zerolog.Logger) *Response {
	if e.cache == nil || key == "" {
		return nil
	}

	cached, ok := e.cache.Get(key)
	if !ok {
		e.cacheMisses.Add(1)
		return nil
	}

	e.cacheHits.Add(1)
	resp := copyResponse(cached)
	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = e.now().Sub(start).Milliseconds()
	resp.Metadata.Timestamp = start
	logger.Debug().Msg("cache hit")
	return resp
}

func (e *Engine) cacheResponse(key string, resp *Response) {
	if e.cache != nil && key != "" {
		e.cache.Add(key, copyResponse(resp))
	}
}

// copyResponse deep-copies a response so the cache entry, the caller and
// the history record never share items, maps or pointers.
func copyResponse(resp *Response) *Response {
	out := *resp
	out.Items = make([]RecommendationResult, len(resp.Items))
	for i, item := range resp.Items {
		item.Price = copyFloat(item.Price)
		if item.Components != nil {
			components := make(map[string]float64, len(item.Components))
			for k, v := range item.Components {
				components[k] = v
			}
			item.Components = components
		}
		out.Items[i] = item
	}
	out.Metadata.Profile = copyProfile(&resp.Metadata.Profile)
	return &out
}

func copyProfile(p *UserProfile) UserProfile {
	out := *p
	out.Concerns = append([]string(nil), p.Concerns...)
	out.Age = copyInt(p.Age)
	out.MinPrice = copyFloat(p.MinPrice)
	out.MaxPrice = copyFloat(p.MaxPrice)
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponse(req Request, profile *UserProfile, snap *snapshot, ranked []ScoredProduct, candidates, skipped int, start time.Time) *Response {
	status := StatusOK
	if len(ranked) == 0 {
		status = StatusNoMatches
	}
	return &Response{
		Status: status,
		Items:  toResults(ranked, profile),
		Metadata: ResponseMetadata{
			RequestID:       req.RequestID,
			Strategy:        string(req.Strategy),
			Mode:            req.Mode.String(),
			TopN:            req.TopN,
			TotalCandidates: candidates,
			Skipped:         skipped,
			Profile:         *profile,
			SnapshotVersion: snap.version,
			LatencyMS:       e.now().Sub(start).Milliseconds(),
			Timestamp:       start,
		},
	}
}

// emitHistory hands a record to the history sink. The sink never blocks
// and its failures are invisible to the caller.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) emitHistory(req Request, profile *UserProfile, resp *Response) {
	if e.history == nil || req.UserID == "" {
		return
	}
	e.history.Record(HistoryRecord{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		SkinType:  profile.SkinType,
		Concerns:  append([]string(nil), profile.Concerns...),
		Results:   copyResponse(resp).Items,
		Timestamp: resp.Metadata.Timestamp,
	})
}

// AnalyzeAndRecommend extracts a profile from free text and fills the
// request fields the caller left empty before recommending.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) AnalyzeAndRecommend(ctx context.Context, text string, req Request) (Analysis, *Response, error) {
	a := AnalyzeText(text, e.tables)
	if req.Profile.SkinType == "" {
		req.Profile.SkinType = a.SkinType
	}
	if len(req.Profile.Concerns) == 0 {
		req.Profile.Concerns = a.Concerns
	}
	if req.Profile.Age == nil && req.Birthdate == "" {
		req.Profile.Age = a.Age
	}
	resp, err := e.Recommend(ctx, req)
	return a, resp, err
}

// Similar returns up to k products most similar to productID by text
// features, most similar first. Ties keep catalog order.
func (e *Engine) Similar(ctx context.Context, productID, k int) ([]RecommendationResult, error) {
	snap := e.snap.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	if k <= 0 {
		k = e.config.Limits.DefaultSimilar
	}
	if k > e.config.Limits.MaxTopN {
		k = e.config.Limits.MaxTopN
	}

	_, pos, ok := snap.catalog.Get(productID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	sims, err := snap.index.SimilarTo(pos)
	if err != nil {
		return nil, fmt.Errorf("similarity for product %d: %w", productID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	order := make([]int, 0, len(sims)-1)
	for i := range sims {
		if i != pos {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sims[order[a]] > sims[order[b]]
	})
	if len(order) > k {
		order = order[:k]
	}

	out := make([]RecommendationResult, 0, len(order))
	for _, i := range order {
		p := snap.catalog.At(i)
		sp := ScoredProduct{
			Candidate: Candidate{Product: p, Position: i},
			Total:     clamp(sims[i]*100, 0, 100),
			Step:      e.tables.RoutineStep(p.Category),
			Components: map[string]float64{
				ComponentContent: clamp(sims[i]*100, 0, 100),
			},
		}
		r := toResults([]ScoredProduct{sp}, &UserProfile{})[0]
		r.Insight = fmt.Sprintf("Similarity %d%%", int(r.Score+0.5))
		out = append(out, r)
	}
	return out, nil
}

// Reload loads the catalog and ratings from the providers, builds a new
// snapshot and swaps it in. On failure the previous snapshot stays live.
// A concurrent call returns ErrReloadInProgress.
//
// An empty catalog and unusable ratings are warnings: the snapshot is
// installed and the warnings are listed in the returned status.
func (e *Engine) Reload(ctx context.Context) (CatalogStatus, error) {
	if !e.reloadMu.TryLock() {
		return CatalogStatus{}, ErrReloadInProgress
	}
	defer e.reloadMu.Unlock()

	if e.catalogProvider == nil {
		return CatalogStatus{}, &CatalogLoadError{Reason: "catalog provider not set"}
	}

	start := e.now()
	e.logger.Info().Msg("starting catalog reload")

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.ReloadTimeout)
	defer cancel()

	snap, err := e.buildSnapshot(ctx)
	if err != nil {
		e.errorCount.Add(1)
		e.logger.Error().Err(err).Msg("catalog reload failed, keeping previous snapshot")
		return CatalogStatus{}, err
	}

	snap.version = e.version.Add(1)
	snap.loadedAt = e.now()
	e.snap.Store(snap)
	e.reloadCount.Add(1)
	if e.cache != nil {
		e.cache.Clear()
	}

	status := e.statusOf(snap)
	e.logger.Info().
		Int64("version", snap.version).
		Int("accepted", snap.report.Accepted).
		Int("rejected", snap.report.Rejected).
		Int("price_unknown", snap.report.PriceUnknown).
		Bool("ratings", snap.ratings != nil).
		Int64("duration_ms", e.now().Sub(start).Milliseconds()).
		Msg("catalog reload complete")
	for _, w := range status.Warnings {
		e.logger.Warn().Str("warning", w).Msg("catalog snapshot installed with warning")
	}
	return status, nil
}

func (e *Engine) buildSnapshot(ctx context.Context) (*snapshot, error) {
	rows, err := e.catalogProvider.LoadCatalog(ctx)
	if err != nil {
		var cle *CatalogLoadError
		if errors.As(err, &cle) {
			return nil, err
		}
		return nil, &CatalogLoadError{Reason: "catalog provider", Err: err}
	}

	catalog, report, err := LoadCatalog(rows)
	if err != nil {
		return nil, err
	}
	for _, r := range report.RejectedReasons {
		e.logger.Debug().Int("row", r.Row).Str("id", r.ID).Str("reason", r.Reason).Msg("catalog row rejected")
	}

	docs := make([]string, catalog.Len())
	for i := range docs {
		docs[i] = catalog.At(i).FeatureText()
	}
	index, err := algorithms.BuildTFIDFIndex(ctx, docs, e.config.ngramConfig())
	if err != nil {
		return nil, &CatalogLoadError{Reason: "build text index", Err: err}
	}

	snap := &snapshot{catalog: catalog, index: index, report: report}
	snap.ratings, snap.ratingsWarning = e.loadRatings(ctx, catalog)
	return snap, nil
}

// loadRatings builds the rating table. Any failure degrades to
// content-only scoring and is returned as a *RatingAggregationWarning.
func (e *Engine) loadRatings(ctx context.Context, catalog *Catalog) (*algorithms.RatingTable, error) {
	if e.ratingProvider == nil {
		return nil, nil
	}

	ratings, err := e.ratingProvider.LoadRatings(ctx, catalog.IDs())
	if err != nil {
		return nil, &RatingAggregationWarning{Err: err}
	}
	table, err := algorithms.BuildRatingTable(ctx, ratings, e.config.peerConfig())
	if err != nil {
		return nil, &RatingAggregationWarning{Err: err}
	}
	kept, skipped, _, _ := table.Stats()
	if kept == 0 && skipped > 0 {
		return nil, &RatingAggregationWarning{Err: fmt.Errorf("all %d ratings were invalid", skipped)}
	}
	if kept == 0 {
		return nil, nil
	}
	return table, nil
}

// RatingStatus describes the rating table of a snapshot.
type RatingStatus struct {
	Available bool   `json:"available"`
	Kept      int    `json:"kept"`
	Skipped   int    `json:"skipped"`
	Products  int    `json:"products"`
	Users     int    `json:"users"`
	Warning   string `json:"warning,omitempty"`
}

// CatalogStatus describes the live snapshot.
type CatalogStatus struct {
	Ready          bool         `json:"ready"`
	Version        int64        `json:"version"`
	LoadedAt       time.Time    `json:"loaded_at"`
	Products       int          `json:"products"`
	VocabularySize int          `json:"vocabulary_size"`
	Report         LoadReport   `json:"report"`
	Ratings        RatingStatus `json:"ratings"`
	Warnings       []string     `json:"warnings,omitempty"`
}

// Status returns the status of the live snapshot.
func (e *Engine) Status() CatalogStatus {
	snap := e.snap.Load()
	if snap == nil {
		return CatalogStatus{}
	}
	return e.statusOf(snap)
}

func (e *Engine) statusOf(snap *snapshot) CatalogStatus {
	st := CatalogStatus{
		Ready:          true,
		Version:        snap.version,
		LoadedAt:       snap.loadedAt,
		Products:       snap.catalog.Len(),
		VocabularySize: snap.index.VocabularySize(),
		Report:         snap.report,
	}
	if snap.catalog.Len() == 0 {
		st.Warnings = append(st.Warnings, ErrCatalogEmpty.Error())
	}
	if snap.ratings != nil {
		st.Ratings.Available = true
		st.Ratings.Kept, st.Ratings.Skipped, st.Ratings.Products, st.Ratings.Users = snap.ratings.Stats()
	}
	if snap.ratingsWarning != nil {
		st.Ratings.Warning = snap.ratingsWarning.Error()
		st.Warnings = append(st.Warnings, snap.ratingsWarning.Error())
	}
	return st
}

// Product returns a product from the live snapshot.
func (e *Engine) Product(id int) (Product, error) {
	snap := e.snap.Load()
	if snap == nil {
		return Product{}, ErrNoSnapshot
	}
	p, _, ok := snap.catalog.Get(id)
	if !ok {
		return Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return *p, nil
}

// GetMetrics returns the current engine metrics.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		RequestCount: e.requestCount.Load(),
		NoMatchCount: e.noMatchCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		ErrorCount:   e.errorCount.Load(),
		ReloadCount:  e.reloadCount.Load(),
		SkippedRows:  e.skippedRows.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}
