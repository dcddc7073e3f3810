// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/skinmatch/internal/recommend/algorithms"
)

// Product is one normalized catalog entry.
type Product struct {
	// ID is the stable product identifier used for rating joins and responses.
	ID int `json:"id"`

	// Name and Brand are display strings; empty when absent in the source.
	Name  string `json:"name"`
	Brand string `json:"brand"`

	// Category is the free-text product type, used for filtering and
	// routine-step lookup.
	Category string `json:"category"`

	// SkinTypeTags describes applicable skin types, comma-separated or prose.
	SkinTypeTags string `json:"skin_type_tags"`

	// BenefitText describes active-ingredient effects; concern matching
	// runs against it.
	BenefitText string `json:"benefit_text"`

	// Ingredients is the optional ingredient list.
	Ingredients string `json:"ingredients"`

	// Price is the cleaned non-negative price. Only meaningful when
	// PriceKnown is true.
	Price      float64 `json:"price"`
	PriceKnown bool    `json:"price_known"`

	// Rating is the catalog-supplied rating column, 0 when absent.
	Rating float64 `json:"rating"`
}

// FeatureText returns the concatenated descriptive text indexed for
// similarity search.
func (p *Product) FeatureText() string {
	return p.SkinTypeTags + " " + p.BenefitText + " " + p.Category + " " + p.Brand + " " + p.Ingredients
}

// UserProfile describes the person recommendations are computed for.
// Nil pointers mean "not supplied".
type UserProfile struct {
	SkinType    string   `json:"skin_type"`
	Concerns    []string `json:"concerns"`
	Age         *int     `json:"age,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	ProductType string   `json:"product_type,omitempty"`
}

// HasPriceBound reports whether either price bound is set.
func (p *UserProfile) HasPriceBound() bool {
	return p.MinPrice != nil || p.MaxPrice != nil
}

// Rating is one user's rating of one product.
type Rating = algorithms.Rating

// RawRow is one catalog record as delivered by a provider, keyed by the
// provider's own column names.
type RawRow map[string]any

// Strategy selects the scoring formula.
type Strategy string

const (
	// StrategyRules is the weighted attribute rule score (skin, concern,
	// age, price). This is the default.
	StrategyRules Strategy = "rules"

	// StrategyHybrid blends text similarity with rating and peer signals.
	StrategyHybrid Strategy = "hybrid"
)

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	return s == StrategyRules || s == StrategyHybrid
}

// RecommendMode specifies how the ranked selection is built.
type RecommendMode int

const (
	// ModeTopN returns the N highest-scoring products in routine order.
	ModeTopN RecommendMode = iota

	// ModeRoutine returns at most one product per routine step.
	ModeRoutine
)

// String returns a human-readable mode name.
func (m RecommendMode) String() string {
	switch m {
	case ModeTopN:
		return "top_n"
	case ModeRoutine:
		return "routine"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name to a RecommendMode. The empty string is
// ModeTopN.
func ParseMode(s string) (RecommendMode, bool) {
	switch s {
	case "", "top_n", "top":
		return ModeTopN, true
	case "routine":
		return ModeRoutine, true
	default:
		return ModeTopN, false
	}
}

// Request represents a recommendation request.
type Request struct {
	// Profile is the user's skin profile and constraints.
	Profile UserProfile `json:"profile"`

	// TopN is the number of products to return.
	// Defaults to Config.Limits.DefaultTopN if zero.
	TopN int `json:"top_n,omitempty"`

	// Mode selects flat top-N or complete-routine selection.
	Mode RecommendMode `json:"mode,omitempty"`

	// Strategy overrides Config.Scoring.Strategy when set.
	Strategy Strategy `json:"strategy,omitempty"`

	// Budget names a price preset (low, medium, high, any). It applies only
	// when neither price bound is set on the profile.
	Budget string `json:"budget,omitempty"`

	// Birthdate (YYYY-MM-DD) supplies the age when Profile.Age is nil.
	Birthdate string `json:"birthdate,omitempty"`

	// RaterID personalises the peer signal when the rating table knows
	// this user.
	RaterID *int `json:"rater_id,omitempty"`

	// UserID identifies the requester (email or account id) for history.
	// Empty means no history record is emitted.
	UserID string `json:"user_id,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Status distinguishes a populated response from an empty one.
type Status string

const (
	StatusOK        Status = "ok"
	StatusNoMatches Status = "no_matches"
)

// SkinMatch grades how a product's skin-type tags fit the request.
type SkinMatch string

const (
	SkinMatchExact     SkinMatch = "exact"
	SkinMatchPartial   SkinMatch = "partial"
	SkinMatchUniversal SkinMatch = "universal"
	SkinMatchAny       SkinMatch = "any"
	SkinMatchNone      SkinMatch = "none"
)

// Diagnostics carries the explanatory signals behind a score.
type Diagnostics struct {
	SkinMatch   SkinMatch `json:"skin_match"`
	Quality     float64   `json:"quality"`
	Trend       float64   `json:"trend"`
	RatingCount int       `json:"rating_count"`
}

// RecommendationResult is one recommended product.
type RecommendationResult struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Brand string   `json:"brand"`
	Type  string   `json:"type"`
	Price *float64 `json:"price"`

	// Score is the total on a 0-100 scale, rounded to 2 decimals.
	Score float64 `json:"score"`

	RoutineStep int `json:"routine_step"`

	// Components is the per-signal breakdown of Score.
	Components map[string]float64 `json:"components,omitempty"`

	Diagnostics Diagnostics `json:"diagnostics"`

	// Insight is a short human-readable summary.
	Insight string `json:"insight,omitempty"`
}

// Response represents a recommendation response.
type Response struct {
	Status   Status                 `json:"status"`
	Items    []RecommendationResult `json:"items"`
	Metadata ResponseMetadata       `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID string `json:"request_id"`
	Strategy  string `json:"strategy"`
	Mode      string `json:"mode"`

	// TopN is the effective result limit. TopNClamped is set when the
	// request asked for more than Config.Limits.MaxTopN.
	TopN        int  `json:"top_n"`
	TopNClamped bool `json:"top_n_clamped,omitempty"`

	// TotalCandidates is the number of products that passed the filters.
	TotalCandidates int `json:"total_candidates"`

	// Skipped is the number of candidates that could not be scored.
	Skipped int `json:"skipped"`

	// Profile is the resolved profile after budget and birthdate handling.
	Profile UserProfile `json:"profile"`

	SnapshotVersion int64     `json:"snapshot_version"`
	LatencyMS       int64     `json:"latency_ms"`
	CacheHit        bool      `json:"cache_hit"`
	Timestamp       time.Time `json:"timestamp"`
}

// CatalogProvider supplies raw catalog rows on load and reload.
type CatalogProvider interface {
	LoadCatalog(ctx context.Context) ([]RawRow, error)
}

// RatingProvider supplies ratings. productIDs lists the accepted catalog
// products; providers may use it to scope or synthesize data.
type RatingProvider interface {
	LoadRatings(ctx context.Context, productIDs []int) ([]Rating, error)
}

// HistoryRecord is what the engine emits for a history collaborator.
type HistoryRecord struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	SkinType  string                 `json:"skin_type"`
	Concerns  []string               `json:"concerns"`
	Results   []RecommendationResult `json:"results"`
	Timestamp time.Time              `json:"timestamp"`
}

// HistorySink receives history records. Record must not block; failures
// are the sink's concern and never reach the caller of Recommend.
type HistorySink interface {
	Record(rec HistoryRecord)
}

// Metrics contains engine counters for observability.
type Metrics struct {
	RequestCount int64 `json:"request_count"`
	NoMatchCount int64 `json:"no_match_count"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	ErrorCount   int64 `json:"error_count"`
	ReloadCount  int64 `json:"reload_count"`
	SkippedRows  int64 `json:"skipped_rows"`
}
