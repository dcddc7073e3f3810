// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"math"
	"strings"

	"github.com/tomtom215/skinmatch/internal/recommend/algorithms"
)

// Component names used in score breakdowns.
const (
	ComponentSkin    = "skin"
	ComponentConcern = "concern"
	ComponentAge     = "age"
	ComponentPrice   = "price"
	ComponentContent = "content"
	ComponentRating  = "rating"
	ComponentPeer    = "peer"
)

// ScoredProduct is a candidate with its score breakdown.
type ScoredProduct struct {
	Candidate

	// Total is the unrounded score on a 0-100 scale.
	Total float64

	Components  map[string]float64
	Diagnostics Diagnostics

	// MatchedConcerns lists the profile concerns found in the benefit text.
	MatchedConcerns []string

	// Step is assigned by the ranker.
	Step int
}

// ScoreInput bundles the per-request scoring inputs.
type ScoreInput struct {
	Candidates []Candidate
	Profile    *UserProfile
	Strategy   Strategy

	// Index and Ratings come from the current snapshot. Ratings may be nil.
	Index   *algorithms.TFIDFIndex
	Ratings *algorithms.RatingTable

	// RaterID personalises the peer signal when Ratings knows the user.
	RaterID *int
}

// Scorer computes weighted scores. It holds no per-request state and is
// safe for concurrent use.
type Scorer struct {
	weights ScoringWeights
	blend   BlendConfig
	scoring ScoringConfig
	tables  *KeywordTables
}

// NewScorer creates a scorer.
func NewScorer(weights ScoringWeights, blend BlendConfig, scoring ScoringConfig, tables *KeywordTables) *Scorer {
	return &Scorer{weights: weights, blend: blend, scoring: scoring, tables: tables}
}

// Score scores every candidate. Candidates whose score cannot be computed
// are skipped and counted rather than failing the batch. Candidates below
// the configured minimum score are dropped.
//
//nolint:gocritic // hugeParam: input is read-only
func (s *Scorer) Score(in ScoreInput) (scored []ScoredProduct, skipped int) {
	if len(in.Candidates) == 0 {
		return []ScoredProduct{}, 0
	}

	var similarity []float64
	if in.Strategy == StrategyHybrid && in.Index != nil {
		similarity = in.Index.Similarity(in.Profile.QueryText())
	}
	priceLo, priceHi, havePrices := priceRange(in.Candidates)

	scored = make([]ScoredProduct, 0, len(in.Candidates))
	for _, c := range in.Candidates {
		if c.Product == nil {
			skipped++
			continue
		}

		sp := ScoredProduct{Candidate: c, Components: make(map[string]float64, 4)}
		skin, match := s.skinScore(in.Profile.SkinType, c.Product)
		sp.Diagnostics = s.diagnostics(c.Product, match, in)

		switch in.Strategy {
		case StrategyHybrid:
			var sim float64
			if c.Position < len(similarity) {
				sim = similarity[c.Position]
			}
			sp.Total = s.hybridScore(&sp, sim, in)
		default:
			concern, matched := s.concernScore(in.Profile.Concerns, c.Product)
			age := s.ageScore(in.Profile.Age, c.Product)
			price := s.priceScore(c.Product, priceLo, priceHi, havePrices)
			sp.MatchedConcerns = matched
			sp.Components[ComponentSkin] = skin
			sp.Components[ComponentConcern] = concern
			sp.Components[ComponentAge] = age
			sp.Components[ComponentPrice] = price
			sp.Total = skin + concern + age + price
		}

		if math.IsNaN(sp.Total) || math.IsInf(sp.Total, 0) {
			skipped++
			continue
		}
		sp.Total = clamp(sp.Total, 0, 100)
		if sp.Total < s.scoring.MinScore {
			continue
		}
		scored = append(scored, sp)
	}
	return scored, skipped
}

// skinScore grades the product's skin-type tags. A request without a skin
// preference gives every product half weight.
func (s *Scorer) skinScore(skinType string, p *Product) (float64, SkinMatch) {
	full := s.weights.Skin
	if s.tables.IsAnySkinType(skinType) {
		return full / 2, SkinMatchAny
	}

	tags := normalizeText(p.SkinTypeTags)
	terms := s.tables.SkinTypeTerms(skinType)
	for _, tag := range splitTags(tags) {
		if containsExact(tag, terms) {
			return full, SkinMatchExact
		}
	}
	if containsAny(tags, terms) {
		return full / 2, SkinMatchPartial
	}
	if s.tables.IsUniversal(tags) {
		return full / 2, SkinMatchUniversal
	}
	return 0, SkinMatchNone
}

// concernScore is the fraction of concerns present in the benefit text
// times the concern weight. No concerns contributes exactly 0.
func (s *Scorer) concernScore(concerns []string, p *Product) (float64, []string) {
	if len(concerns) == 0 {
		return 0, nil
	}
	benefit := normalizeText(p.BenefitText)
	var matched []string
	for _, c := range concerns {
		if containsAny(benefit, s.tables.ConcernTerms(c)) {
			matched = append(matched, c)
		}
	}
	score := float64(len(matched)) / float64(len(concerns)) * s.weights.Concern
	return clamp(score, 0, s.weights.Concern), matched
}

// ageScore gives full weight when the benefit text carries a keyword of the
// user's age bucket and flat partial credit otherwise.
func (s *Scorer) ageScore(age *int, p *Product) float64 {
	if age == nil {
		return 0
	}
	bucket, ok := s.tables.AgeBucketFor(*age)
	if ok && containsAny(normalizeText(p.BenefitText), bucket.Keywords) {
		return s.weights.Age
	}
	return clamp(s.scoring.AgePartialCredit, 0, s.weights.Age)
}

// priceScore is min-max normalized over the candidate set: cheapest gets
// full weight, most expensive gets 0. Unknown prices score 0.
func (s *Scorer) priceScore(p *Product, lo, hi float64, havePrices bool) float64 {
	if !p.PriceKnown || !havePrices {
		return 0
	}
	if hi == lo {
		return s.weights.Price
	}
	return clamp((hi-p.Price)/(hi-lo)*s.weights.Price, 0, s.weights.Price)
}

// hybridScore blends text similarity with rating signals. Products without
// rating data fall back to a discounted content-only score.
func (s *Scorer) hybridScore(sp *ScoredProduct, sim float64, in ScoreInput) float64 {
	content := clamp(sim*100, 0, 100)
	sp.Components[ComponentContent] = content

	if in.Ratings == nil || !in.Ratings.HasRatings(sp.Product.ID) {
		return content * s.blend.NoRatingDiscount
	}

	rating := clamp(in.Ratings.AverageRating(sp.Product.ID)/in.Ratings.Scale()*100, 0, 100)
	peer := clamp(sp.Diagnostics.Trend*100, 0, 100)
	sp.Components[ComponentRating] = rating
	sp.Components[ComponentPeer] = peer

	return s.blend.Content*content + s.blend.Rating*rating + s.blend.Peer*peer
}

func (s *Scorer) diagnostics(p *Product, match SkinMatch, in ScoreInput) Diagnostics {
	d := Diagnostics{SkinMatch: match, Quality: p.Rating}
	if in.Ratings == nil {
		return d
	}
	if in.Ratings.HasRatings(p.ID) {
		d.Quality = in.Ratings.AverageRating(p.ID)
		d.RatingCount = in.Ratings.RatingCount(p.ID)
	}
	d.Trend = in.Ratings.PeerScore(p.ID)
	if in.RaterID != nil && in.Ratings.HasUser(*in.RaterID) {
		if v, ok := in.Ratings.PredictForUser(*in.RaterID, p.ID); ok {
			d.Trend = v
		}
	}
	return d
}

// priceRange returns the min and max known price among candidates.
func priceRange(cands []Candidate) (lo, hi float64, ok bool) {
	for _, c := range cands {
		if c.Product == nil || !c.Product.PriceKnown {
			continue
		}
		if !ok {
			lo, hi, ok = c.Product.Price, c.Product.Price, true
			continue
		}
		lo = math.Min(lo, c.Product.Price)
		hi = math.Max(hi, c.Product.Price)
	}
	return lo, hi, ok
}

// splitTags splits skin-type tags on commas, slashes and semicolons.
func splitTags(tags string) []string {
	parts := strings.FieldsFunc(tags, func(r rune) bool {
		return r == ',' || r == '/' || r == ';' || r == '|'
	})
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
