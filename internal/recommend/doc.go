// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

/*
Package recommend provides the skincare recommendation and scoring engine.

Given a product catalog and a user profile (skin type, concerns, age and
price bounds) the engine filters compatible products, scores each one and
returns a ranked list presented in skincare-routine order.

# Pipeline

	Catalog Store -> Text Feature Index -> Rating Aggregator  (per reload)
	Candidate Filter -> Scorer -> Ranker / Routine Sequencer  (per request)

Catalog-derived state lives in an immutable snapshot. Reload builds the
next generation off to the side and swaps it in with one atomic store, so
concurrent requests always see a complete catalog, index and rating table.

# Scoring Strategies

The rules strategy (default) sums four clamped components:

  - skin (30): exact tag match gets full weight; substring match or a
    universal tag gets half
  - concern (35): fraction of requested concerns found in the benefit text
  - age (15): full weight for an age-bucket keyword, 5 otherwise, 0 if age
    is unknown
  - price (20): min-max normalized over the candidate set, cheapest first

The hybrid strategy scores text similarity between the profile query and
each product's descriptive text, blended 60/20/20 with the average rating
and the peer signal when the product has rating data, and discounted
by 0.95 when it does not.

# Ranking

Scores are sorted descending with catalog order breaking ties. The top N
are then re-sorted by routine step (cleanse, tone, treat, moisturize,
protect). ModeRoutine keeps at most one product per step.

# Keyword Tables

Routine steps, skin-type and concern aliases, age buckets and price
presets are data, not code. See KeywordTables and DefaultKeywordTables.

# Example

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
	if err != nil {
	    return err
	}
	engine.SetCatalogProvider(catalogSource)
	engine.SetRatingProvider(ratingSource)
	if _, err := engine.Reload(ctx); err != nil {
	    return err
	}

	resp, err := engine.Recommend(ctx, recommend.Request{
	    Profile: recommend.UserProfile{SkinType: "oily", Concerns: []string{"acne"}},
	    TopN:    5,
	})
*/
package recommend
