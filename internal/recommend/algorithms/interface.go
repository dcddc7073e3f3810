// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package algorithms

import (
	"context"
	"math"
	"time"
)

// BaseAlgorithm carries the identity shared by every model in this package.
// Models are immutable once built, so there is no lock here.
type BaseAlgorithm struct {
	name    string
	builtAt time.Time
}

// NewBaseAlgorithm creates a new base algorithm with the given name,
// stamped with the current time.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{
		name:    name,
		builtAt: time.Now(),
	}
}

// Name returns the algorithm identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// BuiltAt returns when the model was built.
func (b *BaseAlgorithm) BuiltAt() time.Time {
	return b.builtAt
}

// sparseVector is an L2-normalised vector keyed by ascending term index.
type sparseVector struct {
	idx []int
	val []float64
}

// dot returns the inner product of two sparse vectors. Both index slices
// must be sorted ascending.
func (a sparseVector) dot(b sparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.idx) && j < len(b.idx) {
		switch {
		case a.idx[i] == b.idx[j]:
			sum += a.val[i] * b.val[j]
			i++
			j++
		case a.idx[i] < b.idx[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// clamp01 bounds v to [0, 1]; NaN maps to 0.
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
