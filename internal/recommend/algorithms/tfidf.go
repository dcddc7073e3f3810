// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package algorithms

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

// NGramConfig contains configuration for the character n-gram index.
type NGramConfig struct {
	// MinN is the shortest n-gram length, in runes.
	// Default: 3.
	MinN int

	// MaxN is the longest n-gram length, in runes.
	// Default: 5.
	MaxN int

	// MaxFeatures caps the vocabulary, keeping the n-grams with the highest
	// document frequency. Zero keeps every n-gram.
	MaxFeatures int
}

// DefaultNGramConfig returns the 3..5 rune window used for product text.
func DefaultNGramConfig() NGramConfig {
	return NGramConfig{
		MinN: 3,
		MaxN: 5,
	}
}

// TFIDFIndex is a term-frequency / inverse-document-frequency vector space
// over character n-grams of each document.
//
// N-grams are extracted per whitespace-delimited word, with the word padded
// by a single space on each side, so grams never straddle two words. Text is
// lowercased before extraction. Words shorter than a window contribute the
// whole padded word once.
//
// IDF uses the smoothed form idf(t) = ln((1+n)/(1+df(t))) + 1 and every
// document vector is L2-normalised, so cosine similarity is a dot product
// and lies in [0, 1].
type TFIDFIndex struct {
	BaseAlgorithm
	config NGramConfig

	vocab map[string]int
	idf   []float64
	docs  []sparseVector
}

// BuildTFIDFIndex builds an index over docs. Document i in the index
// corresponds to docs[i].
func BuildTFIDFIndex(ctx context.Context, docs []string, cfg NGramConfig) (*TFIDFIndex, error) {
	if cfg.MinN <= 0 {
		cfg.MinN = 3
	}
	if cfg.MaxN <= 0 {
		cfg.MaxN = 5
	}
	if cfg.MaxN < cfg.MinN {
		return nil, fmt.Errorf("ngram max_n %d is below min_n %d", cfg.MaxN, cfg.MinN)
	}

	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		if i%256 == 0 && ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		c := charWordNGrams(doc, cfg.MinN, cfg.MaxN)
		counts[i] = c
		for term := range c {
			df[term]++
		}
	}

	terms := selectVocabulary(df, cfg.MaxFeatures)
	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	idx := &TFIDFIndex{
		BaseAlgorithm: NewBaseAlgorithm("tfidf_char_wb"),
		config:        cfg,
		vocab:         vocab,
		idf:           idf,
		docs:          make([]sparseVector, len(docs)),
	}
	for i, c := range counts {
		idx.docs[i] = idx.vectorize(c)
	}

	return idx, nil
}

// Len returns the number of indexed documents.
func (x *TFIDFIndex) Len() int {
	return len(x.docs)
}

// VocabularySize returns the number of distinct n-grams kept.
func (x *TFIDFIndex) VocabularySize() int {
	return len(x.vocab)
}

// Similarity projects query into the index and returns its cosine
// similarity against every document, in document order. A query sharing no
// n-gram with the vocabulary scores 0 everywhere.
func (x *TFIDFIndex) Similarity(query string) []float64 {
	q := x.vectorize(charWordNGrams(query, x.config.MinN, x.config.MaxN))
	scores := make([]float64, len(x.docs))
	if len(q.idx) == 0 {
		return scores
	}
	for i, doc := range x.docs {
		scores[i] = clamp01(q.dot(doc))
	}
	return scores
}

// SimilarTo returns the cosine similarity of document i against every
// document, including itself.
func (x *TFIDFIndex) SimilarTo(i int) ([]float64, error) {
	if i < 0 || i >= len(x.docs) {
		return nil, fmt.Errorf("document %d out of range [0, %d)", i, len(x.docs))
	}
	src := x.docs[i]
	scores := make([]float64, len(x.docs))
	for j, doc := range x.docs {
		scores[j] = clamp01(src.dot(doc))
	}
	return scores, nil
}

// selectVocabulary returns the terms to keep in ascending lexical order,
// which fixes term indices independently of map iteration.
func selectVocabulary(df map[string]int, maxFeatures int) []string {
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}

	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(a, b int) bool {
			if df[terms[a]] != df[terms[b]] {
				return df[terms[a]] > df[terms[b]]
			}
			return terms[a] < terms[b]
		})
		terms = terms[:maxFeatures]
	}

	sort.Strings(terms)
	return terms
}

// vectorize weights raw n-gram counts by idf and L2-normalises the result.
// Terms outside the vocabulary are dropped.
func (x *TFIDFIndex) vectorize(counts map[string]int) sparseVector {
	type entry struct {
		i int
		w float64
	}
	entries := make([]entry, 0, len(counts))
	var norm float64
	for term, tf := range counts {
		i, ok := x.vocab[term]
		if !ok {
			continue
		}
		w := float64(tf) * x.idf[i]
		entries = append(entries, entry{i: i, w: w})
		norm += w * w
	}
	if norm == 0 {
		return sparseVector{}
	}

	sort.Slice(entries, func(a, b int) bool { return entries[a].i < entries[b].i })
	norm = math.Sqrt(norm)
	vec := sparseVector{
		idx: make([]int, len(entries)),
		val: make([]float64, len(entries)),
	}
	for k, e := range entries {
		vec.idx[k] = e.i
		vec.val[k] = e.w / norm
	}
	return vec
}

// charWordNGrams counts word-boundary-aware character n-grams of text.
func charWordNGrams(text string, minN, maxN int) map[string]int {
	counts := make(map[string]int)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		w := []rune(" " + word + " ")
		for n := minN; n <= maxN; n++ {
			offset := 0
			end := n
			if end > len(w) {
				end = len(w)
			}
			counts[string(w[:end])]++
			for offset+n < len(w) {
				offset++
				counts[string(w[offset:offset+n])]++
			}
			if offset == 0 {
				// Short word: the whole padded word was counted once.
				break
			}
		}
	}
	return counts
}
