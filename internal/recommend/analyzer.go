// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Analysis is a profile extracted from free text.
type Analysis struct {
	SkinType string   `json:"skin_type"`
	Concerns []string `json:"concerns"`
	Age      *int     `json:"age,omitempty"`
}

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:age|aged|อายุ)\s*:?\s*(\d{1,3})`),
	regexp.MustCompile(`(\d{1,3})\s*(?:years? old|yrs? old|y/o|yo\b|ปี|ขวบ)`),
}

// AnalyzeText extracts a skin type, concerns and age from a free-text
// description in Thai or English.
//
// The skin type is the canonical key whose alias occurs earliest in the
// text. Concerns are canonical keys in order of first occurrence.
func AnalyzeText(text string, tables *KeywordTables) Analysis {
	lower := strings.ToLower(text)
	a := Analysis{Concerns: []string{}}

	if key, ok := earliestGroup(lower, tables.SkinTypeAliases); ok {
		a.SkinType = key
	}

	type hit struct {
		key string
		pos int
	}
	var hits []hit
	for key, aliases := range tables.ConcernAliases {
		if pos := firstIndex(lower, groupTerms(key, aliases)); pos >= 0 {
			hits = append(hits, hit{key: key, pos: pos})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].key < hits[j].key
	})
	for _, h := range hits {
		a.Concerns = append(a.Concerns, h.key)
	}

	for _, re := range agePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if age, err := strconv.Atoi(m[1]); err == nil && age <= maxAge {
			a.Age = &age
			break
		}
	}
	return a
}

// earliestGroup returns the group key whose terms occur first in text.
// Ties are broken by key.
func earliestGroup(text string, groups map[string][]string) (string, bool) {
	best, bestPos := "", -1
	for key, aliases := range groups {
		pos := firstIndex(text, groupTerms(key, aliases))
		if pos < 0 {
			continue
		}
		if bestPos < 0 || pos < bestPos || (pos == bestPos && key < best) {
			best, bestPos = key, pos
		}
	}
	return best, bestPos >= 0
}

func groupTerms(key string, aliases []string) []string {
	return append([]string{strings.ReplaceAll(key, "_", " ")}, aliases...)
}

func firstIndex(text string, terms []string) int {
	pos := -1
	for _, t := range terms {
		if t == "" {
			continue
		}
		if i := strings.Index(text, t); i >= 0 && (pos < 0 || i < pos) {
			pos = i
		}
	}
	return pos
}
