// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RoutineRule maps category keywords to one routine step.
type RoutineRule struct {
	Step     int      `json:"step" koanf:"step"`
	Label    string   `json:"label" koanf:"label"`
	Keywords []string `json:"keywords" koanf:"keywords"`
}

// AgeBucket maps an age range to benefit keywords. MaxAge is exclusive;
// zero means unbounded.
type AgeBucket struct {
	Name     string   `json:"name" koanf:"name"`
	MaxAge   int      `json:"max_age" koanf:"max_age"`
	Keywords []string `json:"keywords" koanf:"keywords"`
}

// PricePreset is a named price range. Nil bounds are open.
type PricePreset struct {
	Min *float64 `json:"min,omitempty" koanf:"min"`
	Max *float64 `json:"max,omitempty" koanf:"max"`
}

// KeywordTables holds every keyword heuristic used by filtering, scoring,
// routine sequencing and free-text analysis. Tables are data: they are
// loaded from configuration and can be tuned without touching the scorer.
//
// All keywords are matched case-insensitively as substrings. Call
// Normalize before use; the engine does so on construction.
type KeywordTables struct {
	// RoutineSteps is evaluated in order and the first rule with a keyword
	// contained in the category wins.
	RoutineSteps []RoutineRule `json:"routine_steps" koanf:"routine_steps"`

	// UnscheduledStep is assigned to categories no rule matches.
	// Zero means one past the highest configured step.
	UnscheduledStep int `json:"unscheduled_step" koanf:"unscheduled_step"`

	// UniversalSkinTags mark a product as suitable for every skin type.
	UniversalSkinTags []string `json:"universal_skin_tags" koanf:"universal_skin_tags"`

	// AnySkinType lists requested skin-type values that mean "no preference".
	AnySkinType []string `json:"any_skin_type" koanf:"any_skin_type"`

	// AllCategories lists requested product-type values that mean "every category".
	AllCategories []string `json:"all_categories" koanf:"all_categories"`

	// SkinTypeAliases maps a canonical skin type to equivalent spellings.
	SkinTypeAliases map[string][]string `json:"skin_type_aliases" koanf:"skin_type_aliases"`

	// ConcernAliases maps a canonical concern to equivalent keywords.
	ConcernAliases map[string][]string `json:"concern_aliases" koanf:"concern_aliases"`

	// AgeBuckets must be sorted by ascending MaxAge with the unbounded
	// bucket last.
	AgeBuckets []AgeBucket `json:"age_buckets" koanf:"age_buckets"`

	// PricePresets maps a budget name to a price range.
	PricePresets map[string]PricePreset `json:"price_presets" koanf:"price_presets"`

	routineMax int
}

func floatPtr(v float64) *float64 { return &v }

// DefaultKeywordTables returns the built-in Thai and English tables.
func DefaultKeywordTables() KeywordTables {
	return KeywordTables{
		RoutineSteps: []RoutineRule{
			{Step: 1, Label: "cleanse", Keywords: []string{"cleanser", "cleansing", "face wash", "foam", "micellar", "ล้างหน้า", "คลีนเซอร์", "โฟม"}},
			{Step: 2, Label: "tone", Keywords: []string{"toner", "โทนเนอร์"}},
			// protect before moisturize so "sunscreen cream" lands on step 5
			{Step: 5, Label: "protect", Keywords: []string{"sunscreen", "sunblock", "spf", "กันแดด"}},
			{Step: 3, Label: "treat", Keywords: []string{"serum", "essence", "ampoule", "treatment", "เซรั่ม", "เอสเซนส์"}},
			{Step: 4, Label: "moisturize", Keywords: []string{"moisturizer", "moisturiser", "cream", "lotion", "มอยส์เจอไรเซอร์", "ครีม"}},
		},
		UniversalSkinTags: []string{"all", "every skin", "ทุกสภาพผิว", "ทุกประเภทผิว"},
		AnySkinType:       []string{"", "all", "any", "ทุกสภาพผิว", "ทุกประเภทผิว"},
		AllCategories:     []string{"", "all", "any", "ทุกประเภท"},
		SkinTypeAliases: map[string][]string{
			"oily":        {"oily", "ผิวมัน"},
			"dry":         {"dry", "ผิวแห้ง"},
			"combination": {"combination", "mixed", "ผิวผสม"},
			"normal":      {"normal", "ผิวธรรมดา", "ผิวปกติ"},
			"sensitive":   {"sensitive", "ผิวแพ้ง่าย", "แพ้ง่าย", "บอบบาง"},
		},
		ConcernAliases: map[string][]string{
			"acne":        {"acne", "สิว", "blemish"},
			"wrinkles":    {"wrinkle", "anti-aging", "ริ้วรอย"},
			"oil_control": {"oil control", "หน้ามัน", "sebum"},
			"dark_spots":  {"dark spot", "รอยดำ", "จุดด่างดำ", "ฝ้า", "hyperpigmentation"},
			"sensitivity": {"soothing", "ผิวแพ้ง่าย", "calming"},
			"pores":       {"pore", "รูขุมขน"},
			"dullness":    {"brightening", "หมองคล้ำ", "กระจ่างใส"},
			"dryness":     {"hydrating", "moisturizing", "ชุ่มชื้น", "dryness"},
		},
		AgeBuckets: []AgeBucket{
			{Name: "under_25", MaxAge: 25, Keywords: []string{"prevent", "protect", "ป้องกัน", "antioxidant", "ต้านอนุมูลอิสระ"}},
			{Name: "25_34", MaxAge: 35, Keywords: []string{"anti-aging", "early aging", "elasticity", "ยืดหยุ่น", "collagen", "คอลลาเจน"}},
			{Name: "35_plus", MaxAge: 0, Keywords: []string{"wrinkle", "firming", "ริ้วรอย", "กระชับ", "retinol", "lifting"}},
		},
		PricePresets: map[string]PricePreset{
			"low":    {Min: floatPtr(0), Max: floatPtr(500)},
			"medium": {Min: floatPtr(500), Max: floatPtr(1500)},
			"high":   {Min: floatPtr(1500)},
			"any":    {},
		},
	}
}

// Normalize lowercases and trims every keyword in place and derives the
// unscheduled step.
func (t *KeywordTables) Normalize() {
	for i := range t.RoutineSteps {
		t.RoutineSteps[i].Keywords = lowerAll(t.RoutineSteps[i].Keywords)
		if t.RoutineSteps[i].Step > t.routineMax {
			t.routineMax = t.RoutineSteps[i].Step
		}
	}
	if t.UnscheduledStep <= 0 {
		t.UnscheduledStep = t.routineMax + 1
	}
	t.UniversalSkinTags = lowerAll(t.UniversalSkinTags)
	t.AnySkinType = lowerAll(t.AnySkinType)
	t.AllCategories = lowerAll(t.AllCategories)
	t.SkinTypeAliases = lowerAliases(t.SkinTypeAliases)
	t.ConcernAliases = lowerAliases(t.ConcernAliases)
	for i := range t.AgeBuckets {
		t.AgeBuckets[i].Keywords = lowerAll(t.AgeBuckets[i].Keywords)
	}
	if len(t.PricePresets) > 0 {
		presets := make(map[string]PricePreset, len(t.PricePresets))
		for name, p := range t.PricePresets {
			presets[normalizeText(name)] = p
		}
		t.PricePresets = presets
	}
}

// Validate checks that the tables are usable.
func (t *KeywordTables) Validate() error {
	if len(t.RoutineSteps) == 0 {
		return fmt.Errorf("keywords.routine_steps must not be empty")
	}
	for _, r := range t.RoutineSteps {
		if r.Step < 1 {
			return fmt.Errorf("keywords.routine_steps[%s].step must be positive, got %d", r.Label, r.Step)
		}
	}
	for i, b := range t.AgeBuckets {
		if b.MaxAge == 0 && i != len(t.AgeBuckets)-1 {
			return fmt.Errorf("keywords.age_buckets: unbounded bucket %q must be last", b.Name)
		}
		if i > 0 && b.MaxAge != 0 && b.MaxAge <= t.AgeBuckets[i-1].MaxAge {
			return fmt.Errorf("keywords.age_buckets must be ordered by max_age, %q is out of order", b.Name)
		}
	}
	for name, p := range t.PricePresets {
		if p.Min != nil && p.Max != nil && *p.Max < *p.Min {
			return fmt.Errorf("keywords.price_presets[%s]: max < min", name)
		}
	}
	return nil
}

// RoutineStep maps a category to its routine step.
func (t *KeywordTables) RoutineStep(category string) int {
	c := normalizeText(category)
	if c != "" {
		for _, r := range t.RoutineSteps {
			if containsAny(c, r.Keywords) {
				return r.Step
			}
		}
	}
	return t.UnscheduledStep
}

// IsUniversal reports whether skin-type tags declare every skin type.
// ASCII sentinels must match whole words, so "all" does not match
// "allergy-prone" or "small pores".
func (t *KeywordTables) IsUniversal(tags string) bool {
	tags = normalizeText(tags)
	for _, k := range t.UniversalSkinTags {
		if k != "" && containsTerm(tags, k) {
			return true
		}
	}
	return false
}

// IsAnySkinType reports whether a requested skin type means "no preference".
// An empty value always does; the table only adds sentinels.
func (t *KeywordTables) IsAnySkinType(skinType string) bool {
	s := normalizeText(skinType)
	return s == "" || containsExact(s, t.AnySkinType)
}

// IsAllCategories reports whether a requested product type means every
// category. An empty value always does.
func (t *KeywordTables) IsAllCategories(productType string) bool {
	s := normalizeText(productType)
	return s == "" || containsExact(s, t.AllCategories)
}

// SkinTypeTerms returns the lowercase terms that identify skinType: the
// value itself plus the aliases of any group it belongs to.
func (t *KeywordTables) SkinTypeTerms(skinType string) []string {
	return expandAliases(normalizeText(skinType), t.SkinTypeAliases)
}

// ConcernTerms returns the lowercase terms that identify a concern.
func (t *KeywordTables) ConcernTerms(concern string) []string {
	return expandAliases(normalizeText(concern), t.ConcernAliases)
}

// AgeBucketFor returns the bucket for age, or false if none applies.
func (t *KeywordTables) AgeBucketFor(age int) (AgeBucket, bool) {
	for _, b := range t.AgeBuckets {
		if b.MaxAge == 0 || age < b.MaxAge {
			return b, true
		}
	}
	return AgeBucket{}, false
}

// Preset looks up a named price preset.
func (t *KeywordTables) Preset(name string) (PricePreset, bool) {
	p, ok := t.PricePresets[normalizeText(name)]
	return p, ok
}

// expandAliases returns term plus every alias of the groups that contain
// term as key or alias. Output is deduplicated and sorted after term.
func expandAliases(term string, groups map[string][]string) []string {
	if term == "" {
		return nil
	}
	seen := map[string]bool{term: true}
	out := []string{term}
	var extra []string
	for key, aliases := range groups {
		if key != term && !containsExact(term, aliases) {
			continue
		}
		for _, a := range append([]string{key}, aliases...) {
			if strings.Contains(a, "_") {
				// canonical keys such as dark_spots are identifiers, not text
				continue
			}
			if !seen[a] {
				seen[a] = true
				extra = append(extra, a)
			}
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = normalizeText(s)
	}
	return out
}

func lowerAliases(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[normalizeText(k)] = lowerAll(v)
	}
	return out
}

// containsAny reports whether s contains any non-empty keyword.
func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// containsTerm reports whether k occurs in s. An ASCII term must not be
// adjacent to a letter or digit; other scripts match as substrings since
// Thai text has no word separators.
func containsTerm(s, k string) bool {
	if !isASCII(k) {
		return strings.Contains(s, k)
	}
	for from := 0; from <= len(s)-len(k); {
		i := strings.Index(s[from:], k)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(k)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		from = start + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func containsExact(s string, values []string) bool {
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}
