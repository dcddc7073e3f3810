// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical column names.
const (
	colID          = "id"
	colName        = "name"
	colBrand       = "brand"
	colCategory    = "category"
	colSkinTags    = "skin_type_tags"
	colBenefit     = "benefit_text"
	colIngredients = "ingredients"
	colPrice       = "price"
	colRating      = "rating"
)

// columnAliases maps normalized source column names (see normalizeColumn)
// to canonical names. Sources disagree on naming, casing and language.
var columnAliases = map[string]string{
	"id":         colID,
	"product id": colID,
	"รหัสสินค้า":  colID,

	"name":         colName,
	"product name": colName,
	"ชื่อสินค้า":    colName,
	"ชื่อ":          colName,

	"brand":  colBrand,
	"แบรนด์": colBrand,

	"category":        colCategory,
	"product type":    colCategory,
	"type of product": colCategory,
	"type":            colCategory,
	"ประเภท":          colCategory,

	"skin type tags": colSkinTags,
	"skintype":       colSkinTags,
	"skin type":      colSkinTags,
	"สภาพผิว":        colSkinTags,

	"benefit text":                     colBenefit,
	"benefits":                         colBenefit,
	"benefit":                          colBenefit,
	"description":                      colBenefit,
	"คุณสมบัติ(จากactive ingredients)": colBenefit,
	"คุณสมบัติ":                        colBenefit,

	"ingredients":        colIngredients,
	"active ingredients": colIngredients,
	"ส่วนผสม":            colIngredients,

	"price":        colPrice,
	"price (bath)": colPrice,
	"price (baht)": colPrice,
	"ราคา":         colPrice,

	"rating":     colRating,
	"avg rating": colRating,
}

// RowRejection describes one dropped catalog row. Row is the zero-based
// position in the provider's sequence.
type RowRejection struct {
	Row    int    `json:"row"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// LoadReport summarizes a catalog load.
type LoadReport struct {
	Accepted        int            `json:"accepted_count"`
	Rejected        int            `json:"rejected_count"`
	RejectedReasons []RowRejection `json:"rejected_reasons"`
	PriceUnknown    int            `json:"price_unknown_count"`
}

func (r *LoadReport) reject(row int, id, reason string) {
	r.Rejected++
	r.RejectedReasons = append(r.RejectedReasons, RowRejection{Row: row, ID: id, Reason: reason})
}

// Catalog is an immutable, insertion-ordered product table.
type Catalog struct {
	products []Product
	byID     map[int]int
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// At returns the product at catalog position i.
func (c *Catalog) At(i int) *Product { return &c.products[i] }

// Products returns the products in insertion order. The slice must not be
// modified.
func (c *Catalog) Products() []Product { return c.products }

// Get returns the product with the given ID and its catalog position.
func (c *Catalog) Get(id int) (*Product, int, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, -1, false
	}
	return &c.products[i], i, true
}

// IDs returns every product ID in insertion order.
func (c *Catalog) IDs() []int {
	ids := make([]int, len(c.products))
	for i := range c.products {
		ids[i] = c.products[i].ID
	}
	return ids
}

// NewCatalog builds a catalog from already-normalized products. Duplicate
// IDs are an error.
func NewCatalog(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	copy(c.products, products)
	for i := range c.products {
		if _, dup := c.byID[c.products[i].ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", c.products[i].ID)
		}
		c.byID[c.products[i].ID] = i
	}
	return c, nil
}

// LoadCatalog normalizes raw rows into a catalog.
//
// Column names are matched through columnAliases so downstream code always
// sees the canonical record. The id and name columns are mandatory: if no
// row carries them the whole load fails with *CatalogLoadError. Individual
// rows with a missing name, a missing or non-integer id, or a duplicate id
// are dropped and reported. Prices that cannot be parsed are marked
// unknown, never zero.
func LoadCatalog(rows []RawRow) (*Catalog, LoadReport, error) {
	report := LoadReport{RejectedReasons: []RowRejection{}}

	normalized := make([]map[string]string, len(rows))
	var hasID, hasName bool
	for i, raw := range rows {
		rec := normalizeRow(raw)
		_, idOK := rec[colID]
		_, nameOK := rec[colName]
		hasID = hasID || idOK
		hasName = hasName || nameOK
		normalized[i] = rec
	}

	if len(rows) > 0 {
		var missing []string
		if !hasID {
			missing = append(missing, colID)
		}
		if !hasName {
			missing = append(missing, colName)
		}
		if len(missing) > 0 {
			return nil, report, &CatalogLoadError{
				Reason: "missing mandatory columns: " + strings.Join(missing, ", "),
			}
		}
	}

	c := &Catalog{
		products: make([]Product, 0, len(rows)),
		byID:     make(map[int]int, len(rows)),
	}

	for i, rec := range normalized {
		rawID := rec[colID]
		if rawID == "" {
			report.reject(i, "", "missing id")
			continue
		}
		id, err := parseID(rawID)
		if err != nil {
			report.reject(i, rawID, "invalid id")
			continue
		}
		name := rec[colName]
		if name == "" {
			report.reject(i, rawID, "missing name")
			continue
		}
		if _, dup := c.byID[id]; dup {
			report.reject(i, rawID, "duplicate id")
			continue
		}

		p := Product{
			ID:           id,
			Name:         name,
			Brand:        rec[colBrand],
			Category:     rec[colCategory],
			SkinTypeTags: rec[colSkinTags],
			BenefitText:  rec[colBenefit],
			Ingredients:  rec[colIngredients],
			Rating:       parseRating(rec[colRating]),
		}
		p.Price, p.PriceKnown = CleanPrice(rec[colPrice])
		if !p.PriceKnown {
			report.PriceUnknown++
		}

		c.byID[id] = len(c.products)
		c.products = append(c.products, p)
	}

	report.Accepted = len(c.products)
	return c, report, nil
}

// normalizeRow maps a raw row onto canonical columns. Keys are visited in
// sorted order and the first non-empty value for a canonical column wins,
// so the result does not depend on map iteration order.
func normalizeRow(raw RawRow) map[string]string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rec := make(map[string]string, len(columnAliases))
	for _, k := range keys {
		canonical, ok := columnAliases[normalizeColumn(k)]
		if !ok {
			continue
		}
		v := strings.TrimSpace(stringValue(raw[k]))
		if prev, seen := rec[canonical]; !seen || (prev == "" && v != "") {
			rec[canonical] = v
		}
	}
	return rec
}

// normalizeColumn lowercases a column name, treats '_' and '-' as spaces
// and collapses runs of whitespace.
func normalizeColumn(name string) string {
	name = strings.ToLower(name)
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case decimal.Decimal:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func parseID(s string) (int, error) {
	if id, err := strconv.Atoi(s); err == nil {
		return id, nil
	}
	// spreadsheets export integer ids as "12.0"
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return int(f), nil
}

func parseRating(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// CleanPrice sanitizes a price string by keeping only digits and decimal
// points, then parsing the remainder as an exact decimal rounded to two
// places. ok is false when nothing parseable remains, e.g. "N/A" or
// "1.2.3".
//
// Examples: "1,200.-" -> 1200, "฿ 450" -> 450, "890.50 บาท" -> 890.5.
func CleanPrice(s string) (price float64, ok bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimRight(b.String(), ".")
	if cleaned == "" || cleaned == "." {
		return 0, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	return d.Round(2).InexactFloat64(), true
}

// FormatPrice renders a cleaned price the way it is accepted back by
// CleanPrice.
func FormatPrice(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}
