// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"errors"
	"math"
	"testing"
)

func TestCleanPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"1,200.-", 1200, true},
		{"฿ 450", 450, true},
		{"890.50 บาท", 890.5, true},
		{"250", 250, true},
		{"0", 0, true},
		{".5", 0.5, true},
		{"12.345", 12.35, true},
		{"N/A", 0, false},
		{"", 0, false},
		{".", 0, false},
		{"1.2.3", 0, false},
		{"-", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := CleanPrice(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("CleanPrice(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CleanPrice(%q) = %f, want %f", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanPrice_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"1,200.-", "฿ 450", "890.50 บาท", "3,499", "12.345", "0.99"}
	for _, in := range inputs {
		first, ok := CleanPrice(in)
		if !ok {
			t.Fatalf("CleanPrice(%q) not ok", in)
		}
		second, ok := CleanPrice(FormatPrice(first))
		if !ok || second != first {
			t.Errorf("clean(clean(%q)) = %f, want %f", in, second, first)
		}
	}
}

func TestNormalizeColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Product_Name", "product name"},
		{"  Skin-Type  ", "skin type"},
		{"Price (Baht)", "price (baht)"},
		{"ราคา", "ราคา"},
		{"avg__rating", "avg rating"},
	}
	for _, tt := range tests {
		if got := normalizeColumn(tt.in); got != tt.want {
			t.Errorf("normalizeColumn(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	rows := []RawRow{
		{"ID": "1", "Product_Name": "Gentle Cleanser", "Skin Type": "all", "Type": "Cleanser", "Price": "250", "Benefits": "hydrating"},
		{"รหัสสินค้า": 2.0, "ชื่อสินค้า": "Retinol Serum", "สภาพผิว": "ผิวมัน", "ประเภท": "Serum", "ราคา": "1,200.-", "rating": "4.5"},
		{"id": "3", "name": "Mystery Toner", "price": "N/A"},
		{"id": "4", "name": ""},
		{"id": "abc", "name": "Bad ID"},
		{"id": "1", "name": "Duplicate"},
		{"name": "No ID"},
	}

	catalog, report, err := LoadCatalog(rows)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	if catalog.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", catalog.Len())
	}
	if report.Accepted != 3 || report.Rejected != 4 {
		t.Errorf("report = %+v, want 3 accepted, 4 rejected", report)
	}
	if report.PriceUnknown != 1 {
		t.Errorf("PriceUnknown = %d, want 1", report.PriceUnknown)
	}

	wantReasons := map[int]string{3: "missing name", 4: "invalid id", 5: "duplicate id", 6: "missing id"}
	for _, r := range report.RejectedReasons {
		if wantReasons[r.Row] != r.Reason {
			t.Errorf("row %d rejected for %q, want %q", r.Row, r.Reason, wantReasons[r.Row])
		}
	}

	p, pos, ok := catalog.Get(2)
	if !ok {
		t.Fatal("product 2 not found")
	}
	if pos != 1 {
		t.Errorf("position = %d, want 1", pos)
	}
	if p.Name != "Retinol Serum" || p.SkinTypeTags != "ผิวมัน" || p.Category != "Serum" {
		t.Errorf("thai columns not normalized: %+v", p)
	}
	if !p.PriceKnown || p.Price != 1200 {
		t.Errorf("price = %f (known %v), want 1200", p.Price, p.PriceKnown)
	}
	if p.Rating != 4.5 {
		t.Errorf("rating = %f, want 4.5", p.Rating)
	}

	toner, _, _ := catalog.Get(3)
	if toner.PriceKnown {
		t.Error("unparsable price should be unknown")
	}
	if toner.Brand != "" || toner.Ingredients != "" || toner.Rating != 0 {
		t.Errorf("optional columns should default to zero values: %+v", toner)
	}

	if ids := catalog.IDs(); len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("IDs() = %v, want insertion order [1 2 3]", ids)
	}
}

func TestLoadCatalog_MissingColumns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rows []RawRow
	}{
		{name: "no name column", rows: []RawRow{{"id": "1", "brand": "x"}}},
		{name: "no id column", rows: []RawRow{{"name": "Cleanser"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := LoadCatalog(tt.rows)
			var cle *CatalogLoadError
			if !errors.As(err, &cle) {
				t.Fatalf("error = %v, want *CatalogLoadError", err)
			}
		})
	}
}

func TestLoadCatalog_Empty(t *testing.T) {
	t.Parallel()

	catalog, report, err := LoadCatalog(nil)
	if err != nil {
		t.Fatalf("LoadCatalog(nil) error = %v", err)
	}
	if catalog.Len() != 0 || report.Accepted != 0 {
		t.Errorf("expected empty catalog, got %d products", catalog.Len())
	}
}

func TestLoadCatalog_FirstNonEmptyAliasWins(t *testing.T) {
	t.Parallel()

	rows := []RawRow{{"id": "1", "benefit": "", "benefits": "soothing", "name": "A"}}
	catalog, _, err := LoadCatalog(rows)
	if err != nil {
		t.Fatal(err)
	}
	if got := catalog.At(0).BenefitText; got != "soothing" {
		t.Errorf("BenefitText = %q, want soothing", got)
	}
}

func TestNewCatalog_DuplicateID(t *testing.T) {
	t.Parallel()

	if _, err := NewCatalog([]Product{{ID: 1}, {ID: 1}}); err == nil {
		t.Error("expected duplicate id error")
	}
}
