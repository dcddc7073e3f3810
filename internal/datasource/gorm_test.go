// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package datasource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tomtom215/skinmatch/internal/recommend"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func seedProducts(t *testing.T, db *gorm.DB) {
	t.Helper()
	rating := 4.4
	products := []ProductRecord{
		{ID: 2, Name: "Retinol Serum", SkinType: "oily", Category: "serum", Benefits: "anti-aging",
			Price: decimal.NewNullDecimal(decimal.RequireFromString("890.00")), Rating: &rating},
		{ID: 1, Name: "Gentle Cleanser", SkinType: "all", Category: "cleanser", Description: "hydrating",
			Price: decimal.NewNullDecimal(decimal.NewFromInt(250))},
		{ID: 3, Name: "Mystery Mask", Category: "mask"},
	}
	if err := db.Create(&products).Error; err != nil {
		t.Fatalf("seed products: %v", err)
	}
}

func TestGormCatalogProvider(t *testing.T) {
	db := newTestDB(t)
	seedProducts(t, db)

	rows, err := NewGormCatalogProvider(db).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	catalog, report, err := recommend.LoadCatalog(rows)
	if err != nil {
		t.Fatalf("recommend.LoadCatalog() error = %v", err)
	}
	if report.Accepted != 3 || report.PriceUnknown != 1 {
		t.Errorf("report = %+v, want 3 accepted and 1 unknown price", report)
	}
	if got := catalog.IDs(); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("IDs() = %v, want ordered by id", got)
	}

	serum, _, _ := catalog.Get(2)
	if serum.Price != 890 || serum.Rating != 4.4 || serum.SkinTypeTags != "oily" {
		t.Errorf("serum = %+v", serum)
	}
	cleanser, _, _ := catalog.Get(1)
	if cleanser.BenefitText != "hydrating" {
		t.Errorf("description should populate benefit text, got %q", cleanser.BenefitText)
	}
}

func TestGormCatalogProvider_QueryError(t *testing.T) {
	db := newTestDB(t)
	if err := db.Migrator().DropTable(&ProductRecord{}); err != nil {
		t.Fatal(err)
	}

	_, err := NewGormCatalogProvider(db).LoadCatalog(context.Background())
	var cle *recommend.CatalogLoadError
	if !errors.As(err, &cle) {
		t.Fatalf("error = %v, want *CatalogLoadError", err)
	}
}

func TestGormRatingProvider(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	in := []recommend.Rating{
		{UserID: 1, ProductID: 10, Value: 5},
		{UserID: 2, ProductID: 11, Value: 3},
		{UserID: 3, ProductID: 10, Value: 4},
	}
	if err := SaveRatings(ctx, db, in); err != nil {
		t.Fatalf("SaveRatings() error = %v", err)
	}
	provider := NewGormRatingProvider(db)

	got, err := provider.LoadRatings(ctx, []int{10})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != in[0] || got[1] != in[2] {
		t.Errorf("LoadRatings([10]) = %+v", got)
	}

	all, err := provider.LoadRatings(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("LoadRatings(nil) returned %d ratings, want 3", len(all))
	}
}

func TestGormProviders_DriveEngine(t *testing.T) {
	db := newTestDB(t)
	seedProducts(t, db)
	ctx := context.Background()
	if err := SaveRatings(ctx, db, []recommend.Rating{
		{UserID: 1, ProductID: 1, Value: 5},
		{UserID: 1, ProductID: 2, Value: 4},
	}); err != nil {
		t.Fatal(err)
	}

	engine, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	engine.SetCatalogProvider(NewGormCatalogProvider(db))
	engine.SetRatingProvider(NewGormRatingProvider(db))

	status, err := engine.Reload(ctx)
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if status.Products != 3 || !status.Ratings.Available || status.Ratings.Kept != 2 {
		t.Errorf("status = %+v", status)
	}
}

func TestOpenPostgres_RequiresDSN(t *testing.T) {
	if _, err := OpenPostgres(context.Background(), PostgresConfig{}, zerolog.Nop()); err == nil {
		t.Error("expected error for empty DSN")
	}
}
