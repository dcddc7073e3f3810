// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package datasource

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tomtom215/skinmatch/internal/recommend"
)

// ProductRecord is a row of the products table.
type ProductRecord struct {
	ID          int                 `gorm:"column:id;primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	Brand       string              `gorm:"column:brand"`
	Category    string              `gorm:"column:category"`
	SkinType    string              `gorm:"column:skin_type"`
	Benefits    string              `gorm:"column:benefits"`
	Description string              `gorm:"column:description"`
	Ingredients string              `gorm:"column:ingredients"`
	Price       decimal.NullDecimal `gorm:"column:price;type:numeric(12,2)"`
	Rating      *float64            `gorm:"column:rating"`
	ImageURL    string              `gorm:"column:image_url"`
}

// TableName pins the table name.
func (ProductRecord) TableName() string { return "products" }

// RatingRecord is a row of the ratings table.
type RatingRecord struct {
	ID        uint    `gorm:"column:id;primaryKey"`
	UserID    int     `gorm:"column:user_id;not null;index"`
	ProductID int     `gorm:"column:product_id;not null;index"`
	Rating    float64 `gorm:"column:rating;not null"`
}

// TableName pins the table name.
func (RatingRecord) TableName() string { return "ratings" }

// PostgresConfig holds the connection settings for OpenPostgres.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// slowQueryThreshold is the query duration GORM logs as slow.
const slowQueryThreshold = 500 * time.Millisecond

// OpenPostgres opens a GORM connection to PostgreSQL. GORM reports slow
// queries and errors through logger at warn level.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger zerolog.Logger) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	conn, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.New(log.New(logger, "", 0), gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info().Str("component", "datasource").Msg("database connection established")
	return conn, nil
}

// Migrate creates the products and ratings tables if they do not exist.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ProductRecord{}, &RatingRecord{})
}

// GormCatalogProvider reads the catalog from the products table.
type GormCatalogProvider struct {
	db *gorm.DB
}

// NewGormCatalogProvider binds a GORM DB to catalog loading.
func NewGormCatalogProvider(db *gorm.DB) *GormCatalogProvider {
	return &GormCatalogProvider{db: db}
}

// LoadCatalog returns every product ordered by id.
func (p *GormCatalogProvider) LoadCatalog(ctx context.Context) ([]recommend.RawRow, error) {
	var records []ProductRecord
	if err := p.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, &recommend.CatalogLoadError{Reason: "query products", Err: err}
	}

	rows := make([]recommend.RawRow, len(records))
	for i := range records {
		rows[i] = records[i].toRow()
	}
	return rows, nil
}

func (r *ProductRecord) toRow() recommend.RawRow {
	row := recommend.RawRow{
		"id":          r.ID,
		"name":        r.Name,
		"brand":       r.Brand,
		"category":    r.Category,
		"skin_type":   r.SkinType,
		"benefits":    r.Benefits,
		"description": r.Description,
		"ingredients": r.Ingredients,
	}
	if r.Price.Valid {
		row["price"] = r.Price.Decimal.String()
	}
	if r.Rating != nil {
		row["rating"] = *r.Rating
	}
	return row
}

// GormRatingProvider reads ratings from the ratings table.
type GormRatingProvider struct {
	db *gorm.DB
}

// NewGormRatingProvider binds a GORM DB to rating loading.
func NewGormRatingProvider(db *gorm.DB) *GormRatingProvider {
	return &GormRatingProvider{db: db}
}

// LoadRatings returns the ratings of the given products ordered by row id.
// An empty productIDs loads every rating.
func (p *GormRatingProvider) LoadRatings(ctx context.Context, productIDs []int) ([]recommend.Rating, error) {
	q := p.db.WithContext(ctx).Order("id")
	if len(productIDs) > 0 {
		q = q.Where("product_id IN ?", productIDs)
	}

	var records []RatingRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}

	ratings := make([]recommend.Rating, len(records))
	for i, r := range records {
		ratings[i] = recommend.Rating{UserID: r.UserID, ProductID: r.ProductID, Value: r.Rating}
	}
	return ratings, nil
}

// SaveRatings inserts ratings in batches.
func SaveRatings(ctx context.Context, db *gorm.DB, ratings []recommend.Rating) error {
	if len(ratings) == 0 {
		return nil
	}
	records := make([]RatingRecord, len(ratings))
	for i, r := range ratings {
		records[i] = RatingRecord{UserID: r.UserID, ProductID: r.ProductID, Rating: r.Value}
	}
	if err := db.WithContext(ctx).CreateInBatches(records, 500).Error; err != nil {
		return fmt.Errorf("insert ratings: %w", err)
	}
	return nil
}
