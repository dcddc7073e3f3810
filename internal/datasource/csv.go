// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package datasource

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/skinmatch/internal/recommend"
)

const utf8BOM = "\uFEFF"

// CSVCatalogProvider reads the product catalog from a CSV file with a
// header row.
type CSVCatalogProvider struct {
	path   string
	logger zerolog.Logger
}

// NewCSVCatalogProvider creates a catalog provider for path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCSVCatalogProvider(path string, logger zerolog.Logger) *CSVCatalogProvider {
	return &CSVCatalogProvider{
		path:   path,
		logger: logger.With().Str("component", "datasource").Str("source", "csv_catalog").Logger(),
	}
}

// LoadCatalog reads every data row keyed by its header column.
func (p *CSVCatalogProvider) LoadCatalog(ctx context.Context) ([]recommend.RawRow, error) {
	header, records, err := readCSV(ctx, p.path)
	if err != nil {
		return nil, &recommend.CatalogLoadError{Reason: "read catalog csv " + p.path, Err: err}
	}

	rows := make([]recommend.RawRow, 0, len(records))
	for _, rec := range records {
		row := make(recommend.RawRow, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}

	p.logger.Debug().Str("path", p.path).Int("rows", len(rows)).Msg("catalog csv read")
	return rows, nil
}

// CSVRatingProvider reads user ratings from a CSV file with user_id,
// product_id and rating columns.
type CSVRatingProvider struct {
	path   string
	logger zerolog.Logger
}

// NewCSVRatingProvider creates a rating provider for path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCSVRatingProvider(path string, logger zerolog.Logger) *CSVRatingProvider {
	return &CSVRatingProvider{
		path:   path,
		logger: logger.With().Str("component", "datasource").Str("source", "csv_ratings").Logger(),
	}
}

// LoadRatings returns the ratings of the given products in file order.
// Rows with unparseable ids are dropped; an unparseable rating value is
// passed on as NaN so the aggregator counts it as invalid.
func (p *CSVRatingProvider) LoadRatings(ctx context.Context, productIDs []int) ([]recommend.Rating, error) {
	header, records, err := readCSV(ctx, p.path)
	if err != nil {
		return nil, fmt.Errorf("read ratings csv %s: %w", p.path, err)
	}

	cols, err := ratingColumns(header)
	if err != nil {
		return nil, fmt.Errorf("ratings csv %s: %w", p.path, err)
	}

	wanted := idSet(productIDs)
	ratings := make([]recommend.Rating, 0, len(records))
	dropped := 0
	for _, rec := range records {
		r, ok := parseRatingRecord(rec, cols)
		if !ok {
			dropped++
			continue
		}
		if wanted != nil && !wanted[r.ProductID] {
			continue
		}
		ratings = append(ratings, r)
	}

	if dropped > 0 {
		p.logger.Warn().Int("dropped", dropped).Msg("dropped rating rows with unparseable ids")
	}
	p.logger.Debug().Str("path", p.path).Int("ratings", len(ratings)).Msg("ratings csv read")
	return ratings, nil
}

type ratingCols struct {
	user, product, value int
}

func ratingColumns(header []string) (ratingCols, error) {
	cols := ratingCols{user: -1, product: -1, value: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "user_id", "userid", "user":
			cols.user = i
		case "product_id", "productid", "product", "item_id":
			cols.product = i
		case "rating", "score", "value":
			cols.value = i
		}
	}
	var missing []string
	if cols.user < 0 {
		missing = append(missing, "user_id")
	}
	if cols.product < 0 {
		missing = append(missing, "product_id")
	}
	if cols.value < 0 {
		missing = append(missing, "rating")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRatingRecord(rec []string, cols ratingCols) (recommend.Rating, bool) {
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	user, err := parseIntID(field(cols.user))
	if err != nil {
		return recommend.Rating{}, false
	}
	product, err := parseIntID(field(cols.product))
	if err != nil {
		return recommend.Rating{}, false
	}
	value, err := strconv.ParseFloat(field(cols.value), 64)
	if err != nil {
		value = math.NaN()
	}
	return recommend.Rating{UserID: user, ProductID: product, Value: value}, true
}

// parseIntID accepts integer ids written as floats ("12.0"), as spreadsheet
// exports often do.
func parseIntID(s string) (int, error) {
	if id, err := strconv.Atoi(s); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return int(f), nil
}

// readCSV returns the header and data records of a CSV file. Ragged rows
// are allowed; a leading byte order mark is stripped.
func readCSV(ctx context.Context, path string) (header []string, records [][]string, err error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err = r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(rec) {
			continue
		}
		records = append(records, rec)
	}
	return header, records, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// idSet returns nil for an empty id list, meaning no filtering.
func idSet(ids []int) map[int]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// WriteRatingsCSV writes ratings with a user_id,product_id,rating header.
func WriteRatingsCSV(w io.Writer, ratings []recommend.Rating) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"user_id", "product_id", "rating"}); err != nil {
		return err
	}
	for _, r := range ratings {
		rec := []string{
			strconv.Itoa(r.UserID),
			strconv.Itoa(r.ProductID),
			strconv.FormatFloat(r.Value, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
