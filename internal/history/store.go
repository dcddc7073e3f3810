// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package history

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/skinmatch/internal/recommend"
)

// Key layout: "history:<hex user id>:<8-byte big-endian unix nanos><record id>".
// The hex encoding keeps one user's prefix from matching another's, and the
// big-endian timestamp makes key order chronological.
const historyKeyPrefix = "history:"

// ErrInvalidUser is returned for an empty user id.
var ErrInvalidUser = errors.New("user id is required")

// Store persists recommendation history records.
type Store interface {
	Append(ctx context.Context, rec *recommend.HistoryRecord) error
	List(ctx context.Context, userID string, limit int) ([]recommend.HistoryRecord, error)
}

// BadgerStore implements Store using BadgerDB for durable storage.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// StoreConfig controls how the badger database is opened.
type StoreConfig struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory; used by tests and ephemeral
	// deployments.
	InMemory bool

	// RetentionTTL expires records after this long. Zero keeps them forever.
	RetentionTTL time.Duration
}

// OpenBadgerStore opens (or creates) a badger database for history.
func OpenBadgerStore(cfg StoreConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	} else if cfg.Path == "" {
		return nil, fmt.Errorf("history path is required unless in-memory")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return &BadgerStore{db: db, ttl: cfg.RetentionTTL}, nil
}

// NewBadgerStore wraps an already opened badger database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func userPrefix(userID string) []byte {
	return []byte(historyKeyPrefix + hex.EncodeToString([]byte(userID)) + ":")
}

func recordKey(rec *recommend.HistoryRecord) []byte {
	prefix := userPrefix(rec.UserID)
	key := make([]byte, 0, len(prefix)+8+len(rec.ID))
	key = append(key, prefix...)
	key = binary.BigEndian.AppendUint64(key, uint64(rec.Timestamp.UnixNano())) //nolint:gosec // timestamps are after 1970
	return append(key, rec.ID...)
}

// Append stores a record.
func (s *BadgerStore) Append(ctx context.Context, rec *recommend.HistoryRecord) error {
	if rec.UserID == "" {
		return ErrInvalidUser
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(recordKey(rec), data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("set history record: %w", err)
		}
		return nil
	})
}

// List returns up to limit records for a user, newest first.
func (s *BadgerStore) List(ctx context.Context, userID string, limit int) ([]recommend.HistoryRecord, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	if limit <= 0 {
		return []recommend.HistoryRecord{}, nil
	}

	out := make([]recommend.HistoryRecord, 0, min(limit, 64))
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = userPrefix(userID)
		it := txn.NewIterator(opts)
		defer it.Close()

		// reverse iteration starts from the largest key under the prefix
		seek := append(append([]byte{}, opts.Prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix) && len(out) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec recommend.HistoryRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode history record: %w", err)
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
