// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package history

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/skinmatch/internal/logging"
	"github.com/tomtom215/skinmatch/internal/metrics"
	"github.com/tomtom215/skinmatch/internal/recommend"
)

// DispatcherConfig holds configuration for the history dispatcher.
type DispatcherConfig struct {
	// QueueSize is the number of records buffered before new ones are
	// dropped. Default: 1024.
	QueueSize int

	// WriteTimeout bounds a single store write. Default: 5s.
	WriteTimeout time.Duration

	// DrainTimeout bounds how long buffered records are flushed on
	// shutdown. Default: 5s.
	DrainTimeout time.Duration

	// BreakerMinRequests is the number of writes in the measurement window
	// before the breaker may trip. Default: 10.
	BreakerMinRequests uint32

	// BreakerFailureRatio opens the circuit at or above this failure rate.
	// Default: 0.6.
	BreakerFailureRatio float64

	// BreakerInterval resets counts in the closed state. Default: 1m.
	BreakerInterval time.Duration

	// BreakerTimeout is how long the circuit stays open. Default: 30s.
	BreakerTimeout time.Duration
}

// DefaultDispatcherConfig returns production defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		QueueSize:           1024,
		WriteTimeout:        5 * time.Second,
		DrainTimeout:        5 * time.Second,
		BreakerMinRequests:  10,
		BreakerFailureRatio: 0.6,
		BreakerInterval:     time.Minute,
		BreakerTimeout:      30 * time.Second,
	}
}

func (c DispatcherConfig) withDefaults() DispatcherConfig {
	d := DefaultDispatcherConfig()
	if c.QueueSize <= 0 {
		c.QueueSize = d.QueueSize
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.DrainTimeout <= 0 {
		c.DrainTimeout = d.DrainTimeout
	}
	if c.BreakerMinRequests == 0 {
		c.BreakerMinRequests = d.BreakerMinRequests
	}
	if c.BreakerFailureRatio <= 0 {
		c.BreakerFailureRatio = d.BreakerFailureRatio
	}
	if c.BreakerInterval <= 0 {
		c.BreakerInterval = d.BreakerInterval
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = d.BreakerTimeout
	}
	return c
}

// Dispatcher decouples history writes from recommendation requests.
// Record enqueues without blocking; Serve drains the queue into the store
// through a circuit breaker. An open circuit or a full queue drops records.
//
// Dispatcher implements recommend.HistorySink and suture.Service.
type Dispatcher struct {
	store  Store
	config DispatcherConfig
	logger zerolog.Logger
	queue  chan recommend.HistoryRecord
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string

	written atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// DispatcherStats reports dispatcher counters.
type DispatcherStats struct {
	Written      int64  `json:"written"`
	Failed       int64  `json:"failed"`
	Dropped      int64  `json:"dropped"`
	Queued       int    `json:"queued"`
	BreakerState string `json:"breaker_state"`
}

// NewDispatcher creates a dispatcher writing to store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDispatcher(store Store, cfg DispatcherConfig, logger zerolog.Logger) *Dispatcher {
	cfg = cfg.withDefaults()
	d := &Dispatcher{
		store:  store,
		config: cfg,
		logger: logger.With().Str("component", "history").Logger(),
		queue:  make(chan recommend.HistoryRecord, cfg.QueueSize),
		name:   "history-dispatcher",
	}

	cbName := "history-store"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	d.cb = gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.BreakerFailureRatio {
				d.logger.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("opening history circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			d.logger.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("history circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	return d
}

// Record enqueues a record. It never blocks: when the queue is full the
// record is dropped and counted.
//
//nolint:gocritic // hugeParam: signature fixed by recommend.HistorySink
func (d *Dispatcher) Record(rec recommend.HistoryRecord) {
	select {
	case d.queue <- rec:
		metrics.HistoryQueueDepth.Set(float64(len(d.queue)))
	default:
		d.dropped.Add(1)
		metrics.RecordHistoryDropped("queue_full")
		d.logger.Warn().Str("user_id", logging.SanitizeUserID(rec.UserID)).Msg("history queue full, dropping record")
	}
}

// Serve implements suture.Service. It writes queued records until the
// context is canceled, then flushes what is buffered within DrainTimeout.
func (d *Dispatcher) Serve(ctx context.Context) error {
	d.logger.Info().Int("queue_size", d.config.QueueSize).Msg("history dispatcher starting")

	for {
		select {
		case <-ctx.Done():
			d.drain()
			d.logger.Info().Msg("history dispatcher shutting down")
			return ctx.Err()
		case rec := <-d.queue:
			metrics.HistoryQueueDepth.Set(float64(len(d.queue)))
			d.write(ctx, &rec)
		}
	}
}

// drain flushes buffered records with a fresh deadline; whatever cannot be
// written in time is dropped.
func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.DrainTimeout)
	defer cancel()

	for {
		select {
		case rec := <-d.queue:
			if ctx.Err() != nil {
				d.dropped.Add(1)
				metrics.RecordHistoryDropped("stopped")
				continue
			}
			d.write(ctx, &rec)
		default:
			metrics.HistoryQueueDepth.Set(0)
			return
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, rec *recommend.HistoryRecord) {
	writeCtx, cancel := context.WithTimeout(ctx, d.config.WriteTimeout)
	defer cancel()

	_, err := d.cb.Execute(func() (interface{}, error) {
		return nil, d.store.Append(writeCtx, rec)
	})

	switch {
	case err == nil:
		d.written.Add(1)
		metrics.RecordHistoryWrite("success")
		metrics.CircuitBreakerRequests.WithLabelValues(d.cb.Name(), "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(d.cb.Name()).Set(0)
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		d.dropped.Add(1)
		metrics.RecordHistoryWrite("rejected")
		metrics.CircuitBreakerRequests.WithLabelValues(d.cb.Name(), "rejected").Inc()
		d.logger.Debug().Str("user_id", logging.SanitizeUserID(rec.UserID)).Msg("history circuit open, dropping record")
	default:
		d.failed.Add(1)
		metrics.RecordHistoryWrite("failure")
		metrics.CircuitBreakerRequests.WithLabelValues(d.cb.Name(), "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(d.cb.Name()).Set(float64(d.cb.Counts().ConsecutiveFailures))
		d.logger.Warn().Err(err).Str("user_id", logging.SanitizeUserID(rec.UserID)).Msg("history write failed")
	}
}

// List reads a user's history from the store, newest first.
func (d *Dispatcher) List(ctx context.Context, userID string, limit int) ([]recommend.HistoryRecord, error) {
	return d.store.List(ctx, userID, limit)
}

// Stats returns the dispatcher counters.
func (d *Dispatcher) Stats() DispatcherStats {
	return DispatcherStats{
		Written:      d.written.Load(),
		Failed:       d.failed.Load(),
		Dropped:      d.dropped.Load(),
		Queued:       len(d.queue),
		BreakerState: stateToString(d.cb.State()),
	}
}

// String returns the service name for logging.
func (d *Dispatcher) String() string {
	return d.name
}

// stateToString converts circuit breaker state to string
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// stateToFloat converts circuit breaker state to float64 for Prometheus
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
