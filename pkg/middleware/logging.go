// Package middleware provides decorators for the hypertable service.
// Each middleware implements hypertable.Service and forwards to the next one,
// adding logging, statistics or OpenTelemetry instrumentation on the way.
package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/hypertable"
	"github.com/hyp3rd/hypertable/pkg/stats"
	"github.com/hyp3rd/hypertable/pkg/table"
)

// Logger describes a logging interface allowing to implement different external, or custom logger.
// The standard library log.Logger satisfies it, and so do logrus and zap's sugared logger.
type Logger interface {
	Printf(format string, v ...any)
}

// LoggingMiddleware is a middleware that logs the time it takes to execute the next middleware.
// Must implement the hypertable.Service interface.
type LoggingMiddleware[K comparable, V any] struct {
	next   hypertable.Service[K, V]
	logger Logger
}

// NewLoggingMiddleware returns a new LoggingMiddleware.
func NewLoggingMiddleware[K comparable, V any](next hypertable.Service[K, V], logger Logger) hypertable.Service[K, V] {
	return &LoggingMiddleware[K, V]{next: next, logger: logger}
}

// Logging adapts NewLoggingMiddleware to hypertable.ApplyMiddleware.
func Logging[K comparable, V any](logger Logger) hypertable.Middleware[K, V] {
	return func(next hypertable.Service[K, V]) hypertable.Service[K, V] {
		return NewLoggingMiddleware(next, logger)
	}
}

// Insert logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware[K, V]) Insert(ctx context.Context, key K, value V) (bool, error) {
	defer func(begin time.Time) {
		mw.logger.Printf("method Insert took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("Insert method called with key: %v", key)

	return mw.next.Insert(ctx, key, value)
}

// Lookup logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware[K, V]) Lookup(ctx context.Context, key K) (V, bool) {
	defer func(begin time.Time) {
		mw.logger.Printf("method Lookup took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("Lookup method called with key: %v", key)

	return mw.next.Lookup(ctx, key)
}

// LookupMultiple logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware[K, V]) LookupMultiple(ctx context.Context, keys ...K) (map[K]V, error) {
	defer func(begin time.Time) {
		mw.logger.Printf("method LookupMultiple took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("LookupMultiple method invoked with %d keys", len(keys))

	return mw.next.LookupMultiple(ctx, keys...)
}

// Len logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware[K, V]) Len(ctx context.Context) int {
	defer func(begin time.Time) {
		mw.logger.Printf("method Len took: %s", time.Since(begin))
	}(time.Now())

	return mw.next.Len(ctx)
}

// ShardCount returns the number of shards.
func (mw LoggingMiddleware[K, V]) ShardCount() int {
	return mw.next.ShardCount()
}

// ShardStats returns the per-shard counters.
func (mw LoggingMiddleware[K, V]) ShardStats() []table.ShardStats {
	return mw.next.ShardStats()
}

// GetStats logs the time it takes to execute the next middleware.
func (mw LoggingMiddleware[K, V]) GetStats() stats.Stats {
	defer func(begin time.Time) {
		mw.logger.Printf("method GetStats took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("GetStats method invoked")

	return mw.next.GetStats()
}
