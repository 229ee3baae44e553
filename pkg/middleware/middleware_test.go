package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/longbridgeapp/assert"
	"go.opentelemetry.io/otel/attribute"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/hyp3rd/hypertable"
	"github.com/hyp3rd/hypertable/internal/sentinel"
	"github.com/hyp3rd/hypertable/pkg/stats"
	"github.com/hyp3rd/hypertable/pkg/table"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}

	return false
}

func newService(t *testing.T) *hypertable.HyperTable[string, int] {
	t.Helper()

	config := hypertable.NewConfig[string, int]()
	config.TableOptions = []table.Option[string, int]{table.WithShardCount[string, int](2)}

	ht, err := hypertable.New(config)
	assert.Nil(t, err)

	return ht
}

// exercise runs the same calls through any decorated service.
func exercise(t *testing.T, svc hypertable.Service[string, int]) {
	t.Helper()

	ctx := context.Background()

	created, err := svc.Insert(ctx, "alpha", 1)
	assert.Nil(t, err)
	assert.True(t, created)

	created, err = svc.Insert(ctx, "alpha", 2)
	assert.Nil(t, err)
	assert.False(t, created)

	v, ok := svc.Lookup(ctx, "alpha")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = svc.Lookup(ctx, "beta")
	assert.False(t, ok)

	found, err := svc.LookupMultiple(ctx, "alpha", "beta")
	assert.Nil(t, err)
	assert.Equal(t, map[string]int{"alpha": 1}, found)

	assert.Equal(t, 1, svc.Len(ctx))
	assert.Equal(t, 2, svc.ShardCount())
	assert.Equal(t, 2, len(svc.ShardStats()))
	assert.NotNil(t, svc.GetStats())
}

func TestLoggingMiddleware(t *testing.T) {
	logger := &recordingLogger{}

	svc := hypertable.ApplyMiddleware[string, int](newService(t), Logging[string, int](logger))
	exercise(t, svc)

	assert.True(t, logger.contains("Insert method called with key: alpha"))
	assert.True(t, logger.contains("method Lookup took"))
	assert.True(t, logger.contains("LookupMultiple method invoked with 2 keys"))
	assert.True(t, logger.contains("GetStats method invoked"))
}

func TestStatsCollectorMiddleware(t *testing.T) {
	collector := stats.NewHistogramStatsCollector()

	svc := NewStatsCollectorMiddleware[string, int](newService(t), collector)
	exercise(t, svc)

	st := collector.GetStats()
	assert.Equal(t, 2, st["hypertable_mw_insert_count"].Count)
	assert.Equal(t, 2, st["hypertable_mw_lookup_count"].Count)
	assert.Equal(t, int64(2), st["hypertable_mw_lookup_multiple_keys"].Sum)
}

func TestOTelMiddlewares(t *testing.T) {
	metrics, err := NewOTelMetricsMiddleware[string, int](newService(t), metricnoop.NewMeterProvider().Meter("test"))
	assert.Nil(t, err)
	exercise(t, metrics)

	tracing := NewOTelTracingMiddleware[string, int](
		newService(t),
		tracenoop.NewTracerProvider().Tracer("test"),
		WithCommonAttributes(attribute.String("component", "test")),
	)
	exercise(t, tracing)
}

func TestMiddlewareChainPropagatesCancellation(t *testing.T) {
	logger := &recordingLogger{}
	ht := newService(t)

	var svc hypertable.Service[string, int] = ht

	svc = NewOTelTracingMiddleware(svc, tracenoop.NewTracerProvider().Tracer("test"))
	svc = NewLoggingMiddleware(svc, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Insert(ctx, "gamma", 3)
	assert.True(t, errors.Is(err, sentinel.ErrTimeoutOrCanceled))
	assert.Equal(t, 0, ht.Len(context.Background()))
}

func TestKeyAttrs(t *testing.T) {
	assert.Equal(t, 1, len(keyAttrs("abc")))
	assert.Equal(t, int64(3), keyAttrs("abc")[0].Value.AsInt64())
	assert.Equal(t, 0, len(keyAttrs(42)))
}
