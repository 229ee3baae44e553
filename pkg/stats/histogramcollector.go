package stats

import (
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hyp3rd/hypertable/internal/constants"
	"github.com/hyp3rd/hypertable/types"
)

// series holds one statistic. Count, sum, min and max cover every recorded value;
// the window keeps only the most recent ones, overwritten in ring order.
type series struct {
	count  atomic.Int64
	sum    atomic.Int64
	min    atomic.Int64
	max    atomic.Int64
	window []atomic.Int64
}

func newSeries(size int) *series {
	s := &series{window: make([]atomic.Int64, size)}
	s.min.Store(math.MaxInt64)
	s.max.Store(math.MinInt64)

	return s
}

func (s *series) record(value int64) {
	n := s.count.Add(1)
	s.window[(n-1)%int64(len(s.window))].Store(value)
	s.sum.Add(value)

	for cur := s.min.Load(); value < cur; cur = s.min.Load() {
		if s.min.CompareAndSwap(cur, value) {
			break
		}
	}

	for cur := s.max.Load(); value > cur; cur = s.max.Load() {
		if s.max.CompareAndSwap(cur, value) {
			break
		}
	}
}

// samples returns a sorted copy of the window. While writers are active a slot
// may be read before its first store lands.
func (s *series) samples() []int64 {
	n := min(s.count.Load(), int64(len(s.window)))

	values := make([]int64, n)
	for i := range values {
		values[i] = s.window[i].Load()
	}

	slices.Sort(values)

	return values
}

// HistogramOption configures a HistogramStatsCollector.
type HistogramOption func(*HistogramStatsCollector)

// WithWindow sets how many recent samples are kept per statistic. Values below one are ignored.
func WithWindow(size int) HistogramOption {
	return func(c *HistogramStatsCollector) {
		if size > 0 {
			c.window = size
		}
	}
}

// HistogramStatsCollector is a stats collector safe for concurrent use without a
// shared lock. Recording a value is a handful of atomic operations on the
// statistic's own series, and memory per statistic is bounded by the window size.
type HistogramStatsCollector struct {
	window int
	series sync.Map // string -> *series
}

// NewHistogramStatsCollector creates a new histogram stats collector.
// The window defaults to constants.DefaultStatsWindow.
func NewHistogramStatsCollector(options ...HistogramOption) *HistogramStatsCollector {
	c := &HistogramStatsCollector{window: constants.DefaultStatsWindow}
	for _, option := range options {
		option(c)
	}

	return c
}

// Incr increments the count of a statistic by the given value.
func (c *HistogramStatsCollector) Incr(stat types.Stat, value int64) {
	c.get(stat).record(value)
}

// Decr decrements the count of a statistic by the given value.
func (c *HistogramStatsCollector) Decr(stat types.Stat, value int64) {
	c.get(stat).record(-value)
}

// Timing records the time it took for an event to occur.
func (c *HistogramStatsCollector) Timing(stat types.Stat, value int64) {
	c.get(stat).record(value)
}

// Gauge records the current value of a statistic.
func (c *HistogramStatsCollector) Gauge(stat types.Stat, value int64) {
	c.get(stat).record(value)
}

// Histogram records the statistical distribution of a set of values.
func (c *HistogramStatsCollector) Histogram(stat types.Stat, value int64) {
	c.get(stat).record(value)
}

func (c *HistogramStatsCollector) get(stat types.Stat) *series {
	if s, ok := c.series.Load(stat.String()); ok {
		return s.(*series) //nolint:forcetypeassert
	}

	s, _ := c.series.LoadOrStore(stat.String(), newSeries(c.window))

	return s.(*series) //nolint:forcetypeassert
}

func (c *HistogramStatsCollector) lookup(stat types.Stat) (*series, bool) {
	s, ok := c.series.Load(stat.String())
	if !ok {
		return nil, false
	}

	return s.(*series), true //nolint:forcetypeassert
}

// Mean returns the mean of every value recorded for a statistic.
func (c *HistogramStatsCollector) Mean(stat types.Stat) float64 {
	s, ok := c.lookup(stat)
	if !ok {
		return 0
	}

	count := s.count.Load()
	if count == 0 {
		return 0
	}

	return float64(s.sum.Load()) / float64(count)
}

// Median returns the median of the recent values of a statistic.
func (c *HistogramStatsCollector) Median(stat types.Stat) float64 {
	s, ok := c.lookup(stat)
	if !ok {
		return 0
	}

	return median(s.samples())
}

// Percentile returns the pth percentile of the recent values of a statistic, p in [0, 1].
func (c *HistogramStatsCollector) Percentile(stat types.Stat, percentile float64) float64 {
	s, ok := c.lookup(stat)
	if !ok {
		return 0
	}

	values := s.samples()
	if len(values) == 0 {
		return 0
	}

	index := int(float64(len(values)) * percentile)
	index = min(max(index, 0), len(values)-1)

	return float64(values[index])
}

// GetStats returns the stats collected by the stats collector.
// Count, Sum, Mean, Min and Max cover every recorded value; Median, Variance and
// Values are computed over the recent window.
func (c *HistogramStatsCollector) GetStats() Stats {
	stats := make(Stats)

	c.series.Range(func(key, value any) bool {
		s := value.(*series) //nolint:forcetypeassert

		count := s.count.Load()
		if count == 0 {
			return true
		}

		total := s.sum.Load()
		values := s.samples()

		stats[key.(string)] = &Stat{ //nolint:forcetypeassert
			Mean:     float64(total) / float64(count),
			Median:   median(values),
			Min:      s.min.Load(),
			Max:      s.max.Load(),
			Values:   values,
			Count:    int(count),
			Sum:      total,
			Variance: variance(values, mean(values)),
		}

		return true
	})

	return stats
}

// sum returns the sum of a set of values.
func sum(values []int64) int64 {
	var total int64
	for _, value := range values {
		total += value
	}

	return total
}

func mean(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}

	return float64(sum(values)) / float64(len(values))
}

// median expects sorted values.
func median(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}

	mid := len(values) / 2
	if len(values)%2 == 0 {
		return float64(values[mid-1]+values[mid]) / 2
	}

	return float64(values[mid])
}

// variance returns the variance of a set of values.
func variance(values []int64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var v float64
	for _, value := range values {
		v += math.Pow(float64(value)-mean, 2)
	}

	return v / float64(len(values))
}
