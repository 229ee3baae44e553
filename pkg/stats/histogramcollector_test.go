package stats

import (
	"errors"
	"sync"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/hypertable/internal/sentinel"
	"github.com/hyp3rd/hypertable/types"
)

func TestHistogramStatsCollector(t *testing.T) {
	c := NewHistogramStatsCollector()

	for _, v := range []int64{5, 1, 3, 2, 4} {
		c.Timing(types.StatLookupDuration, v)
	}

	c.Incr(types.StatLookupHit, 1)
	c.Incr(types.StatLookupHit, 1)
	c.Decr(types.StatTableSize, 2)

	assert.Equal(t, 3.0, c.Mean(types.StatLookupDuration))
	assert.Equal(t, 3.0, c.Median(types.StatLookupDuration))
	assert.Equal(t, 5.0, c.Percentile(types.StatLookupDuration, 1))
	assert.Equal(t, 1.0, c.Percentile(types.StatLookupDuration, 0))

	st := c.GetStats()

	d := st[types.StatLookupDuration.String()]
	assert.Equal(t, 5, d.Count)
	assert.Equal(t, int64(15), d.Sum)
	assert.Equal(t, int64(1), d.Min)
	assert.Equal(t, int64(5), d.Max)
	assert.Equal(t, 2.0, d.Variance)

	assert.Equal(t, int64(2), st[types.StatLookupHit.String()].Sum)
	assert.Equal(t, int64(-2), st[types.StatTableSize.String()].Sum)
}

func TestHistogramStatsCollectorEmpty(t *testing.T) {
	c := NewHistogramStatsCollector()

	assert.Equal(t, 0.0, c.Mean(types.StatInsertDuration))
	assert.Equal(t, 0.0, c.Median(types.StatInsertDuration))
	assert.Equal(t, 0.0, c.Percentile(types.StatInsertDuration, 0.99))
	assert.Equal(t, 0, len(c.GetStats()))
}

func TestHistogramStatsCollectorConcurrent(t *testing.T) {
	c := NewHistogramStatsCollector()

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 100 {
				c.Incr(types.StatInsertCreated, 1)
				_ = c.GetStats()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 800, c.GetStats()[types.StatInsertCreated.String()].Count)
}

func TestHistogramStatsCollectorBoundedWindow(t *testing.T) {
	const window = 16

	c := NewHistogramStatsCollector(WithWindow(window))

	for i := range int64(1000) {
		c.Timing(types.StatLookupDuration, i)
	}

	d := c.GetStats()[types.StatLookupDuration.String()]
	assert.Equal(t, 1000, d.Count)
	assert.Equal(t, int64(999*1000/2), d.Sum)
	assert.Equal(t, int64(0), d.Min)
	assert.Equal(t, int64(999), d.Max)
	assert.Equal(t, 499.5, d.Mean)

	// only the last 16 values are retained
	assert.Equal(t, window, len(d.Values))
	assert.Equal(t, int64(984), d.Values[0])
	assert.Equal(t, int64(999), d.Values[window-1])
	assert.Equal(t, 991.5, c.Median(types.StatLookupDuration))
}

func TestHistogramStatsCollectorParallelRecording(t *testing.T) {
	c := NewHistogramStatsCollector(WithWindow(64))

	var wg sync.WaitGroup

	for w := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 10_000 {
				c.Timing(types.StatInsertDuration, int64(w*10_000+i))
			}
		}()
	}

	wg.Wait()

	d := c.GetStats()[types.StatInsertDuration.String()]
	assert.Equal(t, 80_000, d.Count)
	assert.Equal(t, int64(0), d.Min)
	assert.Equal(t, int64(79_999), d.Max)
	assert.Equal(t, int64(79_999*80_000/2), d.Sum)
	assert.Equal(t, 64, len(d.Values))
}

func TestCollectorRegistry(t *testing.T) {
	c, err := NewCollector("default")
	assert.Nil(t, err)
	assert.NotNil(t, c)

	_, err = NewCollector("")
	assert.True(t, errors.Is(err, sentinel.ErrParamCannotBeEmpty))

	_, err = NewCollector("statsd")
	assert.True(t, errors.Is(err, sentinel.ErrStatsCollectorNotFound))

	registry := NewEmptyCollectorRegistry()
	_, err = registry.NewCollector("default")
	assert.True(t, errors.Is(err, sentinel.ErrStatsCollectorNotFound))

	registry.Register("custom", func() (ICollector, error) { return NewHistogramStatsCollector(), nil })
	c, err = registry.NewCollector("custom")
	assert.Nil(t, err)
	assert.NotNil(t, c)
}
