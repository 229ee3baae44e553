// Package workload contains the driver programs used to exercise a hypertable
// service: a contended multi-worker insert/lookup mix and a single-goroutine
// series of lookup rounds over a steadily growing table.
package workload

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/hypertable"
	"github.com/hyp3rd/hypertable/internal/constants"
	"github.com/hyp3rd/hypertable/internal/sentinel"
)

// BreathingValue is the value every breathing worker inserts.
var BreathingValue = []int{1, 2, 3, 4, 5}

// BreathingResult holds the counters of a breathing run.
type BreathingResult struct {
	InsertOK uint64        `json:"insert_ok"`
	InsertNo uint64        `json:"insert_no"`
	LookupOK uint64        `json:"lookup_ok"`
	LookupNo uint64        `json:"lookup_no"`
	Elapsed  time.Duration `json:"elapsed"`
}

// BreathingConfig configures a breathing run.
type BreathingConfig struct {
	Workers    int
	Iterations int
	Seed       uint64
	Keys       []string
}

// BreathingOption configures a breathing run.
type BreathingOption func(*BreathingConfig)

// WithWorkers sets the number of concurrent workers.
func WithWorkers(n int) BreathingOption {
	return func(c *BreathingConfig) { c.Workers = n }
}

// WithIterations sets the number of insert/lookup pairs each worker performs.
func WithIterations(n int) BreathingOption {
	return func(c *BreathingConfig) { c.Iterations = n }
}

// WithSeed sets the seed of the generator picking the worker keys.
func WithSeed(seed uint64) BreathingOption {
	return func(c *BreathingConfig) { c.Seed = seed }
}

// WithKeys replaces the vocabulary the worker keys are drawn from.
func WithKeys(keys ...string) BreathingOption {
	return func(c *BreathingConfig) { c.Keys = keys }
}

// NewBreathingConfig returns the default configuration with opts applied.
func NewBreathingConfig(opts ...BreathingOption) BreathingConfig {
	config := BreathingConfig{
		Workers:    constants.DefaultBreathingWorkers,
		Iterations: constants.DefaultBreathingIterations,
		Keys:       constants.BreathingKeys,
	}
	for _, opt := range opts {
		opt(&config)
	}

	return config
}

// workerKeys draws an insert key and a lookup key per worker from a single
// generator, in worker order, so a seed always yields the same assignment.
func (c BreathingConfig) workerKeys() [][2]string {
	rng := rand.New(rand.NewPCG(c.Seed, 0)) //nolint:gosec

	keys := make([][2]string, c.Workers)
	for i := range keys {
		keys[i][0] = c.Keys[rng.IntN(len(c.Keys))]
		keys[i][1] = c.Keys[rng.IntN(len(c.Keys))]
	}

	return keys
}

// Breathing runs the configured workers against svc. Every worker repeatedly
// inserts its own key and looks up another one; the counters report how many
// inserts created an entry and how many lookups found one.
func Breathing(ctx context.Context, svc hypertable.Service[string, []int], opts ...BreathingOption) (BreathingResult, error) {
	config := NewBreathingConfig(opts...)
	if config.Workers <= 0 || config.Iterations < 0 || len(config.Keys) == 0 {
		return BreathingResult{}, ewrap.Wrapf(sentinel.ErrInvalidWorkload,
			"breathing: workers=%d iterations=%d keys=%d", config.Workers, config.Iterations, len(config.Keys))
	}

	var insertOK, insertNo, lookupOK, lookupNo atomic.Uint64

	start := time.Now()
	pool := NewWorkerPool(ctx, config.Workers)

	for _, pair := range config.workerKeys() {
		insertKey, lookupKey := pair[0], pair[1]

		err := pool.Enqueue(func(ctx context.Context) error {
			for range config.Iterations {
				created, err := svc.Insert(ctx, insertKey, BreathingValue)
				if err != nil {
					return err
				}

				if created {
					insertOK.Add(1)
				} else {
					insertNo.Add(1)
				}

				_, ok := svc.Lookup(ctx, lookupKey)

				switch {
				case ok:
					lookupOK.Add(1)
				case ctx.Err() != nil:
					// a canceled lookup reports a miss; it is not counted
					return sentinel.ErrTimeoutOrCanceled
				default:
					lookupNo.Add(1)
				}
			}

			return nil
		})
		if err != nil {
			break
		}
	}

	waitErr := pool.Wait()

	result := BreathingResult{
		InsertOK: insertOK.Load(),
		InsertNo: insertNo.Load(),
		LookupOK: lookupOK.Load(),
		LookupNo: lookupNo.Load(),
		Elapsed:  time.Since(start),
	}

	if ctx.Err() != nil {
		return result, sentinel.ErrTimeoutOrCanceled
	}

	if waitErr != nil {
		return result, ewrap.Wrap(waitErr, "breathing")
	}

	return result, nil
}
