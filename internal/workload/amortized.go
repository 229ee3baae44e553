package workload

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/hypertable"
	"github.com/hyp3rd/hypertable/internal/constants"
	"github.com/hyp3rd/hypertable/internal/sentinel"
	"github.com/hyp3rd/hypertable/pkg/stats"
	"github.com/hyp3rd/hypertable/types"
)

// Round is the outcome of one amortized lookup round.
type Round struct {
	Index    int64         `json:"index"`
	Duration time.Duration `json:"duration"`
	Found    int           `json:"found"`
	NotFound int           `json:"not_found"`
}

// AmortizedResult aggregates the rounds of an amortized run.
type AmortizedResult struct {
	Rounds   int64 `json:"rounds"`
	Found    int64 `json:"found"`
	NotFound int64 `json:"not_found"`
}

// AmortizedConfig configures an amortized run.
type AmortizedConfig struct {
	Rounds          int64
	LookupsPerRound int
	Seed            uint64
	Collector       stats.ICollector
	OnRound         func(Round)
}

// AmortizedOption configures an amortized run.
type AmortizedOption func(*AmortizedConfig)

// WithRounds sets the number of rounds.
func WithRounds(n int64) AmortizedOption {
	return func(c *AmortizedConfig) { c.Rounds = n }
}

// WithLookupsPerRound sets the number of lookups performed in each round.
func WithLookupsPerRound(n int) AmortizedOption {
	return func(c *AmortizedConfig) { c.LookupsPerRound = n }
}

// WithRoundSeed sets the seed of the generator picking the looked up keys.
func WithRoundSeed(seed uint64) AmortizedOption {
	return func(c *AmortizedConfig) { c.Seed = seed }
}

// WithRoundCollector records every round duration into collector.
func WithRoundCollector(collector stats.ICollector) AmortizedOption {
	return func(c *AmortizedConfig) { c.Collector = collector }
}

// WithRoundObserver calls fn after every round, before the round's key is inserted.
func WithRoundObserver(fn func(Round)) AmortizedOption {
	return func(c *AmortizedConfig) { c.OnRound = fn }
}

// Amortized runs the lookup rounds against svc from the calling goroutine.
// Round i looks up keys drawn uniformly from [-i, i] and then inserts key i, so
// the table holds keys 0..i-1 while round i runs and about half of the lookups hit.
func Amortized(ctx context.Context, svc hypertable.Service[string, int], opts ...AmortizedOption) (AmortizedResult, error) {
	config := AmortizedConfig{
		Rounds:          constants.DefaultAmortizedRounds,
		LookupsPerRound: constants.DefaultLookupsPerRound,
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.Rounds < 0 || config.LookupsPerRound < 0 {
		return AmortizedResult{}, ewrap.Wrapf(sentinel.ErrInvalidWorkload,
			"amortized: rounds=%d lookups=%d", config.Rounds, config.LookupsPerRound)
	}

	rng := rand.New(rand.NewPCG(config.Seed, 0)) //nolint:gosec

	var result AmortizedResult

	for i := range config.Rounds {
		if ctx.Err() != nil {
			return result, sentinel.ErrTimeoutOrCanceled
		}

		round := Round{Index: i}
		before := time.Now()

		for range config.LookupsPerRound {
			key := strconv.FormatInt(rng.Int64N(2*i+1)-i, 10)
			_, ok := svc.Lookup(ctx, key)

			switch {
			case ok:
				round.Found++
			case ctx.Err() != nil:
				// the interrupted round is dropped rather than reported with canceled misses
				return result, sentinel.ErrTimeoutOrCanceled
			default:
				round.NotFound++
			}
		}

		round.Duration = time.Since(before)

		if config.Collector != nil {
			config.Collector.Timing(types.StatRoundDuration, round.Duration.Nanoseconds())
		}

		if config.OnRound != nil {
			config.OnRound(round)
		}

		result.Rounds++
		result.Found += int64(round.Found)
		result.NotFound += int64(round.NotFound)

		_, err := svc.Insert(ctx, strconv.FormatInt(i, 10), int(i))
		if err != nil {
			return result, ewrap.Wrapf(err, "amortized round %d", i)
		}
	}

	return result, nil
}
