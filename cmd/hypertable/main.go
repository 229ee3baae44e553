// Command hypertable runs one of the built-in workloads against a sharded hash
// table and prints its counters. With -mgmt it also serves the management HTTP
// endpoints until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/hyp3rd/ewrap"
	"go.opentelemetry.io/otel/attribute"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/hyp3rd/hypertable"
	"github.com/hyp3rd/hypertable/internal/constants"
	"github.com/hyp3rd/hypertable/internal/sentinel"
	"github.com/hyp3rd/hypertable/internal/workload"
	"github.com/hyp3rd/hypertable/pkg/middleware"
	"github.com/hyp3rd/hypertable/pkg/table"
)

type options struct {
	workload   string
	shards     int
	workers    int
	iterations int
	rounds     int64
	lookups    int
	seed       uint64
	mgmtAddr   string
	verbose    bool
	otel       bool
	rawBuckets bool
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.workload, "workload", "breathing", "workload to run: breathing or amortized")
	flag.IntVar(&opts.shards, "shards", 0, "number of shards (0 uses the detected parallelism)")
	flag.IntVar(&opts.workers, "workers", constants.DefaultBreathingWorkers, "breathing: concurrent workers")
	flag.IntVar(&opts.iterations, "iterations", constants.DefaultBreathingIterations, "breathing: insert/lookup pairs per worker")
	flag.Int64Var(&opts.rounds, "rounds", constants.DefaultAmortizedRounds, "amortized: number of rounds")
	flag.IntVar(&opts.lookups, "lookups", constants.DefaultLookupsPerRound, "amortized: lookups per round")
	flag.Uint64Var(&opts.seed, "seed", 0, "seed of the key generator")
	flag.StringVar(&opts.mgmtAddr, "mgmt", "", "serve the management HTTP endpoints on this address")
	flag.BoolVar(&opts.verbose, "verbose", false, "log every call")
	flag.BoolVar(&opts.otel, "otel", false, "wrap the service with the OpenTelemetry middlewares (noop providers)")
	flag.BoolVar(&opts.rawBuckets, "raw-buckets", false, "select buckets from the raw hash instead of the shard-local one")
	flag.Parse()

	return opts
}

func main() {
	opts := parseFlags()
	logger := log.New(os.Stderr, "hypertable ", log.LstdFlags|log.Lmicroseconds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error

	switch opts.workload {
	case "breathing":
		err = runBreathing(ctx, opts, logger)
	case "amortized":
		err = runAmortized(ctx, opts, logger)
	default:
		err = ewrap.Wrapf(sentinel.ErrInvalidWorkload, "unknown workload %q", opts.workload)
	}

	if err != nil {
		logger.Printf("error: %v", err)
		stop()
		os.Exit(1)
	}
}

func newTable[V any](opts options) (*hypertable.HyperTable[string, V], error) {
	config := hypertable.NewConfig[string, V]()
	config.TableOptions = append(config.TableOptions, table.WithShardCount[string, V](opts.shards))

	if opts.rawBuckets {
		config.TableOptions = append(config.TableOptions, table.WithRawBucketHash[string, V]())
	}

	return hypertable.New(config)
}

// decorate applies the middlewares selected by the flags.
func decorate[V any](svc hypertable.Service[string, V], opts options, logger middleware.Logger) (hypertable.Service[string, V], error) {
	if opts.verbose {
		svc = middleware.NewLoggingMiddleware(svc, logger)
	}

	if opts.otel {
		svc = middleware.NewOTelTracingMiddleware(svc,
			tracenoop.NewTracerProvider().Tracer("hypertable/cmd"),
			middleware.WithCommonAttributes(attribute.String("workload", opts.workload)),
		)

		var err error

		svc, err = middleware.NewOTelMetricsMiddleware(svc, metricnoop.NewMeterProvider().Meter("hypertable/cmd"))
		if err != nil {
			return nil, ewrap.Wrap(err, "otel metrics middleware")
		}
	}

	return svc, nil
}

func runBreathing(ctx context.Context, opts options, logger *log.Logger) error {
	ht, err := newTable[[]int](opts)
	if err != nil {
		return err
	}

	srv, err := startManagement(ctx, opts, ht, logger)
	if err != nil {
		return err
	}

	svc, err := decorate[[]int](ht, opts, logger)
	if err != nil {
		return err
	}

	result, err := workload.Breathing(ctx, svc,
		workload.WithWorkers(opts.workers),
		workload.WithIterations(opts.iterations),
		workload.WithSeed(opts.seed),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "insert_ok: %d\ninsert_no: %d\nlookup_ok: %d\nlookup_no: %d\n",
		result.InsertOK, result.InsertNo, result.LookupOK, result.LookupNo)
	logger.Printf("breathing finished in %s", result.Elapsed)

	return serveUntilDone(ctx, srv, ht, logger)
}

func runAmortized(ctx context.Context, opts options, logger *log.Logger) error {
	ht, err := newTable[int](opts)
	if err != nil {
		return err
	}

	srv, err := startManagement(ctx, opts, ht, logger)
	if err != nil {
		return err
	}

	svc, err := decorate[int](ht, opts, logger)
	if err != nil {
		return err
	}

	result, err := workload.Amortized(ctx, svc,
		workload.WithRounds(opts.rounds),
		workload.WithLookupsPerRound(opts.lookups),
		workload.WithRoundSeed(opts.seed),
		workload.WithRoundCollector(ht.StatsCollector()),
		workload.WithRoundObserver(func(r workload.Round) {
			fmt.Fprintln(os.Stdout, r.Index, r.Duration.Nanoseconds(), r.Found, r.NotFound)
		}),
	)
	if err != nil {
		return err
	}

	summary, err := json.Marshal(result)
	if err != nil {
		return err
	}

	logger.Printf("amortized finished: %s", summary)

	return serveUntilDone(ctx, srv, ht, logger)
}

func startManagement[V any](ctx context.Context, opts options, ht *hypertable.HyperTable[string, V], logger *log.Logger) (*hypertable.ManagementHTTPServer, error) {
	if opts.mgmtAddr == "" {
		return nil, nil //nolint:nilnil
	}

	srv := hypertable.NewManagementHTTPServer(opts.mgmtAddr)

	err := srv.Start(ctx, ht)
	if err != nil {
		return nil, err
	}

	logger.Printf("management server listening on %s", srv.Address())

	return srv, nil
}

// serveUntilDone keeps the management server up until the process is interrupted.
func serveUntilDone[V any](ctx context.Context, srv *hypertable.ManagementHTTPServer, ht *hypertable.HyperTable[string, V], logger *log.Logger) error {
	if srv == nil {
		return nil
	}

	logger.Printf("serving %d entries, interrupt to exit", ht.Len(ctx))
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultMgmtWriteTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
