package hypertable

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	fiber "github.com/gofiber/fiber/v3"
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/hypertable/internal/constants"
	"github.com/hyp3rd/hypertable/internal/libs/serializer"
	"github.com/hyp3rd/hypertable/internal/sentinel"
	"github.com/hyp3rd/hypertable/pkg/stats"
	"github.com/hyp3rd/hypertable/pkg/table"
)

// ManagementHTTPOption configures the management HTTP server.
type ManagementHTTPOption func(*ManagementHTTPServer)

// ManagementHTTPServer holds Fiber app and settings.
type ManagementHTTPServer struct {
	addr         string
	app          *fiber.App
	readTimeout  time.Duration
	writeTimeout time.Duration
	authFunc     func(fiber.Ctx) error
	serializers  *serializer.Registry

	mu      sync.Mutex // guards the lifecycle fields below
	ln      net.Listener
	mounted bool
	started bool
}

// WithMgmtAuth sets an auth function (return error to block).
func WithMgmtAuth(fn func(fiber.Ctx) error) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.authFunc = fn }
}

// WithMgmtReadTimeout sets read timeout.
func WithMgmtReadTimeout(d time.Duration) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.readTimeout = d }
}

// WithMgmtWriteTimeout sets write timeout.
func WithMgmtWriteTimeout(d time.Duration) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.writeTimeout = d }
}

// WithMgmtSerializers replaces the registry used to resolve the `format` query parameter.
func WithMgmtSerializers(registry *serializer.Registry) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.serializers = registry }
}

// managementTable is what the server needs from the table it introspects.
type managementTable interface {
	GetStats() stats.Stats
	ShardCount() int
	ShardStats() []table.ShardStats
	Len(ctx context.Context) int
	StatsCollectorName() string
}

// NewManagementHTTPServer builds an HTTP server holder (lazy start).
// An empty addr binds to constants.DefaultMgmtAddr.
func NewManagementHTTPServer(addr string, opts ...ManagementHTTPOption) *ManagementHTTPServer {
	if addr == "" {
		addr = constants.DefaultMgmtAddr
	}

	srv := &ManagementHTTPServer{
		addr:         addr,
		readTimeout:  constants.DefaultMgmtReadTimeout,
		writeTimeout: constants.DefaultMgmtWriteTimeout,
		serializers:  serializer.NewSerializerRegistry(),
	}
	for _, opt := range opts {
		opt(srv)
	}

	srv.app = fiber.New(fiber.Config{
		ReadTimeout:  srv.readTimeout,
		WriteTimeout: srv.writeTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return srv
}

// Start mounts the routes for ht and launches the listener (idempotent).
func (s *ManagementHTTPServer) Start(ctx context.Context, ht managementTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.mountLocked(ht)

	lc := net.ListenConfig{}

	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return ewrap.Wrap(err, "mgmt listen")
	}

	s.ln = ln

	go func() {
		// returns once Shutdown is called
		_ = s.app.Listener(ln)
	}()

	s.started = true

	return nil
}

// Address returns the bound address (useful when passing ":0" for ephemeral port). Empty if not started yet.
func (s *ManagementHTTPServer) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return ""
	}

	return s.ln.Addr().String()
}

// Shutdown stops the server. Concurrent calls are serialized; only the first one
// after a Start does the work.
func (s *ManagementHTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	ch := make(chan error, 1)

	go func() {
		ch <- s.app.Shutdown()
	}()

	select {
	case <-ctx.Done():
		return sentinel.ErrMgmtHTTPShutdownTimeout
	case err := <-ch:
		s.started = false

		return err
	}
}

// mount registers the endpoints onto the Fiber app once.
func (s *ManagementHTTPServer) mount(ht managementTable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mountLocked(ht)
}

func (s *ManagementHTTPServer) mountLocked(ht managementTable) {
	if s.mounted {
		return
	}

	useAuth := s.wrapAuth
	s.registerBasic(useAuth, ht)
	s.registerShards(useAuth, ht)

	s.mounted = true
}

// wrapAuth returns an auth-wrapped handler if authFunc provided.
func (s *ManagementHTTPServer) wrapAuth(handler fiber.Handler) fiber.Handler { //nolint:ireturn
	if s.authFunc == nil {
		return handler
	}

	return func(fiberCtx fiber.Ctx) error {
		authErr := s.authFunc(fiberCtx)
		if authErr != nil {
			return authErr
		}

		return handler(fiberCtx)
	}
}

func (s *ManagementHTTPServer) registerBasic(useAuth func(fiber.Handler) fiber.Handler, ht managementTable) {
	s.app.Get("/health", useAuth(func(fiberCtx fiber.Ctx) error { return fiberCtx.SendString("ok") }))
	s.app.Get("/stats", useAuth(func(fiberCtx fiber.Ctx) error { return fiberCtx.JSON(ht.GetStats()) }))
	s.app.Get("/config", useAuth(func(fiberCtx fiber.Ctx) error {
		return fiberCtx.JSON(fiber.Map{
			"shardCount":          ht.ShardCount(),
			"maxLoadFactor":       constants.MaxLoadFactor,
			"desiredGrowthFactor": constants.DesiredGrowthFactor,
			"minBuckets":          constants.MinBuckets,
			"statsCollector":      ht.StatsCollectorName(),
		})
	}))
	s.app.Get("/len", useAuth(func(fiberCtx fiber.Ctx) error {
		return fiberCtx.JSON(fiber.Map{"len": ht.Len(context.Background())})
	}))
}

func (s *ManagementHTTPServer) registerShards(useAuth func(fiber.Handler) fiber.Handler, ht managementTable) {
	s.app.Get("/shards", useAuth(func(fiberCtx fiber.Ctx) error {
		return s.send(fiberCtx, ht.ShardStats())
	}))
	s.app.Get("/shards/:index", useAuth(func(fiberCtx fiber.Ctx) error {
		index, err := strconv.Atoi(fiberCtx.Params("index"))
		if err != nil || index < 0 || index >= ht.ShardCount() {
			return fiberCtx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "shard not found"})
		}

		return s.send(fiberCtx, ht.ShardStats()[index])
	}))
}

// send encodes v with the serializer named by the `format` query parameter (json by default).
func (s *ManagementHTTPServer) send(fiberCtx fiber.Ctx, v any) error {
	format := fiberCtx.Query("format", "json")

	ser, err := s.serializers.New(format)
	if err != nil {
		return fiberCtx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	data, err := ser.Marshal(v)
	if err != nil {
		return ewrap.Wrap(err, "encode "+format)
	}

	fiberCtx.Set(fiber.HeaderContentType, ser.ContentType())

	return fiberCtx.Send(data)
}
