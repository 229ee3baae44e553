package hypertable

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	fiber "github.com/gofiber/fiber/v3"
	"github.com/longbridgeapp/assert"
	"github.com/shamaton/msgpack/v2"

	"github.com/hyp3rd/hypertable/pkg/table"
)

func newManagedTable(t *testing.T) *HyperTable[string, int] {
	t.Helper()

	config := NewConfig[string, int]()
	config.TableOptions = []table.Option[string, int]{table.WithShardCount[string, int](3)}

	ht, err := New(config)
	assert.Nil(t, err)

	for i := range 30 {
		_, err = ht.Insert(context.Background(), strconv.Itoa(i), i)
		assert.Nil(t, err)
	}

	return ht
}

func doRequest(t *testing.T, srv *ManagementHTTPServer, target string) (*http.Response, []byte) {
	t.Helper()

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	assert.Nil(t, err)

	body, err := io.ReadAll(resp.Body)
	assert.Nil(t, err)
	assert.Nil(t, resp.Body.Close())

	return resp, body
}

func TestManagementHTTP_Basic(t *testing.T) {
	ht := newManagedTable(t)

	srv := NewManagementHTTPServer("")
	srv.mount(ht)

	resp, body := doRequest(t, srv, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, body = doRequest(t, srv, "/config")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg map[string]any
	assert.Nil(t, json.Unmarshal(body, &cfg))
	assert.Equal(t, float64(3), cfg["shardCount"])
	assert.Equal(t, 0.75, cfg["maxLoadFactor"])

	_, body = doRequest(t, srv, "/len")

	var length map[string]int
	assert.Nil(t, json.Unmarshal(body, &length))
	assert.Equal(t, 30, length["len"])

	resp, _ = doRequest(t, srv, "/stats")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestManagementHTTP_Shards(t *testing.T) {
	ht := newManagedTable(t)

	srv := NewManagementHTTPServer("")
	srv.mount(ht)

	resp, body := doRequest(t, srv, "/shards")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get(fiber.HeaderContentType))

	var shards []table.ShardStats
	assert.Nil(t, json.Unmarshal(body, &shards))
	assert.Equal(t, 3, len(shards))

	total := 0
	for _, st := range shards {
		total += st.Elements
	}

	assert.Equal(t, 30, total)

	resp, body = doRequest(t, srv, "/shards/1?format=msgpack")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/msgpack", resp.Header.Get(fiber.HeaderContentType))

	var one table.ShardStats
	assert.Nil(t, msgpack.Unmarshal(body, &one))
	assert.Equal(t, 1, one.Index)
	assert.Equal(t, ht.ShardStats()[1], one)

	resp, _ = doRequest(t, srv, "/shards?format=cbor")
	assert.Equal(t, "application/cbor", resp.Header.Get(fiber.HeaderContentType))

	resp, _ = doRequest(t, srv, "/shards?format=yaml")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, srv, "/shards/3")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, srv, "/shards/x")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestManagementHTTP_Auth(t *testing.T) {
	ht := newManagedTable(t)

	srv := NewManagementHTTPServer("", WithMgmtAuth(func(fiberCtx fiber.Ctx) error {
		if fiberCtx.Get("X-Token") != "secret" {
			return fiber.ErrUnauthorized
		}

		return nil
	}))
	srv.mount(ht)

	resp, _ := doRequest(t, srv, "/health")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Token", "secret")

	resp, err := srv.app.Test(req)
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, resp.Body.Close())
}

func TestManagementHTTP_StartShutdown(t *testing.T) {
	ht := newManagedTable(t)

	srv := NewManagementHTTPServer("127.0.0.1:0", WithMgmtReadTimeout(time.Second), WithMgmtWriteTimeout(time.Second))
	assert.Equal(t, "", srv.Address())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.Nil(t, srv.Start(ctx, ht))
	assert.Nil(t, srv.Start(ctx, ht))
	assert.True(t, srv.Address() != "")

	assert.Nil(t, srv.Shutdown(ctx))
	assert.Nil(t, srv.Shutdown(ctx))
}

func TestManagementHTTP_ConcurrentLifecycle(t *testing.T) {
	ht := newManagedTable(t)

	srv := NewManagementHTTPServer("127.0.0.1:0")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup

	errs := make(chan error, 8)

	for range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			errs <- srv.Start(ctx, ht)
			_ = srv.Address()
		}()
	}

	wg.Wait()
	assert.True(t, srv.Address() != "")

	for range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			errs <- srv.Shutdown(ctx)
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		assert.Nil(t, err)
	}
}
