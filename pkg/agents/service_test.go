package agents

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipcash/partner-portal/pkg/auth"
	"github.com/flipcash/partner-portal/pkg/cache"
	"github.com/flipcash/partner-portal/pkg/flipcash"
)

func setupService(t *testing.T, handler http.Handler) (*Service, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cacheClient := &cache.Client{Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { cacheClient.Close() })

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := flipcash.NewClient(server.URL, 5*time.Second, flipcash.StaticTokenSource("t"))
	return NewService(api, cacheClient), mr
}

func sessionCtx(sid string) context.Context {
	return auth.WithSessionID(context.Background(), sid)
}

func TestDirectory_CachesWithinTTL(t *testing.T) {
	var upstreamCalls int32
	service, _ := setupService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&upstreamCalls, 1)
		w.Write([]byte(`[{"id":"a1","name":"Ravi"}]`))
	}))

	ctx := sessionCtx("s1")

	first, err := service.Directory(ctx, flipcash.AgentFilters{})
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 1, first.Total)

	second, err := service.Directory(ctx, flipcash.AgentFilters{})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Agents, second.Agents)

	assert.Equal(t, int32(1), atomic.LoadInt32(&upstreamCalls))
}

func TestDirectory_CacheIsSessionScoped(t *testing.T) {
	var upstreamCalls int32
	service, _ := setupService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&upstreamCalls, 1)
		w.Write([]byte(`[{"id":"a1"}]`))
	}))

	_, err := service.Directory(sessionCtx("partner-a"), flipcash.AgentFilters{})
	require.NoError(t, err)

	// A different session must not be served partner-a's cached page
	response, err := service.Directory(sessionCtx("partner-b"), flipcash.AgentFilters{})
	require.NoError(t, err)
	assert.False(t, response.FromCache)

	assert.Equal(t, int32(2), atomic.LoadInt32(&upstreamCalls))
}

func TestDirectory_DistinctFiltersDistinctEntries(t *testing.T) {
	var upstreamCalls int32
	service, _ := setupService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&upstreamCalls, 1)
		w.Write([]byte(`[]`))
	}))

	ctx := sessionCtx("s1")

	_, err := service.Directory(ctx, flipcash.AgentFilters{Status: flipcash.AgentActive})
	require.NoError(t, err)
	_, err = service.Directory(ctx, flipcash.AgentFilters{Status: flipcash.AgentInactive})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&upstreamCalls))
}

func TestMutationInvalidatesDirectory(t *testing.T) {
	var listCalls int32
	service, _ := setupService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			atomic.AddInt32(&listCalls, 1)
			w.Write([]byte(`[{"id":"a1"}]`))
			return
		}
		w.Write([]byte(`{"id":"a2","name":"New Agent"}`))
	}))

	ctx := sessionCtx("s1")

	_, err := service.Directory(ctx, flipcash.AgentFilters{})
	require.NoError(t, err)

	_, err = service.Create(ctx, flipcash.CreateAgentRequest{Name: "New Agent", Phone: "+919876543210"})
	require.NoError(t, err)

	// The cached page must be gone; the next read goes upstream
	response, err := service.Directory(ctx, flipcash.AgentFilters{})
	require.NoError(t, err)
	assert.False(t, response.FromCache)
	assert.Equal(t, int32(2), atomic.LoadInt32(&listCalls))
}

func TestDelete_BackendRejectionKeepsCache(t *testing.T) {
	service, mr := setupService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"Agent has 2 active assignments"}`))
			return
		}
		w.Write([]byte(`[{"id":"a1"}]`))
	}))

	ctx := sessionCtx("s1")

	_, err := service.Directory(ctx, flipcash.AgentFilters{})
	require.NoError(t, err)
	require.NotEmpty(t, mr.Keys())

	err = service.Delete(ctx, "a1")
	require.Error(t, err)

	var apiErr *flipcash.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Agent has 2 active assignments", apiErr.Message)

	// Failed mutations change nothing upstream, so the cache survives
	assert.NotEmpty(t, mr.Keys())
}
