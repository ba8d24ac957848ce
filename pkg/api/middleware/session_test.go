package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipcash/partner-portal/pkg/auth"
	"github.com/flipcash/partner-portal/pkg/cache"
)

const testSecret = "test-secret"

func setupMiddleware(t *testing.T) (*auth.TokenStore, echo.MiddlewareFunc) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := &cache.Client{Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { client.Close() })

	store := auth.NewTokenStore(client)
	return store, SessionMiddleware(testSecret, store)
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/agents", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, c
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	code, _ := body["error"].(string)
	return code
}

func TestSessionMiddleware_LiveSession(t *testing.T) {
	store, mw := setupMiddleware(t)

	require.NoError(t, store.Save(context.Background(), "sess-1", "upstream-token", time.Hour))
	token, err := auth.GenerateJWT("p1", "sess-1", "", testSecret, 1)
	require.NoError(t, err)

	rec, c := invoke(t, mw, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", c.Get("partner_id"))
	assert.Equal(t, "sess-1", c.Get("session_id"))

	// The session id is planted in the request context for the TokenSource
	sid, ok := auth.SessionIDFromContext(c.Request().Context())
	require.True(t, ok)
	assert.Equal(t, "sess-1", sid)
}

func TestSessionMiddleware_MissingHeader(t *testing.T) {
	_, mw := setupMiddleware(t)

	rec, _ := invoke(t, mw, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing_token", errorCode(t, rec))
}

func TestSessionMiddleware_MalformedHeader(t *testing.T) {
	_, mw := setupMiddleware(t)

	rec, _ := invoke(t, mw, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token_format", errorCode(t, rec))
}

func TestSessionMiddleware_BadSignature(t *testing.T) {
	_, mw := setupMiddleware(t)

	token, err := auth.GenerateJWT("p1", "sess-1", "", "other-secret", 1)
	require.NoError(t, err)

	rec, _ := invoke(t, mw, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorCode(t, rec))
}

func TestSessionMiddleware_RevokedSession(t *testing.T) {
	// Valid unexpired JWT, but the session was logged out of the store
	_, mw := setupMiddleware(t)

	token, err := auth.GenerateJWT("p1", "sess-gone", "", testSecret, 1)
	require.NoError(t, err)

	rec, _ := invoke(t, mw, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "session_expired", errorCode(t, rec))
}
