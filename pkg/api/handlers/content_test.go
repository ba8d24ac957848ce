package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipcash/partner-portal/pkg/models"
)

func TestContentHome(t *testing.T) {
	handler := NewContentHandler()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/content/home", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.Home(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var page models.ContentPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, "home", page.Slug)
	assert.NotEmpty(t, page.Sections)
}

func TestContentPolicy(t *testing.T) {
	handler := NewContentHandler()
	e := echo.New()

	t.Run("known slug", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("slug")
		c.SetParamValues("privacy-policy")

		require.NoError(t, handler.Policy(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown slug", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("slug")
		c.SetParamValues("nope")

		require.NoError(t, handler.Policy(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("home is not a policy", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("slug")
		c.SetParamValues("home")

		require.NoError(t, handler.Policy(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
