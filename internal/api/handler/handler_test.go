package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantalink/fantalink-data/internal/cache"
	"github.com/fantalink/fantalink-data/internal/config"
	"github.com/fantalink/fantalink-data/internal/roster"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	h, _ := testHandlerAt(t)
	return h
}

func testHandlerAt(t *testing.T) (*Handler, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	content := "id;Nome;Squadra;partite\n1;Paolo Rossi;Roma;30\n2;José Álvarez;Napoli;9\n3;Luca Bianchi;Torino;22\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ds, err := roster.LoadDataset(path, ';')
	require.NoError(t, err)

	cfg := &config.Config{}
	return New(ds, cache.New(true), cfg), path
}

func TestGetPlayersAll(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/players", nil)
	rec := httptest.NewRecorder()
	h.GetPlayers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count   int             `json:"count"`
		Players []roster.Player `json:"players"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Count)
	assert.NotEmpty(t, rec.Header().Get("ETag"))
}

func TestGetPlayersTeamFilterIsNormalized(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/players?team=ROMA", nil)
	rec := httptest.NewRecorder()
	h.GetPlayers(rec, req)

	var body struct {
		Count   int             `json:"count"`
		Players []roster.Player `json:"players"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Paolo Rossi", body.Players[0].Fields["Nome"])
}

func TestGetPlayersQueryMatchesDiacriticFree(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/players?q=jose", nil)
	rec := httptest.NewRecorder()
	h.GetPlayers(rec, req)

	var body struct {
		Count   int             `json:"count"`
		Players []roster.Player `json:"players"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "José Álvarez", body.Players[0].Fields["Nome"])
}

func TestGetPlayersNotModified(t *testing.T) {
	h := testHandler(t)

	first := httptest.NewRecorder()
	h.GetPlayers(first, httptest.NewRequest(http.MethodGet, "/api/v1/players", nil))
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players", nil)
	req.Header.Set("If-None-Match", etag)
	second := httptest.NewRecorder()
	h.GetPlayers(second, req)
	assert.Equal(t, http.StatusNotModified, second.Code)
}

func TestGetPlayerByID(t *testing.T) {
	h := testHandler(t)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "2")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/2", nil)
	req = req.WithContext(chiRouteContext(req, rctx))
	rec := httptest.NewRecorder()
	h.GetPlayer(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var p roster.Player
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 2, p.ID)
	assert.Equal(t, "José Álvarez", p.Fields["Nome"])
}

func TestGetPlayerNotFound(t *testing.T) {
	h := testHandler(t)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "99")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/99", nil)
	req = req.WithContext(chiRouteContext(req, rctx))
	rec := httptest.NewRecorder()
	h.GetPlayer(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPlayerInvalidID(t *testing.T) {
	h := testHandler(t)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "abc")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/abc", nil)
	req = req.WithContext(chiRouteContext(req, rctx))
	rec := httptest.NewRecorder()
	h.GetPlayer(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPlayerSecondRequestHitsCache(t *testing.T) {
	h := testHandler(t)

	for i, want := range []string{"MISS", "HIT"} {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "1")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/players/1", nil)
		req = req.WithContext(chiRouteContext(req, rctx))
		rec := httptest.NewRecorder()
		h.GetPlayer(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, want, rec.Header().Get("X-Cache"), "request %d", i)
	}
}

func TestCreatePlayerPersistsAndPurgesCache(t *testing.T) {
	h, path := testHandlerAt(t)

	// Warm the list cache so we can verify the mutation drops it.
	warm := httptest.NewRecorder()
	h.GetPlayers(warm, httptest.NewRequest(http.MethodGet, "/api/v1/players", nil))
	require.Equal(t, "MISS", warm.Header().Get("X-Cache"))

	body := strings.NewReader(`{"Nome":"Marco Verdi","Squadra":"Genoa","partite":"12"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/players", body)
	rec := httptest.NewRecorder()
	h.CreatePlayer(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var p roster.Player
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 4, p.ID)

	// The row survives a reload from disk.
	reloaded, err := roster.LoadDataset(path, ';')
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Len())
	got, ok := reloaded.PlayerByID(4)
	require.True(t, ok)
	assert.Equal(t, "Marco Verdi", got.Fields["Nome"])

	// The stale cached list is gone.
	after := httptest.NewRecorder()
	h.GetPlayers(after, httptest.NewRequest(http.MethodGet, "/api/v1/players", nil))
	assert.Equal(t, "MISS", after.Header().Get("X-Cache"))
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(after.Body.Bytes(), &list))
	assert.Equal(t, 4, list.Count)
}

func TestCreatePlayerWithoutName(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/players", strings.NewReader(`{"Squadra":"Genoa"}`))
	rec := httptest.NewRecorder()
	h.CreatePlayer(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePlayerRenumbersAndPersists(t *testing.T) {
	h, path := testHandlerAt(t)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "2")
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/players/2", nil)
	req = req.WithContext(chiRouteContext(req, rctx))
	rec := httptest.NewRecorder()
	h.DeletePlayer(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	reloaded, err := roster.LoadDataset(path, ';')
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Len())
	got, ok := reloaded.PlayerByID(2)
	require.True(t, ok)
	assert.Equal(t, "Luca Bianchi", got.Fields["Nome"])
}

func TestDeletePlayerNotFound(t *testing.T) {
	h := testHandler(t)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "99")
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/players/99", nil)
	req = req.WithContext(chiRouteContext(req, rctx))
	rec := httptest.NewRecorder()
	h.DeletePlayer(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func chiRouteContext(req *http.Request, rctx *chi.Context) context.Context {
	return context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
}
