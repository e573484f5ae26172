// Package handler provides HTTP handlers for the roster API. Handlers work
// against an in-memory dataset loaded at startup; mutations persist back to
// the dataset file and all data responses are cached with ETags.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fantalink/fantalink-data/internal/api/respond"
	"github.com/fantalink/fantalink-data/internal/cache"
	"github.com/fantalink/fantalink-data/internal/config"
	"github.com/fantalink/fantalink-data/internal/roster"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	dataset *roster.Dataset
	cache   *cache.Cache
	cfg     *config.Config
}

// New creates a Handler with shared dependencies.
func New(dataset *roster.Dataset, c *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{dataset: dataset, cache: c, cfg: cfg}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and dataset size.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Fantalink Roster API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"players": h.dataset.Len(),
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns health status, dataset size, and cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"players":   h.dataset.Len(),
		"cache":     h.cache.Stats(),
	})
}

// GetPlayers lists dataset rows, optionally filtered.
// @Summary List players
// @Description Returns enriched roster rows. Filters accept any spelling the normalizer folds together (diacritics, case).
// @Tags players
// @Produce json
// @Param team query string false "Team filter (normalized exact match)"
// @Param q query string false "Name search (normalized substring)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/players [get]
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")
	q := r.URL.Query().Get("q")
	key := fmt.Sprintf("players:%s:%s", team, q)

	if data, etag, ok := h.cache.Get(key); ok {
		if match := r.Header.Get("If-None-Match"); match == etag {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLDataset, true)
		return
	}

	players := h.dataset.Players(team, q)
	payload := map[string]interface{}{
		"count":   len(players),
		"columns": h.dataset.Columns(),
		"players": players,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode players")
		return
	}

	etag := h.cache.Set(key, data, cache.TTLDataset)
	if match := r.Header.Get("If-None-Match"); match == etag {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, cache.TTLDataset, false)
}

// GetPlayer fetches one row by its sequential id.
// @Summary Get a player row
// @Description Returns a single enriched roster row by its regenerated sequential id.
// @Tags players
// @Produce json
// @Param id path int true "Player id (1-based)"
// @Success 200 {object} roster.Player
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/players/{id} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Player id must be a positive integer")
		return
	}

	key := fmt.Sprintf("player:%d", id)
	if data, etag, ok := h.cache.Get(key); ok {
		if match := r.Header.Get("If-None-Match"); match == etag {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLPlayer, true)
		return
	}

	player, ok := h.dataset.PlayerByID(id)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("No player with id %d", id))
		return
	}

	data, err := json.Marshal(player)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode player")
		return
	}
	etag := h.cache.Set(key, data, cache.TTLPlayer)
	if match := r.Header.Get("If-None-Match"); match == etag {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, cache.TTLPlayer, false)
}

// CreatePlayer appends a row to the dataset and persists it.
// @Summary Add a player row
// @Description Appends a row to the served CSV. The body maps column names to values; a name column is required. Unknown columns are added to the header.
// @Tags players
// @Accept json
// @Produce json
// @Param player body map[string]string true "Column name to value"
// @Success 201 {object} roster.Player
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/players [post]
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Body must be a JSON object of column name to value")
		return
	}

	player, err := h.dataset.AddPlayer(fields)
	if err != nil {
		if roster.Probe(fields, roster.NameAliases) == "" {
			respond.WriteError(w, http.StatusBadRequest, "MISSING_NAME", err.Error())
			return
		}
		respond.WriteError(w, http.StatusInternalServerError, "PERSIST_FAILED", err.Error())
		return
	}

	h.cache.Purge()
	respond.WriteJSONObject(w, http.StatusCreated, player)
}

// DeletePlayer removes a row by its sequential id and persists the dataset.
// @Summary Delete a player row
// @Description Removes a row from the served CSV. Remaining rows are renumbered from 1.
// @Tags players
// @Produce json
// @Param id path int true "Player id (1-based)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/players/{id} [delete]
func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Player id must be a positive integer")
		return
	}

	deleted, err := h.dataset.DeletePlayer(id)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "PERSIST_FAILED", err.Error())
		return
	}
	if !deleted {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("No player with id %d", id))
		return
	}

	h.cache.Purge()
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"deleted": id,
		"players": h.dataset.Len(),
	})
}
