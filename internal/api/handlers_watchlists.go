package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stockwatch/internal/domain/watchlist"
	"stockwatch/pkg/errors"
)

// WatchlistService is the watchlist surface the API exposes
type WatchlistService interface {
	ListWatchlists(ctx context.Context) ([]watchlist.Watchlist, error)
	ListWatchlistsWithStocks(ctx context.Context) ([]watchlist.WithStocks, error)
	GetWatchlist(ctx context.Context, id int64) (*watchlist.Watchlist, error)
	CreateWatchlist(ctx context.Context, name string) (int64, error)
	DeleteWatchlist(ctx context.Context, id int64) error
	AddStockToWatchlist(ctx context.Context, id int64, symbol string) bool
	RemoveStockFromWatchlist(ctx context.Context, id int64, symbol string) bool
	ValidateSymbol(ctx context.Context, symbol string) error
}

// WatchlistsHandler serves watchlist CRUD and membership mutations
type WatchlistsHandler struct {
	watchlists WatchlistService
}

// NewWatchlistsHandler creates a watchlists handler
func NewWatchlistsHandler(watchlists WatchlistService) *WatchlistsHandler {
	return &WatchlistsHandler{watchlists: watchlists}
}

// List returns every watchlist; ?expand=stocks includes member rows
// GET /api/v1/watchlists
func (h *WatchlistsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("expand") == "stocks" {
		lists, err := h.watchlists.ListWatchlistsWithStocks(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lists)
		return
	}

	lists, err := h.watchlists.ListWatchlists(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// Create creates an empty watchlist
// POST /api/v1/watchlists
func (h *WatchlistsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrInvalidInput, "invalid request body"))
		return
	}

	id, err := h.watchlists.CreateWatchlist(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// Get returns a single watchlist
// GET /api/v1/watchlists/{id}
func (h *WatchlistsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := watchlistID(w, r)
	if !ok {
		return
	}

	wl, err := h.watchlists.GetWatchlist(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, wl)
}

// Delete removes a watchlist
// DELETE /api/v1/watchlists/{id}
func (h *WatchlistsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := watchlistID(w, r)
	if !ok {
		return
	}

	if err := h.watchlists.DeleteWatchlist(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddStock adds a symbol to a watchlist after validating it
// PUT /api/v1/watchlists/{id}/stocks/{symbol}
func (h *WatchlistsHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	id, ok := watchlistID(w, r)
	if !ok {
		return
	}
	symbol := chi.URLParam(r, "symbol")

	if _, err := h.watchlists.GetWatchlist(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	if err := h.watchlists.ValidateSymbol(r.Context(), symbol); err != nil {
		writeError(w, err)
		return
	}

	if !h.watchlists.AddStockToWatchlist(r.Context(), id, symbol) {
		writeError(w, errors.Wrapf(errors.ErrInternal, "failed to add %s to watchlist %d", symbol, id))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"added": true})
}

// RemoveStock removes a symbol from a watchlist
// DELETE /api/v1/watchlists/{id}/stocks/{symbol}
func (h *WatchlistsHandler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	id, ok := watchlistID(w, r)
	if !ok {
		return
	}
	symbol := chi.URLParam(r, "symbol")

	if !h.watchlists.RemoveStockFromWatchlist(r.Context(), id, symbol) {
		writeError(w, errors.Wrapf(errors.ErrInternal, "failed to remove %s from watchlist %d", symbol, id))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func watchlistID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, errors.Wrap(errors.ErrInvalidInput, "invalid watchlist id"))
		return 0, false
	}
	return id, true
}
