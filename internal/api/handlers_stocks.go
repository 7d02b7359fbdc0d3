package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stockwatch/internal/domain/quote"
	"stockwatch/internal/domain/stock"
)

// QuoteService is the quote-source surface the API exposes
type QuoteService interface {
	GetMovers(ctx context.Context, forceRefresh bool) (*quote.MoversSnapshot, error)
	GetCompanyOverview(ctx context.Context, symbol string) (*quote.CompanyOverview, error)
	GetStock(ctx context.Context, symbol string) (*stock.Stock, error)
}

// StocksHandler serves movers, single stocks and company overviews
type StocksHandler struct {
	quotes QuoteService
}

// NewStocksHandler creates a stocks handler
func NewStocksHandler(quotes QuoteService) *StocksHandler {
	return &StocksHandler{quotes: quotes}
}

// GetMovers returns the current movers snapshot
// GET /api/v1/movers?refresh=true
func (h *StocksHandler) GetMovers(w http.ResponseWriter, r *http.Request) {
	forceRefresh := r.URL.Query().Get("refresh") == "true"

	snapshot, err := h.quotes.GetMovers(r.Context(), forceRefresh)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// GetStock returns the stored row for one symbol
// GET /api/v1/stocks/{symbol}
func (h *StocksHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	row, err := h.quotes.GetStock(r.Context(), symbol)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, row)
}

// GetOverview returns company fundamentals for one symbol
// GET /api/v1/stocks/{symbol}/overview
func (h *StocksHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	overview, err := h.quotes.GetCompanyOverview(r.Context(), symbol)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}
