package api

import (
	"encoding/json"
	"net/http"

	"stockwatch/pkg/errors"
	"stockwatch/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Get().Warnw("Failed to encode response", "error", err)
	}
}

// writeError maps domain sentinels onto HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var verr *errors.ValidationError
	switch {
	case errors.Is(err, errors.ErrNotFound), errors.Is(err, errors.ErrSymbolNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrInvalidInput),
		errors.Is(err, errors.ErrInvalidSymbol),
		errors.Is(err, errors.ErrBlacklistedSymbol),
		errors.As(err, &verr):
		status = http.StatusBadRequest
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}
