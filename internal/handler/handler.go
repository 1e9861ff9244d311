package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"om-traders/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Too late to change the response; nothing useful to do.
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error onto an HTTP response. Domain errors
// carry their own code and a client-appropriate status; everything else is an
// opaque internal error.
func writeDomainError(w http.ResponseWriter, err error, fallbackMessage string, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, domainStatus(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, fallbackMessage, logger)
}

func domainStatus(code string) int {
	switch code {
	case model.ErrCodeProductNotFound, model.ErrCodeInvoiceNotFound:
		return http.StatusNotFound
	case model.ErrCodeMissingField, model.ErrCodeInvalidQuantity,
		model.ErrCodeInsufficientStock, model.ErrCodeInvalidStatus,
		model.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
