package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/jrsteele09/go-fantasy-proxy/internal/errors"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeError maps a service error onto the HTTP taxonomy. Token, session and
// decryption failures all collapse into one indistinguishable 401 so a caller
// cannot probe which check failed.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrValidation):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case apperrors.Is(err, apperrors.ErrTooManyAttempts):
		writeErrorMessage(w, http.StatusTooManyRequests, "Too many failed attempts. Please try again later.")
	case apperrors.Is(err, apperrors.ErrUpstreamAuth):
		writeErrorMessage(w, http.StatusUnauthorized, "Invalid ESPN credentials. Please check your espn_s2 and SWID cookies.")
	case apperrors.Is(err, apperrors.ErrUpstreamUnavailable):
		writeErrorMessage(w, http.StatusBadGateway, "ESPN API is unavailable. Please try again later.")
	case apperrors.Is(err, apperrors.ErrInvalidToken),
		apperrors.Is(err, apperrors.ErrExpiredToken),
		apperrors.Is(err, apperrors.ErrSessionNotFound),
		apperrors.Is(err, apperrors.ErrInvalidSession):
		writeErrorMessage(w, http.StatusUnauthorized, "Session invalid or expired - please re-authenticate")
	case apperrors.Is(err, apperrors.ErrForbidden):
		writeErrorMessage(w, http.StatusForbidden, "Access denied to this team")
	default:
		log.Error().Err(err).Msg("request failed")
		writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
