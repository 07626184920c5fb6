package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-fantasy-proxy/auth"
	apperrors "github.com/jrsteele09/go-fantasy-proxy/internal/errors"
)

// decodeBody unmarshals a JSON request body, mapping malformed input onto a
// validation error.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(apperrors.ErrValidation, "request body must be valid JSON")
	}
	return nil
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", errors.Wrap(apperrors.ErrInvalidToken, "missing bearer token")
	}
	return strings.TrimSpace(token), nil
}

type authenticateRequest struct {
	LeagueID string `json:"league_id"`
	EspnS2   string `json:"espn_s2"`
	SWID     string `json:"swid"`
	Year     int    `json:"year"`
}

// AuthenticateHandler verifies raw credentials and mints a session token.
func (s *Server) AuthenticateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authenticateRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}

		year := req.Year
		if year == 0 {
			year = s.config.GetDefaultSeason()
		}
		if err := auth.ValidateYear(year); err != nil {
			writeError(w, err)
			return
		}

		result, err := s.auth.Authenticate(r.Context(), req.LeagueID, req.EspnS2, req.SWID, year)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// LogoutHandler removes the caller's own session record.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.auth.Logout(token); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	}
}

type healthResponse struct {
	Status            string `json:"status"`
	UptimeSeconds     int64  `json:"uptime_seconds"`
	RequestsProcessed int64  `json:"requests_processed"`
	ActiveSessions    int    `json:"active_sessions"`
}

// HealthHandler reports liveness stats. Active sessions are counted after an
// expiry sweep so the number reflects live records only.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:            "healthy",
			UptimeSeconds:     int64(time.Since(s.startTime).Seconds()),
			RequestsProcessed: s.requestCount.Load(),
			ActiveSessions:    s.auth.ActiveSessions(),
		})
	}
}
