package server

import (
	"net/http"

	"github.com/jrsteele09/go-fantasy-proxy/auth"
	"github.com/jrsteele09/go-fantasy-proxy/league"
)

type leagueRequest struct {
	LeagueID string `json:"league_id"`
	Year     int    `json:"year"`
	Week     int    `json:"week"`
}

// year resolves the requested season, defaulting to the configured one.
func (s *Server) year(requested int) int {
	if requested == 0 {
		return s.config.GetDefaultSeason()
	}
	return requested
}

// LeagueInfoHandler returns the reshaped league overview: teams, standings and
// the caller's own teams marked.
func (s *Server) LeagueInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var req leagueRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		year := s.year(req.Year)
		if err := auth.ValidateYear(year); err != nil {
			writeError(w, err)
			return
		}

		claims, record, err := s.auth.Resolve(token)
		if err != nil {
			writeError(w, err)
			return
		}
		doc, err := s.auth.DispatchSession(r.Context(), claims, record, year, "mTeam", 0)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, league.BuildSummary(doc, claims.LeagueID, year, record.Teams))
	}
}

// LeagueMatchupsHandler returns all head-to-head pairings for one week.
func (s *Server) LeagueMatchupsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var req leagueRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		year := s.year(req.Year)
		if err := auth.ValidateYear(year); err != nil {
			writeError(w, err)
			return
		}
		if err := auth.ValidateWeek(req.Week); err != nil {
			writeError(w, err)
			return
		}

		doc, err := s.auth.Dispatch(r.Context(), token, year, "mMatchup", req.Week)
		if err != nil {
			writeError(w, err)
			return
		}

		matchups := league.BuildMatchups(doc, req.Week)
		writeJSON(w, http.StatusOK, map[string]any{
			"week":     req.Week,
			"season":   year,
			"matchups": matchups,
		})
	}
}
