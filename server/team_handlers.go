package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-fantasy-proxy/auth"
	apperrors "github.com/jrsteele09/go-fantasy-proxy/internal/errors"
	"github.com/jrsteele09/go-fantasy-proxy/internal/utils"
	"github.com/jrsteele09/go-fantasy-proxy/league"
	"github.com/jrsteele09/go-fantasy-proxy/session"
	"github.com/jrsteele09/go-fantasy-proxy/token"
)

// maxWeekRangeSpan caps the week-range endpoint at seven weeks per request.
const maxWeekRangeSpan = 7

type teamRequest struct {
	LeagueID  string `json:"league_id"`
	TeamID    int    `json:"team_id"`
	Year      int    `json:"year"`
	StartWeek int    `json:"start_week"`
	EndWeek   int    `json:"end_week"`
}

type teamAnalysis struct {
	TeamID        int                       `json:"team_id"`
	TeamName      string                    `json:"team_name"`
	OwnerName     string                    `json:"owner_name"`
	Season        int                       `json:"season"`
	LeagueID      string                    `json:"league_id"`
	WeeksAnalyzed []int                     `json:"weeks_analyzed"`
	WeeklyData    map[int]league.WeekRoster `json:"weekly_data"`
	TotalWeeks    int                       `json:"total_weeks_processed"`
}

// resolveTeamRequest runs the shared per-team preamble: bearer token, body
// decode, season and week validation, session resolution and the team access
// check.
func (s *Server) resolveTeamRequest(r *http.Request) (teamRequest, *token.Claims, session.Record, error) {
	var req teamRequest

	rawToken, err := bearerToken(r)
	if err != nil {
		return req, nil, session.Record{}, err
	}
	if err := decodeBody(r, &req); err != nil {
		return req, nil, session.Record{}, err
	}
	if req.TeamID == 0 {
		return req, nil, session.Record{}, errors.Wrap(apperrors.ErrValidation, "team_id is required")
	}

	req.Year = s.year(req.Year)
	if err := auth.ValidateYear(req.Year); err != nil {
		return req, nil, session.Record{}, err
	}

	claims, record, err := s.auth.Resolve(rawToken)
	if err != nil {
		return req, nil, session.Record{}, err
	}
	if err := s.auth.AuthorizeTeam(record, req.TeamID); err != nil {
		return req, nil, session.Record{}, err
	}
	return req, claims, record, nil
}

// fetchWeeklyRosters pulls one roster document per week and merges the parsed
// rosters by week number. Weeks that fail upstream or lack roster data are
// skipped rather than failing the whole range.
func (s *Server) fetchWeeklyRosters(ctx context.Context, claims *token.Claims, record session.Record, year, teamID, startWeek, endWeek int) (map[int]league.WeekRoster, []int) {
	if endWeek > 17 {
		endWeek = 17
	}

	weekly := make(map[int]league.WeekRoster)
	weeks := make([]int, 0, endWeek-startWeek+1)
	for week := startWeek; week <= endWeek; week++ {
		weeks = append(weeks, week)

		doc, err := s.auth.DispatchSession(ctx, claims, record, year, "mRoster", week)
		if err != nil {
			log.Error().Err(err).Int("week", week).Int("team_id", teamID).Msg("failed to fetch week data")
			continue
		}
		roster, ok := league.ParseWeekRoster(doc, teamID, week)
		if !ok {
			log.Warn().Int("week", week).Int("team_id", teamID).Msg("no roster data for week")
			continue
		}
		weekly[week] = roster
	}
	return weekly, weeks
}

func buildTeamAnalysis(req teamRequest, claims *token.Claims, weekly map[int]league.WeekRoster, weeks []int) teamAnalysis {
	analysis := teamAnalysis{
		TeamID:        req.TeamID,
		TeamName:      "Unknown Team",
		OwnerName:     "Unknown Owner",
		Season:        req.Year,
		LeagueID:      claims.LeagueID,
		WeeksAnalyzed: weeks,
		WeeklyData:    weekly,
		TotalWeeks:    len(weekly),
	}
	for _, week := range weeks {
		if roster, ok := weekly[week]; ok {
			analysis.TeamName = roster.TeamName
			analysis.OwnerName = roster.OwnerName
			break
		}
	}
	return analysis
}

// TeamAnalysisHandler returns per-week lineup and bench rosters for one of
// the caller's own teams, over an arbitrary week range.
func (s *Server) TeamAnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, claims, record, err := s.resolveTeamRequest(r)
		if err != nil {
			writeError(w, err)
			return
		}

		startWeek, endWeek := req.StartWeek, req.EndWeek
		if startWeek == 0 {
			startWeek = 1
		}
		if endWeek == 0 {
			endWeek = 17
		}
		if err := validateWeekRange(startWeek, endWeek); err != nil {
			writeError(w, err)
			return
		}

		weekly, weeks := s.fetchWeeklyRosters(r.Context(), claims, record, req.Year, req.TeamID, startWeek, endWeek)
		writeJSON(w, http.StatusOK, buildTeamAnalysis(req, claims, weekly, weeks))
	}
}

// TeamWeekRangeHandler is the bounded variant of team analysis: at most seven
// weeks per request, the range silently truncated when the caller asks for
// more.
func (s *Server) TeamWeekRangeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, claims, record, err := s.resolveTeamRequest(r)
		if err != nil {
			writeError(w, err)
			return
		}

		startWeek, endWeek := req.StartWeek, req.EndWeek
		if startWeek == 0 {
			startWeek = 1
		}
		if endWeek == 0 {
			endWeek = 5
		}
		if err := validateWeekRange(startWeek, endWeek); err != nil {
			writeError(w, err)
			return
		}
		if endWeek-startWeek >= maxWeekRangeSpan {
			endWeek = startWeek + maxWeekRangeSpan - 1
			log.Warn().Int("start_week", startWeek).Int("end_week", endWeek).Msg("week range truncated to seven weeks")
		}

		weekly, weeks := s.fetchWeeklyRosters(r.Context(), claims, record, req.Year, req.TeamID, startWeek, endWeek)
		writeJSON(w, http.StatusOK, buildTeamAnalysis(req, claims, weekly, weeks))
	}
}

type teamSeasonSummary struct {
	TeamID         int                       `json:"team_id"`
	TeamName       string                    `json:"team_name"`
	OwnerName      string                    `json:"owner_name"`
	WeeklyData     map[int]league.WeekRoster `json:"weekly_data"`
	WeeksProcessed int                       `json:"weeks_processed"`
}

type allTeamsAnalysis struct {
	LeagueID   string                     `json:"league_id"`
	Year       int                        `json:"year"`
	Teams      map[int]*teamSeasonSummary `json:"teams"`
	TotalTeams int                        `json:"total_teams"`
	WeeksRange string                     `json:"weeks_range"`
}

// AllTeamsAnalysisHandler returns weekly lineup and bench rosters for every
// team in the league. League-wide: any resolvable session may call it, no
// team ownership involved. Each week's roster document is fetched once and
// parsed for all teams.
func (s *Server) AllTeamsAnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawToken, err := bearerToken(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var req teamRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		req.Year = s.year(req.Year)
		if err := auth.ValidateYear(req.Year); err != nil {
			writeError(w, err)
			return
		}

		startWeek, endWeek := req.StartWeek, req.EndWeek
		if startWeek == 0 {
			startWeek = 1
		}
		if endWeek == 0 {
			endWeek = 17
		}
		if err := validateWeekRange(startWeek, endWeek); err != nil {
			writeError(w, err)
			return
		}
		if endWeek > 17 {
			endWeek = 17
		}

		claims, record, err := s.auth.Resolve(rawToken)
		if err != nil {
			writeError(w, err)
			return
		}

		// Team ids, names and owners come from the season-level document
		doc, err := s.auth.DispatchSession(r.Context(), claims, record, req.Year, "mTeam", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		members := league.MemberLookup(doc)

		teams := make(map[int]*teamSeasonSummary)
		for _, entry := range utils.GetSlice(doc, "teams") {
			team, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			teamName := league.TeamName(team)
			teams[utils.GetInt(team, "id")] = &teamSeasonSummary{
				TeamID:     utils.GetInt(team, "id"),
				TeamName:   teamName,
				OwnerName:  league.OwnerName(team, members, "Unknown Owner"),
				WeeklyData: make(map[int]league.WeekRoster),
			}
		}

		for week := startWeek; week <= endWeek; week++ {
			weekDoc, err := s.auth.DispatchSession(r.Context(), claims, record, req.Year, "mRoster", week)
			if err != nil {
				log.Error().Err(err).Int("week", week).Msg("failed to fetch week data for league analysis")
				continue
			}
			for teamID, summary := range teams {
				roster, ok := league.ParseWeekRoster(weekDoc, teamID, week)
				if !ok {
					continue
				}
				summary.WeeklyData[week] = roster
				summary.WeeksProcessed++
			}
		}

		writeJSON(w, http.StatusOK, allTeamsAnalysis{
			LeagueID:   claims.LeagueID,
			Year:       req.Year,
			Teams:      teams,
			TotalTeams: len(teams),
			WeeksRange: fmt.Sprintf("%d-%d", startWeek, endWeek),
		})
	}
}

type teamQuickSummary struct {
	teamAnalysis
	CurrentWeek         int  `json:"current_week"`
	IsPartial           bool `json:"is_partial"`
	FullSeasonAvailable bool `json:"full_season_available"`
}

// TeamQuickSummaryHandler returns the last three weeks ending at the league's
// current week, for fast initial loads.
func (s *Server) TeamQuickSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, claims, record, err := s.resolveTeamRequest(r)
		if err != nil {
			writeError(w, err)
			return
		}

		doc, err := s.auth.DispatchSession(r.Context(), claims, record, req.Year, "mTeam", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		currentWeek := league.CurrentWeek(doc)

		startWeek := currentWeek - 2
		if startWeek < 1 {
			startWeek = 1
		}

		weekly, weeks := s.fetchWeeklyRosters(r.Context(), claims, record, req.Year, req.TeamID, startWeek, currentWeek)
		writeJSON(w, http.StatusOK, teamQuickSummary{
			teamAnalysis:        buildTeamAnalysis(req, claims, weekly, weeks),
			CurrentWeek:         currentWeek,
			IsPartial:           true,
			FullSeasonAvailable: true,
		})
	}
}

func validateWeekRange(startWeek, endWeek int) error {
	if err := auth.ValidateWeek(startWeek); err != nil {
		return err
	}
	if err := auth.ValidateWeek(endWeek); err != nil {
		return err
	}
	if startWeek > endWeek {
		return errors.Wrapf(apperrors.ErrValidation, "start_week %d is after end_week %d", startWeek, endWeek)
	}
	return nil
}
