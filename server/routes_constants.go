package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteAuthenticate = "/secure-authenticate"

	// League-wide data routes (require a resolvable session)
	RouteLeagueInfo       = "/secure-league-info"
	RouteLeagueMatchups   = "/secure-league-matchups"
	RouteAllTeamsAnalysis = "/secure-all-teams-analysis"

	// Per-team data routes (additionally require team ownership)
	RouteTeamAnalysis     = "/secure-team-analysis"
	RouteTeamWeekRange    = "/secure-team-week-range"
	RouteTeamQuickSummary = "/secure-team-quick-summary"

	RouteLogout = "/logout"
	RouteHealth = "/health"
)
