package server

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("POST "+RouteAuthenticate, ChainMiddleware(s.AuthenticateHandler(), s.APIMiddleware()...))

	// League-wide data
	s.RegisterRouteHandler("POST "+RouteLeagueInfo, ChainMiddleware(s.LeagueInfoHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLeagueMatchups, ChainMiddleware(s.LeagueMatchupsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAllTeamsAnalysis, ChainMiddleware(s.AllTeamsAnalysisHandler(), s.APIMiddleware()...))

	// Per-team data (team ownership enforced in the handlers)
	s.RegisterRouteHandler("POST "+RouteTeamAnalysis, ChainMiddleware(s.TeamAnalysisHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTeamWeekRange, ChainMiddleware(s.TeamWeekRangeHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTeamQuickSummary, ChainMiddleware(s.TeamQuickSummaryHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("DELETE "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// Preflight for every API route
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(s.PreflightHandler(), s.CorsMiddleware))
}
