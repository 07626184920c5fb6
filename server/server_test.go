package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-fantasy-proxy/auth"
	"github.com/jrsteele09/go-fantasy-proxy/credentials"
	"github.com/jrsteele09/go-fantasy-proxy/espn/espnfakes"
	"github.com/jrsteele09/go-fantasy-proxy/internal/config"
	"github.com/jrsteele09/go-fantasy-proxy/ratelimit"
	"github.com/jrsteele09/go-fantasy-proxy/server"
	"github.com/jrsteele09/go-fantasy-proxy/session"
	"github.com/jrsteele09/go-fantasy-proxy/token"
)

const (
	testLeagueID = "1234567"
	testSWID     = "{ABCD-1234-EFGH}"
)

// newTestServer wires a full server against a faked upstream.
func newTestServer(t *testing.T) (*httptest.Server, *espnfakes.FakeFetcher) {
	t.Helper()

	upstream := &espnfakes.FakeFetcher{}
	upstream.FetchFunc = func(_ context.Context, _ credentials.Set, _ string, _ int, view string, week int) (map[string]any, error) {
		switch view {
		case "mRoster":
			return rosterDoc(week), nil
		default:
			return leagueDoc(), nil
		}
	}

	cfg := config.New()

	cipher, err := credentials.NewCipher(cfg.GetEncryptionKey())
	require.NoError(t, err)
	tokens, err := token.NewIssuer(cfg.GetSigningSecret(), cfg.GetSessionTTL())
	require.NoError(t, err)

	authService, err := auth.New(auth.Deps{
		Sessions: session.NewStore(),
		Limiter:  ratelimit.NewLimiter(cfg.GetMaxFailedAttempts(), cfg.GetRateLimitWindow()),
		Cipher:   cipher,
		Tokens:   tokens,
		Upstream: upstream,
	})
	require.NoError(t, err)

	srv, err := server.New(cfg, authService)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, upstream
}

func leagueDoc() map[string]any {
	return map[string]any{
		"scoringPeriodId": float64(5),
		"settings":        map[string]any{"name": "Test League"},
		"teams": []any{
			map[string]any{
				"id":     float64(3),
				"name":   "My Team",
				"owners": []any{testSWID},
				"record": map[string]any{
					"overall": map[string]any{
						"wins": float64(4), "losses": float64(1),
						"pointsFor": float64(612.5), "pointsAgainst": float64(540.0),
					},
				},
			},
			map[string]any{
				"id":     float64(4),
				"name":   "Rival Team",
				"owners": []any{"{OTHER-OWNER}"},
				"record": map[string]any{
					"overall": map[string]any{
						"wins": float64(2), "losses": float64(3),
						"pointsFor": float64(533.1), "pointsAgainst": float64(601.9),
					},
				},
			},
		},
		"members": []any{
			map[string]any{"id": testSWID, "displayName": "Me"},
		},
		"schedule": []any{
			map[string]any{
				"id":              float64(21),
				"matchupPeriodId": float64(5),
				"home":            map[string]any{"teamId": float64(3), "totalPoints": float64(121.4)},
				"away":            map[string]any{"teamId": float64(4), "totalPoints": float64(99.2)},
			},
		},
	}
}

func rosterDoc(week int) map[string]any {
	return map[string]any{
		"teams": []any{
			map[string]any{
				"id":   float64(3),
				"name": "My Team",
				"roster": map[string]any{
					"entries": []any{
						map[string]any{
							"lineupSlotId": float64(0),
							"playerPoolEntry": map[string]any{
								"player": map[string]any{
									"id":                float64(1001),
									"fullName":          "Test Quarterback",
									"defaultPositionId": float64(1),
									"stats": []any{
										map[string]any{
											"scoringPeriodId": float64(week),
											"statSourceId":    float64(0),
											"statSplitTypeId": float64(1),
											"appliedTotal":    float64(22.5),
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func postJSON(t *testing.T, url, bearer string, body map[string]any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func authenticate(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, ts.URL+"/secure-authenticate", "", map[string]any{
		"league_id": testLeagueID,
		"espn_s2":   "opaque-cookie-value",
		"swid":      testSWID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeResponse(t, resp)
	sessionToken, _ := body["session_token"].(string)
	require.NotEmpty(t, sessionToken)
	return sessionToken
}

func TestAuthenticateEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/secure-authenticate", "", map[string]any{
		"league_id": testLeagueID,
		"espn_s2":   "opaque-cookie-value",
		"swid":      testSWID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	require.EqualValues(t, 3600, body["expires_in"])

	leagueInfo, ok := body["league_info"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Test League", leagueInfo["name"])
	require.Len(t, leagueInfo["your_teams"], 1)
}

func TestAuthenticateEndpoint_BadLeagueID(t *testing.T) {
	ts, upstream := newTestServer(t)

	resp := postJSON(t, ts.URL+"/secure-authenticate", "", map[string]any{
		"league_id": "12ab",
		"espn_s2":   "opaque-cookie-value",
		"swid":      testSWID,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Zero(t, upstream.CallCount())
}

func TestLeagueInfoEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	sessionToken := authenticate(t, ts)

	resp := postJSON(t, ts.URL+"/secure-league-info", sessionToken, map[string]any{
		"league_id": testLeagueID,
		"year":      2024,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	require.Equal(t, "Test League", body["name"])
	require.EqualValues(t, 2, body["size"])

	standings, ok := body["standings"].([]any)
	require.True(t, ok)
	require.Len(t, standings, 2)
	first, ok := standings[0].(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 3, first["teamId"], "most wins sorts first")
	require.Equal(t, true, first["isYou"])
}

func TestLeagueInfoEndpoint_RequiresToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/secure-league-info", "", map[string]any{"league_id": testLeagueID})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeResponse(t, resp)
	require.Equal(t, "Session invalid or expired - please re-authenticate", body["detail"])
}

func TestLeagueMatchupsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	sessionToken := authenticate(t, ts)

	resp := postJSON(t, ts.URL+"/secure-league-matchups", sessionToken, map[string]any{
		"league_id": testLeagueID,
		"week":      5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	matchups, ok := body["matchups"].([]any)
	require.True(t, ok)
	require.Len(t, matchups, 1)
	matchup, ok := matchups[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "home", matchup["winner"])
}

func TestTeamAnalysisEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	sessionToken := authenticate(t, ts)

	resp := postJSON(t, ts.URL+"/secure-team-analysis", sessionToken, map[string]any{
		"league_id":  testLeagueID,
		"team_id":    3,
		"start_week": 1,
		"end_week":   2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	require.Equal(t, "My Team", body["team_name"])
	require.EqualValues(t, 2, body["total_weeks_processed"])

	weekly, ok := body["weekly_data"].(map[string]any)
	require.True(t, ok)
	week1, ok := weekly["1"].(map[string]any)
	require.True(t, ok)
	lineup, ok := week1["lineup"].([]any)
	require.True(t, ok)
	require.Len(t, lineup, 1)
}

func TestAllTeamsAnalysisEndpoint(t *testing.T) {
	ts, upstream := newTestServer(t)
	sessionToken := authenticate(t, ts)
	callsBefore := upstream.CallCount()

	resp := postJSON(t, ts.URL+"/secure-all-teams-analysis", sessionToken, map[string]any{
		"league_id":  testLeagueID,
		"start_week": 1,
		"end_week":   2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	require.EqualValues(t, 2, body["total_teams"])
	require.Equal(t, "1-2", body["weeks_range"])

	teams, ok := body["teams"].(map[string]any)
	require.True(t, ok)
	require.Len(t, teams, 2)

	mine, ok := teams["3"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "My Team", mine["team_name"])
	require.EqualValues(t, 2, mine["weeks_processed"])

	// The faked weekly documents carry no roster for team 4
	rival, ok := teams["4"].(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 0, rival["weeks_processed"])

	// One season-level fetch plus one roster fetch per week, not per team
	require.Equal(t, 3, upstream.CallCount()-callsBefore)
}

func TestAllTeamsAnalysisEndpoint_RequiresToken(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/secure-all-teams-analysis", "", map[string]any{"league_id": testLeagueID})
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTeamAnalysisEndpoint_ForbiddenForOtherTeam(t *testing.T) {
	ts, _ := newTestServer(t)
	sessionToken := authenticate(t, ts)

	resp := postJSON(t, ts.URL+"/secure-team-analysis", sessionToken, map[string]any{
		"league_id": testLeagueID,
		"team_id":   999,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeResponse(t, resp)
	require.Equal(t, "Access denied to this team", body["detail"])
}

func TestTeamWeekRangeEndpoint_CapsRangeAtSevenWeeks(t *testing.T) {
	ts, upstream := newTestServer(t)
	sessionToken := authenticate(t, ts)
	callsBefore := upstream.CallCount()

	resp := postJSON(t, ts.URL+"/secure-team-week-range", sessionToken, map[string]any{
		"league_id":  testLeagueID,
		"team_id":    3,
		"start_week": 1,
		"end_week":   17,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	require.EqualValues(t, 7, body["total_weeks_processed"])
	require.Equal(t, 7, upstream.CallCount()-callsBefore, "one upstream fetch per capped week")
}

func TestTeamQuickSummaryEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	sessionToken := authenticate(t, ts)

	resp := postJSON(t, ts.URL+"/secure-team-quick-summary", sessionToken, map[string]any{
		"league_id": testLeagueID,
		"team_id":   3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	require.EqualValues(t, 5, body["current_week"])
	require.Equal(t, true, body["is_partial"])
	require.EqualValues(t, 3, body["total_weeks_processed"], "current week plus the two before it")
}

func TestLogoutEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	sessionToken := authenticate(t, ts)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+sessionToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The token is now orphaned; data requests must fail with the generic 401
	after := postJSON(t, ts.URL+"/secure-league-info", sessionToken, map[string]any{"league_id": testLeagueID})
	after.Body.Close()
	require.Equal(t, http.StatusUnauthorized, after.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	authenticate(t, ts)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	require.Equal(t, "healthy", body["status"])
	require.EqualValues(t, 1, body["active_sessions"])
	require.GreaterOrEqual(t, body["requests_processed"], float64(1))
	require.GreaterOrEqual(t, body["uptime_seconds"], float64(0))
}

func TestCorsPreflight(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/secure-authenticate", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
