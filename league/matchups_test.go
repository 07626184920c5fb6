package league_test

import (
	"testing"

	"github.com/jrsteele09/go-fantasy-proxy/league"
	"github.com/stretchr/testify/require"
)

func TestBuildMatchups(t *testing.T) {
	doc := map[string]any{
		"teams": []any{
			map[string]any{"id": float64(1), "name": "Alpha"},
			map[string]any{"id": float64(2), "name": "Bravo"},
		},
		"schedule": []any{
			map[string]any{
				"id":              float64(10),
				"matchupPeriodId": float64(3),
				"home":            map[string]any{"teamId": float64(1), "totalPoints": 101.5},
				"away":            map[string]any{"teamId": float64(2), "totalPoints": 99.25},
			},
			map[string]any{
				"id":              float64(11),
				"matchupPeriodId": float64(4), // Different week, excluded
				"home":            map[string]any{"teamId": float64(2), "totalPoints": 80.0},
				"away":            map[string]any{"teamId": float64(1), "totalPoints": 85.0},
			},
		},
	}

	matchups := league.BuildMatchups(doc, 3)
	require.Len(t, matchups, 1)

	m := matchups[0]
	require.Equal(t, 10, m.MatchupID)
	require.Equal(t, 3, m.Week)
	require.Equal(t, "Alpha", m.HomeTeam.TeamName)
	require.Equal(t, "Bravo", m.AwayTeam.TeamName)
	require.Equal(t, 101.5, m.HomeTeam.Score)
	require.Equal(t, "home", m.Winner)
}

func TestBuildMatchups_UnknownTeamName(t *testing.T) {
	doc := map[string]any{
		"schedule": []any{
			map[string]any{
				"id":              float64(1),
				"matchupPeriodId": float64(1),
				"home":            map[string]any{"teamId": float64(9), "totalPoints": 50.0},
				"away":            map[string]any{"teamId": float64(8), "totalPoints": 60.0},
			},
		},
	}

	matchups := league.BuildMatchups(doc, 1)
	require.Len(t, matchups, 1)
	require.Equal(t, "Unknown Team", matchups[0].HomeTeam.TeamName)
	require.Equal(t, "away", matchups[0].Winner)
}
