package league

import (
	"github.com/jrsteele09/go-fantasy-proxy/internal/utils"
)

// MatchupSide is one side of a weekly head-to-head matchup.
type MatchupSide struct {
	TeamID   int     `json:"teamId"`
	TeamName string  `json:"teamName"`
	Score    float64 `json:"score"`
}

// Matchup is a single head-to-head pairing for a week.
type Matchup struct {
	MatchupID int         `json:"matchupId"`
	Week      int         `json:"week"`
	HomeTeam  MatchupSide `json:"homeTeam"`
	AwayTeam  MatchupSide `json:"awayTeam"`
	Winner    string      `json:"winner"`
}

// BuildMatchups extracts the matchups for a given week from a schedule
// document, resolving team names from the document's teams list.
func BuildMatchups(doc map[string]any, week int) []Matchup {
	teamNames := make(map[int]string)
	for _, entry := range utils.GetSlice(doc, "teams") {
		if team, ok := entry.(map[string]any); ok {
			teamNames[utils.GetInt(team, "id")] = TeamName(team)
		}
	}

	sideFor := func(m map[string]any, key string) MatchupSide {
		side := utils.GetMap(m, key)
		teamID := utils.GetInt(side, "teamId")
		name, ok := teamNames[teamID]
		if !ok {
			name = "Unknown Team"
		}
		return MatchupSide{
			TeamID:   teamID,
			TeamName: name,
			Score:    utils.GetFloat(side, "totalPoints"),
		}
	}

	matchups := make([]Matchup, 0)
	for _, entry := range utils.GetSlice(doc, "schedule") {
		pairing, ok := entry.(map[string]any)
		if !ok || utils.GetInt(pairing, "matchupPeriodId") != week {
			continue
		}

		home := sideFor(pairing, "home")
		away := sideFor(pairing, "away")

		winner := "away"
		if home.Score > away.Score {
			winner = "home"
		}

		matchups = append(matchups, Matchup{
			MatchupID: utils.GetInt(pairing, "id"),
			Week:      week,
			HomeTeam:  home,
			AwayTeam:  away,
			Winner:    winner,
		})
	}
	return matchups
}
