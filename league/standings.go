package league

import (
	"fmt"
	"sort"

	"github.com/jrsteele09/go-fantasy-proxy/internal/utils"
	"github.com/jrsteele09/go-fantasy-proxy/session"
)

// TeamRecord is a team's seasonal line in the league summary.
type TeamRecord struct {
	TeamID        int     `json:"teamId"`
	TeamName      string  `json:"teamName"`
	OwnerName     string  `json:"ownerName"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
	IsYou         bool    `json:"isYou"`
}

// Summary is the reshaped league overview returned by the league-info endpoint.
type Summary struct {
	LeagueID    string                   `json:"league_id"`
	Name        string                   `json:"name"`
	Season      int                      `json:"season"`
	Size        int                      `json:"size"`
	ScoringType string                   `json:"scoring_type"`
	CurrentWeek int                      `json:"current_week"`
	Teams       []TeamRecord             `json:"teams"`
	Standings   []TeamRecord             `json:"standings"`
	YourTeams   []session.AuthorizedTeam `json:"your_teams"`
}

// Name extracts the league's display name from settings, defaulting to
// "League {id}".
func Name(doc map[string]any, leagueID string) string {
	if settings := utils.GetMap(doc, "settings"); settings != nil {
		if name := utils.GetString(settings, "name"); name != "" {
			return name
		}
	}
	return fmt.Sprintf("League %s", leagueID)
}

// CurrentWeek extracts the league's current scoring period, defaulting to 1.
func CurrentWeek(doc map[string]any) int {
	if week := utils.GetInt(doc, "scoringPeriodId"); week > 0 {
		return week
	}
	return 1
}

// BuildSummary reshapes a league document into a Summary. Standings are the
// teams re-sorted by wins, with points-for breaking ties.
func BuildSummary(doc map[string]any, leagueID string, year int, yourTeams []session.AuthorizedTeam) Summary {
	members := MemberLookup(doc)

	yourTeamIDs := make(map[int]struct{}, len(yourTeams))
	for _, team := range yourTeams {
		yourTeamIDs[team.TeamID] = struct{}{}
	}

	teams := make([]TeamRecord, 0)
	for _, entry := range utils.GetSlice(doc, "teams") {
		team, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		teamName := TeamName(team)
		record := TeamRecord{
			TeamID:    utils.GetInt(team, "id"),
			TeamName:  teamName,
			OwnerName: OwnerName(team, members, teamName),
		}

		if overall := utils.GetMap(utils.GetMap(team, "record"), "overall"); overall != nil {
			record.Wins = utils.GetInt(overall, "wins")
			record.Losses = utils.GetInt(overall, "losses")
			record.PointsFor = utils.GetFloat(overall, "pointsFor")
			record.PointsAgainst = utils.GetFloat(overall, "pointsAgainst")
		}

		_, record.IsYou = yourTeamIDs[record.TeamID]
		teams = append(teams, record)
	}

	standings := make([]TeamRecord, len(teams))
	copy(standings, teams)
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].PointsFor > standings[j].PointsFor
	})

	return Summary{
		LeagueID:    leagueID,
		Name:        Name(doc, leagueID),
		Season:      year,
		Size:        len(teams),
		ScoringType: "ppr",
		CurrentWeek: CurrentWeek(doc),
		Teams:       teams,
		Standings:   standings,
		YourTeams:   yourTeams,
	}
}
