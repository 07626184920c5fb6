package league

import (
	"github.com/jrsteele09/go-fantasy-proxy/internal/utils"
)

// Lineup slot ids the upstream uses for non-starting players.
const (
	slotBench = 20
	slotIR    = 21
)

// Player is one roster entry with its scored and projected points for a week.
type Player struct {
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Points     float64 `json:"points"`
	Projected  float64 `json:"projected"`
	PlayerID   int     `json:"player_id"`
	LineupSlot int     `json:"lineup_slot"`
}

// WeekRoster is a team's lineup and bench for a single week.
type WeekRoster struct {
	TeamID    int      `json:"team_id"`
	TeamName  string   `json:"team_name"`
	OwnerName string   `json:"owner_name"`
	Lineup    []Player `json:"lineup"`
	Bench     []Player `json:"bench"`
}

// ParseWeekRoster extracts one team's roster from a weekly document, split
// into active lineup and bench/IR. Returns false when the team or its roster
// is absent from the document.
func ParseWeekRoster(doc map[string]any, teamID, week int) (WeekRoster, bool) {
	var team map[string]any
	for _, entry := range utils.GetSlice(doc, "teams") {
		if candidate, ok := entry.(map[string]any); ok && utils.GetInt(candidate, "id") == teamID {
			team = candidate
			break
		}
	}
	if team == nil {
		return WeekRoster{}, false
	}

	roster := utils.GetMap(team, "roster")
	if roster == nil {
		return WeekRoster{}, false
	}

	result := WeekRoster{
		TeamID:    teamID,
		TeamName:  TeamName(team),
		OwnerName: OwnerName(team, nil, "Unknown Owner"),
		Lineup:    make([]Player, 0),
		Bench:     make([]Player, 0),
	}

	for _, entry := range utils.GetSlice(roster, "entries") {
		rosterEntry, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		player := utils.GetMap(utils.GetMap(rosterEntry, "playerPoolEntry"), "player")
		if player == nil {
			continue
		}

		lineupSlot := slotBench
		if _, ok := rosterEntry["lineupSlotId"]; ok {
			lineupSlot = utils.GetInt(rosterEntry, "lineupSlotId")
		}

		points, projected := weekPoints(utils.GetSlice(player, "stats"), week)

		info := Player{
			Name:       playerName(player),
			Position:   PositionName(utils.GetInt(player, "defaultPositionId")),
			Points:     points,
			Projected:  projected,
			PlayerID:   utils.GetInt(player, "id"),
			LineupSlot: lineupSlot,
		}

		if lineupSlot == slotBench || lineupSlot == slotIR {
			result.Bench = append(result.Bench, info)
		} else {
			result.Lineup = append(result.Lineup, info)
		}
	}

	return result, true
}

func playerName(player map[string]any) string {
	if name := utils.GetString(player, "fullName"); name != "" {
		return name
	}
	return "Unknown Player"
}

// weekPoints finds a player's actual and projected points for a week.
// Actual points prefer the stat line with statSourceId 0 and statSplitTypeId 1,
// falling back to any statSourceId 0 line for the week; projections come from
// statSourceId 1.
func weekPoints(stats []any, week int) (points, projected float64) {
	statFor := func(sourceID int, requireSplit bool) (float64, bool) {
		for _, entry := range stats {
			stat, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if utils.GetInt(stat, "scoringPeriodId") != week || utils.GetInt(stat, "statSourceId") != sourceID {
				continue
			}
			if requireSplit && utils.GetInt(stat, "statSplitTypeId") != 1 {
				continue
			}
			return utils.GetFloat(stat, "appliedTotal"), true
		}
		return 0, false
	}

	points, _ = statFor(0, true)
	if points == 0 {
		// A zero from the preferred split is treated as missing; some weeks
		// only carry the unsplit stat line.
		points, _ = statFor(0, false)
	}

	if proj, ok := statFor(1, false); ok {
		projected = proj
	}
	return points, projected
}
