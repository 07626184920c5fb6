// Package league reshapes the loosely-typed documents returned by the
// upstream API into the responses this service serves. Team and owner names
// live in different fields depending on league settings, so extraction runs
// an ordered list of strategies and takes the first plausible hit.
package league

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/go-fantasy-proxy/internal/utils"
	"github.com/jrsteele09/go-fantasy-proxy/session"
)

// CleanID strips the braces the upstream wraps around member identifiers.
func CleanID(id string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(id)
}

// nameStrategy extracts a candidate team name from a team object.
type nameStrategy func(team map[string]any) string

// Ordered by how reliably each field carries the custom team name.
var teamNameStrategies = []nameStrategy{
	func(team map[string]any) string { return utils.GetString(team, "name") },
	func(team map[string]any) string {
		location := strings.TrimSpace(utils.GetString(team, "location"))
		nickname := strings.TrimSpace(utils.GetString(team, "nickname"))
		if location != "" && nickname != "" {
			return location + " " + nickname
		}
		return ""
	},
	func(team map[string]any) string { return utils.GetString(team, "location") },
	func(team map[string]any) string { return utils.GetString(team, "nickname") },
	func(team map[string]any) string { return utils.GetString(team, "abbrev") },
}

// TeamName resolves a display name for a team object, falling back to
// "Team {id}" when every strategy comes up empty.
func TeamName(team map[string]any) string {
	for _, strategy := range teamNameStrategies {
		name := strings.TrimSpace(strategy(team))
		if name != "" && !strings.HasPrefix(name, "{") {
			return name
		}
	}
	return fmt.Sprintf("Team %d", utils.GetInt(team, "id"))
}

// MemberLookup builds a brace-stripped member id -> display name map from the
// league document's members list.
func MemberLookup(doc map[string]any) map[string]string {
	lookup := make(map[string]string)
	for _, entry := range utils.GetSlice(doc, "members") {
		member, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id := CleanID(utils.GetString(member, "id"))
		name := utils.GetString(member, "displayName")
		if name == "" {
			name = strings.TrimSpace(utils.GetString(member, "firstName") + " " + utils.GetString(member, "lastName"))
		}
		if id != "" && name != "" {
			lookup[id] = name
		}
	}
	return lookup
}

// ownerID extracts the member id from an owner entry, which the upstream
// serves either as an object or a bare id string.
func ownerID(owner any) string {
	switch v := owner.(type) {
	case map[string]any:
		return CleanID(utils.GetString(v, "id"))
	case string:
		return CleanID(v)
	}
	return ""
}

// OwnerName resolves the display name of a team's first owner, consulting the
// member lookup when the owner object carries no name of its own. Returns
// fallback when nothing better is found.
func OwnerName(team map[string]any, members map[string]string, fallback string) string {
	owners := utils.GetSlice(team, "owners")
	if len(owners) == 0 {
		return fallback
	}

	name := ""
	id := ownerID(owners[0])
	if owner, ok := owners[0].(map[string]any); ok {
		name = utils.GetString(owner, "displayName")
		if name == "" {
			name = strings.TrimSpace(utils.GetString(owner, "firstName") + " " + utils.GetString(owner, "lastName"))
		}
	}

	if name == "" && id != "" {
		name = members[id]
	}
	if name == "" || strings.HasPrefix(name, "{") {
		return fallback
	}
	return name
}

// MatchOwnedTeams walks the league document's teams and returns those whose
// owner list contains the caller's identity secret. The comparison is
// case-insensitive and brace-stripped on both sides. Display names come from
// the members list when available.
func MatchOwnedTeams(doc map[string]any, swid string) []session.AuthorizedTeam {
	swidClean := strings.ToLower(CleanID(swid))
	members := MemberLookup(doc)

	var owned []session.AuthorizedTeam
	for _, entry := range utils.GetSlice(doc, "teams") {
		team, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		for _, owner := range utils.GetSlice(team, "owners") {
			id := strings.ToLower(ownerID(owner))
			if id == "" || id != swidClean {
				continue
			}

			ownerName := "Your Team"
			if name, ok := members[ownerID(owner)]; ok {
				ownerName = name
			}

			owned = append(owned, session.AuthorizedTeam{
				TeamID:    utils.GetInt(team, "id"),
				TeamName:  TeamName(team),
				OwnerName: ownerName,
			})
			break
		}
	}
	return owned
}
