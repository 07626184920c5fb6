// Package session holds the server-side state binding an authenticated
// caller to their encrypted upstream credentials and authorized teams.
package session

import (
	"fmt"
	"time"
)

// AuthorizedTeam is a team the authenticated caller is confirmed to own
// within the league. The list is derived once at authentication time and
// reused for every subsequent access check.
type AuthorizedTeam struct {
	TeamID    int    `json:"team_id"`
	TeamName  string `json:"team_name"`
	OwnerName string `json:"owner_name"`
}

// Record binds a fingerprint+league to encrypted credentials, the caller's
// authorized teams, and an expiry. At most one live record exists per
// (fingerprint, league) pair.
type Record struct {
	EncryptedCredentials string
	LeagueID             string
	Teams                []AuthorizedTeam
	CreatedAt            time.Time
	ExpiresAt            time.Time
}

// OwnsTeam reports whether teamID is in the record's authorized team list.
func (r Record) OwnsTeam(teamID int) bool {
	for _, team := range r.Teams {
		if team.TeamID == teamID {
			return true
		}
	}
	return false
}

// Key derives the composite store key for a fingerprint and league id.
func Key(userFingerprint, leagueID string) string {
	return fmt.Sprintf("%s_%s", userFingerprint, leagueID)
}
