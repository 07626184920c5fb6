package auth

import (
	"github.com/jrsteele09/go-fantasy-proxy/internal/errors"
)

const (
	minSeason = 2015
	maxSeason = 2025

	// Upstream regular seasons run at most 18 scoring periods.
	maxWeek = 18
)

// ValidateLeagueID checks the upstream league id format: digits only,
// length 6 or 7.
func ValidateLeagueID(leagueID string) error {
	if len(leagueID) < 6 || len(leagueID) > 7 {
		return errors.Wrapf(errors.ErrValidation, "league id must be 6-7 digits")
	}
	for _, r := range leagueID {
		if r < '0' || r > '9' {
			return errors.Wrapf(errors.ErrValidation, "league id must be numeric")
		}
	}
	return nil
}

// ValidateYear checks a season year when one is supplied (zero means unset).
func ValidateYear(year int) error {
	if year == 0 {
		return nil
	}
	if year < minSeason || year > maxSeason {
		return errors.Wrapf(errors.ErrValidation, "year must be between %d and %d", minSeason, maxSeason)
	}
	return nil
}

// ValidateWeek checks a scoring-period number.
func ValidateWeek(week int) error {
	if week < 1 || week > maxWeek {
		return errors.Wrapf(errors.ErrValidation, "week must be between 1 and %d", maxWeek)
	}
	return nil
}
