// Package auth orchestrates the credential lifecycle: verifying raw upstream
// cookies, sealing them into an in-memory session, issuing the session token,
// and resolving that token back to credentials for every later request.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-fantasy-proxy/credentials"
	"github.com/jrsteele09/go-fantasy-proxy/espn"
	apperrors "github.com/jrsteele09/go-fantasy-proxy/internal/errors"
	"github.com/jrsteele09/go-fantasy-proxy/league"
	"github.com/jrsteele09/go-fantasy-proxy/ratelimit"
	"github.com/jrsteele09/go-fantasy-proxy/session"
	"github.com/jrsteele09/go-fantasy-proxy/token"
)

// Deps holds all dependencies for the Service
type Deps struct {
	Sessions *session.Store    // In-memory session records
	Limiter  *ratelimit.Limiter // Failed-attempt tracking
	Cipher   *credentials.Cipher
	Tokens   *token.Issuer
	Upstream espn.Fetcher
}

// defaultProbeTimeout bounds the credential-verification request made during
// authentication, kept tighter than ordinary data fetches.
const defaultProbeTimeout = 10 * time.Second

// Service implements the authentication flow and the authorized request
// dispatcher. Every data-fetching endpoint goes through Dispatch; no handler
// holds or uses credentials directly.
type Service struct {
	deps         Deps
	probeTimeout time.Duration
	nowTime      func() time.Time // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithProbeTimeout overrides the deadline applied to the upstream
// verification call during authentication.
func WithProbeTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		s.probeTimeout = timeout
	}
}

// New initializes a Service with required dependencies.
func New(deps Deps, options ...ServiceOption) (*Service, error) {
	if deps.Sessions == nil {
		return nil, errors.New("[auth.New] Sessions store is required")
	}
	if deps.Limiter == nil {
		return nil, errors.New("[auth.New] Limiter is required")
	}
	if deps.Cipher == nil {
		return nil, errors.New("[auth.New] Cipher is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[auth.New] Tokens issuer is required")
	}
	if deps.Upstream == nil {
		return nil, errors.New("[auth.New] Upstream fetcher is required")
	}

	service := &Service{
		deps:         deps,
		probeTimeout: defaultProbeTimeout,
		nowTime:      time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// LeagueInfo is the league summary returned alongside a fresh session token.
type LeagueInfo struct {
	LeagueID    string                   `json:"league_id"`
	Name        string                   `json:"name"`
	CurrentWeek int                      `json:"current_week"`
	YourTeams   []session.AuthorizedTeam `json:"your_teams"`
}

// AuthResult is the successful outcome of Authenticate.
type AuthResult struct {
	SessionToken string     `json:"session_token"`
	ExpiresIn    int        `json:"expires_in"`
	LeagueInfo   LeagueInfo `json:"league_info"`
}

// Authenticate verifies the raw cookie pair against the upstream, derives the
// caller's authorized teams, and stores an encrypted session. Each gate is
// hard: a failure aborts before later steps and no partial record is stored.
func (s *Service) Authenticate(ctx context.Context, leagueID, espnS2, swid string, year int) (*AuthResult, error) {
	leagueID = strings.TrimSpace(leagueID)
	espnS2 = strings.TrimSpace(espnS2)
	swid = strings.TrimSpace(swid)

	// Gate 1: input shape
	if espnS2 == "" || swid == "" || leagueID == "" {
		return nil, errors.Wrap(apperrors.ErrValidation, "[Authenticate] missing required credentials")
	}
	if err := ValidateLeagueID(leagueID); err != nil {
		return nil, err
	}

	// Gate 2: rate limit, checked before any upstream call
	creds := credentials.Set{EspnS2: espnS2, SWID: swid}
	fingerprint := creds.Fingerprint()
	if err := s.deps.Limiter.Check(fingerprint); err != nil {
		return nil, err
	}

	// Gate 3: verify the credentials upstream, under the tighter probe deadline
	probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()
	doc, err := s.deps.Upstream.FetchLeague(probeCtx, creds, leagueID, year, "mTeam", 0)
	if err != nil {
		s.deps.Limiter.RecordFailure(fingerprint)
		return nil, errors.Wrap(err, "[Authenticate] upstream verification")
	}

	// Gate 4: discover which teams the caller owns
	teams := league.MatchOwnedTeams(doc, swid)

	// Gate 5: seal the credentials and mint the session
	blob, err := s.deps.Cipher.Encrypt(creds)
	if err != nil {
		return nil, errors.Wrap(err, "[Authenticate] encrypting credentials")
	}

	sessionToken, err := s.deps.Tokens.Issue(leagueID, fingerprint)
	if err != nil {
		return nil, errors.Wrap(err, "[Authenticate] issuing token")
	}

	now := s.nowTime()
	ttl := s.deps.Tokens.TTL()
	s.deps.Sessions.Upsert(session.Key(fingerprint, leagueID), session.Record{
		EncryptedCredentials: blob,
		LeagueID:             leagueID,
		Teams:                teams,
		CreatedAt:            now,
		ExpiresAt:            now.Add(ttl),
	})

	log.Info().Str("league_id", leagueID).Int("teams", len(teams)).Msg("authentication successful")

	return &AuthResult{
		SessionToken: sessionToken,
		ExpiresIn:    int(ttl.Seconds()),
		LeagueInfo: LeagueInfo{
			LeagueID:    leagueID,
			Name:        league.Name(doc, leagueID),
			CurrentWeek: league.CurrentWeek(doc),
			YourTeams:   teams,
		},
	}, nil
}

// Logout removes exactly the caller's own session record. Other sessions are
// untouched; logging out an already-absent session is not an error.
func (s *Service) Logout(rawToken string) error {
	claims, err := s.deps.Tokens.Validate(rawToken)
	if err != nil {
		return err
	}
	s.deps.Sessions.Delete(session.Key(claims.UserID, claims.LeagueID))
	log.Info().Str("league_id", claims.LeagueID).Msg("session logged out")
	return nil
}

// ActiveSessions reports the current session count after sweeping expired
// records, for the health probe.
func (s *Service) ActiveSessions() int {
	s.deps.Sessions.SweepExpired()
	return s.deps.Sessions.ActiveCount()
}
