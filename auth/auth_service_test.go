package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-fantasy-proxy/auth"
	"github.com/jrsteele09/go-fantasy-proxy/credentials"
	"github.com/jrsteele09/go-fantasy-proxy/espn/espnfakes"
	"github.com/jrsteele09/go-fantasy-proxy/internal/errors"
	"github.com/jrsteele09/go-fantasy-proxy/ratelimit"
	"github.com/jrsteele09/go-fantasy-proxy/session"
	"github.com/jrsteele09/go-fantasy-proxy/token"
)

const (
	testLeagueID = "1234567"
	testEspnS2   = "AEB-opaque-session-secret"
	testSWID     = "{ABCD-1234-EFGH}"
	testYear     = 2024
)

// testFixture holds all test dependencies
type testFixture struct {
	sessions *session.Store
	limiter  *ratelimit.Limiter
	cipher   *credentials.Cipher
	tokens   *token.Issuer
	upstream *espnfakes.FakeFetcher
	service  *auth.Service
	now      time.Time
}

// setupTestFixture creates a service wired to fakes with a controllable clock.
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		now:      time.Date(2024, 10, 6, 12, 0, 0, 0, time.UTC),
		upstream: &espnfakes.FakeFetcher{},
	}
	nowFunc := func() time.Time { return f.now }

	f.sessions = session.NewStore(session.WithNowTime(nowFunc))
	f.limiter = ratelimit.NewLimiter(10, time.Hour, ratelimit.WithNowTime(nowFunc))

	key := make([]byte, 32)
	copy(key, "0123456789abcdef0123456789abcdef")
	cipher, err := credentials.NewCipher(key)
	require.NoError(t, err)
	f.cipher = cipher

	tokens, err := token.NewIssuer([]byte("test-secret"), time.Hour, token.WithNowTime(nowFunc))
	require.NoError(t, err)
	f.tokens = tokens

	service, err := auth.New(auth.Deps{
		Sessions: f.sessions,
		Limiter:  f.limiter,
		Cipher:   f.cipher,
		Tokens:   f.tokens,
		Upstream: f.upstream,
	}, auth.WithNowTime(nowFunc))
	require.NoError(t, err)
	f.service = service

	// Default upstream: one team owned by the caller
	f.upstream.FetchFunc = func(_ context.Context, _ credentials.Set, _ string, _ int, _ string, _ int) (map[string]any, error) {
		return map[string]any{
			"scoringPeriodId": float64(5),
			"settings":        map[string]any{"name": "Test League"},
			"teams": []any{
				map[string]any{
					"id":     float64(3),
					"name":   "My Team",
					"owners": []any{testSWID},
				},
				map[string]any{
					"id":     float64(4),
					"name":   "Rival Team",
					"owners": []any{"{OTHER-OWNER}"},
				},
			},
			"members": []any{
				map[string]any{"id": testSWID, "displayName": "Me"},
			},
		}, nil
	}

	return f
}

func (f *testFixture) authenticate(t *testing.T) *auth.AuthResult {
	t.Helper()
	result, err := f.service.Authenticate(context.Background(), testLeagueID, testEspnS2, testSWID, testYear)
	require.NoError(t, err)
	return result
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := auth.New(auth.Deps{})
	require.Error(t, err)
}

func TestAuthenticate_LeagueIDValidation(t *testing.T) {
	f := setupTestFixture(t)

	tests := []struct {
		name     string
		leagueID string
	}{
		{"too short", "12345"},
		{"too long", "12345678"},
		{"non-digits", "12a4567"},
		{"empty", ""},
		{"negative looking", "-123456"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Authenticate(context.Background(), tc.leagueID, testEspnS2, testSWID, testYear)
			require.ErrorIs(t, err, errors.ErrValidation)
		})
	}

	require.Zero(t, f.upstream.CallCount(), "validation failures must not reach the upstream")
}

func TestAuthenticate_MissingSecrets(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Authenticate(context.Background(), testLeagueID, "", testSWID, testYear)
	require.ErrorIs(t, err, errors.ErrValidation)

	_, err = f.service.Authenticate(context.Background(), testLeagueID, testEspnS2, "   ", testYear)
	require.ErrorIs(t, err, errors.ErrValidation)
}

func TestAuthenticate_Success(t *testing.T) {
	f := setupTestFixture(t)

	result := f.authenticate(t)
	require.NotEmpty(t, result.SessionToken)
	require.Equal(t, 3600, result.ExpiresIn)
	require.Equal(t, "Test League", result.LeagueInfo.Name)
	require.Equal(t, 5, result.LeagueInfo.CurrentWeek)
	require.Len(t, result.LeagueInfo.YourTeams, 1)
	require.Equal(t, 3, result.LeagueInfo.YourTeams[0].TeamID)
	require.Equal(t, "Me", result.LeagueInfo.YourTeams[0].OwnerName)

	require.Equal(t, 1, f.sessions.ActiveCount())
}

func TestAuthenticate_OverwritesExistingSession(t *testing.T) {
	f := setupTestFixture(t)

	f.authenticate(t)
	f.authenticate(t)

	require.Equal(t, 1, f.sessions.ActiveCount(), "same credentials and league must overwrite, not duplicate")
}

func TestAuthenticate_UpstreamAuthFailureRecordsStrike(t *testing.T) {
	f := setupTestFixture(t)
	f.upstream.FetchFunc = func(_ context.Context, _ credentials.Set, _ string, _ int, _ string, _ int) (map[string]any, error) {
		return nil, errors.ErrUpstreamAuth
	}

	_, err := f.service.Authenticate(context.Background(), testLeagueID, testEspnS2, testSWID, testYear)
	require.ErrorIs(t, err, errors.ErrUpstreamAuth)
	require.Zero(t, f.sessions.ActiveCount(), "no partial session on failure")
}

func TestAuthenticate_AppliesProbeDeadline(t *testing.T) {
	f := setupTestFixture(t)

	var probeDeadline time.Time
	var hasDeadline bool
	f.upstream.FetchFunc = func(ctx context.Context, _ credentials.Set, _ string, _ int, _ string, _ int) (map[string]any, error) {
		probeDeadline, hasDeadline = ctx.Deadline()
		return map[string]any{}, nil
	}

	before := time.Now()
	result := f.authenticate(t)

	require.True(t, hasDeadline, "credential verification must carry its own deadline")
	require.WithinDuration(t, before.Add(10*time.Second), probeDeadline, 2*time.Second)

	// Ordinary data fetches inherit the caller's context untouched
	_, err := f.service.Dispatch(context.Background(), result.SessionToken, testYear, "mTeam", 0)
	require.NoError(t, err)
	require.False(t, hasDeadline, "dispatch must not apply the probe deadline")
}

func TestAuthenticate_RateLimitBlocksBeforeUpstream(t *testing.T) {
	f := setupTestFixture(t)
	f.upstream.FetchFunc = func(_ context.Context, _ credentials.Set, _ string, _ int, _ string, _ int) (map[string]any, error) {
		return nil, errors.ErrUpstreamAuth
	}

	for i := 0; i < 10; i++ {
		_, err := f.service.Authenticate(context.Background(), testLeagueID, testEspnS2, testSWID, testYear)
		require.ErrorIs(t, err, errors.ErrUpstreamAuth)
		f.now = f.now.Add(time.Second)
	}
	require.Equal(t, 10, f.upstream.CallCount())

	// The 11th attempt is blocked before any upstream call is made
	_, err := f.service.Authenticate(context.Background(), testLeagueID, testEspnS2, testSWID, testYear)
	require.ErrorIs(t, err, errors.ErrTooManyAttempts)
	require.Equal(t, 10, f.upstream.CallCount())
}

func TestLogout_RemovesOnlyOwnSession(t *testing.T) {
	f := setupTestFixture(t)

	result := f.authenticate(t)

	// Another caller's session in a different league
	f.sessions.Upsert(session.Key("other-fp", "7654321"), session.Record{
		LeagueID:  "7654321",
		ExpiresAt: f.now.Add(time.Hour),
	})
	require.Equal(t, 2, f.sessions.ActiveCount())

	require.NoError(t, f.service.Logout(result.SessionToken))
	require.Equal(t, 1, f.sessions.ActiveCount())

	_, ok := f.sessions.Get(session.Key("other-fp", "7654321"))
	require.True(t, ok, "other sessions must be untouched")
}

func TestLogout_InvalidToken(t *testing.T) {
	f := setupTestFixture(t)
	require.ErrorIs(t, f.service.Logout("garbage"), errors.ErrInvalidToken)
}

func TestValidateYear(t *testing.T) {
	require.NoError(t, auth.ValidateYear(0))
	require.NoError(t, auth.ValidateYear(2024))
	require.ErrorIs(t, auth.ValidateYear(2014), errors.ErrValidation)
	require.ErrorIs(t, auth.ValidateYear(2026), errors.ErrValidation)
}

func TestValidateWeek(t *testing.T) {
	require.NoError(t, auth.ValidateWeek(1))
	require.NoError(t, auth.ValidateWeek(18))
	require.ErrorIs(t, auth.ValidateWeek(0), errors.ErrValidation)
	require.ErrorIs(t, auth.ValidateWeek(19), errors.ErrValidation)
}
