// Package token issues and validates the signed, self-contained session
// tokens handed to callers after authentication. A valid token is necessary
// but not sufficient for authorization: it still has to resolve to a live
// session record.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-fantasy-proxy/internal/errors"
)

// Claims is the verified claim set carried by a session token.
type Claims struct {
	LeagueID  string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer creates and verifies session tokens signed with a process-wide
// HS256 secret.
type Issuer struct {
	secret  []byte
	ttl     time.Duration
	nowTime func() time.Time
}

// IssuerOption defines a function type to modify the Issuer instance.
type IssuerOption func(*Issuer)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowTime = nowFunc
	}
}

// NewIssuer initializes an Issuer with the signing secret and token TTL.
func NewIssuer(secret []byte, ttl time.Duration, options ...IssuerOption) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.Wrapf(errors.ErrSecurity, "[NewIssuer] signing secret is required")
	}
	if ttl <= 0 {
		return nil, errors.Wrapf(errors.ErrSecurity, "[NewIssuer] token ttl must be positive")
	}

	issuer := &Issuer{
		secret:  secret,
		ttl:     ttl,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(issuer)
	}

	return issuer, nil
}

// TTL returns the lifetime applied to issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates a signed token binding a league id to a user fingerprint.
// The expiry is carried twice: in the JWT exp claim and in an expires_at
// payload claim, and validation checks both.
func (i *Issuer) Issue(leagueID, userFingerprint string) (string, error) {
	now := i.nowTime()
	expiresAt := now.Add(i.ttl)

	claims := jwtlib.MapClaims{
		"league_id":  leagueID,
		"user_id":    userFingerprint,
		"iat":        now.Unix(),
		"exp":        expiresAt.Unix(),
		"expires_at": expiresAt.Unix(),
		"jti":        uuid.New().String(),
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrapf(errors.ErrSecurity, "signing session token: %v", err)
	}
	return signed, nil
}

// Validate verifies the signature and both expiry claims, returning the
// embedded claims. Expired tokens fail with ErrExpiredToken; anything
// unparseable or wrongly signed fails with ErrInvalidToken.
func (i *Issuer) Validate(rawToken string) (*Claims, error) {
	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(i.nowTime),
	)

	parsed, err := parser.Parse(rawToken, func(t *jwtlib.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, errors.Wrapf(errors.ErrExpiredToken, "token signature expired")
		}
		return nil, errors.Wrapf(errors.ErrInvalidToken, "parsing token")
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "extracting claims")
	}

	leagueID, _ := claims["league_id"].(string)
	userID, _ := claims["user_id"].(string)
	if leagueID == "" || userID == "" {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "token missing identity claims")
	}

	iat, _ := claims["iat"].(float64)
	expiresAt, _ := claims["expires_at"].(float64)

	// The payload carries its own expiry alongside the JWT exp claim;
	// both are enforced.
	if expiresAt == 0 || i.nowTime().Unix() > int64(expiresAt) {
		return nil, errors.Wrapf(errors.ErrExpiredToken, "token payload expired")
	}

	return &Claims{
		LeagueID:  leagueID,
		UserID:    userID,
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(expiresAt), 0),
	}, nil
}
