// Package espn is the read-only client for the upstream fantasy-league API.
// Requests are authenticated by replaying the caller's cookie pair; responses
// are returned as loosely-typed JSON documents for the league package to shape.
package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jrsteele09/go-fantasy-proxy/credentials"
	"github.com/jrsteele09/go-fantasy-proxy/internal/errors"
	"github.com/rs/zerolog/log"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Fetcher is the upstream contract the auth service depends on. The fake
// used in tests implements this.
type Fetcher interface {
	FetchLeague(ctx context.Context, creds credentials.Set, leagueID string, year int, view string, week int) (map[string]any, error)
}

// Client performs upstream HTTP requests with a bounded timeout and no
// retries. A timeout or connection failure surfaces immediately as
// ErrUpstreamUnavailable; a 401 as ErrUpstreamAuth.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Fetcher = &Client{}

// NewClient creates an upstream client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchLeague requests a league document for the given view and optional
// scoring period (week <= 0 omits it).
func (c *Client) FetchLeague(ctx context.Context, creds credentials.Set, leagueID string, year int, view string, week int) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/apis/v3/games/ffl/seasons/%d/segments/0/leagues/%s", c.baseURL, year, leagueID)

	query := url.Values{}
	if view != "" {
		query.Set("view", view)
	}
	if week > 0 {
		query.Set("scoringPeriodId", fmt.Sprintf("%d", week))
	}
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "building request: %v", err)
	}
	req.Header.Set("Cookie", fmt.Sprintf("espn_s2=%s; SWID=%s", creds.EspnS2, creds.SWID))
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("league_id", leagueID).Msg("upstream request failed")
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "upstream request")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var doc map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "decoding upstream response")
		}
		return doc, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, errors.Wrapf(errors.ErrUpstreamAuth, "upstream returned 401")
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("upstream error")
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "upstream returned %d", resp.StatusCode)
	}
}
