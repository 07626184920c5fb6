package config

import "time"

type UpstreamConfig interface {
	GetUpstreamBaseURL() string
	GetUpstreamTimeout() time.Duration
	GetAuthProbeTimeout() time.Duration
	GetDefaultSeason() int
}

type Upstream struct{}

var _ UpstreamConfig = Upstream{}

func (Upstream) GetUpstreamBaseURL() string {
	return GetEnv("ESPN_BASE_URL", "https://lm-api-reads.fantasy.espn.com")
}

func (Upstream) GetUpstreamTimeout() time.Duration {
	return 15 * time.Second
}

// GetAuthProbeTimeout bounds the credential-verification request made during
// authentication, which is kept tighter than ordinary data fetches.
func (Upstream) GetAuthProbeTimeout() time.Duration {
	return 10 * time.Second
}

func (Upstream) GetDefaultSeason() int {
	return 2024
}
