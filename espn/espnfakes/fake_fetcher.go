// Package espnfakes provides a hand-rolled fake of the upstream Fetcher for
// tests.
package espnfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-fantasy-proxy/credentials"
	"github.com/jrsteele09/go-fantasy-proxy/espn"
)

// Call records the arguments of one FetchLeague invocation.
type Call struct {
	Creds    credentials.Set
	LeagueID string
	Year     int
	View     string
	Week     int
}

// FakeFetcher implements espn.Fetcher, recording calls and delegating to
// FetchFunc when set.
type FakeFetcher struct {
	mu        sync.Mutex
	calls     []Call
	FetchFunc func(ctx context.Context, creds credentials.Set, leagueID string, year int, view string, week int) (map[string]any, error)
}

var _ espn.Fetcher = &FakeFetcher{}

func (f *FakeFetcher) FetchLeague(ctx context.Context, creds credentials.Set, leagueID string, year int, view string, week int) (map[string]any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Creds: creds, LeagueID: leagueID, Year: year, View: view, Week: week})
	f.mu.Unlock()

	if f.FetchFunc != nil {
		return f.FetchFunc(ctx, creds, leagueID, year, view, week)
	}
	return map[string]any{}, nil
}

// CallCount returns the number of FetchLeague invocations so far.
func (f *FakeFetcher) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Calls returns a copy of the recorded invocations.
func (f *FakeFetcher) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]Call, len(f.calls))
	copy(calls, f.calls)
	return calls
}
