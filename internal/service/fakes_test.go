package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"roblox-discovery/internal/api"
	"roblox-discovery/internal/cache"
	"roblox-discovery/internal/config"
	"roblox-discovery/internal/domain"
)

var errUpstream = errors.New("upstream unavailable")

type fakeRoblox struct {
	mu sync.Mutex

	games     map[string]api.GameListEntry
	listErr   error
	listGate  chan struct{}
	universes map[string]int64
	votes     map[int64]api.GameVotes
	failVotes map[int64]bool
	details   map[int64]api.GameDetail

	listCalls     int
	universeCalls []string
	votesCalls    [][]int64
}

func (f *fakeRoblox) GetGameList(ctx context.Context) (*api.GameListResponse, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &api.GameListResponse{Success: true, GameCount: len(f.games), Games: f.games}, nil
}

func (f *fakeRoblox) GetUniverseID(_ context.Context, placeID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.universeCalls = append(f.universeCalls, placeID)
	if placeID == "broken" {
		return 0, errUpstream
	}
	return f.universes[placeID], nil
}

func (f *fakeRoblox) GetVotes(_ context.Context, universeIDs []int64) (*api.VotesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.votesCalls = append(f.votesCalls, slices.Clone(universeIDs))
	resp := &api.VotesResponse{}
	for _, id := range universeIDs {
		if f.failVotes[id] {
			return nil, errUpstream
		}
		if v, ok := f.votes[id]; ok {
			resp.Data = append(resp.Data, v)
		}
	}
	return resp, nil
}

func (f *fakeRoblox) GetGames(_ context.Context, universeIDs []int64) (*api.GamesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resp := &api.GamesResponse{}
	for _, id := range universeIDs {
		if d, ok := f.details[id]; ok {
			resp.Data = append(resp.Data, d)
		}
	}
	return resp, nil
}

func (f *fakeRoblox) calls() (list int, universes []string, votes [][]int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, slices.Clone(f.universeCalls), slices.Clone(f.votesCalls)
}

type memUniverses struct {
	mu     sync.Mutex
	ids    map[string]int64
	getErr error
}

func (m *memUniverses) Get(_ context.Context, placeIDs []string) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make(map[string]int64)
	for _, id := range placeIDs {
		if u, ok := m.ids[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (m *memUniverses) UpsertBatch(_ context.Context, ids map[string]int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ids == nil {
		m.ids = make(map[string]int64)
	}
	for k, v := range ids {
		m.ids[k] = v
	}
	return nil
}

type memSearchLogs struct {
	mu        sync.Mutex
	entries   []domain.SearchLog
	insertErr error
}

func (m *memSearchLogs) Insert(_ context.Context, entry *domain.SearchLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memSearchLogs) Popular(_ context.Context, _ time.Time, limit int) ([]domain.PopularQuery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	var order []string
	for _, e := range m.entries {
		if counts[e.Query] == 0 {
			order = append(order, e.Query)
		}
		counts[e.Query]++
	}
	out := make([]domain.PopularQuery, 0, len(order))
	for _, q := range order {
		out = append(out, domain.PopularQuery{Query: q, Count: counts[q]})
	}
	slices.SortStableFunc(out, func(a, b domain.PopularQuery) int { return b.Count - a.Count })
	return out[:min(len(out), limit)], nil
}

func (m *memSearchLogs) Recent(_ context.Context, limit int) ([]domain.SearchLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.entries)
	slices.Reverse(out)
	return out[:min(len(out), limit)], nil
}

func testConfig() *config.Config {
	return &config.Config{CatalogTTL: 5 * time.Minute, VotesTTL: 10 * time.Minute}
}

type harness struct {
	roblox    *fakeRoblox
	universes *memUniverses
	clock     *clockwork.FakeClock
	cache     *cache.Memory
	catalog   *CatalogService
	ratings   *RatingService
}

func newHarness(roblox *fakeRoblox) *harness {
	clock := clockwork.NewFakeClock()
	c := cache.NewMemory(clock)
	universes := &memUniverses{}
	cfg := testConfig()
	return &harness{
		roblox:    roblox,
		universes: universes,
		clock:     clock,
		cache:     c,
		catalog:   NewCatalogService(roblox, c, cfg, zerolog.Nop()),
		ratings:   NewRatingService(roblox, universes, c, cfg, zerolog.Nop()),
	}
}
