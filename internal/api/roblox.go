package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"roblox-discovery/internal/config"
	"roblox-discovery/internal/constants"
)

// StatusError is returned for any non-200 upstream response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d", e.Code)
}

// RobloxClient talks to Rolimons and the public Roblox web APIs. All calls
// share one token bucket so the combined request rate stays under the
// configured per-minute limit.
type RobloxClient struct {
	client   *fasthttp.Client
	limiter  *rate.Limiter
	rolimons string
	games    string
	apis     string
}

func NewRobloxClient(cfg *config.Config) *RobloxClient {
	perMinute := cfg.RobloxRequestsPerMinute
	if perMinute <= 0 {
		perMinute = constants.RobloxRequestsPerMinute
	}
	return &RobloxClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), constants.RobloxBurst),
		rolimons: strings.TrimSuffix(cfg.RolimonsBaseURL, "/"),
		games:    strings.TrimSuffix(cfg.RobloxGamesBaseURL, "/"),
		apis:     strings.TrimSuffix(cfg.RobloxAPIsBaseURL, "/"),
	}
}

// GetGameList fetches every game Rolimons tracks, keyed by place id.
func (c *RobloxClient) GetGameList(ctx context.Context) (*GameListResponse, error) {
	return doRequest[GameListResponse](ctx, c, c.rolimons+"/games/v1/gamelist")
}

// GetUniverseID resolves a place id. Unknown places return 0 and no error.
func (c *RobloxClient) GetUniverseID(ctx context.Context, placeID string) (int64, error) {
	url := fmt.Sprintf("%s/universes/v1/places/%s/universe", c.apis, placeID)
	resp, err := doRequest[UniverseResponse](ctx, c, url)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return 0, nil
		}
		return 0, err
	}
	if resp.UniverseID == nil {
		return 0, nil
	}
	return *resp.UniverseID, nil
}

// GetVotes returns up/down votes for the given universes. The endpoint answers
// at most constants.VotesBatchSize entries, so callers batch.
func (c *RobloxClient) GetVotes(ctx context.Context, universeIDs []int64) (*VotesResponse, error) {
	url := fmt.Sprintf("%s/v1/games/votes?universeIds=%s", c.games, joinIDs(universeIDs))
	return doRequest[VotesResponse](ctx, c, url)
}

// GetGames returns the detail records for the given universes.
func (c *RobloxClient) GetGames(ctx context.Context, universeIDs []int64) (*GamesResponse, error) {
	url := fmt.Sprintf("%s/v1/games?universeIds=%s", c.games, joinIDs(universeIDs))
	return doRequest[GamesResponse](ctx, c, url)
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func doRequest[T any](ctx context.Context, client *RobloxClient, url string) (*T, error) {
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.DoTimeout(req, resp, constants.ExternalAPITimeout); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode()}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return &result, nil
}
