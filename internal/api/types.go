package api

import (
	"encoding/json"
	"fmt"
	"time"
)

type GameListResponse struct {
	Success   bool                     `json:"success"`
	GameCount int                      `json:"game_count"`
	Games     map[string]GameListEntry `json:"games"`
}

// GameListEntry is one Rolimons row, sent as a positional array
// [name, players, thumbnail].
type GameListEntry struct {
	Name         string
	PlayerCount  int
	ThumbnailURL string
}

func (e *GameListEntry) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("game list entry: %w", err)
	}
	if len(fields) < 2 {
		return fmt.Errorf("game list entry: want at least 2 fields, got %d", len(fields))
	}
	if err := json.Unmarshal(fields[0], &e.Name); err != nil {
		return fmt.Errorf("game list entry name: %w", err)
	}
	var players *float64
	if err := json.Unmarshal(fields[1], &players); err != nil {
		return fmt.Errorf("game list entry players: %w", err)
	}
	if players != nil {
		e.PlayerCount = int(*players)
	}
	if len(fields) > 2 {
		var thumb *string
		if err := json.Unmarshal(fields[2], &thumb); err != nil {
			return fmt.Errorf("game list entry thumbnail: %w", err)
		}
		if thumb != nil {
			e.ThumbnailURL = *thumb
		}
	}
	return nil
}

type UniverseResponse struct {
	UniverseID *int64 `json:"universeId"`
}

type VotesResponse struct {
	Data []GameVotes `json:"data"`
}

type GameVotes struct {
	ID        int64 `json:"id"`
	UpVotes   int   `json:"upVotes"`
	DownVotes int   `json:"downVotes"`
}

type GamesResponse struct {
	Data []GameDetail `json:"data"`
}

type GameDetail struct {
	ID          int64  `json:"id"`
	RootPlaceID int64  `json:"rootPlaceId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Creator     struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"creator"`
	Playing        int       `json:"playing"`
	Visits         int64     `json:"visits"`
	FavoritedCount int64     `json:"favoritedCount"`
	Created        time.Time `json:"created"`
	Updated        time.Time `json:"updated"`
}
