package constants

import "time"

const (
	CatalogCacheTTL = 5 * time.Minute
	VotesCacheTTL   = 10 * time.Minute
	CacheSweepEvery = 1 * time.Minute
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// a rating filter keeps limit*RatingFilterMultiplier ranked games, at most
	// RatingFilterCeiling, so the filter has something left to return
	RatingFilterMultiplier = 3
	RatingFilterCeiling    = 60
)

const (
	// votes endpoint returns at most 30 entries per call
	VotesBatchSize          = 30
	UniverseLookupWorkers   = 10
	RobloxRequestsPerMinute = 60
	RobloxBurst             = 10
)

const (
	MaxBatchRatingIDs   = 100
	DefaultPopularLimit = 10
	MaxPopularLimit     = 50
	MaxSuggestLimit     = 20

	// largest request body the RPC handler reads
	MaxRequestBytes = 64 << 10
)
