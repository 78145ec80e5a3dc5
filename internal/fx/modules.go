package fx

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"roblox-discovery/internal/api"
	"roblox-discovery/internal/cache"
	"roblox-discovery/internal/config"
	"roblox-discovery/internal/constants"
	"roblox-discovery/internal/database"
	"roblox-discovery/internal/db"
	"roblox-discovery/internal/logger"
	"roblox-discovery/internal/repository"
	"roblox-discovery/internal/search"
	"roblox-discovery/internal/server"
	"roblox-discovery/internal/service"
)

const redisKeyPrefix = "roblox-discovery"

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// ProvideCache picks Redis when REDIS_ADDR is set and an in-process cache
// otherwise. The in-process cache gets a background sweeper tied to the app
// lifecycle.
func ProvideCache(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (cache.Cache, error) {
	if cfg.RedisAddr != "" {
		c, err := cache.NewRedis(context.Background(), cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   redisKeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis cache")
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return c.Close() },
		})
		return c, nil
	}

	mem := cache.NewMemory(nil)
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				mem.RunSweeper(sweepCtx, constants.CacheSweepEvery)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopSweeper()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			return mem.Close()
		},
	})
	logger.Info().Msg("using in-memory cache")
	return mem, nil
}

func ProvideEngine(ratings *service.RatingService, logger zerolog.Logger) *search.Engine {
	return search.NewEngine(ratings, logger.With().Str("component", "search").Logger())
}

func ProvideSearchService(catalog *service.CatalogService, engine *search.Engine, logs *repository.SearchLogRepository, logger zerolog.Logger) *service.SearchService {
	return service.NewSearchService(catalog, engine, logs, logger)
}

func ProvideDiscoveryServer(searchSvc *service.SearchService, browseSvc *service.BrowseService, ratings *service.RatingService, logger zerolog.Logger) *server.DiscoveryServer {
	return server.NewDiscoveryServer(searchSvc, browseSvc, ratings, logger)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Provide(ProvideCache),
	// repos
	fx.Provide(
		fx.Annotate(
			repository.NewUniverseRepository,
			fx.As(new(service.UniverseStore)),
		),
	),
	fx.Provide(repository.NewSearchLogRepository),
	// api client
	fx.Provide(
		fx.Annotate(
			api.NewRobloxClient,
			fx.As(new(service.RobloxAPI)),
		),
	),
	// svc
	fx.Provide(service.NewCatalogService),
	fx.Provide(service.NewRatingService),
	fx.Provide(service.NewBrowseService),
	fx.Provide(ProvideEngine),
	fx.Provide(ProvideSearchService),
	// server
	fx.Provide(ProvideDiscoveryServer),
)
