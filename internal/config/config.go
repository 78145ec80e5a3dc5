package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"roblox-discovery/internal/constants"
)

type Config struct {
	ServerPort string
	DBPath     string
	LogLevel   string

	// empty RedisAddr keeps the cache in process
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RolimonsBaseURL         string
	RobloxGamesBaseURL      string
	RobloxAPIsBaseURL       string
	RobloxRequestsPerMinute int

	CatalogTTL time.Duration
	VotesTTL   time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "roblox.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RolimonsBaseURL:    getEnv("ROLIMONS_BASE_URL", "https://api.rolimons.com"),
		RobloxGamesBaseURL: getEnv("ROBLOX_GAMES_BASE_URL", "https://games.roblox.com"),
		RobloxAPIsBaseURL:  getEnv("ROBLOX_APIS_BASE_URL", "https://apis.roblox.com"),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RobloxRequestsPerMinute, err = getEnvInt("ROBLOX_REQUESTS_PER_MINUTE", constants.RobloxRequestsPerMinute); err != nil {
		return nil, err
	}
	if cfg.RobloxRequestsPerMinute <= 0 {
		return nil, fmt.Errorf("ROBLOX_REQUESTS_PER_MINUTE must be positive, got %d", cfg.RobloxRequestsPerMinute)
	}
	if cfg.CatalogTTL, err = getEnvDuration("CATALOG_TTL", constants.CatalogCacheTTL); err != nil {
		return nil, err
	}
	if cfg.VotesTTL, err = getEnvDuration("VOTES_TTL", constants.VotesCacheTTL); err != nil {
		return nil, err
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("redis", cfg.RedisAddr != "").
		Int("roblox_rpm", cfg.RobloxRequestsPerMinute).
		Dur("catalog_ttl", cfg.CatalogTTL).
		Dur("votes_ttl", cfg.VotesTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

var Module = fx.Provide(Load)
