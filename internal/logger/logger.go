package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"roblox-discovery/internal/config"
)

// New builds the process logger. It starts at debug so configuration loading
// is visible; ApplyLevel narrows it once the config is known.
func New() zerolog.Logger {
	return newLogger(os.Stdout)
}

func newLogger(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(zerolog.DebugLevel)
}

// ApplyLevel sets the global level from LOG_LEVEL. The global level caps every
// logger already handed out, including request scoped children.
func ApplyLevel(cfg *config.Config, logger zerolog.Logger) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	logger.Info().Str("level", level.String()).Msg("log level set")
	return nil
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(ApplyLevel),
)
