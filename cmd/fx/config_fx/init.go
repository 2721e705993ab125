package config_fx

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/zlog"
	"go.uber.org/fx"

	"github.com/berryray-tech/Berry-Ray-main/cmd/buildCFG"
	"github.com/berryray-tech/Berry-Ray-main/internal/mailer"
)

const envPrefix = "BERRY"

var Module = fx.Provide(
	provideLogger,
	provideConfig,
	buildCFG.BuildServerConfig,
	buildCFG.BuildRabbitConfig,
	buildCFG.BuildStorageConfig,
	buildCFG.BuildAuthConfig,
	provideMailConfig,
	buildCFG.BuildFlowConfig,
)

func provideLogger() *zerolog.Logger {
	zlog.Init()
	return &zlog.Logger
}

// provideConfig loads CONFIG_PATH (config.yaml by default) and the optional
// ENV_FILE; BERRY_* variables override both.
func provideConfig(log *zerolog.Logger) (buildCFG.Getter, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg := config.New()
	if err := cfg.Load(path, os.Getenv("ENV_FILE"), envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Info().Str("path", path).Msg("configuration loaded")
	return cfg, nil
}

func provideMailConfig(cfg buildCFG.Getter, log *zerolog.Logger) mailer.Config {
	return buildCFG.BuildMailConfig(cfg, log)
}
