package cmd

import (
	"context"
	"path/filepath"

	"github.com/vsu-automation/pwrun/packages/core/config"
	"github.com/vsu-automation/pwrun/packages/core/env"
	"github.com/vsu-automation/pwrun/packages/core/resolver"
	"github.com/vsu-automation/pwrun/packages/output"
)

// session is everything loaded from disk before resolution
type session struct {
	store       *config.Store
	environment *env.Environment
}

// loadSession reads the .env file and the run config. Both are optional.
func loadSession(flags *settingFlags, logger *output.Logger) (*session, error) {
	dotenv, err := env.LoadOptionalDotEnv(flags.envFile)
	if err != nil {
		return nil, err
	}
	environment := env.New()
	environment.SetDefaults(dotenv)
	if len(dotenv) > 0 {
		logger.Infof("Loaded %d variables from %s", len(dotenv), flags.envFile)
	}

	store, err := config.LoadStore(flags.configPath)
	if err != nil {
		return nil, err
	}
	if store.Loaded() {
		logger.Infof("Reading settings from %s", flags.configPath)
	} else {
		logger.Infof("%s not found, using defaults", flags.configPath)
	}

	return &session{store: store, environment: environment}, nil
}

// resolve runs settings resolution against the loaded session. installer
// may be nil, in which case no modules are installed.
func (s *session) resolve(ctx context.Context, flags *settingFlags, params resolver.Params, logger resolver.Logger, installer resolver.Installer) (*resolver.Settings, error) {
	opts := []resolver.Option{
		resolver.WithLogger(logger),
		resolver.WithConfigName(filepath.Base(flags.configPath)),
	}
	if installer != nil {
		opts = append(opts, resolver.WithInstaller(installer))
	}
	return resolver.New(opts...).Resolve(ctx, params, s.store, s.environment)
}
