package resolver

import (
	"context"
	"fmt"
	"os"

	"github.com/vsu-automation/pwrun/packages/core/config"
	"github.com/vsu-automation/pwrun/packages/core/env"
)

// Logger receives one line per resolved setting
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// Installer performs the dependency installation triggered by
// SKIP_MODULE_INSTALL=false
type Installer interface {
	Install(ctx context.Context) error
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warnf(string, ...any) {}

// Resolver resolves settings by precedence: parameter, store, default
type Resolver struct {
	logger     Logger
	installer  Installer
	workDir    string
	configName string
}

// Option is a functional option for Resolver
type Option func(*Resolver)

// WithLogger sets the logger used to report each setting's source
func WithLogger(l Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithInstaller sets the installer run when module installation is requested.
// Without one, installation is only reported.
func WithInstaller(i Installer) Option {
	return func(r *Resolver) {
		r.installer = i
	}
}

// WithWorkDir sets the directory the default browsers path is computed from
func WithWorkDir(dir string) Option {
	return func(r *Resolver) {
		r.workDir = dir
	}
}

// WithConfigName sets the file name used in log lines
func WithConfigName(name string) Option {
	return func(r *Resolver) {
		r.configName = name
	}
}

// New creates a Resolver. The work directory defaults to the current one.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		logger:     nopLogger{},
		configName: config.DefaultFilename,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			r.workDir = wd
		}
	}
	return r
}

// Resolve produces the resolved settings. The store is updated in place and
// the values the runner reads from its environment are set on environment.
// The only error comes from the installer.
func (r *Resolver) Resolve(ctx context.Context, params Params, store *config.Store, environment *env.Environment) (*Settings, error) {
	s := &Settings{
		Sources: make(map[string]Source),
	}

	s.BrowsersPath = r.resolveBrowsersPath(params.BrowsersPath, store, s)
	environment.Set(config.KeyBrowsersPath, s.BrowsersPath)

	s.Browsers = r.resolveString(config.KeyBrowsers, params.Browsers, store, config.DefaultBrowsers, s)

	s.Workers = r.resolveString(config.KeyWorkers, params.Workers, store, config.DefaultWorkers, s)
	environment.Set(config.KeyWorkers, s.Workers)

	s.Headed = r.resolveHeaded(params.Headed, store, s)
	store.Set(config.KeyHeaded, s.HeadedFlag())

	s.Debug = r.resolveDebug(params.Debug, store, s)
	store.Set(config.KeyDebug, s.DebugFlag())

	s.Filter = r.resolveString(config.KeyFilter, params.Filter, store, config.DefaultFilter, s)

	if err := r.resolveModuleInstall(ctx, params.SkipModuleInstall, store, s); err != nil {
		return nil, err
	}

	s.TestRailIntegration = r.resolveString(config.KeyTestRailIntegration, params.TestRailIntegration, store, config.DefaultTestRailIntegration, s)
	environment.Set(config.KeyTestRailIntegration, s.TestRailIntegration)

	s.RunID = r.resolveString(config.KeyRunID, params.RunID, store, config.DefaultRunID, s)
	environment.Set(config.KeyRunID, s.RunID)

	s.EnvName = store.Get(config.KeyEnv)

	return s, nil
}

// resolveString applies the plain precedence and writes the winner to the store
func (r *Resolver) resolveString(key string, param *string, store *config.Store, def string, s *Settings) string {
	switch {
	case param != nil:
		store.Set(key, *param)
		r.record(s, key, SourceCommandLine, *param)
	case store.Get(key) != "":
		r.record(s, key, SourceFile, store.Get(key))
	default:
		store.Set(key, def)
		r.record(s, key, SourceDefault, def)
	}
	return store.Get(key)
}

// resolveBrowsersPath follows the same precedence but never touches the store
func (r *Resolver) resolveBrowsersPath(param *string, store *config.Store, s *Settings) string {
	if param != nil {
		r.record(s, config.KeyBrowsersPath, SourceCommandLine, *param)
		return *param
	}
	if v, ok := store.Lookup(config.KeyBrowsersPath); ok {
		r.record(s, config.KeyBrowsersPath, SourceFile, v)
		return v
	}
	def := config.DefaultBrowsersPath(r.workDir)
	r.record(s, config.KeyBrowsersPath, SourceDefault, def)
	return def
}

// resolveHeaded maps HEADED to a Tristate. Only "true" and "false" are
// accepted on the command line. A stored "false" disables and any other
// stored value enables, except the --headed token itself: that token means
// a visible browser, so a stored HEADED=--headed is read as Disabled.
func (r *Resolver) resolveHeaded(param *string, store *config.Store, s *Settings) config.Tristate {
	state := config.Unset
	if param != nil {
		if state = config.ParseStrict(*param); state.IsSet() {
			r.record(s, config.KeyHeaded, SourceCommandLine, *param)
			return state
		}
		r.logger.Warnf("Ignoring HEADED value %q from commandline, expected true or false", *param)
	}

	if store.Has(config.KeyHeaded) {
		v := store.Get(config.KeyHeaded)
		r.record(s, config.KeyHeaded, SourceFile, v)
		state = config.Enabled
		if v == "false" || v == config.HeadedToken {
			state = config.Disabled
		}
	} else {
		r.record(s, config.KeyHeaded, SourceDefault, "false")
	}
	return state.Or(config.Disabled)
}

// resolveDebug enables the inspector from the flag or from a DEBUG key
// present in the store with any value other than "false", empty included.
func (r *Resolver) resolveDebug(param bool, store *config.Store, s *Settings) config.Tristate {
	if param {
		r.record(s, config.KeyDebug, SourceCommandLine, "true")
		return config.Enabled
	}
	if store.Has(config.KeyDebug) {
		v := store.Get(config.KeyDebug)
		r.record(s, config.KeyDebug, SourceFile, v)
		return config.ParseLenient(v).Or(config.Enabled)
	}
	r.record(s, config.KeyDebug, SourceDefault, "false")
	return config.Disabled
}

// resolveModuleInstall resolves SKIP_MODULE_INSTALL and installs the
// dependencies when it is exactly "false". An absent value skips the
// install and is not written to the store.
func (r *Resolver) resolveModuleInstall(ctx context.Context, param *string, store *config.Store, s *Settings) error {
	switch {
	case param != nil:
		store.Set(config.KeySkipModuleInstall, *param)
		r.record(s, config.KeySkipModuleInstall, SourceCommandLine, *param)
	case store.Get(config.KeySkipModuleInstall) != "":
		r.record(s, config.KeySkipModuleInstall, SourceFile, store.Get(config.KeySkipModuleInstall))
	default:
		s.Sources[config.KeySkipModuleInstall] = SourceDefault
	}

	s.SkipModuleInstall = store.Get(config.KeySkipModuleInstall)
	s.InstallModules = s.SkipModuleInstall == "false"

	if !s.InstallModules {
		r.logger.Infof("Skipping npm install command")
		return nil
	}

	r.logger.Infof("Installing required modules")
	if r.installer == nil {
		return nil
	}
	if err := r.installer.Install(ctx); err != nil {
		return fmt.Errorf("module install failed: %w", err)
	}
	return nil
}

func (r *Resolver) record(s *Settings, key string, source Source, value string) {
	s.Sources[key] = source
	switch source {
	case SourceCommandLine:
		r.logger.Infof("Setting %s from commandline argument : %s : %s", key, key, value)
	case SourceFile:
		r.logger.Infof("Setting %s from %s file : %s : %s", key, r.configName, key, value)
	default:
		r.logger.Infof("Setting %s default value : %s : %s", key, key, value)
	}
}
