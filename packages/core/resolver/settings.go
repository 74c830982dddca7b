package resolver

import (
	"strings"

	"github.com/vsu-automation/pwrun/packages/core/config"
)

// Source records where a resolved value came from
type Source string

const (
	SourceCommandLine Source = "commandline"
	SourceFile        Source = "file"
	SourceDefault     Source = "default"
)

// Params are the invocation parameters. A nil pointer means the parameter
// was not supplied; a pointer to "" is an explicit empty value.
type Params struct {
	BrowsersPath        *string
	Browsers            *string
	Workers             *string
	Headed              *string
	Debug               bool
	Filter              *string
	SkipModuleInstall   *string
	TestRailIntegration *string
	RunID               *string
}

// String returns a pointer to s, for building Params
func String(s string) *string {
	return &s
}

// Settings holds the resolved value of every recognized setting
type Settings struct {
	BrowsersPath        string
	Browsers            string
	Workers             string
	Headed              config.Tristate
	Debug               config.Tristate
	Filter              string
	SkipModuleInstall   string
	TestRailIntegration string
	RunID               string

	// EnvName is the ENV value of the store, used to label remote runs
	EnvName string

	// InstallModules is set when SKIP_MODULE_INSTALL resolved to "false"
	InstallModules bool

	Sources map[string]Source
}

// HeadedFlag returns the runner switch for headed mode. Enabled (HEADED=true)
// renders as no switch at all.
func (s *Settings) HeadedFlag() string {
	if s.Headed == config.Enabled {
		return ""
	}
	return config.HeadedToken
}

// DebugFlag returns the runner switch for the inspector, or ""
func (s *Settings) DebugFlag() string {
	if s.Debug == config.Enabled {
		return config.DebugToken
	}
	return ""
}

// IntegrationEnabled reports whether TestRail integration is on
func (s *Settings) IntegrationEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(s.TestRailIntegration), "true")
}

// Source returns where key was resolved from, or "" if it was not resolved
func (s *Settings) Source(key string) Source {
	return s.Sources[key]
}

// Value returns the resolved value of key as it is handed to the runner
func (s *Settings) Value(key string) string {
	switch key {
	case config.KeyBrowsersPath:
		return s.BrowsersPath
	case config.KeyBrowsers:
		return s.Browsers
	case config.KeyWorkers:
		return s.Workers
	case config.KeyHeaded:
		return s.HeadedFlag()
	case config.KeyDebug:
		return s.DebugFlag()
	case config.KeyFilter:
		return s.Filter
	case config.KeySkipModuleInstall:
		return s.SkipModuleInstall
	case config.KeyTestRailIntegration:
		return s.TestRailIntegration
	case config.KeyRunID:
		return s.RunID
	case config.KeyEnv:
		return s.EnvName
	}
	return ""
}

// Keys lists the recognized settings in resolution order
func Keys() []string {
	return []string{
		config.KeyBrowsersPath,
		config.KeyBrowsers,
		config.KeyWorkers,
		config.KeyHeaded,
		config.KeyDebug,
		config.KeyFilter,
		config.KeySkipModuleInstall,
		config.KeyTestRailIntegration,
		config.KeyRunID,
	}
}
