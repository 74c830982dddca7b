package config

import (
	"path/filepath"
)

// DefaultFilename is the settings file looked up in the working directory
const DefaultFilename = "run.config"

// Section names inside run.config
const (
	SectionConfig = "config"
	SectionSuites = "suites"
)

// Recognized setting keys
const (
	KeyBrowsersPath        = "PLAYWRIGHT_BROWSERS_PATH"
	KeyBrowsers            = "BROWSERS"
	KeyWorkers             = "WORKERS"
	KeyHeaded              = "HEADED"
	KeyDebug               = "DEBUG"
	KeyFilter              = "FILTER"
	KeySkipModuleInstall   = "SKIP_MODULE_INSTALL"
	KeyTestRailIntegration = "TEST_RAIL_INTEGRATION"
	KeyRunID               = "RUN_ID"

	// KeyEnv names the target environment; it is only used to label remote runs.
	KeyEnv = "ENV"
)

// Built-in defaults
const (
	DefaultBrowsers            = "chromium"
	DefaultWorkers             = "1"
	DefaultFilter              = "smoke"
	DefaultTestRailIntegration = "false"
	DefaultRunID               = ""
	DefaultBrowsersDir         = "ms-playwright"
)

// Flag tokens passed through to the test runner
const (
	HeadedToken = "--headed"
	DebugToken  = "--debug"
)

// DefaultTestPath is the test directory handed to the runner when none is given
var DefaultTestPath = filepath.Join("src", "tests")

// DefaultBrowsersPath returns the browser engine directory under cwd
func DefaultBrowsersPath(cwd string) string {
	return filepath.Join(cwd, DefaultBrowsersDir)
}

// Template describes the keys written by WriteTemplate, in file order
var Template = []TemplateEntry{
	{Key: KeyBrowsers, Value: DefaultBrowsers, Comment: "chromium, firefox, webkit or all"},
	{Key: KeyWorkers, Value: DefaultWorkers, Comment: "parallel workers passed to the runner"},
	{Key: KeyHeaded, Value: "false", Comment: "true runs without the --headed switch"},
	{Key: KeyDebug, Value: "false", Comment: "anything but false starts the inspector"},
	{Key: KeyFilter, Value: DefaultFilter, Comment: "grep expression, also the TestRail suite name"},
	{Key: KeySkipModuleInstall, Value: "true", Comment: "false runs npm install before the tests"},
	{Key: KeyTestRailIntegration, Value: DefaultTestRailIntegration},
	{Key: KeyRunID, Value: DefaultRunID, Comment: "reuse an existing TestRail run"},
	{Key: KeyEnv, Value: "qa1"},
}

// TemplateEntry is one key of the generated run.config
type TemplateEntry struct {
	Key     string
	Value   string
	Comment string
}
