package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vsu-automation/pwrun/packages/core/config"
	"github.com/vsu-automation/pwrun/packages/core/env"
	"github.com/vsu-automation/pwrun/packages/core/resolver"
)

// settingFlags are the flags that feed settings resolution. They are shared
// by run and config.
type settingFlags struct {
	browsersPath string
	browsers     string
	headed       string
	debug        bool
	workers      string
	grep         string
	skipInstall  string
	testRail     string
	runID        string

	configPath string
	envFile    string
	noColor    bool
}

// settingFlag ties a string flag to the env var that can stand in for it
type settingFlag struct {
	name   string
	envKey string
	value  *string
}

func (f *settingFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.browsersPath, "browsers-path", getEnvString("PWRUN_BROWSERS_PATH", ""), "Browsers install path, default <cwd>/ms-playwright (env: PWRUN_BROWSERS_PATH)")
	fs.StringVarP(&f.browsers, "browsers", "b", getEnvString("PWRUN_BROWSERS", ""), "Browser project to run, default chromium (env: PWRUN_BROWSERS)")
	fs.StringVar(&f.headed, "headed", getEnvString("PWRUN_HEADED", ""), "true or false; false runs with a visible browser (env: PWRUN_HEADED)")
	fs.BoolVarP(&f.debug, "debug", "d", getEnvBool("PWRUN_DEBUG", false), "Run tests with the Playwright Inspector (env: PWRUN_DEBUG)")
	fs.StringVarP(&f.workers, "workers", "t", getEnvString("PWRUN_WORKERS", ""), "Number of parallel workers, default 1 (env: PWRUN_WORKERS)")
	fs.StringVar(&f.grep, "grep", getEnvString("PWRUN_GREP", ""), "Only run tests matching this expression, default smoke (env: PWRUN_GREP)")
	fs.StringVar(&f.skipInstall, "skip", getEnvString("PWRUN_SKIP_MODULE_INSTALL", ""), "false runs npm install before the tests (env: PWRUN_SKIP_MODULE_INSTALL)")
	fs.StringVar(&f.testRail, "send-to-testrail", getEnvString("PWRUN_TEST_RAIL_INTEGRATION", ""), "true creates or reuses a TestRail run (env: PWRUN_TEST_RAIL_INTEGRATION)")
	fs.StringVar(&f.runID, "run-id", getEnvString("PWRUN_RUN_ID", ""), "Existing TestRail run id (env: PWRUN_RUN_ID)")

	fs.StringVar(&f.configPath, "config", getEnvString("PWRUN_CONFIG", config.DefaultFilename), "Path to the run config file (env: PWRUN_CONFIG)")
	fs.StringVar(&f.envFile, "env-file", getEnvString("PWRUN_ENV_FILE", env.DefaultDotEnvFile), "Path to a .env file with credentials (env: PWRUN_ENV_FILE)")
	fs.BoolVar(&f.noColor, "no-color", getEnvBool("PWRUN_NO_COLOR", false), "Disable colored output (env: PWRUN_NO_COLOR)")
}

func (f *settingFlags) stringFlags() []settingFlag {
	return []settingFlag{
		{"browsers-path", "PWRUN_BROWSERS_PATH", &f.browsersPath},
		{"browsers", "PWRUN_BROWSERS", &f.browsers},
		{"headed", "PWRUN_HEADED", &f.headed},
		{"workers", "PWRUN_WORKERS", &f.workers},
		{"grep", "PWRUN_GREP", &f.grep},
		{"skip", "PWRUN_SKIP_MODULE_INSTALL", &f.skipInstall},
		{"send-to-testrail", "PWRUN_TEST_RAIL_INTEGRATION", &f.testRail},
		{"run-id", "PWRUN_RUN_ID", &f.runID},
	}
}

// params builds the invocation parameters. A flag counts as supplied when
// it was given on the command line or through its environment variable.
func (f *settingFlags) params(cmd *cobra.Command) resolver.Params {
	supplied := make(map[string]*string)
	for _, sf := range f.stringFlags() {
		_, fromEnv := os.LookupEnv(sf.envKey)
		if cmd.Flags().Changed(sf.name) || (fromEnv && *sf.value != "") {
			supplied[sf.name] = resolver.String(*sf.value)
		}
	}

	return resolver.Params{
		BrowsersPath:        supplied["browsers-path"],
		Browsers:            supplied["browsers"],
		Workers:             supplied["workers"],
		Headed:              supplied["headed"],
		Debug:               f.debug,
		Filter:              supplied["grep"],
		SkipModuleInstall:   supplied["skip"],
		TestRailIntegration: supplied["send-to-testrail"],
		RunID:               supplied["run-id"],
	}
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
