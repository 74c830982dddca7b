package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vsu-automation/pwrun/packages/core/config"
	"github.com/vsu-automation/pwrun/packages/core/env"
	"github.com/vsu-automation/pwrun/packages/core/resolver"
)

const (
	// AllureReportDir and AllureResultsDir are produced by allure-playwright
	AllureReportDir  = "allure-report"
	AllureResultsDir = "allure-results"
	// CollectedAPIsDir holds per-environment API snapshots written by the tests
	CollectedAPIsDir = "src/collected_apis"
)

// DefaultCollectedAPIEnvs are the environments whose snapshots are cleared
var DefaultCollectedAPIEnvs = []string{"local", "qa1"}

type Config struct {
	// WorkDir is where commands run and folders are cleaned; "" is the current directory
	WorkDir  string
	TestPath string
	Settings *resolver.Settings
	Env      *env.Environment

	GenerateReport   bool
	OpenReport       bool
	CollectedAPIEnvs []string
}

type Runner struct {
	config   *Config
	exec     Executor
	logger   resolver.Logger
	openFile func(string) error
	environ  func() []string
}

type Option func(*Runner)

func WithExecutor(e Executor) Option {
	return func(r *Runner) {
		r.exec = e
	}
}

func WithLogger(l resolver.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithReportOpener replaces the function that opens the generated report
func WithReportOpener(open func(path string) error) Option {
	return func(r *Runner) {
		r.openFile = open
	}
}

// WithBaseEnviron replaces os.Environ as the inherited environment
func WithBaseEnviron(environ func() []string) Option {
	return func(r *Runner) {
		r.environ = environ
	}
}

func NewRunner(cfg *Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.TestPath == "" {
		cfg.TestPath = config.DefaultTestPath
	}
	if cfg.Env == nil {
		cfg.Env = env.New()
	}
	if cfg.CollectedAPIEnvs == nil {
		cfg.CollectedAPIEnvs = DefaultCollectedAPIEnvs
	}

	r := &Runner{
		config:   cfg,
		exec:     NewExecExecutor(),
		logger:   nopLogger{},
		openFile: openInBrowser,
		environ:  os.Environ,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warnf(string, ...any) {}

// Result is the outcome of one test session
type Result struct {
	Command  string
	Status   int
	ExitCode int
	Duration time.Duration
}

// Passed reports whether the runner exited with status 0
func (r *Result) Passed() bool {
	return r.Status == 0
}

// ExitCode maps the runner's exit status to the launcher's exit code
func ExitCode(status int) int {
	if status != 0 {
		return 1
	}
	return 0
}

// TestCommand composes the Playwright invocation. Flag tokens that resolve
// to "" are left out.
func (r *Runner) TestCommand() Command {
	s := r.config.Settings
	args := []string{
		"playwright", "test", r.config.TestPath,
		"--browser=" + s.Browsers,
		"--workers=" + s.Workers,
	}
	if flag := s.HeadedFlag(); flag != "" {
		args = append(args, flag)
	}
	args = append(args, "--grep="+s.Filter)
	if flag := s.DebugFlag(); flag != "" {
		args = append(args, flag)
	}
	return r.command("npx", args...)
}

// ReportCommand composes the Allure report generation
func (r *Runner) ReportCommand() Command {
	return r.command(filepath.Join("node_modules", ".bin", "allure"), "generate", "--clean")
}

// InstallCommand composes the node module installation
func (r *Runner) InstallCommand() Command {
	return r.command("npm", "install")
}

func (r *Runner) command(name string, args ...string) Command {
	return Command{
		Name: name,
		Args: args,
		Dir:  r.config.WorkDir,
		Env:  r.config.Env.Environ(r.environ()),
	}
}

// Run cleans stale artifacts, runs the tests and, if requested, generates
// the report. A failing test run is reported through Result, not err.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.config.Settings == nil {
		return nil, fmt.Errorf("runner has no resolved settings")
	}

	if err := r.Clean(); err != nil {
		return nil, err
	}

	cmd := r.TestCommand()
	r.logger.Infof("Running cases...")
	r.logger.Infof("PLAYWRIGHT_BROWSERS_PATH=%s", r.config.Env.Get(config.KeyBrowsersPath))
	r.logger.Infof("COMMAND:: %s", cmd)

	start := time.Now()
	status, err := r.exec.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Command:  cmd.String(),
		Status:   status,
		ExitCode: ExitCode(status),
		Duration: time.Since(start),
	}

	if r.config.GenerateReport {
		if err := r.GenerateReport(ctx); err != nil {
			r.logger.Warnf("%v", err)
		}
	}

	return result, nil
}

// GenerateReport materializes the Allure report from the run results and
// opens it when OpenReport is set.
func (r *Runner) GenerateReport(ctx context.Context) error {
	cmd := r.ReportCommand()
	r.logger.Infof("Generating allure report")
	r.logger.Infof("COMMAND:: %s", cmd)

	status, err := r.exec.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}
	if status != 0 {
		return fmt.Errorf("report generation failed: allure exited with status %d", status)
	}

	if r.config.OpenReport {
		index := r.path(AllureReportDir, "index.html")
		if err := r.openFile(index); err != nil {
			return fmt.Errorf("cannot open report %s: %w", index, err)
		}
	}
	return nil
}

// Install runs `npm install`. It satisfies resolver.Installer.
func (r *Runner) Install(ctx context.Context) error {
	cmd := r.InstallCommand()
	r.logger.Infof("COMMAND:: %s", cmd)

	status, err := r.exec.Run(ctx, cmd)
	if err != nil {
		return err
	}
	if status != 0 {
		return fmt.Errorf("npm install exited with status %d", status)
	}
	return nil
}

func (r *Runner) path(elem ...string) string {
	return filepath.Join(append([]string{r.config.WorkDir}, elem...)...)
}
