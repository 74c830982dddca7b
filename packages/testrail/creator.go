package testrail

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vsu-automation/pwrun/packages/core/config"
	"github.com/vsu-automation/pwrun/packages/core/env"
	"github.com/vsu-automation/pwrun/packages/core/resolver"
)

// EnvProductVersion names the product build a run is created for
const EnvProductVersion = "PRODUCT_VERSION"

// Logger receives progress lines
type Logger interface {
	Infof(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any) {}

// Creator decides whether a run is needed and creates it
type Creator struct {
	suites     SuiteTable
	logger     Logger
	now        func() time.Time
	clientOpts []ClientOption
}

// CreatorOption is a functional option for Creator
type CreatorOption func(*Creator)

func WithLogger(l Logger) CreatorOption {
	return func(c *Creator) {
		c.logger = l
	}
}

// WithClock replaces time.Now when naming runs
func WithClock(now func() time.Time) CreatorOption {
	return func(c *Creator) {
		c.now = now
	}
}

// WithClientOptions passes options to the API client
func WithClientOptions(opts ...ClientOption) CreatorOption {
	return func(c *Creator) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// NewCreator creates a Creator for the given suite table
func NewCreator(suites SuiteTable, opts ...CreatorOption) *Creator {
	c := &Creator{
		suites: suites,
		logger: nopLogger{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ensure returns the run id the session reports into. With integration
// disabled, or with a run id already resolved, nothing is sent. Otherwise
// the suite for the resolved filter is looked up, a run holding its
// automated cases is created and its id is set as RUN_ID on environment.
func (c *Creator) Ensure(ctx context.Context, s *resolver.Settings, environment *env.Environment) (string, error) {
	if !s.IntegrationEnabled() {
		return s.RunID, nil
	}
	if s.RunID != "" {
		c.logger.Infof("Reusing TestRail run %s", s.RunID)
		return s.RunID, nil
	}

	suiteID, err := c.suites.SuiteID(s.Filter)
	if err != nil {
		return "", err
	}
	creds, err := CredentialsFromEnv(environment.Get)
	if err != nil {
		return "", err
	}

	name := RunName(s.EnvName, environment.Get(EnvProductVersion), c.now())
	client := NewClient(creds, c.clientOpts...)

	caseIDs, err := client.AutomatedCaseIDs(ctx, suiteID)
	if err != nil {
		return "", fmt.Errorf("%w: TestRail API request error: %v", ErrRunCreation, err)
	}
	c.logger.Infof("Found %d automated cases in suite %d", len(caseIDs), suiteID)

	id, err := client.AddRun(ctx, AddRunRequest{
		SuiteID:    suiteID,
		Name:       name,
		IncludeAll: false,
		CaseIDs:    caseIDs,
	})
	if err != nil {
		return "", fmt.Errorf("%w: TestRail API request error: %v", ErrRunCreation, err)
	}

	runID := strconv.FormatInt(id, 10)
	environment.Set(config.KeyRunID, runID)
	c.logger.Infof("Created TestRail run %s: %s", runID, name)
	return runID, nil
}

// RunName labels a run: "Automation | Festival | <env> | <version> | dd.mm.yyyy"
func RunName(envName, productVersion string, at time.Time) string {
	if strings.TrimSpace(productVersion) == "" {
		productVersion = "unknown"
	}
	if strings.TrimSpace(envName) == "" {
		envName = "unknown"
	}
	return fmt.Sprintf("Automation | Festival | %s | %s | %s", envName, productVersion, at.Format("02.01.2006"))
}
