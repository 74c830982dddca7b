package testrail

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	// DefaultProjectID is the TestRail project runs are created in
	DefaultProjectID = 57
	// DefaultTimeout bounds each API request
	DefaultTimeout = 30 * time.Second
	// DefaultRequestsPerMinute stays under the TestRail Cloud API limit
	DefaultRequestsPerMinute = 180
	// automatedStatus is the custom_automation_status of automated cases
	automatedStatus = 1
)

// Environment variables holding the credentials
const (
	EnvURL       = "TEST_RAIL_URL"
	EnvUser      = "TEST_RAIL_USER_NAME"
	EnvAPIKey    = "TEST_RAIL_API_KEY"
	EnvProjectID = "TEST_RAIL_PROJECT_ID"
)

// Credentials identify the TestRail instance and account
type Credentials struct {
	BaseURL   string
	User      string
	APIKey    string
	ProjectID int64
}

// CredentialsFromEnv reads credentials through getenv
func CredentialsFromEnv(getenv func(string) string) (Credentials, error) {
	creds := Credentials{
		BaseURL:   strings.TrimSpace(getenv(EnvURL)),
		User:      strings.TrimSpace(getenv(EnvUser)),
		APIKey:    strings.TrimSpace(getenv(EnvAPIKey)),
		ProjectID: DefaultProjectID,
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{EnvURL, creds.BaseURL},
		{EnvUser, creds.User},
		{EnvAPIKey, creds.APIKey},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return creds, configErrorf(fmt.Sprintf("TestRail integration is enabled but %s is not set", strings.Join(missing, ", ")))
	}

	if raw := strings.TrimSpace(getenv(EnvProjectID)); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return creds, configErrorf(fmt.Sprintf("%s must be a number, got %q", EnvProjectID, raw))
		}
		creds.ProjectID = id
	}

	return creds, nil
}

// Client talks to the TestRail API v2
type Client struct {
	http      *resty.Client
	limiter   *rate.Limiter
	projectID int64
	timeout   time.Duration
}

// ClientOption is a functional option for Client
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit sets the request pace; rate.Inf disables pacing
func WithRateLimit(limit rate.Limit, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// NewClient creates a client authenticating with basic auth
func NewClient(creds Credentials, opts ...ClientOption) *Client {
	c := &Client{
		limiter:   rate.NewLimiter(rate.Every(time.Minute/DefaultRequestsPerMinute), 2),
		projectID: creds.ProjectID,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(creds.BaseURL, "/")).
		SetBasicAuth(creds.User, creds.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(c.timeout)

	return c
}

// AddRunRequest is the body of add_run
type AddRunRequest struct {
	SuiteID    int64   `json:"suite_id"`
	Name       string  `json:"name"`
	IncludeAll bool    `json:"include_all"`
	CaseIDs    []int64 `json:"case_ids"`
}

// AutomatedCaseIDs lists the ids of the suite's cases whose
// custom_automation_status is automated.
func (c *Client) AutomatedCaseIDs(ctx context.Context, suiteID int64) ([]int64, error) {
	path := fmt.Sprintf("/index.php?/api/v2/get_cases/%d&suite_id=%d", c.projectID, suiteID)

	body, err := c.do(ctx, c.http.R().SetContext(ctx), "GET", path)
	if err != nil {
		return nil, err
	}
	if err := validate(casesSchemaLoader, body); err != nil {
		return nil, fmt.Errorf("get_cases: %w", err)
	}

	cases := gjson.ParseBytes(body)
	if !cases.IsArray() {
		cases = cases.Get("cases")
	}

	ids := make([]int64, 0)
	cases.ForEach(func(_, tc gjson.Result) bool {
		status := tc.Get("custom_automation_status")
		if status.Type == gjson.Number && status.Int() == automatedStatus {
			ids = append(ids, tc.Get("id").Int())
		}
		return true
	})
	return ids, nil
}

// AddRun creates a run and returns its id
func (c *Client) AddRun(ctx context.Context, req AddRunRequest) (int64, error) {
	if req.CaseIDs == nil {
		req.CaseIDs = []int64{}
	}
	path := fmt.Sprintf("/index.php?/api/v2/add_run/%d", c.projectID)

	body, err := c.do(ctx, c.http.R().SetContext(ctx).SetBody(req), "POST", path)
	if err != nil {
		return 0, err
	}
	if err := validate(runSchemaLoader, body); err != nil {
		return 0, fmt.Errorf("add_run: %w", err)
	}
	return gjson.GetBytes(body, "id").Int(), nil
}

func (c *Client) do(ctx context.Context, req *resty.Request, method, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode(), truncate(resp.String(), 200))
	}
	return resp.Body(), nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
