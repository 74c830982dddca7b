package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsu-automation/pwrun/packages/core/runner"
	"github.com/vsu-automation/pwrun/packages/notify"
	"github.com/vsu-automation/pwrun/packages/output"
	"github.com/vsu-automation/pwrun/packages/testrail"
)

func newFlagCommand(t *testing.T, args ...string) (*cobra.Command, *settingFlags) {
	t.Helper()
	f := &settingFlags{}
	c := &cobra.Command{Use: "test"}
	f.register(c)
	require.NoError(t, c.ParseFlags(args))
	return c, f
}

func TestSettingFlags_Params(t *testing.T) {
	c, f := newFlagCommand(t, "--workers", "4", "--headed", "false", "-d", "-b", "webkit")

	params := f.params(c)

	require.NotNil(t, params.Workers)
	assert.Equal(t, "4", *params.Workers)
	require.NotNil(t, params.Headed)
	assert.Equal(t, "false", *params.Headed)
	require.NotNil(t, params.Browsers)
	assert.Equal(t, "webkit", *params.Browsers)
	assert.True(t, params.Debug)
	assert.Nil(t, params.Filter)
	assert.Nil(t, params.RunID)
	assert.Nil(t, params.SkipModuleInstall)
}

func TestSettingFlags_ExplicitEmptyValue(t *testing.T) {
	c, f := newFlagCommand(t, "--run-id=")

	params := f.params(c)

	require.NotNil(t, params.RunID)
	assert.Equal(t, "", *params.RunID)
}

func TestSettingFlags_EnvironmentVariable(t *testing.T) {
	t.Setenv("PWRUN_GREP", "@Critical_Path")
	c, f := newFlagCommand(t)

	params := f.params(c)

	require.NotNil(t, params.Filter)
	assert.Equal(t, "@Critical_Path", *params.Filter)
}

func TestSettingFlags_FlagBeatsEnvironmentVariable(t *testing.T) {
	t.Setenv("PWRUN_WORKERS", "8")
	c, f := newFlagCommand(t, "-t", "2")

	params := f.params(c)

	require.NotNil(t, params.Workers)
	assert.Equal(t, "2", *params.Workers)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitTestFailure, exitCode(ErrTestsFailed))
	assert.Equal(t, ExitTestFailure, exitCode(fmt.Errorf("run 2: %w", ErrTestsFailed)))
	assert.Equal(t, ExitError, exitCode(errors.New("TestRail Run creation failed")))
}

func TestBuildNotifier(t *testing.T) {
	defer func(n, on, hook string) {
		notifyFlag, notifyOnFlag, slackWebhookFlag = n, on, hook
	}(notifyFlag, notifyOnFlag, slackWebhookFlag)

	notifyFlag = ""
	m, err := buildNotifier()
	require.NoError(t, err)
	assert.Nil(t, m)

	notifyFlag, notifyOnFlag, slackWebhookFlag = "slack", "failure", ""
	_, err = buildNotifier()
	assert.Error(t, err)

	slackWebhookFlag = "https://hooks.slack.com/services/T/B/X"
	m, err = buildNotifier()
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 1, m.Len())

	notifyOnFlag = "sometimes"
	_, err = buildNotifier()
	assert.Error(t, err)

	notifyFlag, notifyOnFlag = "teams", "always"
	_, err = buildNotifier()
	assert.Error(t, err)
}

func TestBuildNotifier_SlackIdentity(t *testing.T) {
	defer func(n, on, hook, user, icon string) {
		notifyFlag, notifyOnFlag, slackWebhookFlag, slackUsernameFlag, slackIconFlag = n, on, hook, user, icon
	}(notifyFlag, notifyOnFlag, slackWebhookFlag, slackUsernameFlag, slackIconFlag)

	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifyFlag, notifyOnFlag, slackWebhookFlag = "slack", "always", server.URL
	slackUsernameFlag, slackIconFlag = "qa-bot", ":robot_face:"

	m, err := buildNotifier()
	require.NoError(t, err)
	require.NotNil(t, m)
	require.NoError(t, m.Notify(context.Background(), &notify.RunSummary{Filter: "smoke"}))

	assert.Equal(t, "qa-bot", got["username"])
	assert.Equal(t, ":robot_face:", got["icon_emoji"])
}

func TestIsWatchedChange(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "src/tests/login.spec.ts", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "src/tests/data.json", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "src/tests/old.spec.js", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "src/tests/login.spec.ts", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "src/tests/notes.md", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isWatchedChange(tt.event), tt.event.String())
	}
}

func TestAddWatchDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "checkout"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "pkg"), 0o755))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, addWatchDirs(watcher, root))

	watched := watcher.WatchList()
	assert.Contains(t, watched, root)
	assert.Contains(t, watched, filepath.Join(root, "checkout"))
	assert.NotContains(t, watched, filepath.Join(root, "node_modules"))

	assert.Error(t, addWatchDirs(watcher, filepath.Join(root, "missing")))
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.config")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"init", path})
	require.NoError(t, rootCmd.Execute())
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), "Created: "+path)

	rootCmd.SetArgs([]string{"init", path})
	assert.Error(t, rootCmd.Execute())
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.config")
	require.NoError(t, os.WriteFile(path, []byte("[config]\nWORKERS = 3\nENV = qa1\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	rootCmd.SetArgs([]string{"config",
		"--config", path,
		"--env-file", filepath.Join(dir, ".env"),
		"--browsers", "firefox",
		"--output", "json",
	})
	require.NoError(t, rootCmd.Execute())

	var rows []output.SettingRow
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	bySetting := make(map[string]output.SettingRow)
	for _, r := range rows {
		bySetting[r.Key] = r
	}
	assert.Equal(t, output.SettingRow{Key: "BROWSERS", Value: "firefox", Source: "commandline"}, bySetting["BROWSERS"])
	assert.Equal(t, output.SettingRow{Key: "WORKERS", Value: "3", Source: "file"}, bySetting["WORKERS"])
	assert.Equal(t, "smoke", bySetting["FILTER"].Value)
	assert.Equal(t, "qa1", bySetting["ENV"].Value)
}

type recordingExecutor struct {
	commands []runner.Command
	status   int
}

func (e *recordingExecutor) Run(_ context.Context, c runner.Command) (int, error) {
	e.commands = append(e.commands, c)
	return e.status, nil
}

func useExecutor(t *testing.T, status int) *recordingExecutor {
	t.Helper()
	exec := &recordingExecutor{status: status}
	prev := newExecutor
	newExecutor = func() runner.Executor { return exec }
	t.Cleanup(func() { newExecutor = prev })
	return exec
}

// testRailServer answers get_cases for suite 87764 and add_run with run 555
type testRailServer struct {
	*httptest.Server
	hits   atomic.Int32
	status int
}

func newTestRailServer(t *testing.T, status int) *testRailServer {
	t.Helper()
	s := &testRailServer{status: status}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if s.status != http.StatusOK {
			w.WriteHeader(s.status)
			_, _ = w.Write([]byte(`{"error":"Field :suite_id is not a valid test suite."}`))
			return
		}
		switch {
		case r.Method == http.MethodGet && r.URL.RawQuery == "/api/v2/get_cases/57&suite_id=87764":
			_, _ = w.Write([]byte(`{"offset":0,"cases":[{"id":101,"custom_automation_status":1}]}`))
		case r.Method == http.MethodPost && r.URL.RawQuery == "/api/v2/add_run/57":
			_, _ = w.Write([]byte(`{"id":555,"name":"run"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(s.Close)

	t.Setenv(testrail.EnvURL, s.URL+"/")
	t.Setenv(testrail.EnvUser, "qa")
	t.Setenv(testrail.EnvAPIKey, "secret")
	t.Setenv(testrail.EnvProjectID, "57")
	t.Setenv(testrail.EnvProductVersion, "2.4.0")
	return s
}

// executeRun runs "pwrun run" in a fresh directory. Every setting flag is
// passed so values parsed by earlier Execute calls do not leak in.
func executeRun(t *testing.T, args ...string) error {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	base := []string{"run", "e2e",
		"--config", filepath.Join(dir, "run.config"),
		"--env-file", filepath.Join(dir, ".env"),
		"--no-history",
		"--watch=false",
		"--notify=",
		"--generate-report=false",
		"--open-report=false",
		"--debug=false",
		"--headed", "true",
		"--browsers", "chromium",
		"--workers", "1",
		"--skip", "true",
		"--run-id=",
	}
	rootCmd.SetArgs(append(base, args...))
	return rootCmd.Execute()
}

func TestRun_CreatedRunReachesPlaywright(t *testing.T) {
	server := newTestRailServer(t, http.StatusOK)
	exec := useExecutor(t, 0)

	err := executeRun(t, "--send-to-testrail", "true", "--grep", "@Critical_Path")

	require.NoError(t, err)
	assert.Equal(t, 0, exitCode(err))
	assert.Equal(t, int32(2), server.hits.Load())
	require.Len(t, exec.commands, 1)
	cmd := exec.commands[0]
	assert.Equal(t, "npx", cmd.Name)
	assert.Equal(t, []string{"playwright", "test", "e2e", "--browser=chromium", "--workers=1", "--grep=@Critical_Path"}, cmd.Args)
	assert.Contains(t, cmd.Env, "RUN_ID=555")
	assert.Contains(t, cmd.Env, "TEST_RAIL_INTEGRATION=true")
}

func TestRun_UnknownSuiteStopsBeforePlaywright(t *testing.T) {
	server := newTestRailServer(t, http.StatusOK)
	exec := useExecutor(t, 0)

	err := executeRun(t, "--send-to-testrail", "true", "--grep", "smoke")

	var cfgErr *testrail.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, ExitError, exitCode(err))
	assert.Equal(t, int32(0), server.hits.Load())
	assert.Empty(t, exec.commands)
}

func TestRun_RunCreationFailureStopsBeforePlaywright(t *testing.T) {
	newTestRailServer(t, http.StatusBadRequest)
	exec := useExecutor(t, 0)

	err := executeRun(t, "--send-to-testrail", "true", "--grep", "@Critical_Path")

	require.ErrorIs(t, err, testrail.ErrRunCreation)
	assert.Equal(t, ExitError, exitCode(err))
	assert.Empty(t, exec.commands)
}

func TestRun_FailingTestsMapToTestFailure(t *testing.T) {
	exec := useExecutor(t, 2)

	err := executeRun(t, "--send-to-testrail", "false", "--grep", "smoke")

	require.ErrorIs(t, err, ErrTestsFailed)
	assert.Equal(t, ExitTestFailure, exitCode(err))
	require.Len(t, exec.commands, 1)
	assert.Contains(t, exec.commands[0].Env, "RUN_ID=")
}
