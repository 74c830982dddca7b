package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vsu-automation/pwrun/packages/core/config"
	"github.com/vsu-automation/pwrun/packages/core/resolver"
	"github.com/vsu-automation/pwrun/packages/core/runner"
	"github.com/vsu-automation/pwrun/packages/history"
	"github.com/vsu-automation/pwrun/packages/notify"
	"github.com/vsu-automation/pwrun/packages/output"
	"github.com/vsu-automation/pwrun/packages/testrail"
)

var runCmd = &cobra.Command{
	Use:   "run [test path]",
	Short: "Resolve settings and run the Playwright tests",
	Long: `Run the Playwright tests under the given path (default src/tests).

Each setting is taken from the command line, then from run.config, then
from the built-in default. The resolved environment is passed to
"npx playwright test"; pwrun exits 1 if the runner fails.

Examples:
  pwrun run
  pwrun run src/tests/checkout --grep @Critical_Path --workers 4
  pwrun run --headed false --debug
  pwrun run --send-to-testrail true -g --open-report
  pwrun run --watch --no-history`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCommand,
}

var (
	runFlags settingFlags

	generateReportFlag bool
	openReportFlag     bool
	clearAllureFlag    bool
	watchFlag          bool
	historyDBFlag      string
	noHistoryFlag      bool

	// Notification flags
	notifyFlag       string
	notifyOnFlag     string
	slackWebhookFlag  string
	slackChannelFlag  string
	slackUsernameFlag string
	slackIconFlag     string
)

func init() {
	runFlags.register(runCmd)

	runCmd.Flags().BoolVarP(&generateReportFlag, "generate-report", "g", getEnvBool("PWRUN_GENERATE_REPORT", false), "Generate the Allure report after the run (env: PWRUN_GENERATE_REPORT)")
	runCmd.Flags().BoolVar(&openReportFlag, "open-report", getEnvBool("PWRUN_OPEN_REPORT", false), "Open the generated report in the browser (env: PWRUN_OPEN_REPORT)")
	runCmd.Flags().BoolVarP(&clearAllureFlag, "clear-allure", "c", false, "Delete previous Allure results")
	_ = runCmd.Flags().MarkDeprecated("clear-allure", "previous results are always deleted")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the test path and re-run on changes")
	runCmd.Flags().StringVar(&historyDBFlag, "history-db", getEnvString("PWRUN_HISTORY_DB", history.DefaultPath), "Run history database (env: PWRUN_HISTORY_DB)")
	runCmd.Flags().BoolVar(&noHistoryFlag, "no-history", getEnvBool("PWRUN_NO_HISTORY", false), "Do not record the run (env: PWRUN_NO_HISTORY)")

	runCmd.Flags().StringVar(&notifyFlag, "notify", getEnvString("PWRUN_NOTIFY", ""), "Notification service: slack (env: PWRUN_NOTIFY)")
	runCmd.Flags().StringVar(&notifyOnFlag, "notify-on", getEnvString("PWRUN_NOTIFY_ON", "failure"), "When to notify: always, failure, success, recovery (env: PWRUN_NOTIFY_ON)")
	runCmd.Flags().StringVar(&slackWebhookFlag, "slack-webhook", getEnvString("SLACK_WEBHOOK", ""), "Slack webhook URL (env: SLACK_WEBHOOK)")
	runCmd.Flags().StringVar(&slackChannelFlag, "slack-channel", getEnvString("SLACK_CHANNEL", ""), "Slack channel override (env: SLACK_CHANNEL)")
	runCmd.Flags().StringVar(&slackUsernameFlag, "slack-username", getEnvString("SLACK_USERNAME", ""), "Slack bot username, default pwrun (env: SLACK_USERNAME)")
	runCmd.Flags().StringVar(&slackIconFlag, "slack-icon", getEnvString("SLACK_ICON_EMOJI", ""), "Slack bot icon emoji (env: SLACK_ICON_EMOJI)")
}

// newExecutor builds the executor that starts npm, npx and allure
var newExecutor = func() runner.Executor { return runner.NewExecExecutor() }

// launcher carries what survives between watch iterations
type launcher struct {
	cmd      *cobra.Command
	testPath string
	logger   *output.Logger
	history  *history.Store
	notifier *notify.Manager
	executor runner.Executor
}

func runCommand(cmd *cobra.Command, args []string) error {
	logger := output.NewLogger(output.WithNoColor(runFlags.noColor))

	testPath := config.DefaultTestPath
	if len(args) == 1 {
		testPath = args[0]
	}

	notifier, err := buildNotifier()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := &launcher{
		cmd:      cmd,
		testPath: testPath,
		logger:   logger,
		notifier: notifier,
		executor: newExecutor(),
	}

	if !noHistoryFlag {
		store, err := history.Open(historyDBFlag)
		if err != nil {
			logger.Warnf("run history disabled: %v", err)
		} else {
			defer store.Close()
			l.history = store
			l.seedNotifier(ctx)
		}
	}

	logger.Banner(fmt.Sprintf("pwrun %s", version))

	result, err := l.runOnce(ctx)
	if !watchFlag {
		if err != nil {
			return err
		}
		if !result.Passed() {
			return ErrTestsFailed
		}
		return nil
	}

	if err != nil {
		logger.Errorf("%v", err)
	}
	return watchAndRerun(ctx, testPath, logger, func() {
		if _, err := l.runOnce(ctx); err != nil {
			logger.Errorf("%v", err)
		}
	})
}

// runOnce performs one full session. The run config and .env are read
// again on every call so edits apply to the next watch iteration.
func (l *launcher) runOnce(ctx context.Context) (*runner.Result, error) {
	sess, err := loadSession(&runFlags, l.logger)
	if err != nil {
		return nil, err
	}

	cfg := &runner.Config{
		TestPath:       l.testPath,
		Env:            sess.environment,
		GenerateReport: generateReportFlag || openReportFlag,
		OpenReport:     openReportFlag,
	}
	rn := runner.NewRunner(cfg, runner.WithExecutor(l.executor), runner.WithLogger(l.logger))

	settings, err := sess.resolve(ctx, &runFlags, runFlags.params(l.cmd), l.logger, rn)
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings

	creator := testrail.NewCreator(
		testrail.DefaultSuites().Merge(sess.store.Suites()),
		testrail.WithLogger(l.logger),
	)
	runID, err := creator.Ensure(ctx, settings, sess.environment)
	if err != nil {
		return nil, err
	}

	result, err := rn.Run(ctx)
	if err != nil {
		return nil, err
	}
	l.logger.Result(result.Passed(), "Playwright exited with status %d after %s", result.Status, result.Duration.Round(time.Second))

	l.record(ctx, settings, runID, result)
	return result, nil
}

func (l *launcher) record(ctx context.Context, s *resolver.Settings, runID string, result *runner.Result) {
	if l.history != nil {
		entry := &history.Entry{
			Env:      s.EnvName,
			Filter:   s.Filter,
			Browsers: s.Browsers,
			Workers:  s.Workers,
			RunID:    runID,
			Command:  result.Command,
			ExitCode: result.ExitCode,
			Duration: result.Duration,
		}
		if err := l.history.Record(ctx, entry); err != nil {
			l.logger.Warnf("%v", err)
		}
	}

	if l.notifier != nil {
		summary := &notify.RunSummary{
			Filter:      s.Filter,
			Browsers:    s.Browsers,
			Workers:     s.Workers,
			Environment: s.EnvName,
			RunID:       runID,
			ExitCode:    result.ExitCode,
			Duration:    result.Duration,
		}
		if err := l.notifier.Notify(ctx, summary); err != nil {
			l.logger.Warnf("failed to send notification: %v", err)
		}
	}
}

// seedNotifier lets --notify-on recovery see the outcome of the last
// recorded session.
func (l *launcher) seedNotifier(ctx context.Context) {
	if l.notifier == nil {
		return
	}
	last, err := l.history.Last(ctx)
	if err != nil {
		l.logger.Warnf("%v", err)
		return
	}
	if last != nil {
		l.notifier.SetLastState(last.Passed())
	}
}

func buildNotifier() (*notify.Manager, error) {
	if notifyFlag == "" {
		return nil, nil
	}
	notifyOn, err := notify.ParseNotifyOn(notifyOnFlag)
	if err != nil {
		return nil, err
	}

	manager := notify.NewManager(notifyOn)
	for _, service := range strings.Split(notifyFlag, ",") {
		switch strings.ToLower(strings.TrimSpace(service)) {
		case "slack":
			if slackWebhookFlag == "" {
				return nil, fmt.Errorf("--slack-webhook is required when using --notify slack")
			}
			var opts []notify.SlackOption
			if slackChannelFlag != "" {
				opts = append(opts, notify.WithSlackChannel(slackChannelFlag))
			}
			if slackUsernameFlag != "" {
				opts = append(opts, notify.WithSlackUsername(slackUsernameFlag))
			}
			if slackIconFlag != "" {
				opts = append(opts, notify.WithSlackIconEmoji(slackIconFlag))
			}
			manager.AddNotifier(notify.NewSlackNotifier(slackWebhookFlag, opts...))
		case "":
		default:
			return nil, fmt.Errorf("unknown notification service %q", service)
		}
	}
	if manager.Len() == 0 {
		return nil, nil
	}
	return manager, nil
}
