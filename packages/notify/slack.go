package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// SlackNotifier sends notifications to Slack via webhook
type SlackNotifier struct {
	webhookURL string
	channel    string
	username   string
	iconEmoji  string
	client     *resty.Client
	now        func() time.Time
}

// SlackOption is a functional option for SlackNotifier
type SlackOption func(*SlackNotifier)

// WithSlackChannel sets the Slack channel
func WithSlackChannel(channel string) SlackOption {
	return func(s *SlackNotifier) {
		s.channel = channel
	}
}

// WithSlackUsername sets the Slack bot username
func WithSlackUsername(username string) SlackOption {
	return func(s *SlackNotifier) {
		s.username = username
	}
}

// WithSlackIconEmoji sets the Slack bot icon emoji
func WithSlackIconEmoji(emoji string) SlackOption {
	return func(s *SlackNotifier) {
		s.iconEmoji = emoji
	}
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(webhookURL string, opts ...SlackOption) *SlackNotifier {
	s := &SlackNotifier{
		webhookURL: webhookURL,
		username:   "pwrun",
		iconEmoji:  ":performing_arts:",
		client:     resty.New().SetTimeout(10 * time.Second),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *SlackNotifier) Name() string {
	return "slack"
}

type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields,omitempty"`
	Footer string       `json:"footer,omitempty"`
	TS     int64        `json:"ts,omitempty"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Notify sends a notification to Slack
func (s *SlackNotifier) Notify(ctx context.Context, summary *RunSummary) error {
	color := "good"
	title := "Playwright run passed"
	emoji := ":white_check_mark:"

	if !summary.Passed() {
		color = "danger"
		title = fmt.Sprintf("Playwright run failed (exit code %d)", summary.ExitCode)
		emoji = ":x:"
	} else if summary.IsRecovery {
		title = "Playwright run recovered"
		emoji = ":tada:"
	}

	fields := []slackField{
		{Title: "Filter", Value: summary.Filter, Short: true},
		{Title: "Browsers", Value: summary.Browsers, Short: true},
		{Title: "Workers", Value: summary.Workers, Short: true},
		{Title: "Duration", Value: summary.Duration.Round(time.Second).String(), Short: true},
	}
	if summary.Environment != "" {
		fields = append(fields, slackField{Title: "Environment", Value: summary.Environment, Short: true})
	}
	if summary.RunID != "" {
		fields = append(fields, slackField{Title: "TestRail run", Value: summary.RunID, Short: true})
	}

	msg := slackMessage{
		Channel:   s.channel,
		Username:  s.username,
		IconEmoji: s.iconEmoji,
		Attachments: []slackAttachment{{
			Color:  color,
			Title:  fmt.Sprintf("%s %s", emoji, title),
			Fields: fields,
			Footer: "pwrun",
			TS:     s.now().Unix(),
		}},
	}

	return s.send(ctx, msg)
}

func (s *SlackNotifier) send(ctx context.Context, msg slackMessage) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		Post(s.webhookURL)
	if err != nil {
		return fmt.Errorf("failed to send Slack notification: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("slack API returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
