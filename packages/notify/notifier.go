// Package notify posts the outcome of a pwrun session to chat services.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// NotifyOn specifies when to send notifications
type NotifyOn string

const (
	// NotifyAlways sends notifications for every run
	NotifyAlways NotifyOn = "always"
	// NotifyFailure sends notifications only when tests fail
	NotifyFailure NotifyOn = "failure"
	// NotifySuccess sends notifications only when tests pass
	NotifySuccess NotifyOn = "success"
	// NotifyRecovery sends notifications on failure and when a failing suite passes again
	NotifyRecovery NotifyOn = "recovery"
)

// ParseNotifyOn validates a --notify-on value
func ParseNotifyOn(s string) (NotifyOn, error) {
	switch n := NotifyOn(s); n {
	case NotifyAlways, NotifyFailure, NotifySuccess, NotifyRecovery:
		return n, nil
	}
	return "", fmt.Errorf("invalid notify-on value %q: must be always, failure, success or recovery", s)
}

// RunSummary describes one session for notifications
type RunSummary struct {
	Filter      string        `json:"filter"`
	Browsers    string        `json:"browsers"`
	Workers     string        `json:"workers"`
	Environment string        `json:"environment,omitempty"`
	RunID       string        `json:"run_id,omitempty"`
	ExitCode    int           `json:"exit_code"`
	Duration    time.Duration `json:"duration"`
	IsRecovery  bool          `json:"is_recovery,omitempty"`
}

// Passed reports whether the runner succeeded
func (s *RunSummary) Passed() bool {
	return s.ExitCode == 0
}

// Notifier is the interface for notification services
type Notifier interface {
	Notify(ctx context.Context, summary *RunSummary) error
	Name() string
}

// Manager applies the NotifyOn policy and fans out to notifiers
type Manager struct {
	notifiers []Notifier
	notifyOn  NotifyOn
	lastState bool // true if last run was successful
}

// NewManager creates a new notification manager
func NewManager(notifyOn NotifyOn, notifiers ...Notifier) *Manager {
	return &Manager{
		notifiers: notifiers,
		notifyOn:  notifyOn,
		lastState: true,
	}
}

// AddNotifier adds a notifier to the manager
func (m *Manager) AddNotifier(n Notifier) {
	m.notifiers = append(m.notifiers, n)
}

// SetLastState seeds the outcome of the previous run, e.g. from history
func (m *Manager) SetLastState(passed bool) {
	m.lastState = passed
}

// Len returns the number of notifiers
func (m *Manager) Len() int {
	return len(m.notifiers)
}

// Notify sends notifications based on the configured policy. Errors from
// every notifier are joined.
func (m *Manager) Notify(ctx context.Context, summary *RunSummary) error {
	shouldNotify := false
	passed := summary.Passed()

	switch m.notifyOn {
	case NotifyAlways:
		shouldNotify = true
	case NotifyFailure:
		shouldNotify = !passed
	case NotifySuccess:
		shouldNotify = passed
	case NotifyRecovery:
		if !m.lastState && passed {
			shouldNotify = true
			summary.IsRecovery = true
		}
		if !passed {
			shouldNotify = true
		}
	}

	m.lastState = passed

	if !shouldNotify {
		return nil
	}

	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, summary); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}
