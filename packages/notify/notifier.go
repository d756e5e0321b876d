// Package notify posts render summaries to chat webhooks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/clueassert/packages/suite"
)

// NotifyOn specifies when to send notifications
type NotifyOn string

const (
	// NotifyAlways sends notifications for every run
	NotifyAlways NotifyOn = "always"
	// NotifyFailure sends notifications only when an assertion did not pass
	NotifyFailure NotifyOn = "failure"
	// NotifySuccess sends notifications only when every assertion passed
	NotifySuccess NotifyOn = "success"
	// NotifyRecovery sends notifications on failure and on the first success after one
	NotifyRecovery NotifyOn = "recovery"
)

// ParseNotifyOn validates a policy name.
func ParseNotifyOn(s string) (NotifyOn, error) {
	switch on := NotifyOn(strings.ToLower(strings.TrimSpace(s))); on {
	case NotifyAlways, NotifyFailure, NotifySuccess, NotifyRecovery:
		return on, nil
	}
	return "", fmt.Errorf("unknown notify policy %q (use always, failure, success or recovery)", s)
}

// Failure is an assertion that did not pass.
type Failure struct {
	Report   string   `json:"report"`
	Test     string   `json:"test"`
	Name     string   `json:"name"`
	Location string   `json:"location,omitempty"`
	Clues    []string `json:"clues,omitempty"`
}

// RunSummary is what gets posted for one render run.
type RunSummary struct {
	Reports    int           `json:"reports"`
	Summary    suite.Summary `json:"summary"`
	Duration   time.Duration `json:"duration"`
	Failures   []Failure     `json:"failures,omitempty"`
	IsRecovery bool          `json:"is_recovery,omitempty"`
}

// Failed reports whether any assertion failed or errored.
func (s *RunSummary) Failed() bool {
	return s.Summary.Failed+s.Summary.Errored > 0
}

// AddFailures appends every assertion of tests that did not pass.
func (s *RunSummary) AddFailures(reportName string, tests ...*suite.Test) {
	for _, t := range tests {
		for _, a := range t.Assertions() {
			if a.Passed() {
				continue
			}
			f := Failure{Report: reportName, Test: t.Name, Name: a.Name()}
			if loc, ok := a.At(); ok {
				f.Location = loc.String()
			}
			for _, c := range a.Clues() {
				f.Clues = append(f.Clues, string(c))
			}
			s.Failures = append(s.Failures, f)
		}
	}
}

// maxListedFailures caps the failures included in one message.
const maxListedFailures = 10

func (s *RunSummary) headline() string {
	switch {
	case s.Failed():
		return fmt.Sprintf("%d assertion(s) failed, %d errored", s.Summary.Failed, s.Summary.Errored)
	case s.IsRecovery:
		return "Assertions recovered!"
	}
	return "All assertions passed!"
}

// Notifier is the interface for notification services
type Notifier interface {
	// Notify sends a notification about a render run
	Notify(ctx context.Context, summary *RunSummary) error

	// Name returns the name of the notifier
	Name() string
}

// Manager applies a NotifyOn policy to a set of notifiers.
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

// Notify sends summary to every notifier when the policy asks for it.
// Errors from all notifiers are joined.
func (m *Manager) Notify(ctx context.Context, summary *RunSummary) error {
	currentSuccess := !summary.Failed()

	shouldNotify := false
	switch m.notifyOn {
	case NotifyAlways:
		shouldNotify = true
	case NotifyFailure:
		shouldNotify = !currentSuccess
	case NotifySuccess:
		shouldNotify = currentSuccess
	case NotifyRecovery:
		if !m.lastState && currentSuccess {
			shouldNotify = true
			summary.IsRecovery = true
		}
		if !currentSuccess {
			shouldNotify = true
		}
	}

	m.lastState = currentSuccess

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
