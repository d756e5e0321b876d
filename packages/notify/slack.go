package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SlackNotifier sends notifications to Slack via webhook
type SlackNotifier struct {
	webhookURL string
	channel    string
	username   string
	iconEmoji  string
	client     *http.Client
}

// SlackOption is a functional option for SlackNotifier
type SlackOption func(*SlackNotifier)

// WithSlackChannel sets the Slack channel
func WithSlackChannel(channel string) SlackOption {
	return func(s *SlackNotifier) {
		s.channel = channel
	}
}

// WithSlackClient replaces the HTTP client
func WithSlackClient(c *http.Client) SlackOption {
	return func(s *SlackNotifier) {
		s.client = c
	}
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(webhookURL string, opts ...SlackOption) *SlackNotifier {
	s := &SlackNotifier{
		webhookURL: webhookURL,
		username:   "clueassert",
		iconEmoji:  ":mag:",
		client:     &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the name of the notifier
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
	emoji := ":white_check_mark:"
	if summary.Failed() {
		color = "danger"
		emoji = ":x:"
	} else if summary.IsRecovery {
		emoji = ":tada:"
	}

	fields := []slackField{
		{Title: "Reports", Value: fmt.Sprintf("%d", summary.Reports), Short: true},
		{Title: "Total", Value: fmt.Sprintf("%d", summary.Summary.Total), Short: true},
		{Title: "Passed", Value: fmt.Sprintf("%d", summary.Summary.Passed), Short: true},
		{Title: "Failed", Value: fmt.Sprintf("%d", summary.Summary.Failed), Short: true},
		{Title: "Errored", Value: fmt.Sprintf("%d", summary.Summary.Errored), Short: true},
		{Title: "Duration", Value: summary.Duration.Round(time.Millisecond).String(), Short: true},
	}

	var text strings.Builder
	if len(summary.Failures) > 0 {
		text.WriteString("*Failed assertions:*\n")
		for i, f := range summary.Failures {
			if i == maxListedFailures {
				fmt.Fprintf(&text, "_and %d more_\n", len(summary.Failures)-i)
				break
			}
			fmt.Fprintf(&text, "• `%s` in %s", f.Name, f.Test)
			if f.Location != "" {
				fmt.Fprintf(&text, " (%s)", f.Location)
			}
			text.WriteString("\n")
			for _, c := range f.Clues {
				fmt.Fprintf(&text, "    %s\n", c)
			}
		}
	}

	msg := slackMessage{
		Channel:   s.channel,
		Username:  s.username,
		IconEmoji: s.iconEmoji,
		Attachments: []slackAttachment{{
			Color:  color,
			Title:  emoji + " " + summary.headline(),
			Text:   text.String(),
			Fields: fields,
			Footer: "clueassert",
			TS:     time.Now().Unix(),
		}},
	}

	return postJSON(ctx, s.client, s.webhookURL, msg, http.StatusOK)
}
