package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// TeamsNotifier sends notifications to Microsoft Teams via webhook
type TeamsNotifier struct {
	webhookURL string
	client     *http.Client
}

// TeamsOption is a functional option for TeamsNotifier
type TeamsOption func(*TeamsNotifier)

// WithTeamsClient replaces the HTTP client
func WithTeamsClient(c *http.Client) TeamsOption {
	return func(t *TeamsNotifier) {
		t.client = c
	}
}

// NewTeamsNotifier creates a new Teams notifier
func NewTeamsNotifier(webhookURL string, opts ...TeamsOption) *TeamsNotifier {
	t := &TeamsNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Name returns the name of the notifier
func (t *TeamsNotifier) Name() string {
	return "teams"
}

// teamsMessage wraps an Adaptive Card
type teamsMessage struct {
	Type        string      `json:"type"`
	Attachments []teamsCard `json:"attachments"`
}

type teamsCard struct {
	ContentType string           `json:"contentType"`
	Content     teamsCardContent `json:"content"`
}

type teamsCardContent struct {
	Schema  string       `json:"$schema"`
	Type    string       `json:"type"`
	Version string       `json:"version"`
	Body    []teamsBlock `json:"body"`
}

type teamsBlock struct {
	Type      string      `json:"type"`
	Size      string      `json:"size,omitempty"`
	Weight    string      `json:"weight,omitempty"`
	Text      string      `json:"text,omitempty"`
	Color     string      `json:"color,omitempty"`
	Wrap      bool        `json:"wrap,omitempty"`
	Facts     []teamsFact `json:"facts,omitempty"`
	Spacing   string      `json:"spacing,omitempty"`
	Separator bool        `json:"separator,omitempty"`
}

type teamsFact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Notify sends a notification to Microsoft Teams
func (t *TeamsNotifier) Notify(ctx context.Context, summary *RunSummary) error {
	color := "good"
	if summary.Failed() {
		color = "attention"
	}

	body := []teamsBlock{
		{
			Type:   "TextBlock",
			Size:   "Large",
			Weight: "Bolder",
			Text:   summary.headline(),
			Color:  color,
		},
		{
			Type:      "FactSet",
			Separator: true,
			Facts: []teamsFact{
				{Title: "Reports", Value: fmt.Sprintf("%d", summary.Reports)},
				{Title: "Total", Value: fmt.Sprintf("%d", summary.Summary.Total)},
				{Title: "Passed", Value: fmt.Sprintf("%d", summary.Summary.Passed)},
				{Title: "Failed", Value: fmt.Sprintf("%d", summary.Summary.Failed)},
				{Title: "Errored", Value: fmt.Sprintf("%d", summary.Summary.Errored)},
				{Title: "Duration", Value: summary.Duration.Round(time.Millisecond).String()},
			},
		},
	}

	for i, f := range summary.Failures {
		if i == maxListedFailures {
			body = append(body, teamsBlock{Type: "TextBlock", Text: fmt.Sprintf("_and %d more_", len(summary.Failures)-i)})
			break
		}
		text := fmt.Sprintf("**%s** in %s", f.Name, f.Test)
		if f.Location != "" {
			text += fmt.Sprintf(" (%s)", f.Location)
		}
		body = append(body, teamsBlock{Type: "TextBlock", Text: text, Wrap: true, Spacing: "Medium"})
		for _, c := range f.Clues {
			body = append(body, teamsBlock{Type: "TextBlock", Text: "`" + c + "`", Wrap: true})
		}
	}

	msg := teamsMessage{
		Type: "message",
		Attachments: []teamsCard{{
			ContentType: "application/vnd.microsoft.card.adaptive",
			Content: teamsCardContent{
				Schema:  "http://adaptivecards.io/schemas/adaptive-card.json",
				Type:    "AdaptiveCard",
				Version: "1.2",
				Body:    body,
			},
		}},
	}

	return postJSON(ctx, t.client, t.webhookURL, msg, http.StatusOK, http.StatusAccepted)
}
