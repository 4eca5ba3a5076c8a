package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"verification-dashboard/models"
)

// SlackMessage defines the JSON structure expected by Slack API
type SlackMessage struct {
	Text string `json:"text"`
}

// Notifier posts review decisions to a Slack incoming webhook. A zero
// webhook URL disables it.
type Notifier struct {
	WebhookURL string
	Client     *http.Client
}

func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{WebhookURL: webhookURL, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (n *Notifier) Enabled() bool { return n != nil && n.WebhookURL != "" }

// ReviewDecision announces an approve/reject made by operator.
func (n *Notifier) ReviewDecision(ctx context.Context, company models.Company, operator string) error {
	if !n.Enabled() {
		return nil
	}

	icon := "✅"
	if company.ReviewStatus == models.ReviewRejected {
		icon = "⛔"
	}
	score := "n/a"
	if company.RiskScore != nil {
		score = fmt.Sprintf("%d/100", *company.RiskScore)
	}

	messageBody := fmt.Sprintf(
		"%s *Company %s*\n"+
			"*Company:* %s (%s)\n"+
			"*Risk:* %s, score %s\n"+
			"*Reviewer:* %s\n"+
			"*Time:* %s",
		icon, company.ReviewStatus, company.Name, company.Website,
		models.RiskBadge(company.RiskLevel).Label, score, operator, time.Now().Format("15:04:05"),
	)

	jsonPayload, err := json.Marshal(SlackMessage{Text: messageBody})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(jsonPayload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Slack API returned error: %d", resp.StatusCode)
	}
	return nil
}
