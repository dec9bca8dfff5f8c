package gcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// AlertPolicy describes a log-metric alert that fires on any occurrence.
type AlertPolicy struct {
	DisplayName   string
	Documentation string
	MetricName    string   // user-defined log metric name
	ResourceTypes []string // one condition per monitored resource type
	Channel       string   // notification channel resource name
}

type policyJSON struct {
	DisplayName          string          `json:"displayName"`
	Documentation        documentation   `json:"documentation"`
	Conditions           []conditionJSON `json:"conditions"`
	Combiner             string          `json:"combiner"`
	NotificationChannels []string        `json:"notificationChannels"`
}

type documentation struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

type conditionJSON struct {
	DisplayName        string    `json:"displayName"`
	ConditionThreshold threshold `json:"conditionThreshold"`
}

type threshold struct {
	Filter         string  `json:"filter"`
	Comparison     string  `json:"comparison"`
	ThresholdValue float64 `json:"thresholdValue"`
	Duration       string  `json:"duration"`
}

// PolicyJSON renders the alert policy in the Monitoring API format.
func (p AlertPolicy) PolicyJSON() (string, error) {
	doc := policyJSON{
		DisplayName:          p.DisplayName,
		Documentation:        documentation{Content: p.Documentation, MimeType: "text/markdown"},
		Combiner:             "OR",
		NotificationChannels: []string{p.Channel},
	}
	for _, rt := range p.ResourceTypes {
		doc.Conditions = append(doc.Conditions, conditionJSON{
			DisplayName: fmt.Sprintf("No tolerance on %s on %s", p.MetricName, rt),
			ConditionThreshold: threshold{
				Filter: fmt.Sprintf(`resource.type="%s" AND metric.type="logging.googleapis.com/user/%s"`,
					rt, p.MetricName),
				Comparison:     "COMPARISON_GT",
				ThresholdValue: 0,
				Duration:       "0s",
			},
		})
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode alert policy %s: %w", p.DisplayName, err)
	}
	return string(data), nil
}

// CreateAlertPolicy creates the alert policy in the project.
func CreateAlertPolicy(ctx context.Context, r Runner, projectID string, p AlertPolicy) error {
	policy, err := p.PolicyJSON()
	if err != nil {
		return err
	}
	if _, err := r.Gcloud(ctx, projectID, "alpha", "monitoring", "policies", "create", "--policy", policy); err != nil {
		return fmt.Errorf("failed to create alert policy %s: %w", p.DisplayName, err)
	}
	return nil
}

// AlertPolicyNames returns the display names of existing alert policies.
func AlertPolicyNames(ctx context.Context, r Runner, projectID string) (map[string]bool, error) {
	out, err := r.Gcloud(ctx, projectID, "alpha", "monitoring", "policies", "list", "--format", "value(displayName)")
	if err != nil {
		return nil, fmt.Errorf("failed to list alert policies: %w", err)
	}
	names := make(map[string]bool)
	for _, line := range Lines(out) {
		names[line] = true
	}
	return names, nil
}

// MonitoringAccountExists probes whether the project has a monitoring
// (Stackdriver) workspace by listing its alert policies.
func MonitoringAccountExists(ctx context.Context, r Runner, projectID string) (bool, error) {
	if _, err := r.Gcloud(ctx, projectID, "alpha", "monitoring", "policies", "list"); err != nil {
		return false, err
	}
	return true, nil
}

// NotificationChannels maps email addresses to existing channel names.
func NotificationChannels(ctx context.Context, r Runner, projectID string) (map[string]string, error) {
	out, err := r.Gcloud(ctx, projectID, "alpha", "monitoring", "channels", "list",
		"--format", "value(name,labels.email_address)")
	if err != nil {
		return nil, fmt.Errorf("failed to list notification channels: %w", err)
	}
	channels := make(map[string]string)
	for _, line := range Lines(out) {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			// Non-email channels have no address.
			continue
		}
		channels[fields[1]] = fields[0]
	}
	return channels, nil
}

// CreateNotificationChannel creates an email channel and returns its name.
func CreateNotificationChannel(ctx context.Context, r Runner, projectID, email string) (string, error) {
	out, err := r.Gcloud(ctx, projectID, "alpha", "monitoring", "channels", "create",
		"--display-name", "Email",
		"--type", "email",
		"--channel-labels", "email_address="+email,
		"--format", "value(name)")
	if err != nil {
		return "", fmt.Errorf("failed to create notification channel for %s: %w", email, err)
	}
	return strings.TrimSpace(out), nil
}
