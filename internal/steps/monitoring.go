package steps

import (
	"fmt"
	"time"

	"github.com/imamik/deployfleet/internal/gcp"
	"github.com/imamik/deployfleet/internal/provisioning"
)

const monitoringInstructions = `
------------------------------------------------------------------------------
To create email alerts, this project needs a Stackdriver account.
Create a new Stackdriver account for this project by visiting:
    https://console.cloud.google.com/monitoring?project=%s

Only add this project, and skip steps for adding additional GCP or AWS
projects. You don't need to install Stackdriver Agents.

IMPORTANT: Wait about 5 minutes for the account to be created.

For more information, see: https://cloud.google.com/monitoring/accounts/

After the account is created, confirm to continue, or decline to skip the
creation of Stackdriver alerts.
------------------------------------------------------------------------------
`

// createMonitoringAccount waits for the operator to create the monitoring
// workspace, which cannot be automated. It polls until the workspace is
// visible or the operator declines.
func (c *Catalog) createMonitoringAccount(ctx *provisioning.Context) error {
	id := ctx.ProjectID()
	if ctx.Project.StackdriverAlertEmail == "" {
		ctx.Observer.Printf("%s: no Stackdriver alert email specified, skipping creation of Stackdriver account", id)
		return nil
	}

	if c.monitoringAccountExists(ctx) {
		provisioning.LogResourceExists(ctx.Observer, id, "Stackdriver account", id)
		return nil
	}

	_, _ = fmt.Fprintf(c.out(), monitoringInstructions, id)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := c.Confirmer.Confirm(ctx, "Account created?",
			fmt.Sprintf("Stackdriver account for project %s", id))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			ctx.Observer.Printf("%s: skipping creation of Stackdriver account", id)
			return nil
		}
		if c.monitoringAccountExists(ctx) {
			return nil
		}
		ctx.Observer.Printf("%s: Stackdriver account not visible yet", id)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.PollInterval):
		}
	}
}

func (c *Catalog) monitoringAccountExists(ctx *provisioning.Context) bool {
	ok, err := gcp.MonitoringAccountExists(ctx, c.Runner, ctx.ProjectID())
	if err != nil {
		ctx.Observer.Printf("%s: error reading Stackdriver account (likely does not exist): %v", ctx.ProjectID(), err)
	}
	return ok
}

// fixedAlerts are created in every project with an alert email.
var fixedAlerts = []gcp.AlertPolicy{
	{
		DisplayName:   "IAM Policy Change Alert",
		MetricName:    "iam-policy-change-count",
		ResourceTypes: []string{"global", "pubsub_topic", "pubsub_subscription", "gce_instance"},
		Documentation: "This policy ensures the designated user/group is notified when IAM policies are altered.",
	},
	{
		DisplayName:   "Bucket Permission Change Alert",
		MetricName:    "bucket-permission-change-count",
		ResourceTypes: []string{"gcs_bucket"},
		Documentation: "This policy ensures the designated user/group is notified when bucket/object permissions are altered.",
	},
	{
		DisplayName:   "Bigquery Update Alert",
		MetricName:    "bigquery-settings-change-count",
		ResourceTypes: []string{"global"},
		Documentation: "This policy ensures the designated user/group is notified when Bigquery dataset settings are altered.",
	},
}

// UnexpectedAccessAlert returns the alert for accesses to bucket by users
// outside its expected users.
func UnexpectedAccessAlert(bucket string) gcp.AlertPolicy {
	return gcp.AlertPolicy{
		DisplayName:   fmt.Sprintf("Unexpected Access to %s Alert", bucket),
		MetricName:    "unexpected-access-" + bucket,
		ResourceTypes: []string{"gcs_bucket"},
		Documentation: fmt.Sprintf("This policy ensures the designated user/group is notified when bucket %s is accessed by an unexpected user.", bucket),
	}
}

// AlertPolicies returns the alerts of a project, without channel.
func AlertPolicies(buckets []string) []gcp.AlertPolicy {
	policies := append([]gcp.AlertPolicy(nil), fixedAlerts...)
	for _, b := range buckets {
		policies = append(policies, UnexpectedAccessAlert(b))
	}
	return policies
}

// createAlerts creates the notification channel and the missing alerts.
func (c *Catalog) createAlerts(ctx *provisioning.Context) error {
	id := ctx.ProjectID()
	email := ctx.Project.StackdriverAlertEmail
	if email == "" {
		ctx.Observer.Printf("%s: no Stackdriver alert email specified, skipping creation of Stackdriver alerts", id)
		return nil
	}

	buckets, err := ctx.Project.AlertBuckets()
	if err != nil {
		return err
	}

	channels, err := gcp.NotificationChannels(ctx, c.Runner, id)
	if err != nil {
		return err
	}
	channel, ok := channels[email]
	if ok {
		provisioning.LogResourceExists(ctx.Observer, id, "notification channel", email)
	} else {
		if channel, err = gcp.CreateNotificationChannel(ctx, c.Runner, id, email); err != nil {
			return err
		}
		provisioning.LogResourceCreated(ctx.Observer, id, "notification channel", email)
	}

	existing, err := gcp.AlertPolicyNames(ctx, c.Runner, id)
	if err != nil {
		return err
	}

	for _, policy := range AlertPolicies(buckets) {
		if existing[policy.DisplayName] {
			provisioning.LogResourceExists(ctx.Observer, id, "alert policy", policy.DisplayName)
			continue
		}
		policy.Channel = channel
		if err := gcp.CreateAlertPolicy(ctx, c.Runner, id, policy); err != nil {
			return err
		}
		provisioning.LogResourceCreated(ctx.Observer, id, "alert policy", policy.DisplayName)
	}
	return nil
}
