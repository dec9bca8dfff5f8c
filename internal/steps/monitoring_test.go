package steps

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/gcp"
	"github.com/imamik/deployfleet/internal/prompt"
)

func TestCreateMonitoringAccount_NoEmail(t *testing.T) {
	t.Parallel()
	r := &gcp.MockRunner{}
	ctx := newContext(t, nil, &config.ProjectDefinition{ProjectID: projectID})

	require.NoError(t, newCatalog(r).createMonitoringAccount(ctx))
	assert.Empty(t, r.Calls())
}

func TestCreateMonitoringAccount_Exists(t *testing.T) {
	t.Parallel()
	r := &gcp.MockRunner{}
	seq := &prompt.Sequence{}
	c := newCatalog(r)
	c.Confirmer = seq
	ctx := newContext(t, nil, &config.ProjectDefinition{ProjectID: projectID, StackdriverAlertEmail: "ops@example.com"})

	require.NoError(t, c.createMonitoringAccount(ctx))
	assert.Zero(t, seq.Asked)
}

func TestCreateMonitoringAccount_PollsUntilReady(t *testing.T) {
	t.Parallel()
	probes := 0
	r := &gcp.MockRunner{GcloudFunc: func(context.Context, string, ...string) (string, error) {
		probes++
		if probes < 3 {
			return "", errors.New("no workspace")
		}
		return "", nil
	}}
	seq := &prompt.Sequence{Replies: []bool{true, true}}
	out := &bytes.Buffer{}
	c := newCatalog(r)
	c.Confirmer = seq
	c.Out = out
	ctx := newContext(t, nil, &config.ProjectDefinition{ProjectID: projectID, StackdriverAlertEmail: "ops@example.com"})

	require.NoError(t, c.createMonitoringAccount(ctx))
	assert.Equal(t, 3, probes)
	assert.Equal(t, 2, seq.Asked)
	assert.Contains(t, out.String(), "https://console.cloud.google.com/monitoring?project=data-project-1")
}

func TestCreateMonitoringAccount_OperatorDeclines(t *testing.T) {
	t.Parallel()
	r := &gcp.MockRunner{GcloudFunc: func(context.Context, string, ...string) (string, error) {
		return "", errors.New("no workspace")
	}}
	c := newCatalog(r)
	ctx := newContext(t, nil, &config.ProjectDefinition{ProjectID: projectID, StackdriverAlertEmail: "ops@example.com"})

	require.NoError(t, c.createMonitoringAccount(ctx), "declining skips without failing the step")
	assert.Len(t, r.Calls(), 1)
}

func TestCreateMonitoringAccount_StopsWhenContextEnds(t *testing.T) {
	t.Parallel()
	r := &gcp.MockRunner{GcloudFunc: func(context.Context, string, ...string) (string, error) {
		return "", errors.New("no workspace")
	}}
	c := newCatalog(r)
	c.Confirmer = prompt.Static(true)
	ctx := newContext(t, nil, &config.ProjectDefinition{ProjectID: projectID, StackdriverAlertEmail: "ops@example.com"})
	timeout, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	ctx.Context = timeout

	err := c.createMonitoringAccount(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, len(r.Calls()), 100, "checks are spaced by the poll interval")
}

func TestAlertPolicies(t *testing.T) {
	t.Parallel()
	policies := AlertPolicies([]string{"data-bucket"})

	require.Len(t, policies, 4)
	assert.Equal(t, "IAM Policy Change Alert", policies[0].DisplayName)
	assert.Equal(t, "Bucket Permission Change Alert", policies[1].DisplayName)
	assert.Equal(t, "Bigquery Update Alert", policies[2].DisplayName)
	assert.Equal(t, "Unexpected Access to data-bucket Alert", policies[3].DisplayName)
	assert.Equal(t, "unexpected-access-data-bucket", policies[3].MetricName)
}

func TestCreateAlerts(t *testing.T) {
	t.Parallel()
	f := &fakeGcloud{responses: map[string]string{
		"alpha monitoring channels list": "projects/p/notificationChannels/7 ops@example.com",
		"alpha monitoring policies list": "IAM Policy Change Alert\nBigquery Update Alert",
	}}
	r := f.runner()
	ctx := newContext(t, nil, &config.ProjectDefinition{
		ProjectID:             projectID,
		StackdriverAlertEmail: "ops@example.com",
		DataBuckets: []config.DataBucket{
			{NameSuffix: "-raw", ExpectedUsers: []string{"a@example.com"}},
			{Name: "no-alert"},
		},
		Resources: config.Resources{GCSBuckets: []config.GCSBucket{
			{Properties: config.BucketProperties{Name: "curated"}, ExpectedUsers: []string{"b@example.com"}},
		}},
	})

	require.NoError(t, newCatalog(r).createAlerts(ctx))

	var created []string
	for _, cmd := range gcloudCommands(r) {
		if strings.HasPrefix(cmd, "alpha monitoring channels create") {
			t.Fatalf("existing channel must be reused, got %q", cmd)
		}
		if strings.HasPrefix(cmd, "alpha monitoring policies create") {
			created = append(created, cmd)
		}
	}
	require.Len(t, created, 3)
	assert.Contains(t, created[0], "Bucket Permission Change Alert")
	assert.Contains(t, created[1], "Unexpected Access to data-project-1-raw Alert")
	assert.Contains(t, created[2], "Unexpected Access to curated Alert")
	assert.Contains(t, created[0], "projects/p/notificationChannels/7")
}

func TestCreateAlerts_CreatesChannel(t *testing.T) {
	t.Parallel()
	f := &fakeGcloud{responses: map[string]string{
		"alpha monitoring channels create": "projects/p/notificationChannels/9",
	}}
	r := f.runner()
	ctx := newContext(t, nil, &config.ProjectDefinition{ProjectID: projectID, StackdriverAlertEmail: "ops@example.com"})

	require.NoError(t, newCatalog(r).createAlerts(ctx))

	cmds := gcloudCommands(r)
	assert.Contains(t, cmds[1], "alpha monitoring channels create")
	assert.Contains(t, cmds[len(cmds)-1], "projects/p/notificationChannels/9")
}

func TestCreateAlerts_NoEmail(t *testing.T) {
	t.Parallel()
	r := &gcp.MockRunner{}
	ctx := newContext(t, nil, &config.ProjectDefinition{ProjectID: projectID})

	require.NoError(t, newCatalog(r).createAlerts(ctx))
	assert.Empty(t, r.Calls())
}
