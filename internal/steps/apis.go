package steps

import (
	"fmt"
	"sort"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/provisioning"
)

// apiBatchSize bounds the APIs per enable call to stay within quota.
const apiBatchSize = 10

// DesiredAPIs returns the sorted set of APIs a project needs: the declared
// ones, the APIs the deployment itself uses and those implied by the
// declared resource kinds.
func DesiredAPIs(p *config.ProjectDefinition) []string {
	want := map[string]bool{
		"deploymentmanager.googleapis.com":    true,
		"cloudresourcemanager.googleapis.com": true,
	}
	for _, api := range p.EnabledAPIs {
		want[api] = true
	}

	r := p.Resources
	if r.Declares("gce_instances") {
		want["compute.googleapis.com"] = true
	}
	if r.Declares("iam_policies") || r.Declares("iam_custom_roles") {
		want["iam.googleapis.com"] = true
	}
	if r.Declares("chc_datasets") {
		want["healthcare.googleapis.com"] = true
	}
	if r.Declares("gke_clusters") {
		want["container.googleapis.com"] = true
	}

	apis := make([]string, 0, len(want))
	for api := range want {
		apis = append(apis, api)
	}
	sort.Strings(apis)
	return apis
}

func (c *Catalog) enableAPIs(ctx *provisioning.Context) error {
	apis := DesiredAPIs(ctx.Project)
	for start := 0; start < len(apis); start += apiBatchSize {
		end := min(start+apiBatchSize, len(apis))
		args := append([]string{"services", "enable"}, apis[start:end]...)
		if _, err := c.Runner.Gcloud(ctx, ctx.ProjectID(), args...); err != nil {
			return fmt.Errorf("failed to enable APIs: %w", err)
		}
	}
	return nil
}
