package steps

import (
	"fmt"

	"github.com/imamik/deployfleet/internal/gcp"
	"github.com/imamik/deployfleet/internal/provisioning"
	"github.com/imamik/deployfleet/internal/state"
)

// generateProjectFields refreshes the log sink writer identity and, when
// instances are declared under resources, their ids.
func (c *Catalog) generateProjectFields(ctx *provisioning.Context) error {
	id := ctx.ProjectID()

	sa, err := gcp.LogSinkServiceAccount(ctx, c.Runner, id, gcp.LogSinkName)
	if err != nil {
		return err
	}
	fields := ctx.Fields()
	fields.LogSinkServiceAccount = sa

	if !ctx.Project.Resources.Declares("gce_instances") {
		fields.GCEInstanceInfo = nil
		return nil
	}

	instances, err := gcp.InstanceInfo(ctx, c.Runner, id)
	if err != nil {
		return fmt.Errorf("failed to get instance info: %w", err)
	}
	if len(instances) > 0 {
		info := make([]state.InstanceInfo, 0, len(instances))
		for _, inst := range instances {
			info = append(info, state.InstanceInfo{Name: inst.Name, ID: inst.ID})
		}
		fields.GCEInstanceInfo = info
	}
	return nil
}
