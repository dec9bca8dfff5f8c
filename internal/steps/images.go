package steps

import (
	"fmt"

	"github.com/imamik/deployfleet/internal/provisioning"
)

// createComputeImages creates missing custom boot images. Existing images
// are never modified.
func (c *Catalog) createComputeImages(ctx *provisioning.Context) error {
	id := ctx.ProjectID()
	instances := ctx.Project.AllGCEInstances()
	if len(instances) == 0 {
		ctx.Observer.Printf("%s: no compute images required", id)
		return nil
	}

	for _, inst := range instances {
		img := inst.CustomBootImage
		if img == nil {
			continue
		}

		out, err := c.Runner.Gcloud(ctx, id,
			"compute", "images", "list", "--no-standard-images",
			"--filter", "name="+img.ImageName, "--format", "value(name)")
		if err != nil {
			return fmt.Errorf("failed to list images: %w", err)
		}
		if out != "" {
			provisioning.LogResourceExists(ctx.Observer, id, "image", img.ImageName)
			continue
		}

		if _, err := c.Runner.Gcloud(ctx, id,
			"compute", "images", "create", img.ImageName, "--source-uri", "gs://"+img.GCSPath); err != nil {
			return fmt.Errorf("failed to create image %s: %w", img.ImageName, err)
		}
		provisioning.LogResourceCreated(ctx.Observer, id, "image", img.ImageName)
	}
	return nil
}
