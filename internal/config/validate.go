package config

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidConfig is wrapped by every structural configuration error.
var ErrInvalidConfig = errors.New("invalid config")

// projectIDRegex matches Google Cloud project ids: 6-30 lowercase letters,
// digits or hyphens, starting with a letter and not ending with a hyphen.
var projectIDRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{4,28}[a-z0-9]$`)

// Validate checks the configuration for structural errors. It runs once at
// load time so later components can rely on the typed fields.
func (c *RootConfig) Validate() error {
	if c.Overall.BillingAccount == "" {
		return fmt.Errorf("%w: overall.billing_account is required", ErrInvalidConfig)
	}

	if c.Forseti != nil && c.Forseti.Project == nil {
		return fmt.Errorf("%w: forseti.project is required when forseti is set", ErrInvalidConfig)
	}

	if err := c.validateProjectIDs(); err != nil {
		return err
	}

	for _, p := range c.AllProjects() {
		if err := p.validateBuckets(); err != nil {
			return err
		}
		if err := p.validateImages(); err != nil {
			return err
		}
	}

	return nil
}

// validateProjectIDs ensures every project has a well-formed id that is
// unique across the whole configuration. Null entries under projects are
// skipped.
func (c *RootConfig) validateProjectIDs() error {
	seen := make(map[string]bool)
	for _, p := range c.AllProjects() {
		if p.ProjectID == "" {
			return fmt.Errorf("%w: project_id is required for every project", ErrInvalidConfig)
		}
		if !projectIDRegex.MatchString(p.ProjectID) {
			return fmt.Errorf("%w: invalid project_id %q", ErrInvalidConfig, p.ProjectID)
		}
		if seen[p.ProjectID] {
			return fmt.Errorf("%w: duplicate project_id %q", ErrInvalidConfig, p.ProjectID)
		}
		seen[p.ProjectID] = true
	}
	return nil
}

func (p *ProjectDefinition) validateBuckets() error {
	for _, b := range p.DataBuckets {
		if _, err := DataBucketName(b, p.ProjectID); err != nil {
			return err
		}
	}
	_, err := p.AlertBuckets()
	return err
}

func (p *ProjectDefinition) validateImages() error {
	for _, inst := range p.AllGCEInstances() {
		img := inst.CustomBootImage
		if img == nil {
			continue
		}
		if img.ImageName == "" || img.GCSPath == "" {
			return fmt.Errorf("%w: project %s instance %q: custom_boot_image requires image_name and gcs_path",
				ErrInvalidConfig, p.ProjectID, inst.Name)
		}
	}
	return nil
}
