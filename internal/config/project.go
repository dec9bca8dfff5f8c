package config

import "fmt"

// HasForseti reports whether a fleet-management project is configured.
func (c *RootConfig) HasForseti() bool {
	return c.Forseti != nil && c.Forseti.Project != nil
}

// ForsetiProject returns the fleet-management project definition, or nil.
func (c *RootConfig) ForsetiProject() *ProjectDefinition {
	if !c.HasForseti() {
		return nil
	}
	return c.Forseti.Project
}

// AllProjects returns every project definition in deployment order:
// audit logs, forseti, then the ordinary projects as declared.
func (c *RootConfig) AllProjects() []*ProjectDefinition {
	var all []*ProjectDefinition
	if c.AuditLogsProject != nil {
		all = append(all, c.AuditLogsProject)
	}
	if c.HasForseti() {
		all = append(all, c.Forseti.Project)
	}
	for _, p := range c.Projects {
		if p != nil {
			all = append(all, p)
		}
	}
	return all
}

// BillingAccountOr returns the project's billing account, falling back to
// the overall one.
func (p *ProjectDefinition) BillingAccountOr(overall Overall) string {
	if p.BillingAccount != "" {
		return p.BillingAccount
	}
	return overall.BillingAccount
}

// Parent returns the parent resource flag and id for project creation.
// A folder (project override first) wins over the organization. Both
// return values are empty when the project has no parent.
func (p *ProjectDefinition) Parent(overall Overall) (flag, id string) {
	folder := p.FolderID
	if folder == "" {
		folder = overall.FolderID
	}
	switch {
	case folder != "":
		return "--folder", folder
	case overall.OrganizationID != "":
		return "--organization", overall.OrganizationID
	default:
		return "", ""
	}
}

// AllGCEInstances returns the legacy top-level instances followed by the
// ones declared under resources.
func (p *ProjectDefinition) AllGCEInstances() []GCEInstance {
	out := make([]GCEInstance, 0, len(p.GCEInstances)+len(p.Resources.GCEInstances))
	out = append(out, p.GCEInstances...)
	out = append(out, p.Resources.GCEInstances...)
	return out
}

// AlertBuckets returns the names of all buckets that declare expected users,
// data buckets first, in declared order. Each yields an unexpected-access alert.
func (p *ProjectDefinition) AlertBuckets() ([]string, error) {
	var names []string
	for _, b := range p.DataBuckets {
		if !b.HasExpectedUsers() {
			continue
		}
		name, err := DataBucketName(b, p.ProjectID)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	for i, b := range p.Resources.GCSBuckets {
		if !b.HasExpectedUsers() {
			continue
		}
		if b.Properties.Name == "" {
			return nil, fmt.Errorf("%w: project %s gcs_buckets[%d]: GCS bucket must contain name",
				ErrInvalidConfig, p.ProjectID, i)
		}
		names = append(names, b.Properties.Name)
	}
	return names, nil
}

// DataBucketName resolves the bucket name: either the explicit name or the
// project id followed by the name suffix.
func DataBucketName(b DataBucket, projectID string) (string, error) {
	switch {
	case b.Name != "" && b.NameSuffix != "":
		return "", fmt.Errorf("%w: project %s: data buckets must not contain both name and name_suffix",
			ErrInvalidConfig, projectID)
	case b.Name != "":
		return b.Name, nil
	case b.NameSuffix != "":
		return projectID + b.NameSuffix, nil
	default:
		return "", fmt.Errorf("%w: project %s: data buckets must contain either name or name_suffix",
			ErrInvalidConfig, projectID)
	}
}
