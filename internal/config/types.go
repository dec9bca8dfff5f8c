package config

// RootConfig is the full declarative input for one run.
// It is read-only once loaded.
type RootConfig struct {
	Overall          Overall              `yaml:"overall"`
	AuditLogsProject *ProjectDefinition   `yaml:"audit_logs_project,omitempty"`
	Forseti          *ForsetiConfig       `yaml:"forseti,omitempty"`
	Projects         []*ProjectDefinition `yaml:"projects,omitempty"`
}

// Overall holds the settings shared by every project.
type Overall struct {
	OrganizationID string `yaml:"organization_id,omitempty"`
	FolderID       string `yaml:"folder_id,omitempty"`
	BillingAccount string `yaml:"billing_account"`

	// AllowedAPIs is nil when no allowlist is declared. An empty, non-nil
	// list declares an allowlist that permits nothing.
	AllowedAPIs []string `yaml:"allowed_apis,omitempty"`

	Extra map[string]any `yaml:",inline"`
}

// ForsetiConfig describes the fleet-management project.
type ForsetiConfig struct {
	Project *ProjectDefinition `yaml:"project"`

	Extra map[string]any `yaml:",inline"`
}

// ProjectDefinition is the declarative configuration of a single project.
// Keys that only the external apply binary understands are kept in Extra.
type ProjectDefinition struct {
	ProjectID             string        `yaml:"project_id"`
	FolderID              string        `yaml:"folder_id,omitempty"`
	BillingAccount        string        `yaml:"billing_account,omitempty"`
	EnabledAPIs           []string      `yaml:"enabled_apis,omitempty"`
	CreateDeletionLien    bool          `yaml:"create_deletion_lien,omitempty"`
	StackdriverAlertEmail string        `yaml:"stackdriver_alert_email,omitempty"`
	DataBuckets           []DataBucket  `yaml:"data_buckets,omitempty"`
	GCEInstances          []GCEInstance `yaml:"gce_instances,omitempty"`
	Resources             Resources     `yaml:"resources,omitempty"`

	Extra map[string]any `yaml:",inline"`
}

// Resources are the resource declarations applied by the external apply binary.
// Only the kinds this tool inspects are typed.
type Resources struct {
	GCEInstances   []GCEInstance    `yaml:"gce_instances,omitempty"`
	GCSBuckets     []GCSBucket      `yaml:"gcs_buckets,omitempty"`
	IAMPolicies    []map[string]any `yaml:"iam_policies,omitempty"`
	IAMCustomRoles []map[string]any `yaml:"iam_custom_roles,omitempty"`
	CHCDatasets    []map[string]any `yaml:"chc_datasets,omitempty"`
	GKEClusters    []map[string]any `yaml:"gke_clusters,omitempty"`

	Extra map[string]any `yaml:",inline"`

	declared keySet
}

// DataBucket is a legacy bucket declaration. Exactly one of Name and
// NameSuffix must be set.
type DataBucket struct {
	Name          string   `yaml:"name,omitempty"`
	NameSuffix    string   `yaml:"name_suffix,omitempty"`
	ExpectedUsers []string `yaml:"expected_users,omitempty"`

	Extra map[string]any `yaml:",inline"`

	declared keySet
}

// GCSBucket is a bucket declared under resources.gcs_buckets.
type GCSBucket struct {
	Properties    BucketProperties `yaml:"properties"`
	ExpectedUsers []string         `yaml:"expected_users,omitempty"`

	Extra map[string]any `yaml:",inline"`

	declared keySet
}

// BucketProperties holds the bucket fields this tool reads.
type BucketProperties struct {
	Name string `yaml:"name,omitempty"`

	Extra map[string]any `yaml:",inline"`
}

// GCEInstance is a compute instance declaration.
type GCEInstance struct {
	Name            string           `yaml:"name,omitempty"`
	CustomBootImage *CustomBootImage `yaml:"custom_boot_image,omitempty"`

	Extra map[string]any `yaml:",inline"`
}

// CustomBootImage is a VM image created from an object in Cloud Storage.
type CustomBootImage struct {
	ImageName string `yaml:"image_name"`
	GCSPath   string `yaml:"gcs_path"`
}
