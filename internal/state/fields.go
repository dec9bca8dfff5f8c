package state

// ProjectFields holds the generated facts of one project.
//
// FailedStep is the 1-based number of the step that failed during an
// incomplete first-ever deployment. Zero means the project's last setup
// completed (or was never checkpointed).
type ProjectFields struct {
	ProjectNumber         string         `yaml:"project_number,omitempty"`
	LogSinkServiceAccount string         `yaml:"log_sink_service_account,omitempty"`
	GCEInstanceInfo       []InstanceInfo `yaml:"gce_instance_info,omitempty"`
	FailedStep            int            `yaml:"failed_step,omitempty"`

	// Extra keeps keys written by external binaries.
	Extra map[string]any `yaml:",inline"`
}

// InstanceInfo is the name and numeric id of a compute instance.
type InstanceInfo struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"`
}

// ForsetiFields holds the outputs of the fleet-management installation.
type ForsetiFields struct {
	ServiceAccount string `yaml:"service_account,omitempty"`
	ServerBucket   string `yaml:"server_bucket,omitempty"`

	Extra map[string]any `yaml:",inline"`
}

// Checkpoint records that the given 1-based step failed.
func (f *ProjectFields) Checkpoint(step int) {
	f.FailedStep = step
}

// ClearCheckpoint marks the project as fully deployed.
func (f *ProjectFields) ClearCheckpoint() {
	f.FailedStep = 0
}

// Deployed reports whether the last setup of the project completed.
func (f *ProjectFields) Deployed() bool {
	return f != nil && f.FailedStep == 0
}

// document is the persisted file layout.
type document struct {
	Projects map[string]*ProjectFields `yaml:"projects,omitempty"`
	Forseti  *ForsetiFields            `yaml:"forseti,omitempty"`

	Extra map[string]any `yaml:",inline"`
}
