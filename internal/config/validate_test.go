package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *RootConfig {
	return &RootConfig{
		Overall: Overall{BillingAccount: "000000-000000-000000"},
		Projects: []*ProjectDefinition{
			{ProjectID: "my-project-1"},
			{ProjectID: "my-project-2"},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_NullProjectEntrySkipped(t *testing.T) {
	t.Parallel()
	c := validConfig()
	c.Projects = append(c.Projects, nil)
	assert.NoError(t, c.Validate())
	assert.Len(t, c.AllProjects(), 2)
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *RootConfig)
		wantMsg string
	}{
		{
			name:    "missing billing account",
			mutate:  func(c *RootConfig) { c.Overall.BillingAccount = "" },
			wantMsg: "billing_account is required",
		},
		{
			name:    "forseti without project",
			mutate:  func(c *RootConfig) { c.Forseti = &ForsetiConfig{} },
			wantMsg: "forseti.project is required",
		},
		{
			name:    "missing project id",
			mutate:  func(c *RootConfig) { c.Projects[0].ProjectID = "" },
			wantMsg: "project_id is required",
		},
		{
			name:    "malformed project id",
			mutate:  func(c *RootConfig) { c.Projects[0].ProjectID = "Bad_ID" },
			wantMsg: `invalid project_id "Bad_ID"`,
		},
		{
			name: "duplicate across audit logs and projects",
			mutate: func(c *RootConfig) {
				c.AuditLogsProject = &ProjectDefinition{ProjectID: "my-project-2"}
			},
			wantMsg: `duplicate project_id "my-project-2"`,
		},
		{
			name: "bucket with name and suffix",
			mutate: func(c *RootConfig) {
				c.Projects[0].DataBuckets = []DataBucket{{Name: "a", NameSuffix: "-b"}}
			},
			wantMsg: "must not contain both name and name_suffix",
		},
		{
			name: "bucket with neither name nor suffix",
			mutate: func(c *RootConfig) {
				c.Projects[1].DataBuckets = []DataBucket{{ExpectedUsers: []string{"u@example.com"}}}
			},
			wantMsg: "must contain either name or name_suffix",
		},
		{
			name: "gcs bucket with expected users but no name",
			mutate: func(c *RootConfig) {
				c.Projects[0].Resources.GCSBuckets = []GCSBucket{{ExpectedUsers: []string{"u@example.com"}}}
			},
			wantMsg: "GCS bucket must contain name",
		},
		{
			name: "custom image without path",
			mutate: func(c *RootConfig) {
				c.Projects[0].GCEInstances = []GCEInstance{{Name: "vm", CustomBootImage: &CustomBootImage{ImageName: "img"}}}
			},
			wantMsg: "requires image_name and gcs_path",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
