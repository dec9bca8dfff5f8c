package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() *Options {
	return &Options{
		ProjectYAML:         "/cfg/projects.yaml",
		GeneratedFieldsPath: "/cfg/generated.yaml",
		Binaries: Binaries{
			Apply:              "/bin/apply",
			ForsetiInstaller:   "/bin/forseti",
			RuleGenerator:      "/bin/rules",
			GrantForsetiAccess: "/bin/grant",
		},
	}
}

func TestOptionsValidate(t *testing.T) {
	t.Parallel()
	require.NoError(t, validOptions().Validate())

	tests := []struct {
		name    string
		mutate  func(o *Options)
		wantMsg string
	}{
		{"no project yaml", func(o *Options) { o.ProjectYAML = "" }, "--project-yaml is required"},
		{"no generated fields", func(o *Options) { o.GeneratedFieldsPath = "" }, "--generated-fields-path is required"},
		{"same paths", func(o *Options) { o.GeneratedFieldsPath = o.ProjectYAML }, "must not be set to the same"},
		{"no apply binary", func(o *Options) { o.Binaries.Apply = "" }, "--apply-binary is required"},
		{"no grant binary", func(o *Options) { o.Binaries.GrantForsetiAccess = "" }, "--grant-forseti-access-binary is required"},
		{"mirror without keys", func(o *Options) { o.Mirror.Bucket = "state" }, "access and secret keys"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := validOptions()
			tt.mutate(o)
			err := o.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestOptionsNormalize(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	o := &Options{
		ProjectYAML:         "~/projects.yaml",
		GeneratedFieldsPath: "relative/generated.yaml",
		OutputRulesPath:     "gs://rules-bucket/rules",
	}
	require.NoError(t, o.Normalize())

	assert.Equal(t, "/home/tester/projects.yaml", o.ProjectYAML)
	assert.True(t, filepath.IsAbs(o.GeneratedFieldsPath))
	assert.Equal(t, "gs://rules-bucket/rules", o.OutputRulesPath)
	assert.Equal(t, []string{"*"}, o.Projects)
}
