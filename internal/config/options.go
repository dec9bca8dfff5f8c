package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Binaries holds the paths of the external programs a run invokes.
type Binaries struct {
	Apply              string // applies a project's resource templates
	ForsetiInstaller   string // installs the fleet-management software
	RuleGenerator      string // generates fleet-wide rules after a successful run
	GrantForsetiAccess string // grants the forseti service account access to a project
	LoadConfig         string // optional: resolves the project YAML (imports, templates)
}

// StateMirror configures an S3-compatible replica of the generated fields file.
// Cloud Storage is reachable through its interoperability endpoint with HMAC keys.
type StateMirror struct {
	Bucket    string
	Key       string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	PathStyle bool
}

// Enabled reports whether a mirror bucket is configured.
func (m StateMirror) Enabled() bool {
	return m.Bucket != ""
}

// Options is the process configuration built once by the command layer and
// passed to every component that needs it.
type Options struct {
	ProjectYAML         string
	GeneratedFieldsPath string
	Projects            []string
	OutputRulesPath     string
	Binaries            Binaries
	EnableTerraform     bool
	DryRun              bool
	Mirror              StateMirror
	MetricsFile         string
	Interactive         bool
}

// Normalize expands a leading ~ and makes local paths absolute.
// Rule output paths on Cloud Storage (gs://) are left untouched.
func (o *Options) Normalize() error {
	var err error
	if o.ProjectYAML, err = normalizePath(o.ProjectYAML); err != nil {
		return err
	}
	if o.GeneratedFieldsPath, err = normalizePath(o.GeneratedFieldsPath); err != nil {
		return err
	}
	if o.OutputRulesPath != "" && !strings.HasPrefix(o.OutputRulesPath, "gs://") {
		if o.OutputRulesPath, err = normalizePath(o.OutputRulesPath); err != nil {
			return err
		}
	}
	if o.MetricsFile != "" {
		if o.MetricsFile, err = normalizePath(o.MetricsFile); err != nil {
			return err
		}
	}
	if len(o.Projects) == 0 {
		o.Projects = []string{"*"}
	}
	return nil
}

// Validate checks the options required for a deployment run.
func (o *Options) Validate() error {
	if o.ProjectYAML == "" {
		return errors.New("--project-yaml is required")
	}
	if o.GeneratedFieldsPath == "" {
		return errors.New("--generated-fields-path is required")
	}
	if o.GeneratedFieldsPath == o.ProjectYAML {
		return errors.New("--generated-fields-path must not be set to the same as --project-yaml")
	}

	required := map[string]string{
		"--apply-binary":                o.Binaries.Apply,
		"--apply-forseti-binary":        o.Binaries.ForsetiInstaller,
		"--rule-generator-binary":       o.Binaries.RuleGenerator,
		"--grant-forseti-access-binary": o.Binaries.GrantForsetiAccess,
	}
	for _, flag := range []string{"--apply-binary", "--apply-forseti-binary", "--rule-generator-binary", "--grant-forseti-access-binary"} {
		if required[flag] == "" {
			return fmt.Errorf("%s is required", flag)
		}
	}

	if o.Mirror.Enabled() && (o.Mirror.AccessKey == "" || o.Mirror.SecretKey == "") {
		return errors.New("state mirror requires access and secret keys")
	}
	return nil
}

func normalizePath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", p, err)
	}
	return abs, nil
}
