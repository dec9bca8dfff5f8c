package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/deployfleet/internal/config"
)

// configLoader runs the optional load-config binary.
type configLoader interface {
	BinaryOutput(ctx context.Context, path string, args ...string) (string, error)
}

// loadRootConfig loads the project configuration, through the load-config
// binary when one is set.
func loadRootConfig(ctx context.Context, opts *config.Options, loader configLoader) (*config.RootConfig, error) {
	if opts.Binaries.LoadConfig == "" {
		root, err := loadConfigFile(opts.ProjectYAML)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return root, nil
	}

	out, err := loader.BinaryOutput(ctx, opts.Binaries.LoadConfig,
		"--project_yaml_path", opts.ProjectYAML,
		"--generated_fields_path", opts.GeneratedFieldsPath,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	root, err := config.Parse([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", opts.Binaries.LoadConfig, err)
	}
	return root, nil
}
