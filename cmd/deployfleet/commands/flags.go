package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/platform/s3"
)

func bindConfigFlags(cmd *cobra.Command, opts *config.Options) {
	cmd.Flags().StringVarP(&opts.ProjectYAML, "project-yaml", "c", "", "Path to the project configuration YAML")
	cmd.Flags().StringVarP(&opts.GeneratedFieldsPath, "generated-fields-path", "g", "", "Path to the generated fields file")
	cmd.Flags().StringSliceVar(&opts.Projects, "projects", []string{"*"}, "Project ids to deploy, or * for all")
	cmd.Flags().StringVar(&opts.Binaries.LoadConfig, "load-config-binary", "", "Binary resolving the project YAML (imports, templates)")
}

func bindMirrorFlags(cmd *cobra.Command, m *config.StateMirror) {
	cmd.Flags().StringVar(&m.Bucket, "state-bucket", "", "Bucket mirroring the generated fields (S3-compatible)")
	cmd.Flags().StringVar(&m.Key, "state-key", "generated_fields.yaml", "Object key of the mirrored generated fields")
	cmd.Flags().StringVar(&m.Endpoint, "state-endpoint", s3.DefaultEndpoint, "S3-compatible endpoint of the state bucket")
	cmd.Flags().StringVar(&m.Region, "state-region", s3.DefaultRegion, "Region of the state bucket")
	cmd.Flags().BoolVar(&m.PathStyle, "state-path-style", false, "Use path-style bucket addressing")
}
