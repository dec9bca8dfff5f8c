package handlers

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/logging"
)

const seededFields = `projects:
  data-one:
    project_number: "11"
  data-two:
    project_number: "22"
    failed_step: 3
`

func TestStatus_RecordedProjects(t *testing.T) {
	_, out := harness(t, nil)
	opts := testOptions(t)
	opts.ProjectYAML = ""
	require.NoError(t, os.WriteFile(opts.GeneratedFieldsPath, []byte(seededFields), 0o600))

	require.NoError(t, Status(context.Background(), opts, logging.Options{}))

	assert.Contains(t, out.String(), "[OK] data-one  deployed #11")
	assert.Contains(t, out.String(), "[??] data-two  failed at step 3")
}

func TestStatus_ConfiguredProjects(t *testing.T) {
	root := testRoot()
	root.Projects = append(root.Projects, &config.ProjectDefinition{ProjectID: "data-three"})
	_, out := harness(t, root)
	opts := testOptions(t)
	require.NoError(t, os.WriteFile(opts.GeneratedFieldsPath, []byte(seededFields), 0o600))

	require.NoError(t, Status(context.Background(), opts, logging.Options{}))

	assert.Contains(t, out.String(), "data-one")
	assert.Contains(t, out.String(), "[  ] data-three  not deployed")
	assert.NotContains(t, out.String(), "data-two")
}

func TestStatus_SelectionWithoutMatches(t *testing.T) {
	_, out := harness(t, nil)
	opts := testOptions(t)
	opts.ProjectYAML = ""
	opts.Projects = []string{"unknown-project"}
	require.NoError(t, os.WriteFile(opts.GeneratedFieldsPath, []byte(seededFields), 0o600))

	require.NoError(t, Status(context.Background(), opts, logging.Options{}))
	assert.Contains(t, out.String(), "no projects recorded")
}

func TestStatus_NoGeneratedFields(t *testing.T) {
	_, out := harness(t, nil)
	opts := testOptions(t)
	opts.ProjectYAML = ""

	require.NoError(t, Status(context.Background(), opts, logging.Options{}))
	assert.Contains(t, out.String(), "no projects recorded")
}
