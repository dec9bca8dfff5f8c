package handlers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/gcp"
	"github.com/imamik/deployfleet/internal/logging"
	"github.com/imamik/deployfleet/internal/prompt"
	"github.com/imamik/deployfleet/internal/util/prerequisites"
)

// saveAndRestoreFactories saves the current factory functions and restores
// them when the test ends.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origNewLogger := newLogger
	origNewRunner := newRunner
	origNewConfirmer := newConfirmer
	origCheckTools := checkTools
	origLoadConfigFile := loadConfigFile
	origNewS3Client := newS3Client
	origLookupEnv := lookupEnv
	origStdout := stdout
	origStyledOutput := styledOutput

	t.Cleanup(func() {
		newLogger = origNewLogger
		newRunner = origNewRunner
		newConfirmer = origNewConfirmer
		checkTools = origCheckTools
		loadConfigFile = origLoadConfigFile
		newS3Client = origNewS3Client
		lookupEnv = origLookupEnv
		stdout = origStdout
		styledOutput = origStyledOutput
	})
}

// fakeRunner is a gcp.MockRunner that can also serve the load-config binary.
type fakeRunner struct {
	*gcp.MockRunner

	mu         sync.Mutex
	configYAML string
	loadCalls  [][]string
}

func (f *fakeRunner) BinaryOutput(_ context.Context, path string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls = append(f.loadCalls, append([]string{path}, args...))
	return f.configYAML, nil
}

// harness installs fakes for every external collaborator and returns the
// runner and the captured stdout.
func harness(t *testing.T, root *config.RootConfig) (*fakeRunner, *bytes.Buffer) {
	t.Helper()
	saveAndRestoreFactories(t)

	runner := &fakeRunner{MockRunner: &gcp.MockRunner{}}
	out := &bytes.Buffer{}

	newLogger = func(logging.Options) logr.Logger { return logr.Discard() }
	newRunner = func(*config.Timeouts, bool, logr.Logger) Runner { return runner }
	newConfirmer = func(bool) prompt.Confirmer { return prompt.Static(false) }
	checkTools = func([]prerequisites.Tool) *prerequisites.CheckResults { return &prerequisites.CheckResults{} }
	loadConfigFile = func(string) (*config.RootConfig, error) { return root, nil }
	lookupEnv = func(string) (string, bool) { return "", false }
	stdout = out
	styledOutput = func() bool { return false }

	return runner, out
}

func testRoot() *config.RootConfig {
	return &config.RootConfig{
		Overall:  config.Overall{BillingAccount: "000000-111111-222222"},
		Projects: []*config.ProjectDefinition{{ProjectID: "data-one"}},
	}
}

func testOptions(t *testing.T) *config.Options {
	t.Helper()
	dir := t.TempDir()
	return &config.Options{
		ProjectYAML:         filepath.Join(dir, "projects.yaml"),
		GeneratedFieldsPath: filepath.Join(dir, "generated_fields.yaml"),
		Binaries: config.Binaries{
			Apply:              "/bin/apply",
			ForsetiInstaller:   "/bin/forseti_installer",
			RuleGenerator:      "/bin/rule_generator",
			GrantForsetiAccess: "/bin/grant_forseti_access",
		},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func containsCommand(cmds []string, prefix string) bool {
	for _, c := range cmds {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
