// Package prerequisites checks that the command line tools and external
// binaries a deployment shells out to are available.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a program that may be required.
type Tool struct {
	// Name is the binary name looked up in PATH, or a path to the binary.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string

	// VersionArgs, when set, are used to query the tool's version.
	VersionArgs []string
}

// Gcloud returns the Google Cloud CLI tool.
func Gcloud() Tool {
	return Tool{
		Name:        "gcloud",
		Required:    true,
		Description: "Required for project, billing, API, lien and monitoring operations",
		InstallURL:  "https://cloud.google.com/sdk/docs/install",
		VersionArgs: []string{"--version"},
	}
}

// Binary returns a required external binary identified by its flag.
func Binary(flag, path string) Tool {
	return Tool{
		Name:        path,
		Required:    true,
		Description: fmt.Sprintf("set by %s", flag),
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if !tool.Required {
			continue
		}
		switch {
		case tool.InstallURL != "":
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		case tool.Description != "":
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.Description))
		default:
			missing = append(missing, tool.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = toolVersion(path, tool.VersionArgs)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// toolVersion returns the first output line of the version command, or an
// empty string if it cannot be determined.
func toolVersion(path string, args []string) string {
	if len(args) == 0 {
		return ""
	}
	// #nosec G204 - path was resolved by LookPath and args come from Tool definitions
	output, err := exec.Command(path, args...).Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(output), "\n")
	return strings.TrimSpace(line)
}
