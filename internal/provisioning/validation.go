package provisioning

import (
	"fmt"
	"sort"
	"strings"

	"github.com/imamik/deployfleet/internal/config"
)

// ValidationError represents a single configuration validation error.
type ValidationError struct {
	Field   string // Configuration field that failed validation
	Message string // Human-readable error message
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// DisallowedAPIsError reports every requested API missing from the
// allowlist, mapped to the ids of the projects that requested it.
type DisallowedAPIsError struct {
	APIs map[string][]string
}

// Error implements the error interface. APIs are listed in sorted order.
func (e *DisallowedAPIsError) Error() string {
	lines := make([]string, 0, len(e.APIs))
	for _, api := range e.sortedAPIs() {
		lines = append(lines, fmt.Sprintf("%s: %s", api, strings.Join(e.APIs[api], ", ")))
	}
	return "projects try to enable the following APIs that are not in the allowed_apis list:\n  " +
		strings.Join(lines, "\n  ")
}

// Unwrap makes the error match config.ErrInvalidConfig.
func (e *DisallowedAPIsError) Unwrap() error {
	return config.ErrInvalidConfig
}

// ValidationErrors returns one entry per offending project and API.
func (e *DisallowedAPIsError) ValidationErrors() []ValidationError {
	var out []ValidationError
	for _, api := range e.sortedAPIs() {
		for _, id := range e.APIs[api] {
			out = append(out, ValidationError{
				Field:   fmt.Sprintf("projects[%s].enabled_apis", id),
				Message: fmt.Sprintf("%s is not in overall.allowed_apis", api),
			})
		}
	}
	return out
}

func (e *DisallowedAPIsError) sortedAPIs() []string {
	apis := make([]string, 0, len(e.APIs))
	for api := range e.APIs {
		apis = append(apis, api)
	}
	sort.Strings(apis)
	return apis
}

// ValidateAllowedAPIs checks that every assembled project only requests
// APIs from the overall allowlist. Without a declared allowlist every
// request is allowed. It must run before any step executes.
func ValidateAllowedAPIs(root *config.RootConfig, contexts []*Context) error {
	if root.Overall.AllowedAPIs == nil {
		return nil
	}

	allowed := make(map[string]bool, len(root.Overall.AllowedAPIs))
	for _, api := range root.Overall.AllowedAPIs {
		allowed[api] = true
	}

	disallowed := make(map[string][]string)
	for _, c := range contexts {
		for _, api := range c.Project.EnabledAPIs {
			if !allowed[api] {
				disallowed[api] = append(disallowed[api], c.ProjectID())
			}
		}
	}

	if len(disallowed) > 0 {
		return &DisallowedAPIsError{APIs: disallowed}
	}
	return nil
}
