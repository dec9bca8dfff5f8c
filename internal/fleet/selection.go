package fleet

import (
	"strings"

	"github.com/imamik/deployfleet/internal/config"
)

// Wildcard selects every project.
const Wildcard = "*"

// Selection filters the projects deployed in one run.
type Selection struct {
	ids map[string]bool
	all bool
}

// ParseSelection builds a selection from project ids. Entries may hold
// comma-separated lists. The selection is "all" only when the input is
// exactly the wildcard.
func ParseSelection(ids []string) Selection {
	var flat []string
	for _, id := range ids {
		for _, part := range strings.Split(id, ",") {
			if part = strings.TrimSpace(part); part != "" {
				flat = append(flat, part)
			}
		}
	}

	if len(flat) == 1 && flat[0] == Wildcard {
		return Selection{all: true}
	}

	s := Selection{ids: make(map[string]bool, len(flat))}
	for _, id := range flat {
		s.ids[id] = true
	}
	return s
}

// SelectAll returns the match-all selection.
func SelectAll() Selection {
	return Selection{all: true}
}

// All reports whether every project is selected.
func (s Selection) All() bool {
	return s.all
}

// Wants reports whether the project is selected. A missing project never is.
func (s Selection) Wants(p *config.ProjectDefinition) bool {
	if p == nil {
		return false
	}
	return s.all || s.ids[p.ProjectID]
}

// Unknown returns the selected ids, sorted, that no configured project carries.
func (s Selection) Unknown(root *config.RootConfig) []string {
	if s.all {
		return nil
	}
	known := make(map[string]bool)
	for _, p := range root.AllProjects() {
		known[p.ProjectID] = true
	}
	var unknown []string
	for id := range s.ids {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	return sortedCopy(unknown)
}
