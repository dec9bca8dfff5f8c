package ui

import (
	"fmt"
	"strings"

	"github.com/imamik/deployfleet/internal/state"
)

// DeployState classifies a project by its generated fields entry.
type DeployState string

// Deployment states.
const (
	StateDeployed    DeployState = "deployed"
	StateFailed      DeployState = "failed"
	StateNotDeployed DeployState = "not deployed"
)

// StatusRow is the deployment status of one project.
type StatusRow struct {
	ID            string
	State         DeployState
	FailedStep    int
	ProjectNumber string
}

// StatusOf returns the status of each id. With no ids it reports every
// project recorded in the store.
func StatusOf(store *state.Store, ids []string) []StatusRow {
	if len(ids) == 0 {
		ids = store.ProjectIDs()
	}
	rows := make([]StatusRow, 0, len(ids))
	for _, id := range ids {
		row := StatusRow{ID: id, State: StateNotDeployed}
		if entry, ok := store.Lookup(id); ok {
			row.ProjectNumber = entry.ProjectNumber
			if entry.Deployed() {
				row.State = StateDeployed
			} else {
				row.State = StateFailed
				row.FailedStep = entry.FailedStep
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderStatus renders a status table.
func RenderStatus(rows []StatusRow, styled bool) string {
	p := newPalette(styled)
	var b strings.Builder

	b.WriteString(p.section("Projects"))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(p.dim("  no projects recorded"))
		b.WriteString("\n")
		return b.String()
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r.ID))
	}

	for _, r := range rows {
		var mark, label string
		switch r.State {
		case StateDeployed:
			mark, label = p.ready(checkMark), p.ready("deployed")
		case StateFailed:
			mark, label = p.warning(warnMark), p.warning(fmt.Sprintf("failed at step %d", r.FailedStep))
		default:
			mark, label = p.dim(pending), p.dim("not deployed")
		}
		line := fmt.Sprintf("  %s %-*s  %s", mark, width, r.ID, label)
		if r.ProjectNumber != "" {
			line += " " + p.dim("#"+r.ProjectNumber)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
