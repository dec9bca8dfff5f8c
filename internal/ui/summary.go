package ui

import (
	"fmt"
	"strings"

	"github.com/imamik/deployfleet/internal/fleet"
)

// RenderSummary renders the per-project outcome of a run.
func RenderSummary(report *fleet.Report, styled bool) string {
	p := newPalette(styled)
	var b strings.Builder

	b.WriteString(p.title("Deployment summary"))
	b.WriteString("\n")

	if report == nil || len(report.Projects) == 0 {
		b.WriteString(p.dim("  no projects selected"))
		b.WriteString("\n")
		return b.String()
	}

	width := 0
	for _, r := range report.Projects {
		width = max(width, len(r.ID))
	}

	for _, r := range report.Projects {
		mark, label := outcomeMark(p, r.Outcome)
		fmt.Fprintf(&b, "  %s %-*s  %s\n", mark, width, r.ID, label)
	}

	succeeded := report.Count(fleet.OutcomeSucceeded)
	b.WriteString("\n")
	if id, failed := report.Failed(); failed {
		fmt.Fprintf(&b, "  %s\n", p.failed(fmt.Sprintf(
			"%d of %d project(s) set up; %s failed, re-run to resume", succeeded, len(report.Projects), id)))
	} else {
		fmt.Fprintf(&b, "  %s\n", p.ready(fmt.Sprintf("%d of %d project(s) set up", succeeded, len(report.Projects))))
	}
	if report.PostProcessed {
		fmt.Fprintf(&b, "  %s\n", p.dim("forseti rules generated"))
	}
	return b.String()
}

func outcomeMark(p palette, o fleet.Outcome) (string, string) {
	switch o {
	case fleet.OutcomeSucceeded:
		return p.ready(checkMark), p.ready("succeeded")
	case fleet.OutcomeFailed:
		return p.failed(crossMark), p.failed("failed")
	default:
		return p.dim(pending), p.dim("not attempted")
	}
}
