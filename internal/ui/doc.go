// Package ui renders run summaries and deployment status for the terminal.
// Output is styled with lipgloss when the caller asks for it and plain
// otherwise, so that logs and pipes stay readable.
package ui
