// Package steps holds the concrete setup steps of a project: project
// creation, billing, APIs, images, liens, resource templates, monitoring
// and the generated project fields, plus the fleet-management (forseti)
// extras and the fleet-wide rule generation.
//
// Every updatable step checks for already applied effects before acting,
// so re-running it on a deployed project is safe.
package steps
