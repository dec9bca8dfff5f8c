// Package provisioning runs the setup of a single project.
//
// A project's setup is an ordered list of [Step] values executed by [Setup]
// against a [Context]. After every successful step the generated fields are
// persisted, so a failed first deployment resumes at the failed step on the
// next run, while already deployed projects re-run only updatable steps.
//
// [ValidateAllowedAPIs] is the cross-project check that runs once over the
// assembled fleet before any step executes.
package provisioning
