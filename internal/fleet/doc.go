// Package fleet orders the configured projects and drives their setup.
//
// The order encodes the dependencies between projects: the shared audit-logs
// project comes first, the forseti project second (it installs the
// fleet-management software and records its service account) and the
// ordinary projects follow in declared order, each granting that service
// account access to itself. [Deployer] validates the assembled list as a
// whole, sets up one project at a time and stops at the first failure.
package fleet
