// Package state is the generated-state store: the per-project facts recorded
// by provisioning steps, keyed by project id, plus the fleet-management
// (forseti) outputs.
//
// The store is the sole source of truth for "has this project been deployed
// before?" and "where did the last attempt stop?". It is rewritten in full on
// every persist so that a crash between steps leaves a resumable checkpoint.
package state
