// Package gcp runs the Google Cloud CLI and the external deployment
// binaries, and parses the few gcloud responses the setup steps depend on.
//
// All process execution goes through [Runner] so that steps can be tested
// with [MockRunner].
package gcp
