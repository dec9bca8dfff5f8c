// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max
// retries, initial delay and maximum delay. It wraps gcloud invocations,
// which fail transiently on API quota and propagation errors. Errors marked
// with [Fatal] stop the loop immediately.
package retry
