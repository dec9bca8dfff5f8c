package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/util/retry"
)

// Runner executes gcloud and external binaries.
type Runner interface {
	// Gcloud runs gcloud with args, adding --project when projectID is set,
	// and returns the trimmed stdout.
	Gcloud(ctx context.Context, projectID string, args ...string) (string, error)

	// Binary runs an external binary, streaming its output.
	Binary(ctx context.Context, path string, args ...string) error
}

// CommandError is returned when an external process fails.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := commandLine(e.Name, e.Args) + " failed"
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// transientMarkers are gcloud stderr fragments of failures worth retrying.
var transientMarkers = []string{
	"RESOURCE_EXHAUSTED",
	"UNAVAILABLE",
	"Quota exceeded",
	"rateLimitExceeded",
	"backendError",
	"Internal error",
	"Error 503",
	"connection reset",
}

// IsTransient reports whether err looks like a retryable gcloud failure.
func IsTransient(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	for _, marker := range transientMarkers {
		if strings.Contains(cmdErr.Stderr, marker) {
			return true
		}
	}
	return false
}

// waitDelay bounds how long output pipes are drained after a timed out
// process is killed.
const waitDelay = 5 * time.Second

// CLIRunner is the os/exec backed Runner.
type CLIRunner struct {
	// GcloudPath defaults to "gcloud" from PATH.
	GcloudPath string
	Timeouts   *config.Timeouts
	DryRun     bool
	Logger     logr.Logger

	// Stdout and Stderr receive the output of external binaries.
	// They default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// NewCLIRunner returns a runner using the given timeouts.
func NewCLIRunner(timeouts *config.Timeouts, dryRun bool, logger logr.Logger) *CLIRunner {
	return &CLIRunner{
		GcloudPath: "gcloud",
		Timeouts:   timeouts,
		DryRun:     dryRun,
		Logger:     logger,
	}
}

// Gcloud implements Runner. Transient failures are retried with
// exponential backoff; everything else fails on the first attempt.
func (r *CLIRunner) Gcloud(ctx context.Context, projectID string, args ...string) (string, error) {
	if projectID != "" {
		args = append(append([]string(nil), args...), "--project", projectID)
	}
	path := r.GcloudPath
	if path == "" {
		path = "gcloud"
	}

	if r.DryRun {
		r.Logger.Info("dry run", "command", commandLine("gcloud", args))
		return "", nil
	}
	r.Logger.V(1).Info("running gcloud", "command", commandLine("gcloud", args))

	var out string
	err := retry.WithExponentialBackoff(ctx, func() error {
		var runErr error
		out, runErr = r.output(ctx, r.timeouts().Gcloud, path, args)
		if runErr != nil && !IsTransient(runErr) {
			return retry.Fatal(runErr)
		}
		return runErr
	},
		retry.WithMaxRetries(r.timeouts().RetryMaxAttempts),
		retry.WithInitialDelay(r.timeouts().RetryInitialDelay),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			r.Logger.Info("retrying gcloud", "attempt", attempt, "delay", delay.String(), "error", err.Error())
		}),
	)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return "", cmdErr
		}
		return "", err
	}
	return out, nil
}

// Binary implements Runner. Binaries are not retried.
func (r *CLIRunner) Binary(ctx context.Context, path string, args ...string) error {
	if r.DryRun {
		r.Logger.Info("dry run", "command", commandLine(path, args))
		return nil
	}
	r.Logger.Info("running binary", "command", commandLine(path, args))

	ctx, cancel := context.WithTimeout(ctx, r.timeouts().Binary)
	defer cancel()

	var stderr bytes.Buffer
	// #nosec G204 - binary paths come from validated command line options
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.WaitDelay = waitDelay
	cmd.Stdout = orDefault(r.Stdout, os.Stdout)
	cmd.Stderr = io.MultiWriter(orDefault(r.Stderr, os.Stderr), &stderr)

	if err := cmd.Run(); err != nil {
		return commandError(path, args, err, stderr.String())
	}
	return nil
}

// BinaryOutput runs an external binary and returns its stdout. It runs in
// dry-run mode too, since it only reads.
func (r *CLIRunner) BinaryOutput(ctx context.Context, path string, args ...string) (string, error) {
	r.Logger.V(1).Info("running binary", "command", commandLine(path, args))
	return r.output(ctx, r.timeouts().Binary, path, args)
}

func (r *CLIRunner) output(ctx context.Context, timeout time.Duration, path string, args []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	// #nosec G204 - arguments are built by this package, not taken from a shell
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.WaitDelay = waitDelay
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", commandError(path, args, err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (r *CLIRunner) timeouts() *config.Timeouts {
	if r.Timeouts == nil {
		r.Timeouts = config.LoadTimeouts()
	}
	return r.Timeouts
}

func commandError(path string, args []string, err error, stderr string) *CommandError {
	cmdErr := &CommandError{Name: path, Args: args, Stderr: stderr, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr.ExitCode = exitErr.ExitCode()
	}
	return cmdErr
}

func commandLine(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

func orDefault(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
