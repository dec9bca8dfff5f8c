package gcp

import (
	"context"
	"fmt"
	"strings"
)

// LogSinkName is the audit log sink created by the project templates.
const LogSinkName = "audit-logs-to-bigquery"

// Instance is a compute instance name and numeric id.
type Instance struct {
	Name string
	ID   string
}

// ProjectNumber returns the number of an existing project. An error
// usually means the project does not exist or is not visible.
func ProjectNumber(ctx context.Context, r Runner, projectID string) (string, error) {
	out, err := r.Gcloud(ctx, "", "projects", "describe", projectID, "--format", "value(projectNumber)")
	if err != nil {
		return "", err
	}
	return out, nil
}

// LogSinkServiceAccount returns the writer identity of a log sink without
// its "serviceAccount:" prefix.
func LogSinkServiceAccount(ctx context.Context, r Runner, projectID, sink string) (string, error) {
	out, err := r.Gcloud(ctx, projectID, "logging", "sinks", "describe", sink, "--format", "value(writerIdentity)")
	if err != nil {
		return "", fmt.Errorf("failed to describe log sink %s: %w", sink, err)
	}
	return strings.TrimPrefix(out, "serviceAccount:"), nil
}

// InstanceInfo lists the compute instances of a project.
func InstanceInfo(ctx context.Context, r Runner, projectID string) ([]Instance, error) {
	out, err := r.Gcloud(ctx, projectID, "compute", "instances", "list", "--format", "value(name,id)")
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}
	var instances []Instance
	for _, line := range Lines(out) {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("unexpected instance list line %q", line)
		}
		instances = append(instances, Instance{Name: fields[0], ID: fields[1]})
	}
	return instances, nil
}

// ForsetiServerServiceAccount returns the email of the forseti server
// service account in the forseti project.
func ForsetiServerServiceAccount(ctx context.Context, r Runner, projectID string) (string, error) {
	out, err := r.Gcloud(ctx, projectID, "iam", "service-accounts", "list",
		"--format", "value(email)", "--filter", "email:forseti-server-gcp-*")
	if err != nil {
		return "", fmt.Errorf("failed to list forseti service accounts: %w", err)
	}
	return single(out, "forseti server service account")
}

// ForsetiServerBucket returns the gs:// URI of the forseti server bucket.
func ForsetiServerBucket(ctx context.Context, r Runner, projectID string) (string, error) {
	out, err := r.Gcloud(ctx, projectID, "storage", "buckets", "list",
		"--format", "value(name)", "--filter", "name:forseti-server-*")
	if err != nil {
		return "", fmt.Errorf("failed to list forseti buckets: %w", err)
	}
	name, err := single(out, "forseti server bucket")
	if err != nil {
		return "", err
	}
	return "gs://" + strings.TrimPrefix(name, "gs://"), nil
}

func single(out, what string) (string, error) {
	lines := Lines(out)
	switch len(lines) {
	case 0:
		return "", fmt.Errorf("%s not found", what)
	case 1:
		return strings.TrimSpace(lines[0]), nil
	default:
		return "", fmt.Errorf("found %d candidates for %s: %s", len(lines), what, strings.Join(lines, ", "))
	}
}

// Lines splits gcloud value() output into trimmed, non-empty lines.
func Lines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
