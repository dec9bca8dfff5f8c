// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Options configures the logger.
type Options struct {
	// Verbosity enables V(n) logs up to n. Zero logs Info and Error only.
	Verbosity int
	// JSON switches to one JSON object per line.
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New returns a logr.Logger writing to opts.Output.
func New(opts Options) logr.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	fopts := funcr.Options{
		Verbosity:       opts.Verbosity,
		LogTimestamp:    true,
		TimestampFormat: time.RFC3339,
	}

	if opts.JSON {
		return funcr.NewJSON(func(obj string) {
			_, _ = fmt.Fprintln(out, obj)
		}, fopts)
	}

	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(out, "%s: %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(out, args)
	}, fopts)
}
