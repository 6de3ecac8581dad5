// Package pipeline runs the load → resolve → render sequence shared by the
// CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read the manifest and build a [manifest.Snapshot]
//  2. Resolve: turn the requested tags into an install list
//  3. Render: encode the install list in the requested format
//
// Resolve and Render are cached together, keyed by the manifest digest, the
// normalized tag set and the format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Manifest: "extra-requirements.txt",
//	    Tags:     []string{"core", "test"},
//	    Format:   "requirements",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Output)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/hiroksarker/jina/pkg/errors"
	"github.com/hiroksarker/jina/pkg/manifest"
	"github.com/hiroksarker/jina/pkg/render"
)

// Options configures one pipeline run.
type Options struct {
	// Manifest is the path of the manifest file. Ignored when Text is set.
	Manifest string `json:"manifest,omitempty"`
	// Text is inline manifest content.
	Text string `json:"text,omitempty"`
	// Tags are the requested tags; empty means the reserved tag "all".
	Tags []string `json:"tags,omitempty"`
	// Format is the output format (see render.Formats).
	Format string `json:"format,omitempty"`
	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot is the loaded manifest.
	Snapshot *manifest.Snapshot

	// Resolution is the resolved install list and its warnings.
	Resolution manifest.Result

	// Output is Resolution encoded in the requested format.
	Output []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Resolution and Output came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Entries     int
	Packages    int
	Warnings    int
	LoadTime    time.Duration
	ResolveTime time.Duration
}

// ValidateAndSetDefaults checks the resolve and render options and fills in
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Tags) == 0 {
		o.Tags = []string{errs.ReservedTag}
	}
	for _, t := range o.Tags {
		if err := errs.ValidateTag(t); err != nil {
			return err
		}
	}
	if o.Format == "" {
		o.Format = render.DefaultFormat
	}
	if err := render.ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Source returns the manifest source the options point at.
func (o *Options) Source() manifest.Source {
	if o.Text != "" {
		return manifest.TextSource{Label: "<inline>", Text: o.Text}
	}
	return manifest.FileSource{Path: o.Manifest}
}
