package cache

import (
	"slices"
)

// ResultKeyOpts are the request parameters that affect a cached result.
type ResultKeyOpts struct {
	Tags   []string `json:"tags"`
	Format string   `json:"format,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ResultKey identifies a resolution of one manifest (by digest).
	ResultKey(manifestDigest string, opts ResultKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey hashes the digest with the sorted, deduplicated tag set, so
// requests that differ only in tag order share an entry.
func (DefaultKeyer) ResultKey(manifestDigest string, opts ResultKeyOpts) string {
	tags := slices.Clone(opts.Tags)
	slices.Sort(tags)
	tags = slices.Compact(tags)
	return hashKey("result", manifestDigest, tags, opts.Format)
}
