package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects can share one
// Redis instance without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:jina:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey generates a prefixed key for resolution results.
func (k *ScopedKeyer) ResultKey(manifestDigest string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(manifestDigest, opts)
}
