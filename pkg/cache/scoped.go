package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, so one
// Redis instance can serve several deployments or registries.
//
// Example usage:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
//	key := staging.ReportKey(hash, ReportKeyOpts{})
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

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(descHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(descHash, opts)
}
