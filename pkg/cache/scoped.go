package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis or Mongo backend without colliding.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(imageHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(imageHash, opts)
}

// StatsKey generates a prefixed stats key.
func (k *ScopedKeyer) StatsKey(imageHash string, opts StatsKeyOpts) string {
	return k.prefix + k.inner.StatsKey(imageHash, opts)
}
