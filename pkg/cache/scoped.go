package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each deployment or tenant
// its own namespace in a shared backend such as Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "taskflow:")
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
func (k *ScopedKeyer) ReportKey(taskHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(taskHash, opts)
}

// TasksKey generates a prefixed task-list key.
func (k *ScopedKeyer) TasksKey(source, project string) string {
	return k.prefix + k.inner.TasksKey(source, project)
}
