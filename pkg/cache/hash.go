package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DefaultKeyer generates unscoped keys of the form "kind:hash" or
// "kind:source:project".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ReportKey generates a key for a cached analysis report.
func (DefaultKeyer) ReportKey(taskHash string, opts ReportKeyOpts) string {
	return hashKey("report", taskHash, opts)
}

// TasksKey generates a key for a cached task list.
func (DefaultKeyer) TasksKey(source, project string) string {
	return fmt.Sprintf("tasks:%s:%s", source, project)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
