// Package keyspace maps logical concepts to physical Redis key addresses.
package keyspace

import (
	"fmt"

	"github.com/google/uuid"
)

// Key prefixes. These form the external addressing contract: other clients of
// the same Redis instance rely on them, so they must not change.
const (
	entityPrefix   = "entity:"
	parentPrefix   = "parent:"
	childrenPrefix = "children:"
	indexPrefix    = "index:"
	versionPrefix  = "version:"
	unionPrefix    = "union:"
)

// Entity returns the address of an entity's attribute hash.
func Entity(id string) string {
	return entityPrefix + id
}

// Parent returns the address of an entity's parent pointer.
func Parent(id string) string {
	return parentPrefix + id
}

// Children returns the address of an entity's children set.
func Children(id string) string {
	return childrenPrefix + id
}

// Version returns the address of an entity's version token. The token is
// watched and rewritten by guarded transactions; its value is never read.
func Version(id string) string {
	return versionPrefix + id
}

// Index returns the address of the inverted index set for an exact
// (attribute, value) pair.
func Index(attribute, value string) string {
	return fmt.Sprintf("%s%s:%s", indexPrefix, attribute, value)
}

// IndexPattern returns a SCAN MATCH pattern covering every index address for
// attribute whose value portion matches the glob pattern.
func IndexPattern(attribute, pattern string) string {
	return fmt.Sprintf("%s%s:%s", indexPrefix, attribute, pattern)
}

// Union returns a fresh address for an ephemeral union result set.
func Union() string {
	return unionPrefix + uuid.NewString()
}
