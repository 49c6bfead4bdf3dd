package keyspace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddresses(t *testing.T) {
	assert.Equal(t, "entity:abc", Entity("abc"))
	assert.Equal(t, "parent:abc", Parent("abc"))
	assert.Equal(t, "children:abc", Children("abc"))
	assert.Equal(t, "version:abc", Version("abc"))
	assert.Equal(t, "index:name:Alice", Index("name", "Alice"))
	assert.Equal(t, "index:name:A*", IndexPattern("name", "A*"))
}

func TestIndexValueMayContainSeparator(t *testing.T) {
	// Values are opaque; a colon in the value stays in the value portion.
	assert.Equal(t, "index:url:http://x", Index("url", "http://x"))
}

func TestUnionIsUniqueAndPrefixed(t *testing.T) {
	a := Union()
	b := Union()
	assert.True(t, strings.HasPrefix(a, "union:"))
	assert.NotEqual(t, a, b)
}
