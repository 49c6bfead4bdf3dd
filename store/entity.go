package store

// RootID is the sentinel identifier for the forest's implicit root. Entities
// created directly under it are top-level; the root itself has no attribute
// hash, only a children set.
const RootID = "root"

// Entity is an identified, mutable attribute bag placed in the hierarchy.
//
// The identifier is assigned once by the client and never changes. It is not
// part of Attrs: storing it there would create self-referential index entries.
type Entity struct {
	// ID is the opaque unique identifier.
	ID string

	// Attrs maps attribute names to scalar string values.
	Attrs map[string]string
}

// IsTombstone reports whether the entity is a tombstone view: an identifier
// whose attribute hash is absent from the store.
func (e Entity) IsTombstone() bool {
	return len(e.Attrs) == 0
}

// Change describes a partial update to an entity's attributes.
//
// A nil value pointer is the absent marker: it removes the attribute and its
// index membership. A non-nil pointer writes the new value.
type Change struct {
	// ID identifies the entity to change.
	ID string

	// Attrs maps attribute names to new values, nil meaning delete.
	Attrs map[string]*string
}

// NewChange returns an empty change for the given entity identifier.
func NewChange(id string) Change {
	return Change{ID: id, Attrs: make(map[string]*string)}
}

// Set records a new value for an attribute.
func (c Change) Set(key, value string) Change {
	c.Attrs[key] = &value
	return c
}

// Unset records the removal of an attribute.
func (c Change) Unset(key string) Change {
	c.Attrs[key] = nil
	return c
}

// partition splits the change into values to write and keys to remove. The
// identifier is the address, never an attribute, so it is excluded from both.
func (c Change) partition() (toUpdate map[string]string, toRemove []string) {
	toUpdate = make(map[string]string, len(c.Attrs))
	for key, value := range c.Attrs {
		if value == nil {
			toRemove = append(toRemove, key)
		} else {
			toUpdate[key] = *value
		}
	}
	return toUpdate, toRemove
}
