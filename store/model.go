package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magnusdahl/hotcore/internal/keyspace"
)

// Model composes [Store], [Hierarchy] and [Query] behind one entry point.
// All operations delegate; Model adds no behavior of its own.
type Model struct {
	client    *redis.Client
	store     *Store
	hierarchy *Hierarchy
	query     *Query
}

// New creates a Model on the given client. The client is injected rather
// than constructed here; connection configuration belongs to the caller.
func New(client *redis.Client, config Config) *Model {
	config.validate()
	s := NewStore(client, config)
	return &Model{
		client:    client,
		store:     s,
		hierarchy: NewHierarchy(client, s, config),
		query:     NewQuery(client, s, config),
	}
}

// NewEntity returns an entity with a freshly generated identifier.
func NewEntity(attrs map[string]string) Entity {
	if attrs == nil {
		attrs = make(map[string]string)
	}
	return Entity{ID: uuid.NewString(), Attrs: attrs}
}

// IndexAddress returns the physical address of the inverted index for an
// exact (attribute, value) pair, for use with [Model.EntitiesFromIndex].
func IndexAddress(attribute, value string) string {
	return keyspace.Index(attribute, value)
}

// Create saves a new entity under the given parent. See [Store.Create].
func (m *Model) Create(ctx context.Context, parentID string, entity Entity) (Entity, error) {
	return m.store.Create(ctx, parentID, entity)
}

// Get retrieves an entity by identifier. See [Store.Get].
func (m *Model) Get(ctx context.Context, id string) (Entity, error) {
	return m.store.Get(ctx, id)
}

// Apply applies a partial change to an entity. See [Store.Apply].
func (m *Model) Apply(ctx context.Context, change Change) error {
	return m.store.Apply(ctx, change)
}

// Delete removes an entity. See [Store.Delete].
func (m *Model) Delete(ctx context.Context, entity Entity) error {
	return m.store.Delete(ctx, entity)
}

// Children returns the direct children of an entity. See [Hierarchy.Children].
func (m *Model) Children(ctx context.Context, parentID string) ([]Entity, error) {
	return m.hierarchy.Children(ctx, parentID)
}

// Parent returns the parent of an entity. See [Hierarchy.Parent].
func (m *Model) Parent(ctx context.Context, childID string) (Entity, error) {
	return m.hierarchy.Parent(ctx, childID)
}

// Find returns the entities matching all criteria. See [Query.Find].
func (m *Model) Find(ctx context.Context, criteria ...Criterion) ([]Entity, error) {
	return m.query.Find(ctx, criteria...)
}

// EntitiesFromIndex resolves a raw index address. See [Query.EntitiesFromIndex].
func (m *Model) EntitiesFromIndex(ctx context.Context, address string) ([]Entity, error) {
	return m.query.EntitiesFromIndex(ctx, address)
}

// Query returns the underlying query engine, for swapping the wildcard
// enumeration strategy.
func (m *Model) Query() *Query {
	return m.query
}

// FlushAll deletes every key in the backing store. Destructive; test and
// operations use only.
func (m *Model) FlushAll(ctx context.Context) error {
	return m.client.FlushAll(ctx).Err()
}
