package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/magnusdahl/hotcore/internal/keyspace"
)

// Hierarchy resolves parent and children relationships using the adjacency
// structures written by [Store]. It holds no state of its own.
type Hierarchy struct {
	client *redis.Client
	store  *Store
	log    zerolog.Logger
}

// NewHierarchy creates a new Hierarchy sharing the given store's client.
func NewHierarchy(client *redis.Client, store *Store, config Config) *Hierarchy {
	return &Hierarchy{
		client: client,
		store:  store,
		log:    config.logger().With().Str("component", "hierarchy").Logger(),
	}
}

// Children returns the entities whose parent pointer is parentID, resolved
// through [Store.Get] so missing members follow the tombstone convention.
// Order is unspecified (set semantics).
func (h *Hierarchy) Children(ctx context.Context, parentID string) ([]Entity, error) {
	members, err := h.client.SMembers(ctx, keyspace.Children(parentID)).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		h.log.Debug().Str("parent", parentID).Msg("no children found")
		return nil, nil
	}

	children := make([]Entity, 0, len(members))
	for _, id := range members {
		child, err := h.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// Parent returns the entity referenced by childID's parent pointer.
//
// A missing pointer fails with ErrNotFound. A pointer resolving to an
// identifier with no stored attributes returns a tombstone instead of
// failing: a parent pointer may legitimately reference an entity that was
// deleted or never populated.
func (h *Hierarchy) Parent(ctx context.Context, childID string) (Entity, error) {
	parentID, err := h.client.Get(ctx, keyspace.Parent(childID)).Result()
	if errors.Is(err, redis.Nil) {
		h.log.Error().Str("child", childID).Msg("parent pointer not found")
		return Entity{}, ErrNotFound
	}
	if err != nil {
		return Entity{}, err
	}
	return h.store.Get(ctx, parentID)
}
