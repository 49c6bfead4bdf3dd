package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/magnusdahl/hotcore/internal/keyspace"
	"github.com/magnusdahl/hotcore/internal/metrics"
)

// Store provides entity CRUD with index maintenance and optimistic
// concurrency control over a shared Redis instance.
type Store struct {
	client *redis.Client
	config Config
	log    zerolog.Logger
}

// NewStore creates a new Store using the given client.
func NewStore(client *redis.Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
		log:    config.logger().With().Str("component", "store").Logger(),
	}
}

// Get retrieves an entity by identifier.
//
// A missing attribute hash is not an error: the returned entity is a
// tombstone carrying only the identifier, and the absence is logged at warn
// level. A missing entity is a valid, queryable state.
func (s *Store) Get(ctx context.Context, id string) (Entity, error) {
	attrs, err := s.client.HGetAll(ctx, keyspace.Entity(id)).Result()
	if err != nil {
		return Entity{}, err
	}
	if len(attrs) == 0 {
		s.log.Warn().Str("entity", id).Msg("entity not found, returning tombstone")
		attrs = map[string]string{}
	}
	s.log.Debug().Str("entity", id).Int("attributes", len(attrs)).Msg("get")
	return Entity{ID: id, Attrs: attrs}, nil
}

// Create saves a new entity under the given parent.
//
// In one atomic batch: the attribute hash is written (identifier excluded),
// the identifier is added to every (attribute, value) index, the parent
// pointer is set, and the identifier joins the parent's children set.
//
// Create carries no optimistic guard. Identifiers are client-generated and
// globally unique, so no other writer can race on the same identifier; if
// that assumption is violated the later writer's attributes and indexes win
// non-deterministically.
func (s *Store) Create(ctx context.Context, parentID string, entity Entity) (Entity, error) {
	if entity.ID == "" {
		return Entity{}, ErrInvalidEntity
	}

	start := time.Now()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(entity.Attrs) > 0 {
			pipe.HSet(ctx, keyspace.Entity(entity.ID), entity.Attrs)
		}
		for key, value := range entity.Attrs {
			pipe.SAdd(ctx, keyspace.Index(key, value), entity.ID)
		}
		pipe.Set(ctx, keyspace.Parent(entity.ID), parentID, 0)
		pipe.SAdd(ctx, keyspace.Children(parentID), entity.ID)
		return nil
	})
	s.record("create", start, err)
	if err != nil {
		return Entity{}, err
	}

	s.log.Info().
		Str("entity", entity.ID).
		Str("parent", parentID).
		Msg("created entity")
	return entity, nil
}

// Apply applies a partial attribute change to an existing entity.
//
// The change is guarded by the entity's version token: the token is watched,
// the current attributes are snapshotted, and the batch - which itself
// rewrites the token - commits only if no other writer touched the token in
// between. A conflict discards all local work and retries from a fresh
// snapshot, up to the configured bound; exceeding it surfaces
// ErrConcurrencyExhausted and the change is not applied.
func (s *Store) Apply(ctx context.Context, change Change) error {
	if change.ID == "" {
		return ErrInvalidEntity
	}

	entityKey := keyspace.Entity(change.ID)
	versionKey := keyspace.Version(change.ID)
	log := s.log.With().Str("entity", change.ID).Logger()

	start := time.Now()
	err := retryOptimistic(ctx, s.config.MaxRetries, log, func(ctx context.Context) error {
		return s.client.Watch(ctx, func(tx *redis.Tx) error {
			snapshot, err := tx.HGetAll(ctx, entityKey).Result()
			if err != nil {
				return err
			}
			if len(snapshot) == 0 {
				log.Warn().Msg("entity not found during apply")
			}

			toUpdate, toRemove := change.partition()

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				// The token write participates in the guarded batch, so any
				// concurrent writer that touched it after WATCH aborts us.
				pipe.Set(ctx, versionKey, uuid.NewString(), 0)

				for _, key := range toRemove {
					oldValue, held := snapshot[key]
					if !held {
						continue
					}
					pipe.HDel(ctx, entityKey, key)
					pipe.SRem(ctx, keyspace.Index(key, oldValue), change.ID)
				}

				for key, value := range toUpdate {
					pipe.HSet(ctx, entityKey, key, value)
					if oldValue, held := snapshot[key]; held && oldValue != value {
						pipe.SRem(ctx, keyspace.Index(key, oldValue), change.ID)
					}
					pipe.SAdd(ctx, keyspace.Index(key, value), change.ID)
				}
				return nil
			})
			return err
		}, versionKey)
	})
	s.record("apply", start, err)
	if err != nil {
		return err
	}

	log.Info().Int("attributes", len(change.Attrs)).Msg("applied change")
	return nil
}

// Delete removes an entity and every trace of it: attribute hash, index
// memberships, version token, parent pointer, own children set, and its entry
// in the parent's children set.
//
// The entity's former children are re-parented to its parent (the
// grandparent, or the root sentinel when no parent pointer exists) inside the
// same atomic batch, so every live entity keeps exactly one resolvable parent
// pointer. The children set is watched alongside the version token: its
// snapshot feeds the re-parenting writes, so a child created concurrently
// under the dying entity trips the precondition instead of being orphaned.
func (s *Store) Delete(ctx context.Context, entity Entity) error {
	if entity.ID == "" {
		return ErrInvalidEntity
	}

	id := entity.ID
	entityKey := keyspace.Entity(id)
	versionKey := keyspace.Version(id)
	parentKey := keyspace.Parent(id)
	childrenKey := keyspace.Children(id)
	log := s.log.With().Str("entity", id).Logger()

	start := time.Now()
	err := retryOptimistic(ctx, s.config.MaxRetries, log, func(ctx context.Context) error {
		return s.client.Watch(ctx, func(tx *redis.Tx) error {
			snapshot, err := tx.HGetAll(ctx, entityKey).Result()
			if err != nil {
				return err
			}
			if len(snapshot) == 0 {
				log.Warn().Msg("entity not found during delete")
			}

			parentID, err := tx.Get(ctx, parentKey).Result()
			if errors.Is(err, redis.Nil) {
				parentID = ""
			} else if err != nil {
				return err
			}

			children, err := tx.SMembers(ctx, childrenKey).Result()
			if err != nil {
				return err
			}

			// Children survive the delete; they move up to the grandparent.
			newParent := parentID
			if newParent == "" {
				newParent = RootID
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for key, value := range snapshot {
					pipe.SRem(ctx, keyspace.Index(key, value), id)
				}

				// DEL of the watched keys is itself the token touch.
				pipe.Del(ctx, entityKey, versionKey, parentKey, childrenKey)

				if parentID != "" {
					pipe.SRem(ctx, keyspace.Children(parentID), id)
				}

				for _, child := range children {
					pipe.Set(ctx, keyspace.Parent(child), newParent, 0)
					pipe.SAdd(ctx, keyspace.Children(newParent), child)
				}
				return nil
			})
			return err
		}, versionKey, childrenKey)
	})
	s.record("delete", start, err)
	if err != nil {
		return err
	}

	log.Info().Msg("deleted entity")
	return nil
}

func (s *Store) record(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.Default().RecordOperation(operation, status, time.Since(start))
}
