package store

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/magnusdahl/hotcore/internal/keyspace"
	"github.com/magnusdahl/hotcore/internal/metrics"
)

// Criterion is one search condition. Criteria combine with logical AND.
//
// Use [Exact], [Wildcard], [ParentOf] or [Match] to construct one.
type Criterion interface {
	criterion()
}

type exactCriterion struct {
	attribute string
	value     string
}

type wildcardCriterion struct {
	attribute string
	pattern   string
}

type parentCriterion struct {
	id string
}

func (exactCriterion) criterion()    {}
func (wildcardCriterion) criterion() {}
func (parentCriterion) criterion()   {}

// Exact matches entities holding exactly value for attribute.
func Exact(attribute, value string) Criterion {
	return exactCriterion{attribute: attribute, value: value}
}

// Wildcard matches entities whose value for attribute matches the glob
// pattern. Supported metacharacters: '*' (any run), '?' (single character),
// '[...]' (character class).
func Wildcard(attribute, pattern string) Criterion {
	return wildcardCriterion{attribute: attribute, pattern: pattern}
}

// ParentOf matches entities whose parent pointer equals id.
func ParentOf(id string) Criterion {
	return parentCriterion{id: id}
}

// Match builds an exact or wildcard criterion depending on whether pattern
// contains glob metacharacters.
func Match(attribute, pattern string) Criterion {
	if strings.ContainsAny(pattern, "*?[") {
		return Wildcard(attribute, pattern)
	}
	return Exact(attribute, pattern)
}

// Matcher enumerates the index addresses for an attribute whose value portion
// matches a glob pattern. Implementations may scan the store's key namespace
// or consult a client-side secondary index; [Query] only requires the
// resulting addresses.
type Matcher interface {
	Matches(ctx context.Context, attribute, pattern string) ([]string, error)
}

// scanMatcher enumerates index addresses with SCAN MATCH.
type scanMatcher struct {
	client *redis.Client
	count  int64
}

func (m scanMatcher) Matches(ctx context.Context, attribute, pattern string) ([]string, error) {
	var keys []string
	iter := m.client.Scan(ctx, 0, keyspace.IndexPattern(attribute, pattern), m.count).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

// Query evaluates multi-attribute search requests into a final identifier set
// via store-side set algebra. It only reads structures written by [Store].
type Query struct {
	client  *redis.Client
	store   *Store
	config  Config
	matcher Matcher
	log     zerolog.Logger
}

// NewQuery creates a new Query sharing the given store's client.
func NewQuery(client *redis.Client, store *Store, config Config) *Query {
	config.validate()
	return &Query{
		client:  client,
		store:   store,
		config:  config,
		matcher: scanMatcher{client: client, count: config.ScanCount},
		log:     config.logger().With().Str("component", "query").Logger(),
	}
}

// SetMatcher replaces the wildcard enumeration strategy. The default scans
// the store's key namespace.
func (q *Query) SetMatcher(m Matcher) {
	q.matcher = m
}

// Find returns the entities matching all criteria.
//
// Exact criteria resolve directly to index addresses and parent criteria to
// children-set addresses. A wildcard criterion enumerates matching index
// addresses through the configured [Matcher]; zero matches short-circuit the
// whole query to an empty result, otherwise the union of the matched sets is
// materialized into an ephemeral address with a bounded expiry. All
// accumulated addresses are intersected store-side and the resulting
// identifiers resolved through [Store.Get].
//
// An unconstrained query (no criteria) is refused and returns no results.
// Ephemeral union sets are deleted before Find returns, whether or not it
// succeeds; the expiry only covers a client that dies mid-query.
func (q *Query) Find(ctx context.Context, criteria ...Criterion) ([]Entity, error) {
	metrics.Default().SearchQueriesTotal.Inc()

	if len(criteria) == 0 {
		q.log.Warn().Msg("no criteria provided, refusing unconstrained find")
		return nil, nil
	}

	var ephemeral []string
	defer func() {
		if len(ephemeral) == 0 {
			return
		}
		// Guaranteed cleanup even when the caller's context is gone.
		if err := q.client.Del(context.WithoutCancel(ctx), ephemeral...).Err(); err != nil {
			q.log.Warn().Err(err).Msg("failed to delete ephemeral union sets")
		}
	}()

	addresses := make([]string, 0, len(criteria))
	for _, criterion := range criteria {
		switch c := criterion.(type) {
		case exactCriterion:
			addresses = append(addresses, keyspace.Index(c.attribute, c.value))

		case parentCriterion:
			addresses = append(addresses, keyspace.Children(c.id))

		case wildcardCriterion:
			matches, err := q.matcher.Matches(ctx, c.attribute, c.pattern)
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				q.log.Debug().
					Str("attribute", c.attribute).
					Str("pattern", c.pattern).
					Msg("no index matches pattern")
				return nil, nil
			}

			union := keyspace.Union()
			count, err := q.client.SUnionStore(ctx, union, matches...).Result()
			if err != nil {
				return nil, err
			}
			ephemeral = append(ephemeral, union)
			metrics.Default().EphemeralSetsTotal.Inc()

			if err := q.client.Expire(ctx, union, q.config.UnionTTL).Err(); err != nil {
				return nil, err
			}
			if count == 0 {
				q.log.Debug().
					Str("attribute", c.attribute).
					Str("pattern", c.pattern).
					Msg("empty union for pattern")
				return nil, nil
			}
			addresses = append(addresses, union)
		}
	}

	ids, err := q.client.SInter(ctx, addresses...).Result()
	if err != nil {
		return nil, err
	}
	entities, err := q.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	metrics.Default().SearchResultsTotal.Add(float64(len(entities)))
	q.log.Debug().Int("criteria", len(criteria)).Int("hits", len(entities)).Msg("find")
	return entities, nil
}

// EntitiesFromIndex resolves a raw index or union address directly to its
// member entities, bypassing criteria parsing.
func (q *Query) EntitiesFromIndex(ctx context.Context, address string) ([]Entity, error) {
	ids, err := q.client.SMembers(ctx, address).Result()
	if err != nil {
		return nil, err
	}
	q.log.Debug().Str("address", address).Int("members", len(ids)).Msg("index lookup")
	return q.resolve(ctx, ids)
}

func (q *Query) resolve(ctx context.Context, ids []string) ([]Entity, error) {
	entities := make([]Entity, 0, len(ids))
	for _, id := range ids {
		entity, err := q.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
