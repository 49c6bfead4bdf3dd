// Package store maintains a hierarchical collection of attribute-bag entities
// on a shared Redis instance, with exact-match and wildcard search through
// materialized secondary index sets.
//
// Three redundant representations of each fact are kept consistent under
// concurrent, unsynchronized clients: the entity's attribute hash, the
// per-(attribute, value) inverted index set, and the parent/children adjacency
// structure. Every mutation is a single MULTI/EXEC batch; cross-client
// coordination uses only Redis optimistic transactions (WATCH on a per-entity
// version token), never client-side locks.
//
// # Components
//
//   - [Store] - entity CRUD with index maintenance and optimistic concurrency
//   - [Hierarchy] - parent and children resolution over the adjacency sets
//   - [Query] - exact, wildcard and composite search via store-side set algebra
//   - [Model] - facade composing the three behind one entry point
//
// # Entities
//
// An [Entity] is an identifier plus a flat map of string attributes. The
// identifier is client-generated, immutable, and never stored inside the
// attribute hash - it is always the address, never a field value. Reading an
// identifier with no stored attributes yields a tombstone (identifier only),
// which is a valid queryable state rather than an error.
//
// # Errors
//
//   - [ErrInvalidEntity] - operation given an entity or change without an identifier
//   - [ErrNotFound] - a required linkage (parent pointer) does not exist
//   - [ErrConcurrencyExhausted] - optimistic retry bound exceeded; the change was not applied
//
// Backend failures from go-redis propagate unchanged and are never retried
// outside the conflict path.
package store
