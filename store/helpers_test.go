package store_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/magnusdahl/hotcore/store"
)

// newTestModel starts an in-process Redis and returns a model on it, plus a
// raw client for asserting on physical keys.
func newTestModel(t *testing.T) (*store.Model, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return store.New(client, store.DefaultConfig()), client
}

// ids collects entity identifiers for set-wise comparison.
func ids(entities []store.Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.ID)
	}
	return out
}
