package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnusdahl/hotcore/store"
)

func seedPeople(t *testing.T, model *store.Model) map[string]store.Entity {
	t.Helper()
	ctx := context.Background()

	people := map[string]store.Entity{
		"alice": store.NewEntity(map[string]string{"name": "Alice", "type": "user", "role": "admin"}),
		"anna":  store.NewEntity(map[string]string{"name": "Anna", "type": "user", "role": "member"}),
		"bob":   store.NewEntity(map[string]string{"name": "Bob", "type": "user", "role": "member"}),
	}
	for _, p := range people {
		_, err := model.Create(ctx, store.RootID, p)
		require.NoError(t, err)
	}
	return people
}

func TestFindExact(t *testing.T) {
	model, _ := newTestModel(t)
	people := seedPeople(t, model)

	hits, err := model.Find(context.Background(), store.Exact("name", "Alice"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{people["alice"].ID}, ids(hits))
}

func TestFindWildcard(t *testing.T) {
	model, _ := newTestModel(t)
	people := seedPeople(t, model)

	hits, err := model.Find(context.Background(), store.Wildcard("name", "A*"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{people["alice"].ID, people["anna"].ID}, ids(hits))
}

func TestFindWildcardSingleCharacter(t *testing.T) {
	model, _ := newTestModel(t)
	people := seedPeople(t, model)

	hits, err := model.Find(context.Background(), store.Wildcard("name", "B?b"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{people["bob"].ID}, ids(hits))
}

func TestFindComposite(t *testing.T) {
	model, _ := newTestModel(t)
	people := seedPeople(t, model)

	hits, err := model.Find(context.Background(),
		store.Exact("type", "user"),
		store.Exact("role", "admin"),
	)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{people["alice"].ID}, ids(hits))
}

func TestFindCompositeWithWildcard(t *testing.T) {
	model, _ := newTestModel(t)
	people := seedPeople(t, model)

	hits, err := model.Find(context.Background(),
		store.Wildcard("name", "A*"),
		store.Exact("role", "member"),
	)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{people["anna"].ID}, ids(hits))
}

func TestFindByParent(t *testing.T) {
	model, _ := newTestModel(t)
	ctx := context.Background()

	parent := store.NewEntity(map[string]string{"name": "team"})
	_, err := model.Create(ctx, store.RootID, parent)
	require.NoError(t, err)

	inside := store.NewEntity(map[string]string{"kind": "widget"})
	outside := store.NewEntity(map[string]string{"kind": "widget"})
	_, err = model.Create(ctx, parent.ID, inside)
	require.NoError(t, err)
	_, err = model.Create(ctx, store.RootID, outside)
	require.NoError(t, err)

	hits, err := model.Find(ctx,
		store.ParentOf(parent.ID),
		store.Exact("kind", "widget"),
	)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{inside.ID}, ids(hits))
}

func TestFindWithoutCriteriaIsRefused(t *testing.T) {
	model, _ := newTestModel(t)
	seedPeople(t, model)

	hits, err := model.Find(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFindWildcardWithoutMatchesShortCircuits(t *testing.T) {
	model, _ := newTestModel(t)
	seedPeople(t, model)

	hits, err := model.Find(context.Background(),
		store.Wildcard("name", "Z*"),
		store.Exact("type", "user"),
	)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFindCleansUpEphemeralSets(t *testing.T) {
	model, client := newTestModel(t)
	seedPeople(t, model)
	ctx := context.Background()

	_, err := model.Find(ctx, store.Wildcard("name", "A*"))
	require.NoError(t, err)

	leaked, err := client.Keys(ctx, "union:*").Result()
	require.NoError(t, err)
	assert.Empty(t, leaked)
}

func TestMatchDetectsMetacharacters(t *testing.T) {
	model, _ := newTestModel(t)
	people := seedPeople(t, model)
	ctx := context.Background()

	exact, err := model.Find(ctx, store.Match("name", "Alice"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{people["alice"].ID}, ids(exact))

	glob, err := model.Find(ctx, store.Match("name", "A*"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{people["alice"].ID, people["anna"].ID}, ids(glob))
}

func TestEntitiesFromIndex(t *testing.T) {
	model, _ := newTestModel(t)
	people := seedPeople(t, model)

	hits, err := model.EntitiesFromIndex(context.Background(), store.IndexAddress("role", "member"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{people["anna"].ID, people["bob"].ID}, ids(hits))
}

// fixedMatcher returns a canned set of index addresses regardless of pattern.
type fixedMatcher struct {
	addresses []string
}

func (m fixedMatcher) Matches(_ context.Context, _, _ string) ([]string, error) {
	return m.addresses, nil
}

func TestMatcherStrategyIsPluggable(t *testing.T) {
	model, _ := newTestModel(t)
	people := seedPeople(t, model)

	model.Query().SetMatcher(fixedMatcher{
		addresses: []string{store.IndexAddress("name", "Bob")},
	})

	// The pattern is ignored by the fixed strategy; only Bob's index is used.
	hits, err := model.Find(context.Background(), store.Wildcard("name", "A*"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{people["bob"].ID}, ids(hits))
}
