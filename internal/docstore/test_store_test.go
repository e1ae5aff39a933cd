package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) *TestStore {
	t.Helper()
	s := NewTestStore()
	ctx := context.Background()
	for _, d := range []map[string]any{
		{"exercise": "Squat", "date": "2024-01-02", "uid": "u1", "reps": 5},
		{"exercise": "Bench", "date": "2024-01-03", "uid": "u1", "reps": 8},
		{"exercise": "Squat", "date": "2024-01-01", "uid": "u2", "reps": 5},
		{"exercise": "Squat", "date": "2024-01-03", "uid": "u1", "reps": 3},
	} {
		_, err := s.Add(ctx, "lifts", d)
		require.NoError(t, err)
	}
	return s
}

func ids(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestTestStore_Find(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	docs, err := s.Find(ctx, Query{Collection: "lifts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(docs))

	docs, err = s.Find(ctx, Query{
		Collection: "lifts",
		Where:      []Eq{{Field: "uid", Value: "u1"}},
		OrderBy:    "date",
		Desc:       true,
	})
	require.NoError(t, err)
	// ties keep insertion order
	assert.Equal(t, []string{"2", "4", "1"}, ids(docs))

	docs, err = s.Find(ctx, Query{
		Collection: "lifts",
		Where: []Eq{
			{Field: "uid", Value: "u1"},
			{Field: "exercise", Value: "Squat"},
		},
		OrderBy: "date",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, ids(docs))

	docs, err = s.Find(ctx, Query{Collection: "lifts", OrderBy: "date", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1"}, ids(docs))

	docs, err = s.Find(ctx, Query{Collection: "lifts", Where: []Eq{{Field: "reps", Value: 5}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(docs))

	docs, err = s.Find(ctx, Query{Collection: "nothing-here"})
	require.NoError(t, err)
	assert.Empty(t, docs)

	assert.Equal(t, 6, s.FindCalls)
}

func TestTestStore_MissingFieldsSortLikeNull(t *testing.T) {
	s := NewTestStore()
	ctx := context.Background()
	_, err := s.Add(ctx, "c", map[string]any{"name": "b"})
	require.NoError(t, err)
	_, err = s.Add(ctx, "c", map[string]any{"other": 1})
	require.NoError(t, err)
	_, err = s.Add(ctx, "c", map[string]any{"name": "a"})
	require.NoError(t, err)

	docs, err := s.Find(ctx, Query{Collection: "c", OrderBy: "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1", "2"}, ids(docs))

	docs, err = s.Find(ctx, Query{Collection: "c", OrderBy: "name", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1", "3"}, ids(docs))
}

func TestTestStore_AddNormalizes(t *testing.T) {
	s := NewTestStore()
	ctx := context.Background()
	id, err := s.Add(ctx, "lifts", map[string]any{"reps": 5, "weight": 100.5})
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	docs, err := s.Find(ctx, Query{Collection: "lifts"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, float64(5), docs[0].Data["reps"])
	assert.Equal(t, 100.5, docs[0].Data["weight"])
	assert.False(t, docs[0].CreatedAt.IsZero())
}

func TestTestStore_Errors(t *testing.T) {
	s := NewTestStore()
	ctx := context.Background()

	_, err := s.Add(ctx, "", map[string]any{})
	assert.ErrorIs(t, err, ErrMissingCollection)

	_, err = s.Find(ctx, Query{Collection: "lifts", OrderBy: "bad field"})
	assert.ErrorIs(t, err, ErrInvalidField)

	storeErr := errors.New("store down")
	s.AddErr = storeErr
	s.FindErr = storeErr
	_, err = s.Add(ctx, "lifts", map[string]any{})
	assert.ErrorIs(t, err, storeErr)
	_, err = s.Find(ctx, Query{Collection: "lifts"})
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, 0, s.Len("lifts"))
}
