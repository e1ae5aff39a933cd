//go:build integration_test

package docstore

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphskal/gymtracker/internal/db/migrations"
)

var integrationDSN string

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=gymtracker",
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("run postgres: %s", err)
	}

	integrationDSN = fmt.Sprintf("postgres://postgres@localhost:%s/gymtracker?sslmode=disable", resource.GetPort("5432/tcp"))
	if err := pool.Retry(func() error {
		return migrations.Up(context.Background(), integrationDSN)
	}); err != nil {
		_ = resource.Close()
		log.Fatalf("migrate: %s", err)
	}

	code := m.Run()

	if err := resource.Close(); err != nil {
		log.Printf("postgres teardown: %s", err)
	}
	os.Exit(code)
}

// Runs the same scenario against PgStore and TestStore and expects identical results.
func TestPgStore_MatchesTestStore(t *testing.T) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, integrationDSN)
	require.NoError(t, err)
	defer pool.Close()

	stores := map[string]Store{
		"pg":     NewPgStore(pool),
		"memory": NewTestStore(),
	}

	queries := []Query{
		{Collection: "lifts_it"},
		{Collection: "lifts_it", Where: []Eq{{Field: "uid", Value: "u1"}}, OrderBy: "date", Desc: true},
		{Collection: "lifts_it", Where: []Eq{{Field: "uid", Value: "u1"}, {Field: "exercise", Value: "Squat"}}, OrderBy: "date"},
		{Collection: "lifts_it", Where: []Eq{{Field: "reps", Value: 5}}},
		{Collection: "lifts_it", OrderBy: "date", Limit: 2},
	}

	results := map[string][][]string{}
	for name, store := range stores {
		for _, d := range []map[string]any{
			{"exercise": "Squat", "date": "2024-01-02", "uid": "u1", "reps": 5, "weight": 100.0},
			{"exercise": "Bench", "date": "2024-01-03", "uid": "u1", "reps": 8, "weight": 60.0},
			{"exercise": "Squat", "date": "2024-01-01", "uid": "u2", "reps": 5, "weight": 80.0},
			{"exercise": "Squat", "date": "2024-01-03", "uid": "u1", "reps": 3, "weight": 110.0},
		} {
			_, err := store.Add(ctx, "lifts_it", d)
			require.NoError(t, err)
		}

		for _, q := range queries {
			docs, err := store.Find(ctx, q)
			require.NoError(t, err)
			var weights []string
			for _, d := range docs {
				weights = append(weights, fmt.Sprint(d.Data["weight"]))
			}
			results[name] = append(results[name], weights)
		}
	}

	assert.Equal(t, results["memory"], results["pg"])
}
