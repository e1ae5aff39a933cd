package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"
)

//go:embed sql/*.sql
var embedded embed.FS

func FS() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		// the embedded dir is fixed at build time
		panic(err)
	}
	return sub
}

// Up applies all pending migrations on the database behind connString.
func Up(ctx context.Context, connString string) error {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("sql open: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warnf("migrations: close db: %s", err)
		}
	}()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, FS())
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		log.Debugf("migration applied: %s (%s)", r.Source.Path, r.Duration)
	}

	return nil
}
