package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"

	"github.com/raphskal/gymtracker/internal/telemetry/tracing"
)

const documentTable = "document"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// querier is satisfied by *pgxpool.Pool and by pgxmock pools.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgStore keeps every collection in a single jsonb table.
type PgStore struct {
	db querier
}

var _ Store = (*PgStore)(nil)

func NewPgStore(db querier) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) Add(ctx context.Context, collection string, data map[string]any) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.docstore.add")
	span.SetAttributes(attribute.String("collection", collection))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query, args, err := buildInsert(collection, data)
	if err != nil {
		return "", err
	}

	var (
		id        int64
		createdAt time.Time
	)
	if err := s.db.QueryRow(ctx, query, args...).Scan(&id, &createdAt); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}

	return strconv.FormatInt(id, 10), nil
}

func (s *PgStore) Find(ctx context.Context, q Query) (_ []Document, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.docstore.find")
	span.SetAttributes(attribute.String("collection", q.Collection))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query, args, err := buildSelect(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id        int64
			raw       []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &raw, &createdAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}

		data := map[string]any{}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal document %d: %w", id, err)
		}

		docs = append(docs, Document{
			ID:        strconv.FormatInt(id, 10),
			CreatedAt: createdAt,
			Data:      data,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	span.SetAttributes(attribute.Int("documents", len(docs)))

	return docs, nil
}

func buildInsert(collection string, data map[string]any) (string, []any, error) {
	if collection == "" {
		return "", nil, ErrMissingCollection
	}
	for field := range data {
		if err := validateField(field); err != nil {
			return "", nil, err
		}
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", nil, fmt.Errorf("marshal document: %w", err)
	}

	return psql.Insert(documentTable).
		Columns("collection", "data").
		Values(collection, payload).
		Suffix("RETURNING id, created_at").
		ToSql()
}

// buildSelect translates q into SQL over the document table. String values are
// compared as text, all others as jsonb. Ordering ties fall back to insertion order.
func buildSelect(q Query) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	sb := psql.Select("id", "data", "created_at").
		From(documentTable).
		Where(squirrel.Eq{"collection": q.Collection})

	for _, eq := range q.Where {
		if s, ok := eq.Value.(string); ok {
			sb = sb.Where(fmt.Sprintf("data->>'%s' = ?", eq.Field), s)
			continue
		}

		value, err := json.Marshal(eq.Value)
		if err != nil {
			return "", nil, fmt.Errorf("marshal filter value for %s: %w", eq.Field, err)
		}
		sb = sb.Where(fmt.Sprintf("data->'%s' = ?::jsonb", eq.Field), string(value))
	}

	if q.OrderBy != "" {
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		sb = sb.OrderBy(fmt.Sprintf("data->>'%s' %s", q.OrderBy, dir))
	}
	sb = sb.OrderBy("id ASC")

	if q.Limit > 0 {
		sb = sb.Limit(q.Limit)
	}

	return sb.ToSql()
}
