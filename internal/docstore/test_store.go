package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"
)

// TestStore is an in-memory Store with the same filter and ordering rules as PgStore.
type TestStore struct {
	mu     sync.RWMutex
	nextID int64
	docs   map[string][]Document

	// AddErr and FindErr, when set, are returned by the corresponding calls.
	AddErr  error
	FindErr error
	// FindCalls counts Find invocations.
	FindCalls int
}

var _ Store = (*TestStore)(nil)

func NewTestStore() *TestStore {
	return &TestStore{
		docs: make(map[string][]Document),
	}
}

func (s *TestStore) Add(_ context.Context, collection string, data map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AddErr != nil {
		return "", s.AddErr
	}
	if collection == "" {
		return "", ErrMissingCollection
	}
	for field := range data {
		if err := validateField(field); err != nil {
			return "", err
		}
	}

	// round trip through json so stored values look like the ones PgStore returns
	normalized, err := normalize(data)
	if err != nil {
		return "", err
	}

	s.nextID++
	id := strconv.FormatInt(s.nextID, 10)
	s.docs[collection] = append(s.docs[collection], Document{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Data:      normalized,
	})

	return id, nil
}

// AddRaw stores data as is, skipping normalization. Used to plant malformed documents.
func (s *TestStore) AddRaw(collection string, data map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := strconv.FormatInt(s.nextID, 10)
	s.docs[collection] = append(s.docs[collection], Document{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Data:      data,
	})
	return id
}

func (s *TestStore) Find(_ context.Context, q Query) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.FindCalls++
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var matched []Document
	for _, doc := range s.docs[q.Collection] {
		ok, err := matches(doc, q.Where)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, doc)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			a, aOk := textValue(matched[i].Data[q.OrderBy])
			b, bOk := textValue(matched[j].Data[q.OrderBy])
			// postgres sorts NULL as the largest value
			switch {
			case !aOk && !bOk:
				return false
			case !aOk:
				return q.Desc
			case !bOk:
				return !q.Desc
			}
			if q.Desc {
				return a > b
			}
			return a < b
		})
	}

	if q.Limit > 0 && uint64(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
	}

	return matched, nil
}

// Len returns the number of documents in a collection.
func (s *TestStore) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs[collection])
}

func matches(doc Document, where []Eq) (bool, error) {
	for _, eq := range where {
		got, present := doc.Data[eq.Field]
		if !present {
			return false, nil
		}

		if want, ok := eq.Value.(string); ok {
			text, ok := textValue(got)
			if !ok || text != want {
				return false, nil
			}
			continue
		}

		wantJSON, err := json.Marshal(eq.Value)
		if err != nil {
			return false, fmt.Errorf("marshal filter value for %s: %w", eq.Field, err)
		}
		gotJSON, err := json.Marshal(got)
		if err != nil {
			return false, fmt.Errorf("marshal document value for %s: %w", eq.Field, err)
		}
		if string(wantJSON) != string(gotJSON) {
			return false, nil
		}
	}
	return true, nil
}

// textValue mirrors the ->> operator: strings as they are, other values as json text.
func textValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val), true
		}
		return string(b), true
	}
}

func normalize(data map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return out, nil
}
