package docstore

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	ErrInvalidField      = errors.New("invalid field name")
	ErrMissingCollection = errors.New("collection not set")
)

var fieldNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Eq is an equality filter on a top-level document field.
type Eq struct {
	Field string
	Value any
}

// Query selects documents of one collection. Zero Limit means no limit.
type Query struct {
	Collection string
	Where      []Eq
	OrderBy    string
	Desc       bool
	Limit      uint64
}

type Document struct {
	ID        string
	CreatedAt time.Time
	Data      map[string]any
}

func (q Query) Validate() error {
	if q.Collection == "" {
		return ErrMissingCollection
	}
	for _, eq := range q.Where {
		if err := validateField(eq.Field); err != nil {
			return err
		}
	}
	if q.OrderBy != "" {
		if err := validateField(q.OrderBy); err != nil {
			return err
		}
	}
	return nil
}

func validateField(name string) error {
	if !fieldNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return nil
}
