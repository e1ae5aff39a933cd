package lifts

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/raphskal/gymtracker/internal/docstore"
)

const (
	Collection = "lifts"
	DateLayout = "2006-01-02"

	fieldExercise  = "exercise"
	fieldWeight    = "weight"
	fieldReps      = "reps"
	fieldRPE       = "rpe"
	fieldDate      = "date"
	fieldUID       = "uid"
	fieldCreatedAt = "createdAt"
)

var ErrInvalidInput = errors.New("invalid lift")

// LiftInput is a set as entered by the user, before uid and createdAt are stamped.
type LiftInput struct {
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
	Date     string  `json:"date"`
	RPE      float64 `json:"rpe"`
}

func (in LiftInput) Validate() error {
	if strings.TrimSpace(in.Exercise) == "" {
		return fmt.Errorf("%w: exercise empty", ErrInvalidInput)
	}
	if in.Weight <= 0 || math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}
	if in.Reps <= 0 {
		return fmt.Errorf("%w: reps must be positive", ErrInvalidInput)
	}
	if in.RPE < 0 || math.IsNaN(in.RPE) || math.IsInf(in.RPE, 0) {
		return fmt.Errorf("%w: rpe must be a non-negative number", ErrInvalidInput)
	}
	// dates are grouped and ordered as strings, only the zero-padded form sorts right
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return nil
}

type LiftRecord struct {
	ID        string  `json:"id"`
	Exercise  string  `json:"exercise"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	RPE       float64 `json:"rpe"`
	Date      string  `json:"date"`
	UID       string  `json:"uid"`
	CreatedAt string  `json:"createdAt"`
}

type OneRepMaxPoint struct {
	Date      string  `json:"date"`
	OneRepMax float64 `json:"oneRepMax"`
}

func (r LiftRecord) document() map[string]any {
	return map[string]any{
		fieldExercise:  r.Exercise,
		fieldWeight:    r.Weight,
		fieldReps:      r.Reps,
		fieldRPE:       r.RPE,
		fieldDate:      r.Date,
		fieldUID:       r.UID,
		fieldCreatedAt: r.CreatedAt,
	}
}

// DecodeError is returned for stored documents that do not hold a valid lift.
type DecodeError struct {
	DocID  string
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode lift %s: field %s %s", e.DocID, e.Field, e.Reason)
}

// DecodeRecord turns a stored document into a LiftRecord. rpe and createdAt are optional.
func DecodeRecord(doc docstore.Document) (LiftRecord, error) {
	rec := LiftRecord{ID: doc.ID}

	var err error
	if rec.Exercise, err = stringField(doc, fieldExercise, true); err != nil {
		return LiftRecord{}, err
	}
	if rec.Date, err = stringField(doc, fieldDate, true); err != nil {
		return LiftRecord{}, err
	}
	if rec.UID, err = stringField(doc, fieldUID, true); err != nil {
		return LiftRecord{}, err
	}
	if rec.CreatedAt, err = stringField(doc, fieldCreatedAt, false); err != nil {
		return LiftRecord{}, err
	}

	if rec.Weight, err = numberField(doc, fieldWeight, true); err != nil {
		return LiftRecord{}, err
	}
	if rec.RPE, err = numberField(doc, fieldRPE, false); err != nil {
		return LiftRecord{}, err
	}

	reps, err := numberField(doc, fieldReps, true)
	if err != nil {
		return LiftRecord{}, err
	}
	if reps != math.Trunc(reps) {
		return LiftRecord{}, &DecodeError{DocID: doc.ID, Field: fieldReps, Reason: "is not an integer"}
	}
	rec.Reps = int(reps)

	return rec, nil
}

func stringField(doc docstore.Document, field string, required bool) (string, error) {
	v, ok := doc.Data[field]
	if !ok || v == nil {
		if required {
			return "", &DecodeError{DocID: doc.ID, Field: field, Reason: "is missing"}
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &DecodeError{DocID: doc.ID, Field: field, Reason: fmt.Sprintf("is %T, not a string", v)}
	}
	return s, nil
}

func numberField(doc docstore.Document, field string, required bool) (float64, error) {
	v, ok := doc.Data[field]
	if !ok || v == nil {
		if required {
			return 0, &DecodeError{DocID: doc.ID, Field: field, Reason: "is missing"}
		}
		return 0, nil
	}

	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, &DecodeError{DocID: doc.ID, Field: field, Reason: err.Error()}
		}
		return f, nil
	default:
		return 0, &DecodeError{DocID: doc.ID, Field: field, Reason: fmt.Sprintf("is %T, not a number", v)}
	}
}

func decodeAll(docs []docstore.Document) ([]LiftRecord, error) {
	records := make([]LiftRecord, 0, len(docs))
	for _, doc := range docs {
		rec, err := DecodeRecord(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
