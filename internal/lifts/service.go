package lifts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/raphskal/gymtracker/internal/auth"
	"github.com/raphskal/gymtracker/internal/docstore"
	"github.com/raphskal/gymtracker/internal/telemetry/tracing"
)

const MaxSuggestions = 5

var ErrUnauthenticated = errors.New("user is not logged in")

// Service is the data access layer for lifts. It keeps no state between calls,
// every read goes to the store.
type Service struct {
	store   docstore.Store
	NowFunc func() time.Time
}

func NewService(store docstore.Store) *Service {
	return &Service{
		store:   store,
		NowFunc: time.Now,
	}
}

// Create stores a new set for the signed in user. Not idempotent.
func (s *Service) Create(ctx context.Context, session *auth.Session, in LiftInput) (_ *LiftRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.lifts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if session == nil {
		return nil, ErrUnauthenticated
	}

	rec := LiftRecord{
		Exercise:  in.Exercise,
		Weight:    in.Weight,
		Reps:      in.Reps,
		RPE:       in.RPE,
		Date:      in.Date,
		UID:       session.UID,
		CreatedAt: s.NowFunc().UTC().Format(time.RFC3339Nano),
	}

	id, err := s.store.Add(ctx, Collection, rec.document())
	if err != nil {
		log.Errorf("save lift for [%s]: %s", session.UID, err)
		return nil, fmt.Errorf("save lift: %w", err)
	}

	rec.ID = id
	span.SetAttributes(attribute.String("lift.id", id))

	return &rec, nil
}

// SuggestExercises returns up to MaxSuggestions distinct exercise names containing
// searchTerm, case-insensitive, in the order they are first found.
// Looks at the lifts of all users.
func (s *Service) SuggestExercises(ctx context.Context, searchTerm string) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.lifts.suggest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	// TODO: replace the full scan with a distinct-exercise query once suggestions are scoped per user
	docs, err := s.store.Find(ctx, docstore.Query{Collection: Collection})
	if err != nil {
		log.Errorf("fetch suggestions: %s", err)
		return nil, fmt.Errorf("fetch suggestions: %w", err)
	}

	term := strings.ToLower(searchTerm)
	seen := make(map[string]struct{})
	suggestions := make([]string, 0, MaxSuggestions)
	for _, doc := range docs {
		exercise, err := stringField(doc, fieldExercise, true)
		if err != nil {
			return nil, err
		}
		if len(suggestions) == MaxSuggestions || !strings.Contains(strings.ToLower(exercise), term) {
			continue
		}
		if _, ok := seen[exercise]; ok {
			continue
		}
		seen[exercise] = struct{}{}
		suggestions = append(suggestions, exercise)
	}

	return suggestions, nil
}

// LastExercise returns the first character of the exercise name of the user's
// latest lift, or "" when there is none.
func (s *Service) LastExercise(ctx context.Context, session *auth.Session) (_ string, err error) {
	if session == nil {
		return "", nil
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "service.lifts.last-exercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	docs, err := s.store.Find(ctx, docstore.Query{
		Collection: Collection,
		Where:      []docstore.Eq{{Field: fieldUID, Value: session.UID}},
		OrderBy:    fieldDate,
		Desc:       true,
		Limit:      1,
	})
	if err != nil {
		log.Errorf("fetch last exercise for [%s]: %s", session.UID, err)
		return "", fmt.Errorf("fetch last exercise: %w", err)
	}
	if len(docs) == 0 {
		return "", nil
	}

	exercise, err := stringField(docs[0], fieldExercise, true)
	if err != nil {
		return "", err
	}
	if exercise == "" {
		return "", nil
	}

	// only the first character, kept for the clients relying on it
	r, _ := utf8.DecodeRuneInString(exercise)
	return string(r), nil
}

// MostRecentWorkout returns all of the user's sets of exercise done on the latest date.
func (s *Service) MostRecentWorkout(ctx context.Context, session *auth.Session, exercise string) (_ []LiftRecord, err error) {
	if session == nil {
		return []LiftRecord{}, nil
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "service.lifts.most-recent-workout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exercise))

	docs, err := s.store.Find(ctx, docstore.Query{
		Collection: Collection,
		Where: []docstore.Eq{
			{Field: fieldExercise, Value: exercise},
			{Field: fieldUID, Value: session.UID},
		},
		OrderBy: fieldDate,
		Desc:    true,
	})
	if err != nil {
		log.Errorf("fetch most recent workout for [%s]: %s", session.UID, err)
		return nil, fmt.Errorf("fetch most recent workout: %w", err)
	}

	records, err := decodeAll(docs)
	if err != nil {
		return nil, err
	}

	return LatestDaySets(records), nil
}

// UserExerciseData returns the estimated one rep max of the heaviest set of each
// day, oldest day first. uid is taken as given, no session needed.
func (s *Service) UserExerciseData(ctx context.Context, uid, exercise string) (_ []OneRepMaxPoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.lifts.user-exercise-data")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("uid", uid), attribute.String("exercise", exercise))

	docs, err := s.store.Find(ctx, docstore.Query{
		Collection: Collection,
		Where: []docstore.Eq{
			{Field: fieldUID, Value: uid},
			{Field: fieldExercise, Value: exercise},
		},
		OrderBy: fieldDate,
	})
	if err != nil {
		log.Errorf("fetch exercise data for [%s]: %s", uid, err)
		return nil, fmt.Errorf("fetch exercise data: %w", err)
	}

	records, err := decodeAll(docs)
	if err != nil {
		return nil, err
	}

	return OneRepMaxByDay(records), nil
}

// ExerciseNames lists the distinct exercises of the signed in user, in the order
// they were first logged.
func (s *Service) ExerciseNames(ctx context.Context, session *auth.Session) (_ []string, err error) {
	if session == nil {
		return []string{}, nil
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "service.lifts.exercise-names")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	docs, err := s.store.Find(ctx, docstore.Query{
		Collection: Collection,
		Where:      []docstore.Eq{{Field: fieldUID, Value: session.UID}},
	})
	if err != nil {
		log.Errorf("fetch exercise names for [%s]: %s", session.UID, err)
		return nil, fmt.Errorf("fetch exercise names: %w", err)
	}

	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, doc := range docs {
		exercise, err := stringField(doc, fieldExercise, true)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[exercise]; ok {
			continue
		}
		seen[exercise] = struct{}{}
		names = append(names, exercise)
	}

	return names, nil
}
