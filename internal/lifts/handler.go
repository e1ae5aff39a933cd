package lifts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/raphskal/gymtracker/internal/auth"
	"github.com/raphskal/gymtracker/internal/telemetry/metrics"
	"github.com/raphskal/gymtracker/internal/telemetry/tracing"
	"github.com/raphskal/gymtracker/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=lifts_test

type liftsService interface {
	Create(ctx context.Context, session *auth.Session, in LiftInput) (*LiftRecord, error)
	SuggestExercises(ctx context.Context, searchTerm string) ([]string, error)
	LastExercise(ctx context.Context, session *auth.Session) (string, error)
	MostRecentWorkout(ctx context.Context, session *auth.Session, exercise string) ([]LiftRecord, error)
	UserExerciseData(ctx context.Context, uid, exercise string) ([]OneRepMaxPoint, error)
	ExerciseNames(ctx context.Context, session *auth.Session) ([]string, error)
}

type LastExerciseResponse struct {
	Exercise string `json:"exercise"`
}

type Handler struct {
	service        liftsService
	metricsManager *metrics.Manager
}

func NewHandler(service liftsService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/lifts", handler.HandleCreate).Methods("POST", "OPTIONS").Name("new-lift")
	r.HandleFunc("/lifts/suggestions", handler.HandleSuggestions).Methods("GET", "OPTIONS").Name("lift-suggestions")
	r.HandleFunc("/lifts/last", handler.HandleLastExercise).Methods("GET", "OPTIONS").Name("last-exercise")
	r.HandleFunc("/lifts/recent/{exercise}", handler.HandleMostRecentWorkout).Methods("GET", "OPTIONS").Name("recent-workout")
	r.HandleFunc("/lifts/exercises", handler.HandleExerciseNames).Methods("GET", "OPTIONS").Name("exercise-names")
	r.HandleFunc("/analytics/{uid}/{exercise}", handler.HandleUserExerciseData).Methods("GET", "OPTIONS").Name("exercise-analytics")
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.lifts.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var in LiftInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Tracef("new lift, unmarshal json params: %s", err)
		http.Error(w, "add lift failed", http.StatusBadRequest)
		return
	}

	if err := in.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := handler.service.Create(ctx, auth.SessionFromContext(ctx), in)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			http.Error(w, "not logged in", http.StatusUnauthorized)
			return
		}
		log.Errorf("add new lift: %s", err)
		http.Error(w, "add lift failed", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterLiftsCreated.Inc()

	pkg.WriteJSONResponse(w, rec, http.StatusCreated)
}

func (handler *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.lifts.suggestions")
	defer span.End()

	suggestions, err := handler.service.SuggestExercises(ctx, r.URL.Query().Get("q"))
	if err != nil {
		log.Errorf("suggest exercises: %s", err)
		http.Error(w, "get suggestions failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, suggestions, http.StatusOK)
}

func (handler *Handler) HandleLastExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.lifts.last")
	defer span.End()

	exercise, err := handler.service.LastExercise(ctx, auth.SessionFromContext(ctx))
	if err != nil {
		log.Errorf("last exercise: %s", err)
		http.Error(w, "get last exercise failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, LastExerciseResponse{Exercise: exercise}, http.StatusOK)
}

func (handler *Handler) HandleMostRecentWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.lifts.recent")
	defer span.End()

	exercise := mux.Vars(r)["exercise"]
	if exercise == "" {
		http.Error(w, "exercise empty", http.StatusBadRequest)
		return
	}

	sets, err := handler.service.MostRecentWorkout(ctx, auth.SessionFromContext(ctx), exercise)
	if err != nil {
		log.Errorf("most recent workout [%s]: %s", exercise, err)
		http.Error(w, "get recent workout failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, sets, http.StatusOK)
}

func (handler *Handler) HandleExerciseNames(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.lifts.exercises")
	defer span.End()

	names, err := handler.service.ExerciseNames(ctx, auth.SessionFromContext(ctx))
	if err != nil {
		log.Errorf("exercise names: %s", err)
		http.Error(w, "get exercises failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, names, http.StatusOK)
}

func (handler *Handler) HandleUserExerciseData(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.lifts.analytics")
	defer span.End()

	vars := mux.Vars(r)
	uid, exercise := vars["uid"], vars["exercise"]
	if uid == "" || exercise == "" {
		http.Error(w, "uid or exercise empty", http.StatusBadRequest)
		return
	}

	points, err := handler.service.UserExerciseData(ctx, uid, exercise)
	if err != nil {
		log.Errorf("user exercise data [%s/%s]: %s", uid, exercise, err)
		http.Error(w, "get exercise data failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, points, http.StatusOK)
}
