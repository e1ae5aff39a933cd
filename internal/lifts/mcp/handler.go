package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphskal/gymtracker/internal/auth"
	"github.com/raphskal/gymtracker/internal/lifts"
)

type liftsService interface {
	Create(ctx context.Context, session *auth.Session, in lifts.LiftInput) (*lifts.LiftRecord, error)
	SuggestExercises(ctx context.Context, searchTerm string) ([]string, error)
	LastExercise(ctx context.Context, session *auth.Session) (string, error)
	MostRecentWorkout(ctx context.Context, session *auth.Session, exercise string) ([]lifts.LiftRecord, error)
	UserExerciseData(ctx context.Context, uid, exercise string) ([]lifts.OneRepMaxPoint, error)
	ExerciseNames(ctx context.Context, session *auth.Session) ([]string, error)
}

// Handler parses tool input, calls the lifts service and formats the MCP result.
// Tools act on behalf of the user named by uid; access to the server itself is
// guarded by the transport.
type Handler struct {
	service liftsService
}

func NewHandler(service liftsService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(prefix string, err error) *mcp.CallToolResult {
	text := prefix
	if err != nil {
		text += ": " + err.Error()
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func sessionFor(uid string) *auth.Session {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil
	}
	return &auth.Session{UID: uid}
}

// SuggestExercisesInput is the input for suggest_exercises.
type SuggestExercisesInput struct {
	SearchTerm string `json:"search_term" jsonschema:"Case-insensitive text contained in the exercise name"`
}

func (h *Handler) SuggestExercisesTool() func(context.Context, *mcp.CallToolRequest, SuggestExercisesInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SuggestExercisesInput) (*mcp.CallToolResult, any, error) {
		suggestions, err := h.service.SuggestExercises(ctx, in.SearchTerm)
		if err != nil {
			return errorResult("Error suggesting exercises", err), nil, nil
		}
		if suggestions == nil {
			suggestions = []string{}
		}
		return jsonResult(suggestions), nil, nil
	}
}

// UserInput is the input for tools that only need the acting user.
type UserInput struct {
	UID string `json:"uid" jsonschema:"User id the lifts belong to"`
}

func (h *Handler) LastExerciseTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		session := sessionFor(in.UID)
		if session == nil {
			return errorResult("uid is required", nil), nil, nil
		}
		exercise, err := h.service.LastExercise(ctx, session)
		if err != nil {
			return errorResult("Error fetching last exercise", err), nil, nil
		}
		return jsonResult(lifts.LastExerciseResponse{Exercise: exercise}), nil, nil
	}
}

func (h *Handler) ExerciseNamesTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		session := sessionFor(in.UID)
		if session == nil {
			return errorResult("uid is required", nil), nil, nil
		}
		names, err := h.service.ExerciseNames(ctx, session)
		if err != nil {
			return errorResult("Error listing exercise names", err), nil, nil
		}
		if names == nil {
			names = []string{}
		}
		return jsonResult(names), nil, nil
	}
}

// UserExerciseInput is the input for tools scoped to one user and exercise.
type UserExerciseInput struct {
	UID      string `json:"uid" jsonschema:"User id the lifts belong to"`
	Exercise string `json:"exercise" jsonschema:"Exact exercise name (e.g. Squat)"`
}

func (h *Handler) MostRecentWorkoutTool() func(context.Context, *mcp.CallToolRequest, UserExerciseInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserExerciseInput) (*mcp.CallToolResult, any, error) {
		session := sessionFor(in.UID)
		if session == nil {
			return errorResult("uid is required", nil), nil, nil
		}
		if in.Exercise == "" {
			return errorResult("exercise is required", nil), nil, nil
		}
		sets, err := h.service.MostRecentWorkout(ctx, session, in.Exercise)
		if err != nil {
			return errorResult("Error fetching most recent workout", err), nil, nil
		}
		if sets == nil {
			sets = []lifts.LiftRecord{}
		}
		return jsonResult(sets), nil, nil
	}
}

func (h *Handler) UserExerciseDataTool() func(context.Context, *mcp.CallToolRequest, UserExerciseInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserExerciseInput) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(in.UID) == "" || in.Exercise == "" {
			return errorResult("uid and exercise are required", nil), nil, nil
		}
		points, err := h.service.UserExerciseData(ctx, in.UID, in.Exercise)
		if err != nil {
			return errorResult("Error fetching exercise data", err), nil, nil
		}
		if points == nil {
			points = []lifts.OneRepMaxPoint{}
		}
		return jsonResult(points), nil, nil
	}
}

// CreateLiftInput is the input for create_lift.
type CreateLiftInput struct {
	UID      string  `json:"uid" jsonschema:"User id the set is logged for"`
	Exercise string  `json:"exercise" jsonschema:"Exercise name (e.g. Bench Press)"`
	Weight   float64 `json:"weight" jsonschema:"Weight lifted, positive"`
	Reps     int     `json:"reps" jsonschema:"Repetitions, positive"`
	Date     string  `json:"date" jsonschema:"Workout date (YYYY-MM-DD)"`
	RPE      float64 `json:"rpe,omitempty" jsonschema:"Rate of perceived exertion, usually 0 to 10"`
}

func (h *Handler) CreateLiftTool() func(context.Context, *mcp.CallToolRequest, CreateLiftInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in CreateLiftInput) (*mcp.CallToolResult, any, error) {
		session := sessionFor(in.UID)
		if session == nil {
			return errorResult("uid is required", nil), nil, nil
		}
		input := lifts.LiftInput{
			Exercise: in.Exercise,
			Weight:   in.Weight,
			Reps:     in.Reps,
			Date:     in.Date,
			RPE:      in.RPE,
		}
		if err := input.Validate(); err != nil {
			return errorResult("Invalid lift", err), nil, nil
		}
		record, err := h.service.Create(ctx, session, input)
		if err != nil {
			if errors.Is(err, lifts.ErrInvalidInput) {
				return errorResult("Invalid lift", err), nil, nil
			}
			return errorResult("Error saving lift", err), nil, nil
		}
		return jsonResult(record), nil, nil
	}
}
