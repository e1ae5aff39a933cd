package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server exposing the lifts data access layer as tools.
// Used both over stdio (cmd/lifts_mcp) and mounted at /mcp by the main backend.
func NewServer(service liftsService) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymtracker-lifts",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "suggest_exercises",
		Description: "Returns up to 5 distinct exercise names containing search_term (case-insensitive). Use when completing an exercise name.",
	}, h.SuggestExercisesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "last_exercise",
		Description: "Returns only the first character of the exercise name of the user's most recently dated set, not the full name. Arg: uid.",
	}, h.LastExerciseTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "exercise_names",
		Description: "Returns the distinct exercise names the user has logged, in the order first logged. Arg: uid.",
	}, h.ExerciseNamesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "most_recent_workout",
		Description: "Returns all sets of the given exercise done on the user's latest workout day for it. Args: uid, exercise.",
	}, h.MostRecentWorkoutTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "user_exercise_data",
		Description: "Returns the estimated one-rep max (Epley) per day for an exercise, oldest day first. Args: uid, exercise. Use when looking at progression.",
	}, h.UserExerciseDataTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "create_lift",
		Description: "Logs a new set for the user. Args: uid, exercise, weight, reps, date (YYYY-MM-DD); optional: rpe.",
	}, h.CreateLiftTool())

	return s
}
