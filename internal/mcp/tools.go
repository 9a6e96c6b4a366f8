// ABOUTME: MCP tool implementations for RPT workouts.
// ABOUTME: Each mutating tool loads the workout into a session engine and applies one operation.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/rpt/internal/lifecycle"
	"github.com/harperreed/rpt/internal/models"
	"github.com/harperreed/rpt/internal/rpt"
	"github.com/harperreed/rpt/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var errNoActiveWorkout = errors.New("no active workout; call start_workout first")

func (s *Server) registerTools() {
	// start_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_workout",
		Description: "Start a new workout, empty or from a template",
	}, s.handleStartWorkout)

	// add_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add an exercise to the workout with one empty set",
	}, s.handleAddExercise)

	// add_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_set",
		Description: "Add the next reverse-pyramid set for an exercise, with weight and reps suggested from the drop table",
	}, s.handleAddSet)

	// update_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_set",
		Description: "Record weight, reps and optional RPE for a set",
	}, s.handleUpdateSet)

	// delete_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_set",
		Description: "Delete a set by ID or ID prefix",
	}, s.handleDeleteSet)

	// complete_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_workout",
		Description: "Finish the workout and record its duration",
	}, s.handleCompleteWorkout)

	// discard_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "discard_workout",
		Description: "Delete the workout and stop offering it for resumption",
	}, s.handleDiscardWorkout)

	// list_workouts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List recent workouts, newest first",
	}, s.handleListWorkouts)

	// exercise_history
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "exercise_history",
		Description: "Show past sets and the estimated one-rep max for an exercise",
	}, s.handleExerciseHistory)

	// rpt_example
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "rpt_example",
		Description: "Show the drop-set weights for a first-set weight using the current settings",
	}, s.handleRPTExample)
}

// Tool input/output types

type startWorkoutInput struct {
	Name     string `json:"name,omitempty" jsonschema:"Workout name, defaults to the template name or Workout"`
	Template string `json:"template,omitempty" jsonschema:"Template name or ID to start from"`
}

type workoutInput struct {
	WorkoutID string `json:"workout_id,omitempty" jsonschema:"Workout ID or prefix, defaults to the resumable workout"`
}

type exerciseInput struct {
	WorkoutID string `json:"workout_id,omitempty" jsonschema:"Workout ID or prefix, defaults to the resumable workout"`
	Exercise  string `json:"exercise" jsonschema:"Exercise name or ID prefix"`
}

type updateSetInput struct {
	WorkoutID string  `json:"workout_id,omitempty" jsonschema:"Workout ID or prefix, defaults to the resumable workout"`
	SetID     string  `json:"set_id" jsonschema:"Set ID or prefix"`
	Weight    float64 `json:"weight" jsonschema:"Weight lifted"`
	Reps      int     `json:"reps" jsonschema:"Repetitions performed"`
	RPE       *int    `json:"rpe,omitempty" jsonschema:"Rate of perceived exertion, 1 to 10"`
	Propagate bool    `json:"propagate,omitempty" jsonschema:"When editing the first set, recompute later sets from the drop table"`
}

type setInput struct {
	WorkoutID string `json:"workout_id,omitempty" jsonschema:"Workout ID or prefix, defaults to the resumable workout"`
	SetID     string `json:"set_id" jsonschema:"Set ID or prefix"`
}

type listWorkoutsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type historyInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name or ID prefix"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max workouts (default 10)"`
}

type exampleInput struct {
	Weight float64 `json:"weight" jsonschema:"First set weight"`
}

type sessionOutput struct {
	Message string           `json:"message"`
	Workout session.Snapshot `json:"workout"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type workoutSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	IsCompleted bool      `json:"is_completed"`
	Exercises   int       `json:"exercises"`
	Sets        int       `json:"sets"`
	TotalVolume float64   `json:"total_volume"`
}

type listWorkoutsOutput struct {
	Workouts []workoutSummary `json:"workouts"`
}

type historySet struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	RPE    *int    `json:"rpe,omitempty"`
}

type historyWorkout struct {
	WorkoutID string       `json:"workout_id"`
	Name      string       `json:"name"`
	Date      time.Time    `json:"date"`
	Sets      []historySet `json:"sets"`
}

type historyOutput struct {
	Exercise  string           `json:"exercise"`
	OneRepMax float64          `json:"estimated_one_rep_max"`
	Workouts  []historyWorkout `json:"workouts"`
}

type exampleOutput struct {
	Weights []float64 `json:"weights"`
	Drops   []float64 `json:"drops"`
	Example string    `json:"example"`
}

// open loads a workout into a fresh engine. An empty id selects the
// resumable workout.
func (s *Server) open(id string) (*session.Engine, error) {
	var w *models.Workout
	if id == "" {
		r, err := lifecycle.FindResumable(s.repo, s.life)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, errNoActiveWorkout
		}
		w = r
	} else {
		found, err := s.repo.GetWorkout(id)
		if err != nil {
			return nil, fmt.Errorf("workout not found: %s", id)
		}
		w = found
	}
	if w.IsCompleted {
		return nil, fmt.Errorf("workout %s is already completed", w.ID.String()[:8])
	}
	e := session.New(w, s.repo, s.prefs, s.life, s.engineOptions()...)
	st, err := s.ui.Load(w.ID)
	if err != nil {
		s.logger.Warn("could not load session view state", "err", err)
	}
	e.RestoreUIState(st.Completed, st.Expanded)
	return e, nil
}

func findSet(e *session.Engine, prefix string) (*models.ExerciseSet, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, errors.New("set_id is required")
	}
	var match *models.ExerciseSet
	for _, set := range e.Workout().Sets {
		if !strings.HasPrefix(set.ID.String(), prefix) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("ambiguous set prefix: %s", prefix)
		}
		match = set
	}
	if match == nil {
		return nil, fmt.Errorf("set not found: %s", prefix)
	}
	return match, nil
}

func snapshotOutput(e *session.Engine, msg string) sessionOutput {
	return sessionOutput{Message: msg, Workout: e.Snapshot()}
}

// Tool handlers

func (s *Server) handleStartWorkout(ctx context.Context, req *mcp.CallToolRequest, input startWorkoutInput) (*mcp.CallToolResult, sessionOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Template == "" {
		name := input.Name
		if name == "" {
			name = "Workout"
		}
		e, err := session.Start(s.repo, s.prefs, s.life, name, nil, s.engineOptions()...)
		if err != nil {
			return nil, sessionOutput{}, fmt.Errorf("failed to start workout: %w", err)
		}
		s.saveView(e)
		return nil, snapshotOutput(e, fmt.Sprintf("Started %s (ID: %s)", name, e.Workout().ID.String()[:8])), nil
	}

	tmpl, err := s.repo.GetTemplate(input.Template)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("template not found: %s", input.Template)
	}
	w := tmpl.Instantiate(s.lookupExercise, time.Now())
	if input.Name != "" {
		w.Name = input.Name
	}
	e, err := session.Begin(w, s.repo, s.prefs, s.life, s.engineOptions()...)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to start workout: %w", err)
	}
	for _, ex := range e.ExerciseOrder() {
		if !e.IsExpanded(ex.ID) {
			_, _ = e.ToggleExpansion(ex)
		}
	}
	s.saveView(e)
	return nil, snapshotOutput(e, fmt.Sprintf("Started %s from template %s (ID: %s)", w.Name, tmpl.Name, w.ID.String()[:8])), nil
}

func (s *Server) lookupExercise(name string) *models.Exercise {
	e, err := s.repo.GetExerciseByName(name)
	if err != nil {
		s.logger.Warn("template exercise not in library", "exercise", name)
		return nil
	}
	return e
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input exerciseInput) (*mcp.CallToolResult, sessionOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.open(input.WorkoutID)
	if err != nil {
		return nil, sessionOutput{}, err
	}
	exercise, err := s.repo.FindExercise(input.Exercise)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("exercise not found: %s", input.Exercise)
	}
	if err := e.AddExercise(exercise); err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}
	s.saveView(e)
	return nil, snapshotOutput(e, fmt.Sprintf("Added %s", exercise.Name)), nil
}

func (s *Server) handleAddSet(ctx context.Context, req *mcp.CallToolRequest, input exerciseInput) (*mcp.CallToolResult, sessionOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.open(input.WorkoutID)
	if err != nil {
		return nil, sessionOutput{}, err
	}
	exercise, err := s.repo.FindExercise(input.Exercise)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("exercise not found: %s", input.Exercise)
	}
	set, err := e.AddSet(exercise)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to add set: %w", err)
	}
	s.saveView(e)
	unit := s.prefs.Unit()
	return nil, snapshotOutput(e, fmt.Sprintf("Added %s set: %s x %d (ID: %s)",
		exercise.Name, rpt.FormatWeight(set.Weight, unit), set.Reps, set.ID.String())), nil
}

func (s *Server) handleUpdateSet(ctx context.Context, req *mcp.CallToolRequest, input updateSetInput) (*mcp.CallToolResult, sessionOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.open(input.WorkoutID)
	if err != nil {
		return nil, sessionOutput{}, err
	}
	set, err := findSet(e, input.SetID)
	if err != nil {
		return nil, sessionOutput{}, err
	}
	if err := e.UpdateSet(set, input.Weight, input.Reps, input.RPE); err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to update set: %w", err)
	}

	msg := fmt.Sprintf("Logged %s x %d", rpt.FormatWeight(input.Weight, s.prefs.Unit()), input.Reps)
	if input.Propagate && set.Exercise != nil && input.Weight > 0 {
		sets := e.SetsFor(set.Exercise.ID)
		if len(sets) > 1 && sets[0].ID == set.ID {
			if err := e.PropagateDropSets(set.Exercise, input.Weight); err != nil {
				return nil, sessionOutput{}, fmt.Errorf("failed to propagate drop sets: %w", err)
			}
			msg += fmt.Sprintf("; updated %d drop sets", len(sets)-1)
		}
	}
	s.saveView(e)
	return nil, snapshotOutput(e, msg), nil
}

func (s *Server) handleDeleteSet(ctx context.Context, req *mcp.CallToolRequest, input setInput) (*mcp.CallToolResult, sessionOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.open(input.WorkoutID)
	if err != nil {
		return nil, sessionOutput{}, err
	}
	set, err := findSet(e, input.SetID)
	if err != nil {
		return nil, sessionOutput{}, err
	}
	if err := e.DeleteSet(set); err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to delete set: %w", err)
	}
	s.saveView(e)
	return nil, snapshotOutput(e, fmt.Sprintf("Deleted set: %s", input.SetID)), nil
}

func (s *Server) handleCompleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input workoutInput) (*mcp.CallToolResult, sessionOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.open(input.WorkoutID)
	if err != nil {
		return nil, sessionOutput{}, err
	}
	if err := e.Complete(); err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to complete workout: %w", err)
	}
	s.clearView(e)
	return nil, snapshotOutput(e, e.Workout().Summary(s.prefs.Unit())), nil
}

func (s *Server) handleDiscardWorkout(ctx context.Context, req *mcp.CallToolRequest, input workoutInput) (*mcp.CallToolResult, simpleOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.open(input.WorkoutID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	err = e.Discard()
	s.clearView(e)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to discard workout: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Discarded workout: %s", e.Workout().ID.String()[:8]),
	}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, listWorkoutsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	workouts, err := s.repo.RecentWorkouts(input.Limit)
	if err != nil {
		return nil, listWorkoutsOutput{}, fmt.Errorf("failed to list workouts: %w", err)
	}

	out := listWorkoutsOutput{Workouts: make([]workoutSummary, 0, len(workouts))}
	for _, w := range workouts {
		out.Workouts = append(out.Workouts, workoutSummary{
			ID:          w.ID.String(),
			Name:        w.Name,
			Date:        w.Date,
			IsCompleted: w.IsCompleted,
			Exercises:   w.ExerciseCount(),
			Sets:        w.WorkingSetsCount(),
			TotalVolume: w.TotalVolume(),
		})
	}
	return nil, out, nil
}

func (s *Server) handleExerciseHistory(ctx context.Context, req *mcp.CallToolRequest, input historyInput) (*mcp.CallToolResult, historyOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 10
	}

	exercise, err := s.repo.FindExercise(input.Exercise)
	if err != nil {
		return nil, historyOutput{}, fmt.Errorf("exercise not found: %s", input.Exercise)
	}
	entries, err := s.repo.WorkoutHistory(exercise.ID)
	if err != nil {
		return nil, historyOutput{}, fmt.Errorf("failed to load history: %w", err)
	}
	orm, err := s.repo.OneRepMax(exercise.ID)
	if err != nil {
		return nil, historyOutput{}, fmt.Errorf("failed to estimate one-rep max: %w", err)
	}

	out := historyOutput{Exercise: exercise.Name, OneRepMax: orm, Workouts: []historyWorkout{}}
	for i, h := range entries {
		if i >= input.Limit {
			break
		}
		hw := historyWorkout{WorkoutID: h.Workout.ID.String(), Name: h.Workout.Name, Date: h.Workout.Date}
		for _, set := range h.Sets {
			hw.Sets = append(hw.Sets, historySet{Weight: set.Weight, Reps: set.Reps, RPE: set.RPE})
		}
		out.Workouts = append(out.Workouts, hw)
	}
	return nil, out, nil
}

func (s *Server) handleRPTExample(ctx context.Context, req *mcp.CallToolRequest, input exampleInput) (*mcp.CallToolResult, exampleOutput, error) {
	if input.Weight <= 0 {
		return nil, exampleOutput{}, fmt.Errorf("weight must be positive, got %v", input.Weight)
	}
	drops := s.prefs.RPTPercentageDrops()
	weights := rpt.CalculateWeights(input.Weight, drops)
	for i := 1; i < len(weights); i++ {
		weights[i] = float64(rpt.RoundToNearest5(weights[i]))
	}
	return nil, exampleOutput{
		Weights: weights,
		Drops:   drops,
		Example: rpt.FormatExample(input.Weight, drops, s.prefs.Unit()),
	}, nil
}
