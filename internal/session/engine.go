// ABOUTME: Active workout session engine: owns the live workout and its derived view.
// ABOUTME: Every mutation edits the sets, re-projects, then persists through the Store.
package session

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/rpt/internal/logging"
	"github.com/harperreed/rpt/internal/models"
	"github.com/harperreed/rpt/internal/rpt"
	"github.com/oklog/ulid/v2"
)

// New-set defaults.
const (
	DefaultNewSetReps = 8
	RepIncrement      = 2
	MaxSuggestedReps  = 15
)

// Engine runs one workout session. It is single-writer: callers must not
// mutate it from more than one goroutine. Only the rest timer runs
// concurrently, and it guards its own state.
type Engine struct {
	workout  *models.Workout
	store    Store
	settings Settings
	life     Lifecycle
	feedback Feedback
	logger   *log.Logger
	now      func() time.Time

	order     []*models.Exercise
	groups    map[uuid.UUID][]*models.ExerciseSet
	completed map[uuid.UUID]bool
	expanded  map[uuid.UUID]bool
	timer     *RestTimer
	lastError error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrDiscard(l) }
}

// WithFeedback sets the feedback sink.
func WithFeedback(f Feedback) Option {
	return func(e *Engine) {
		if f != nil {
			e.feedback = f
		}
	}
}

// WithClock overrides the time source used for re-stamping sets.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New wraps an existing workout (new or resumed) in an engine. The
// exercise order is derived in initial mode.
func New(w *models.Workout, store Store, settings Settings, life Lifecycle, opts ...Option) *Engine {
	e := &Engine{
		workout:   w,
		store:     store,
		settings:  settings,
		life:      life,
		feedback:  NopFeedback{},
		logger:    logging.Discard(),
		now:       time.Now,
		completed: make(map[uuid.UUID]bool),
		expanded:  make(map[uuid.UUID]bool),
		timer:     NewRestTimer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reproject(ModeInitial)
	return e
}

// Start creates a brand-new workout and clears the discard flag.
func Start(store Store, settings Settings, life Lifecycle, name string, fromTemplate *string, opts ...Option) (*Engine, error) {
	w, err := store.CreateWorkout(name, fromTemplate)
	if err != nil {
		return nil, &StorageError{Op: "create workout", Err: err}
	}
	e := New(w, store, settings, life, opts...)
	if err := e.markSaved(); err != nil {
		return e, err
	}
	e.logger.Info("workout started", "id", w.ID, "name", w.Name)
	return e, nil
}

// Begin persists a prepared workout (a template instance or a follow-up)
// as a new session and clears the discard flag. Template sessions with
// empty weights are prefilled from history.
func Begin(w *models.Workout, store Store, settings Settings, life Lifecycle, opts ...Option) (*Engine, error) {
	e := New(w, store, settings, life, opts...)
	e.prefillFromHistory()
	if err := e.store.SaveWorkout(w); err != nil {
		return nil, &StorageError{Op: "create workout", Err: err}
	}
	if err := e.markSaved(); err != nil {
		return e, err
	}
	e.logger.Info("workout started", "id", w.ID, "name", w.Name, "sets", len(w.Sets))
	return e, nil
}

// Workout returns the live workout.
func (e *Engine) Workout() *models.Workout { return e.workout }

// ExerciseOrder returns the exercises in display order.
func (e *Engine) ExerciseOrder() []*models.Exercise {
	out := make([]*models.Exercise, len(e.order))
	copy(out, e.order)
	return out
}

// ExerciseGroups returns each exercise's sets in slot order.
func (e *Engine) ExerciseGroups() map[uuid.UUID][]*models.ExerciseSet {
	out := make(map[uuid.UUID][]*models.ExerciseSet, len(e.groups))
	for id, sets := range e.groups {
		out[id] = append([]*models.ExerciseSet(nil), sets...)
	}
	return out
}

// SetsFor returns one exercise's sets in slot order.
func (e *Engine) SetsFor(exerciseID uuid.UUID) []*models.ExerciseSet {
	return append([]*models.ExerciseSet(nil), e.groups[exerciseID]...)
}

// Exercise looks up an exercise in the session by ID.
func (e *Engine) Exercise(id uuid.UUID) (*models.Exercise, bool) {
	for _, ex := range e.order {
		if ex.ID == id {
			return ex, true
		}
	}
	return nil, false
}

// FindSet looks up a set in the workout by ID.
func (e *Engine) FindSet(id ulid.ULID) (*models.ExerciseSet, bool) {
	for _, s := range e.workout.Sets {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// IsCompleted reports whether the exercise is checked off.
func (e *Engine) IsCompleted(id uuid.UUID) bool { return e.completed[id] }

// IsExpanded reports whether the exercise's sets are shown.
func (e *Engine) IsExpanded(id uuid.UUID) bool { return e.expanded[id] }

// CompletedExercises returns the checked-off exercise IDs in display order.
func (e *Engine) CompletedExercises() []uuid.UUID { return e.flagged(e.completed) }

// ExpandedExercises returns the expanded exercise IDs in display order.
func (e *Engine) ExpandedExercises() []uuid.UUID { return e.flagged(e.expanded) }

func (e *Engine) flagged(m map[uuid.UUID]bool) []uuid.UUID {
	var out []uuid.UUID
	for _, ex := range e.order {
		if m[ex.ID] {
			out = append(out, ex.ID)
		}
	}
	return out
}

// AllExercisesCompleted is true when there is at least one exercise and
// every one has been checked off.
func (e *Engine) AllExercisesCompleted() bool {
	if len(e.order) == 0 {
		return false
	}
	for _, ex := range e.order {
		if !e.completed[ex.ID] {
			return false
		}
	}
	return true
}

// LastError is the most recent failure, cleared by a successful Save.
func (e *Engine) LastError() error { return e.lastError }

// ShowRPE passes the current setting through for presentation.
func (e *Engine) ShowRPE() bool { return e.settings.ShowRPE() }

// RestoreUIState re-applies completion and expansion flags kept outside
// the domain data. IDs not in the session are ignored.
func (e *Engine) RestoreUIState(completed, expanded []uuid.UUID) {
	for _, id := range completed {
		if len(e.groups[id]) > 0 {
			e.completed[id] = true
		}
	}
	for _, id := range expanded {
		if len(e.groups[id]) > 0 {
			e.expanded[id] = true
		}
	}
}

// Rename changes the workout name and persists it.
func (e *Engine) Rename(name string) error {
	if name == "" {
		return e.fail(&ValidationError{Field: "name", Err: fmt.Errorf("must not be empty")})
	}
	e.workout.Name = name
	return e.persist("rename workout")
}

// AddExercise appends a zero-weight set of DefaultNewSetReps for the
// exercise. A new exercise is appended to the order and expanded.
func (e *Engine) AddExercise(exercise *models.Exercise) error {
	if exercise == nil {
		return e.fail(&ValidationError{Field: "exercise", Err: ErrNoExercise})
	}
	isNew := len(e.groups[exercise.ID]) == 0
	e.workout.AddSet(exercise, 0, DefaultNewSetReps)
	e.reproject(ModeMaintain)
	if isNew {
		e.expanded[exercise.ID] = true
	}
	e.logger.Debug("exercise added", "exercise", exercise.Name, "new", isNew)
	return e.persist("add exercise")
}

// AddSet appends the next RPT set. With existing sets the weight is the
// first set's weight reduced by the drop indexed by the current set count,
// rounded to the plate increment, and reps are the last set's plus two,
// capped at MaxSuggestedReps. Without sets it adds a zero-weight set.
func (e *Engine) AddSet(exercise *models.Exercise) (*models.ExerciseSet, error) {
	if exercise == nil {
		return nil, e.fail(&ValidationError{Field: "exercise", Err: ErrNoExercise})
	}
	existing := e.groups[exercise.ID]
	weight, reps := 0.0, DefaultNewSetReps
	if n := len(existing); n > 0 {
		drop := rpt.DropFor(e.settings.RPTPercentageDrops(), n)
		weight = float64(rpt.RoundToNearest5(existing[0].Weight * (1.0 - drop)))
		reps = min(existing[n-1].Reps+RepIncrement, MaxSuggestedReps)
	}

	s := e.workout.AddSet(exercise, weight, reps)
	e.reproject(ModeMaintain)
	if len(existing) == 0 {
		e.expanded[exercise.ID] = true
	}
	e.logger.Debug("set added", "exercise", exercise.Name, "weight", weight, "reps", reps)
	return s, e.persist("add set")
}

// UpdateSet validates and applies new values. The first time a set's
// weight goes from zero to non-zero its CompletedAt is re-stamped.
func (e *Engine) UpdateSet(set *models.ExerciseSet, weight float64, reps int, rpe *int) error {
	if set == nil {
		return e.fail(&NotFoundError{Kind: "set"})
	}
	if err := models.ValidateSetValues(weight, reps, rpe); err != nil {
		return e.fail(&ValidationError{Field: fieldFor(err), Err: err})
	}
	cur, ok := e.FindSet(set.ID)
	if !ok {
		return e.fail(&NotFoundError{Kind: "set", ID: set.ID.String()})
	}

	wasZero := cur.Weight == 0
	cur.Weight = weight
	cur.Reps = reps
	if rpe != nil {
		v := *rpe
		cur.RPE = &v
	} else {
		cur.RPE = nil
	}
	if wasZero && weight > 0 {
		cur.CompletedAt = e.now()
	}

	err := e.persist("update set")
	e.reproject(ModeMaintain)
	if err == nil {
		e.feedback.Notify(EventSetLogged)
	}
	return err
}

// DeleteSet removes a set. When it was the exercise's last set the
// exercise leaves the order and loses its completed and expanded flags.
func (e *Engine) DeleteSet(set *models.ExerciseSet) error {
	if set == nil {
		return e.fail(&NotFoundError{Kind: "set"})
	}
	if set.Exercise == nil {
		return e.fail(&NotFoundError{Kind: "exercise", ID: set.ID.String(), Err: ErrNoExercise})
	}
	if !e.workout.RemoveSet(set) {
		return e.fail(&NotFoundError{Kind: "set", ID: set.ID.String()})
	}
	e.reproject(ModeMaintain)
	return e.persist("delete set")
}

// DeleteExercise removes every set of the exercise in one step.
func (e *Engine) DeleteExercise(exercise *models.Exercise) error {
	if exercise == nil || len(e.groups[exercise.ID]) == 0 {
		id := ""
		if exercise != nil {
			id = exercise.Name
		}
		return e.fail(&NotFoundError{Kind: "exercise", ID: id})
	}
	removed := e.workout.RemoveExercise(exercise.ID)
	e.reproject(ModeMaintain)
	e.logger.Debug("exercise removed", "exercise", exercise.Name, "sets", removed)
	return e.persist("delete exercise")
}

// ToggleCompletion flips the manual completion checkmark and returns the
// new state. Completion is session UI state and is never persisted.
func (e *Engine) ToggleCompletion(exercise *models.Exercise) (bool, error) {
	return e.toggle(e.completed, exercise)
}

// ToggleExpansion flips whether the exercise's sets are shown.
func (e *Engine) ToggleExpansion(exercise *models.Exercise) (bool, error) {
	return e.toggle(e.expanded, exercise)
}

func (e *Engine) toggle(m map[uuid.UUID]bool, exercise *models.Exercise) (bool, error) {
	if exercise == nil || len(e.groups[exercise.ID]) == 0 {
		return false, e.fail(&NotFoundError{Kind: "exercise"})
	}
	if m[exercise.ID] {
		delete(m, exercise.ID)
		return false, nil
	}
	m[exercise.ID] = true
	return true, nil
}

// PropagateDropSets recomputes every later slot of the exercise from the
// first set's weight and the configured drop table, pushing each through
// UpdateSet. Call it only after editing slot one with a positive weight.
// A storage failure does not stop the pass: every slot is updated in
// memory and the first error is returned, so a later Save writes the
// whole pyramid.
func (e *Engine) PropagateDropSets(exercise *models.Exercise, firstSetWeight float64) error {
	if math.IsNaN(firstSetWeight) || math.IsInf(firstSetWeight, 0) || firstSetWeight <= 0 {
		return e.fail(&ValidationError{Field: "weight", Err: fmt.Errorf("first set weight must be positive, got %v", firstSetWeight)})
	}
	if exercise == nil || len(e.groups[exercise.ID]) == 0 {
		return e.fail(&NotFoundError{Kind: "exercise"})
	}

	drops := e.settings.RPTPercentageDrops()
	sets := e.SetsFor(exercise.ID)
	var firstErr error
	for i := 1; i < len(sets); i++ {
		w := float64(rpt.RoundToNearest5(firstSetWeight * (1.0 - rpt.DropFor(drops, i))))
		if err := e.UpdateSet(sets[i], w, sets[i].Reps, sets[i].RPE); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		e.lastError = firstErr
		return firstErr
	}
	e.logger.Debug("drop sets propagated", "exercise", exercise.Name, "first", firstSetWeight, "slots", len(sets)-1)
	return nil
}

// StartRestTimer starts a countdown for the configured rest duration,
// replacing any running one. The duration is read from settings now.
func (e *Engine) StartRestTimer() time.Duration {
	secs := e.settings.RestTimerDuration()
	if secs <= 0 {
		secs = models.DefaultRestSeconds
	}
	d := time.Duration(secs) * time.Second
	fb := e.feedback
	e.timer.Start(d, func() { fb.Notify(EventRestFinished) })
	e.feedback.Notify(EventRestStarted)
	e.logger.Debug("rest timer started", "seconds", secs)
	return d
}

// CancelRestTimer stops the countdown.
func (e *Engine) CancelRestTimer() {
	e.timer.Cancel()
}

// RestTimerActive reports whether a countdown is running.
func (e *Engine) RestTimerActive() bool { return e.timer.Active() }

// RestDuration is the length of the current or last countdown.
func (e *Engine) RestDuration() time.Duration { return e.timer.Duration() }

// RestRemaining is the time left on the countdown.
func (e *Engine) RestRemaining() time.Duration { return e.timer.Remaining() }

// RestDone is closed when the countdown expires or is cancelled.
func (e *Engine) RestDone() <-chan struct{} { return e.timer.Done() }

// Save persists the workout and clears the discard flag. On success the
// last error is cleared.
func (e *Engine) Save() error {
	if err := e.persist("save workout"); err != nil {
		return err
	}
	if err := e.markSaved(); err != nil {
		return err
	}
	e.lastError = nil
	return nil
}

// Complete finishes the workout, cancelling the rest timer.
func (e *Engine) Complete() error {
	e.timer.Cancel()
	if err := e.store.CompleteWorkout(e.workout); err != nil {
		return e.fail(&StorageError{Op: "complete workout", Err: err})
	}
	if err := e.markSaved(); err != nil {
		return err
	}
	e.lastError = nil
	e.feedback.Notify(EventWorkoutCompleted)
	e.logger.Info("workout completed", "id", e.workout.ID, "volume", e.workout.TotalVolume())
	return nil
}

// Discard deletes the workout and sets the discard flag, cancelling the
// rest timer. The flag is set even when the delete fails so the workout
// is not offered for resumption.
func (e *Engine) Discard() error {
	e.timer.Cancel()
	id := e.workout.ID.String()
	delErr := e.store.DeleteWorkout(id)
	if err := e.life.MarkDiscarded(id); err != nil {
		e.logger.Warn("could not persist discard flag", "err", err)
		if delErr == nil {
			return e.fail(&StorageError{Op: "mark discarded", Err: err})
		}
	}
	if delErr != nil {
		return e.fail(&StorageError{Op: "discard workout", Err: delErr})
	}
	e.feedback.Notify(EventWorkoutDiscarded)
	e.logger.Info("workout discarded", "id", id)
	return nil
}

func (e *Engine) markSaved() error {
	if err := e.life.MarkSaved(e.workout.ID.String()); err != nil {
		return e.fail(&StorageError{Op: "mark saved", Err: err})
	}
	return nil
}

func (e *Engine) persist(op string) error {
	if err := e.store.SaveWorkout(e.workout); err != nil {
		return e.fail(&StorageError{Op: op, Err: err})
	}
	return nil
}

func (e *Engine) fail(err error) error {
	e.lastError = err
	e.feedback.Notify(EventError)
	e.logger.Debug("session operation failed", "err", err)
	return err
}

// reproject rebuilds order and groups and drops UI flags for exercises
// that left the session.
func (e *Engine) reproject(mode Mode) {
	p := Project(e.workout.Sets, e.order, mode)
	e.order = p.Order
	e.groups = p.Groups
	for id := range e.completed {
		if len(e.groups[id]) == 0 {
			delete(e.completed, id)
		}
	}
	for id := range e.expanded {
		if len(e.groups[id]) == 0 {
			delete(e.expanded, id)
		}
	}
}

func fieldFor(err error) string {
	switch err {
	case models.ErrInvalidWeight:
		return "weight"
	case models.ErrInvalidReps:
		return "reps"
	case models.ErrInvalidRPE:
		return "rpe"
	}
	return "set"
}
