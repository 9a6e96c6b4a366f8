// ABOUTME: Tests for the session engine's operations, ordering and failure semantics.
// ABOUTME: Uses in-memory fakes; goleak checks the rest timer never leaks.
package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/rpt/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type harness struct {
	engine   *Engine
	store    *memStore
	settings *fakeSettings
	life     *fakeLifecycle
	feedback *recordingFeedback
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		store:    newMemStore(),
		settings: defaultFakeSettings(),
		life:     &fakeLifecycle{discarded: true},
		feedback: &recordingFeedback{},
	}
	opts = append([]Option{WithFeedback(h.feedback)}, opts...)
	e, err := Start(h.store, h.settings, h.life, "Push", nil, opts...)
	require.NoError(t, err)
	t.Cleanup(e.CancelRestTimer)
	h.engine = e
	return h
}

func bench() *models.Exercise {
	return models.NewExercise("Barbell Bench Press", models.CategoryCompound, models.MuscleChest)
}

func row() *models.Exercise {
	return models.NewExercise("Barbell Row", models.CategoryCompound, models.MuscleBack)
}

func weights(sets []*models.ExerciseSet) []float64 {
	out := make([]float64, 0, len(sets))
	for _, s := range sets {
		out = append(out, s.Weight)
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestStartClearsDiscardFlag(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.life.discarded)
	assert.NotNil(t, h.store.stored(h.engine.Workout().ID))
	assert.Empty(t, h.engine.ExerciseOrder())
	assert.False(t, h.engine.AllExercisesCompleted())
}

func TestAddExercise(t *testing.T) {
	h := newHarness(t)
	b := bench()

	require.NoError(t, h.engine.AddExercise(b))

	order := h.engine.ExerciseOrder()
	require.Len(t, order, 1)
	assert.Same(t, b, order[0])
	assert.True(t, h.engine.IsExpanded(b.ID), "new exercises are expanded")
	sets := h.engine.SetsFor(b.ID)
	require.Len(t, sets, 1)
	assert.Equal(t, 0.0, sets[0].Weight)
	assert.Equal(t, DefaultNewSetReps, sets[0].Reps)
	assert.Len(t, h.store.stored(h.engine.Workout().ID).Sets, 1, "mutations persist")
}

func TestAddSetFollowsDropTable(t *testing.T) {
	h := newHarness(t)
	h.settings.drops = []float64{0, 0.10, 0.20}
	b := bench()

	require.NoError(t, h.engine.AddExercise(b))
	first := h.engine.SetsFor(b.ID)[0]
	require.NoError(t, h.engine.UpdateSet(first, 200, 5, nil))

	s2, err := h.engine.AddSet(b)
	require.NoError(t, err)
	s3, err := h.engine.AddSet(b)
	require.NoError(t, err)

	assert.Equal(t, 180.0, s2.Weight)
	assert.Equal(t, 160.0, s3.Weight)
	assert.Equal(t, 7, s2.Reps)
	assert.Equal(t, 9, s3.Reps)
	assert.Equal(t, []float64{200, 180, 160}, weights(h.engine.SetsFor(b.ID)))
}

func TestAddSetDropIndexIsExistingCount(t *testing.T) {
	h := newHarness(t)
	// A one-entry table forces the fallback [0, .10, .15, .20] then .10.
	h.settings.drops = []float64{0}
	b := bench()

	require.NoError(t, h.engine.AddExercise(b))
	require.NoError(t, h.engine.UpdateSet(h.engine.SetsFor(b.ID)[0], 100, 6, nil))
	for i := 0; i < 4; i++ {
		_, err := h.engine.AddSet(b)
		require.NoError(t, err)
	}

	// Existing counts 1,2,3,4 pick drops .10, .15, .20 and the .10 tail.
	assert.Equal(t, []float64{100, 90, 85, 80, 90}, weights(h.engine.SetsFor(b.ID)))
}

func TestAddSetWithoutExistingSets(t *testing.T) {
	h := newHarness(t)
	b := bench()

	s, err := h.engine.AddSet(b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Weight)
	assert.Equal(t, 8, s.Reps)
	assert.Len(t, h.engine.ExerciseOrder(), 1)
}

func TestAddSetCapsReps(t *testing.T) {
	h := newHarness(t)
	b := bench()

	require.NoError(t, h.engine.AddExercise(b))
	require.NoError(t, h.engine.UpdateSet(h.engine.SetsFor(b.ID)[0], 100, 14, nil))
	s, err := h.engine.AddSet(b)
	require.NoError(t, err)
	assert.Equal(t, MaxSuggestedReps, s.Reps)
}

func TestUpdateSetValidation(t *testing.T) {
	h := newHarness(t)
	b := bench()
	require.NoError(t, h.engine.AddExercise(b))
	set := h.engine.SetsFor(b.ID)[0]
	saves := h.store.saves

	tests := []struct {
		name   string
		weight float64
		reps   int
		rpe    *int
		field  string
	}{
		{"negative weight", -1, 5, nil, "weight"},
		{"negative reps", 100, -1, nil, "reps"},
		{"rpe zero", 100, 5, intPtr(0), "rpe"},
		{"rpe eleven", 100, 5, intPtr(11), "rpe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.engine.UpdateSet(set, tt.weight, tt.reps, tt.rpe)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, err, h.engine.LastError())
			assert.False(t, h.engine.UpdateSetSafely(set, tt.weight, tt.reps, tt.rpe))
		})
	}

	assert.Equal(t, 0.0, set.Weight, "validation failures never mutate")
	assert.Equal(t, 8, set.Reps)
	assert.Equal(t, saves, h.store.saves, "validation failures never persist")
}

func TestUpdateSetRestampsOnFirstWeight(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	h := newHarness(t, WithClock(func() time.Time { return now }))
	b := bench()
	require.NoError(t, h.engine.AddExercise(b))
	set := h.engine.SetsFor(b.ID)[0]

	require.NoError(t, h.engine.UpdateSet(set, 100, 5, intPtr(8)))
	assert.True(t, set.CompletedAt.Equal(now))
	require.NotNil(t, set.RPE)
	assert.Equal(t, 8, *set.RPE)

	now = now.Add(time.Hour)
	require.NoError(t, h.engine.UpdateSet(set, 110, 5, nil))
	assert.False(t, set.CompletedAt.Equal(now), "only the first zero to non-zero edit re-stamps")
	assert.Nil(t, set.RPE)
	assert.True(t, h.feedback.has(EventSetLogged))
}

func TestUpdateSetKeepsOrder(t *testing.T) {
	later := time.Now().Add(time.Hour)
	h := newHarness(t, WithClock(func() time.Time { return later }))
	a, b := bench(), row()

	require.NoError(t, h.engine.AddExercise(a))
	require.NoError(t, h.engine.AddExercise(b))
	// Re-stamping a's only set moves its timestamp after b's.
	require.NoError(t, h.engine.UpdateSet(h.engine.SetsFor(a.ID)[0], 135, 5, nil))

	order := h.engine.ExerciseOrder()
	require.Len(t, order, 2)
	assert.Same(t, a, order[0], "maintain mode keeps the on-screen order")

	fresh := New(h.engine.Workout(), h.store, h.settings, h.life)
	assert.Same(t, b, fresh.ExerciseOrder()[0], "initial mode orders by earliest CompletedAt")
}

func TestUpdateSetNotFound(t *testing.T) {
	h := newHarness(t)
	stray := models.NewExerciseSet(bench(), 0, 5)

	err := h.engine.UpdateSet(stray, 100, 5, nil)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteLastSetClearsExercise(t *testing.T) {
	h := newHarness(t)
	a, b := bench(), row()
	require.NoError(t, h.engine.AddExercise(a))
	require.NoError(t, h.engine.AddExercise(b))
	_, err := h.engine.ToggleCompletion(a)
	require.NoError(t, err)
	require.True(t, h.engine.IsExpanded(a.ID))

	require.NoError(t, h.engine.DeleteSet(h.engine.SetsFor(a.ID)[0]))

	order := h.engine.ExerciseOrder()
	require.Len(t, order, 1)
	assert.Same(t, b, order[0])
	assert.False(t, h.engine.IsCompleted(a.ID))
	assert.False(t, h.engine.IsExpanded(a.ID))
	assert.Empty(t, h.engine.SetsFor(a.ID))
}

func TestDeleteSetKeepsExerciseWithRemainingSets(t *testing.T) {
	h := newHarness(t)
	a := bench()
	require.NoError(t, h.engine.AddExercise(a))
	_, err := h.engine.AddSet(a)
	require.NoError(t, err)
	_, err = h.engine.ToggleCompletion(a)
	require.NoError(t, err)

	require.NoError(t, h.engine.DeleteSet(h.engine.SetsFor(a.ID)[1]))
	assert.Len(t, h.engine.SetsFor(a.ID), 1)
	assert.True(t, h.engine.IsCompleted(a.ID))
}

func TestDeleteSetWithoutExercise(t *testing.T) {
	h := newHarness(t)
	orphan := h.engine.Workout().AddSet(nil, 50, 5)

	err := h.engine.DeleteSet(orphan)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.ErrorIs(t, err, ErrNoExercise)
	assert.Len(t, h.engine.Workout().Sets, 1, "state is untouched")
}

func TestDeleteExercise(t *testing.T) {
	h := newHarness(t)
	a, b := bench(), row()
	require.NoError(t, h.engine.AddExercise(a))
	_, err := h.engine.AddSet(a)
	require.NoError(t, err)
	require.NoError(t, h.engine.AddExercise(b))

	require.NoError(t, h.engine.DeleteExercise(a))
	assert.Len(t, h.engine.Workout().Sets, 1)
	assert.Len(t, h.engine.ExerciseOrder(), 1)

	// Deleting again is a no-op with an error.
	err = h.engine.DeleteExercise(a)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Len(t, h.engine.Workout().Sets, 1)
	assert.False(t, h.engine.DeleteExerciseSafely(a))
	assert.Equal(t, h.engine.LastError(), err)
}

func TestAllExercisesCompleted(t *testing.T) {
	h := newHarness(t)
	a, b := bench(), row()

	assert.False(t, h.engine.AllExercisesCompleted(), "empty order is never complete")

	require.NoError(t, h.engine.AddExercise(a))
	require.NoError(t, h.engine.AddExercise(b))
	assert.False(t, h.engine.AllExercisesCompleted())

	on, err := h.engine.ToggleCompletion(a)
	require.NoError(t, err)
	assert.True(t, on)
	assert.False(t, h.engine.AllExercisesCompleted())

	_, err = h.engine.ToggleCompletion(b)
	require.NoError(t, err)
	assert.True(t, h.engine.AllExercisesCompleted())

	// Completion is manual only; filling in sets changes nothing.
	require.NoError(t, h.engine.UpdateSet(h.engine.SetsFor(a.ID)[0], 100, 5, nil))
	assert.True(t, h.engine.AllExercisesCompleted())

	off, err := h.engine.ToggleCompletion(a)
	require.NoError(t, err)
	assert.False(t, off)
	assert.False(t, h.engine.AllExercisesCompleted())
	assert.Equal(t, []uuid.UUID{b.ID}, h.engine.CompletedExercises())
}

func TestToggleExpansion(t *testing.T) {
	h := newHarness(t)
	a := bench()
	require.NoError(t, h.engine.AddExercise(a))

	open, err := h.engine.ToggleExpansion(a)
	require.NoError(t, err)
	assert.False(t, open)
	open, err = h.engine.ToggleExpansion(a)
	require.NoError(t, err)
	assert.True(t, open)

	_, err = h.engine.ToggleExpansion(row())
	assert.Error(t, err)
}

func TestPropagateDropSets(t *testing.T) {
	h := newHarness(t)
	h.settings.drops = []float64{0, 0.10, 0.15}
	a := bench()
	require.NoError(t, h.engine.AddExercise(a))
	_, err := h.engine.AddSet(a)
	require.NoError(t, err)
	_, err = h.engine.AddSet(a)
	require.NoError(t, err)
	sets := h.engine.SetsFor(a.ID)
	sets[2].RPE = intPtr(9)

	require.NoError(t, h.engine.UpdateSet(sets[0], 200, 5, nil))
	require.NoError(t, h.engine.PropagateDropSets(a, 200))

	assert.Equal(t, []float64{200, 180, 170}, weights(h.engine.SetsFor(a.ID)))
	require.NotNil(t, sets[2].RPE, "rpe survives propagation")
	assert.Equal(t, 9, *sets[2].RPE)
	assert.Equal(t, 10, sets[1].Reps, "reps survive propagation")

	var ve *ValidationError
	assert.ErrorAs(t, h.engine.PropagateDropSets(a, 0), &ve)
	assert.False(t, h.engine.PropagateDropSetsSafely(row(), 100))
}

func TestPropagateDropSetsStorageFailure(t *testing.T) {
	h := newHarness(t)
	h.settings.drops = []float64{0, 0.10, 0.20}
	a := bench()
	require.NoError(t, h.engine.AddExercise(a))
	_, err := h.engine.AddSet(a)
	require.NoError(t, err)
	_, err = h.engine.AddSet(a)
	require.NoError(t, err)
	require.NoError(t, h.engine.UpdateSet(h.engine.SetsFor(a.ID)[0], 200, 5, nil))

	h.store.failSave = true
	err = h.engine.PropagateDropSets(a, 200)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []float64{200, 180, 160}, weights(h.engine.SetsFor(a.ID)), "every slot is applied in memory")
	assert.ErrorAs(t, h.engine.LastError(), &se)

	h.store.failSave = false
	require.True(t, h.engine.SaveSafely())
	assert.Equal(t, []float64{200, 180, 160}, weights(h.store.stored(h.engine.Workout().ID).Sets))
}

func TestSlotOrderIsInsertionOrder(t *testing.T) {
	h := newHarness(t)
	h.settings.drops = []float64{0, 0.10, 0.20}
	a := bench()
	require.NoError(t, h.engine.AddExercise(a))
	_, err := h.engine.AddSet(a)
	require.NoError(t, err)
	sets := h.engine.SetsFor(a.ID)
	top, second := sets[0], sets[1]

	// Logging slot 2 before slot 1 stamps it earlier; slot 1 stays first.
	h.engine.now = func() time.Time { return time.Now().Add(-time.Hour) }
	require.NoError(t, h.engine.UpdateSet(second, 150, 8, nil))
	h.engine.now = time.Now
	require.NoError(t, h.engine.UpdateSet(top, 200, 5, nil))
	require.True(t, second.CompletedAt.Before(top.CompletedAt))

	s3, err := h.engine.AddSet(a)
	require.NoError(t, err)
	assert.Same(t, top, h.engine.SetsFor(a.ID)[0])
	assert.Equal(t, 160.0, s3.Weight, "the new set drops from the first inserted set")

	require.NoError(t, h.engine.PropagateDropSets(a, 200))
	assert.Equal(t, []float64{200, 180, 160}, weights(h.engine.SetsFor(a.ID)))
}

func TestStorageFailureKeepsMemoryAhead(t *testing.T) {
	h := newHarness(t)
	a := bench()
	require.NoError(t, h.engine.AddExercise(a))

	h.store.failSave = true
	_, err := h.engine.AddSet(a)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Len(t, h.engine.SetsFor(a.ID), 2, "in-memory state is not rolled back")
	assert.Len(t, h.store.stored(h.engine.Workout().ID).Sets, 1)
	assert.ErrorAs(t, h.engine.LastError(), &se)
	assert.False(t, h.engine.SaveSafely())

	h.store.failSave = false
	assert.True(t, h.engine.SaveSafely())
	assert.NoError(t, h.engine.LastError(), "a successful save clears the last error")
	assert.Len(t, h.store.stored(h.engine.Workout().ID).Sets, 2)
}

func TestSaveMarksSaved(t *testing.T) {
	h := newHarness(t)
	h.life.discarded = true

	require.NoError(t, h.engine.Save())
	assert.False(t, h.life.discarded)

	h.life.fail = true
	err := h.engine.Save()
	var se *StorageError
	assert.ErrorAs(t, err, &se)
}

func TestRename(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.engine.Rename("Heavy Push"))
	assert.Equal(t, "Heavy Push", h.store.stored(h.engine.Workout().ID).Name)
	assert.False(t, h.engine.RenameSafely(""))
}

func TestComplete(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.engine.AddExercise(bench()))
	h.engine.StartRestTimer()
	require.True(t, h.engine.RestTimerActive())

	require.NoError(t, h.engine.Complete())

	assert.False(t, h.engine.RestTimerActive(), "completing cancels the rest timer")
	assert.True(t, h.store.stored(h.engine.Workout().ID).IsCompleted)
	assert.False(t, h.life.discarded)
	assert.True(t, h.feedback.has(EventWorkoutCompleted))
}

func TestCompleteFailure(t *testing.T) {
	h := newHarness(t)
	h.store.failSave = true

	assert.False(t, h.engine.CompleteSafely())
	var se *StorageError
	assert.ErrorAs(t, h.engine.LastError(), &se)
}

func TestDiscard(t *testing.T) {
	h := newHarness(t)
	id := h.engine.Workout().ID
	h.engine.StartRestTimer()

	require.NoError(t, h.engine.Discard())

	assert.False(t, h.engine.RestTimerActive(), "discarding cancels the rest timer")
	assert.Nil(t, h.store.stored(id))
	assert.True(t, h.life.discarded)
	assert.Equal(t, id.String(), h.life.id)
	assert.True(t, h.feedback.has(EventWorkoutDiscarded))
}

func TestDiscardDeleteFailureStillFlags(t *testing.T) {
	h := newHarness(t)
	h.store.failDel = true

	err := h.engine.Discard()
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.True(t, h.life.discarded, "a failed delete must not re-offer the workout")
	assert.False(t, h.engine.DiscardSafely())
}

func TestRestTimerSingleInstance(t *testing.T) {
	h := newHarness(t)
	h.settings.rest = 120

	d := h.engine.StartRestTimer()
	assert.Equal(t, 120*time.Second, d)
	first := h.engine.RestDone()

	h.settings.rest = 60
	d = h.engine.StartRestTimer()
	assert.Equal(t, 60*time.Second, d, "duration is read at start time")

	select {
	case <-first:
	default:
		t.Fatal("starting a new timer must cancel the previous one")
	}
	assert.True(t, h.engine.RestTimerActive())
	assert.Equal(t, 60*time.Second, h.engine.RestDuration())
	assert.Greater(t, h.engine.RestRemaining(), 50*time.Second)

	h.engine.CancelRestTimer()
	assert.False(t, h.engine.RestTimerActive())
	assert.Zero(t, h.engine.RestRemaining())
	assert.True(t, h.feedback.has(EventRestStarted))
	assert.False(t, h.feedback.has(EventRestFinished), "cancelled timers do not fire")
}

func TestRestTimerFires(t *testing.T) {
	h := newHarness(t)
	h.settings.rest = 1

	h.engine.StartRestTimer()
	select {
	case <-h.engine.RestDone():
	case <-time.After(3 * time.Second):
		t.Fatal("rest timer did not finish")
	}
	assert.False(t, h.engine.RestTimerActive())
	assert.True(t, h.feedback.has(EventRestFinished))
}

func TestRestoreUIState(t *testing.T) {
	h := newHarness(t)
	a, b := bench(), row()
	require.NoError(t, h.engine.AddExercise(a))
	require.NoError(t, h.engine.AddExercise(b))

	resumed := New(h.engine.Workout(), h.store, h.settings, h.life)
	assert.Empty(t, resumed.ExpandedExercises())
	resumed.RestoreUIState([]uuid.UUID{a.ID, row().ID}, []uuid.UUID{b.ID})

	assert.True(t, resumed.IsCompleted(a.ID))
	assert.Len(t, resumed.CompletedExercises(), 1, "unknown ids are ignored")
	assert.True(t, resumed.IsExpanded(b.ID))
}

func TestBeginPrefillsFromHistory(t *testing.T) {
	store := newMemStore()
	b := bench()
	life := &fakeLifecycle{discarded: true}

	past := models.NewWorkout("last week").WithDate(time.Now().AddDate(0, 0, -7))
	s1 := past.AddSet(b, 225, 5).WithRPE(9)
	s2 := past.AddSet(b, 185, 8)
	// The top set was filled in last, so completion order differs from slots.
	s1.CompletedAt = s2.CompletedAt.Add(time.Minute)
	empty := models.NewWorkout("empty").WithDate(time.Now().AddDate(0, 0, -1))
	e1 := empty.AddSet(b, 0, 5)
	store.history[b.ID] = []models.HistoryEntry{
		{Workout: empty, Sets: []*models.ExerciseSet{e1}},
		{Workout: past, Sets: []*models.ExerciseSet{s2, s1}},
	}

	tmpl := models.NewWorkoutTemplate("Upper Body RPT")
	tmpl.Exercises = []models.TemplateExercise{models.DefaultTemplateExercise(b.Name)}
	w := tmpl.Instantiate(func(string) *models.Exercise { return b }, time.Now())

	e, err := Begin(w, store, defaultFakeSettings(), life)
	require.NoError(t, err)

	sets := e.SetsFor(b.ID)
	require.Len(t, sets, 3)
	assert.Equal(t, []float64{225, 185, 0}, weights(sets))
	assert.Equal(t, 7, sets[0].Reps, "template reps are kept when non-zero")
	require.NotNil(t, sets[0].RPE)
	assert.Equal(t, 9, *sets[0].RPE)
	assert.False(t, life.discarded)
	assert.NotNil(t, store.stored(w.ID))
}

func TestFailedStartReportsStorageError(t *testing.T) {
	store := newMemStore()
	store.failSave = true

	_, err := Start(store, defaultFakeSettings(), &fakeLifecycle{}, "x", nil)
	var se *StorageError
	assert.True(t, errors.As(err, &se))
}
