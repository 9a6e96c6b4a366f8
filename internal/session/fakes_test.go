// ABOUTME: In-memory collaborators for engine tests.
// ABOUTME: The store can be told to fail to exercise storage error paths.
package session

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/rpt/internal/models"
)

var errDiskFull = errors.New("disk full")

type memStore struct {
	workouts map[uuid.UUID]*models.Workout
	history  map[uuid.UUID][]models.HistoryEntry
	saves    int
	failSave bool
	failDel  bool
}

func newMemStore() *memStore {
	return &memStore{
		workouts: make(map[uuid.UUID]*models.Workout),
		history:  make(map[uuid.UUID][]models.HistoryEntry),
	}
}

func (m *memStore) CreateWorkout(name string, fromTemplate *string) (*models.Workout, error) {
	w := models.NewWorkout(name)
	if fromTemplate != nil {
		w.FromTemplate(*fromTemplate)
	}
	if err := m.SaveWorkout(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (m *memStore) SaveWorkout(w *models.Workout) error {
	if m.failSave {
		return errDiskFull
	}
	m.saves++
	cp := *w
	cp.Sets = make([]*models.ExerciseSet, 0, len(w.Sets))
	for _, s := range w.Sets {
		sc := *s
		cp.Sets = append(cp.Sets, &sc)
	}
	m.workouts[w.ID] = &cp
	return nil
}

func (m *memStore) DeleteWorkout(id string) error {
	if m.failDel {
		return errDiskFull
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	if _, ok := m.workouts[uid]; !ok {
		return errors.New("not found")
	}
	delete(m.workouts, uid)
	return nil
}

func (m *memStore) CompleteWorkout(w *models.Workout) error {
	if m.failSave {
		return errDiskFull
	}
	w.IsCompleted = true
	return m.SaveWorkout(w)
}

func (m *memStore) WorkoutHistory(exerciseID uuid.UUID) ([]models.HistoryEntry, error) {
	out := append([]models.HistoryEntry(nil), m.history[exerciseID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Workout.Date.After(out[j].Workout.Date) })
	return out, nil
}

func (m *memStore) stored(id uuid.UUID) *models.Workout { return m.workouts[id] }

type fakeSettings struct {
	rest  int
	drops []float64
	rpe   bool
}

func defaultFakeSettings() *fakeSettings {
	return &fakeSettings{rest: 90, drops: []float64{0, 0.10, 0.15}, rpe: true}
}

func (f *fakeSettings) RestTimerDuration() int        { return f.rest }
func (f *fakeSettings) RPTPercentageDrops() []float64 { return f.drops }
func (f *fakeSettings) ShowRPE() bool                 { return f.rpe }

type fakeLifecycle struct {
	discarded bool
	id        string
	saved     int
	fail      bool
}

func (f *fakeLifecycle) MarkSaved(string) error {
	if f.fail {
		return errDiskFull
	}
	f.saved++
	f.discarded = false
	f.id = ""
	return nil
}

func (f *fakeLifecycle) MarkDiscarded(id string) error {
	f.discarded = true
	f.id = id
	if f.fail {
		return errDiskFull
	}
	return nil
}

type recordingFeedback struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingFeedback) Notify(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingFeedback) has(ev Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == ev {
			return true
		}
	}
	return false
}
