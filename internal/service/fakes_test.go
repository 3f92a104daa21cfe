package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"fitcoach/platform/internal/cache"
	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/events"
	"fitcoach/platform/internal/repository"
	"fitcoach/platform/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories shared by the service tests.

type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{users: make(map[primitive.ObjectID]*domain.User)}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	cp := *user
	cp.ID = primitive.NewObjectID()
	f.users[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) AddStudentToTrainer(_ context.Context, trainerID, studentID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.users[trainerID]
	if !ok {
		return repository.ErrNotFound
	}
	t.StudentIDs = append(t.StudentIDs, studentID)
	return nil
}

func (f *fakeUsers) RemoveStudentFromTrainer(_ context.Context, trainerID, studentID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.users[trainerID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := t.StudentIDs[:0]
	for _, id := range t.StudentIDs {
		if id != studentID {
			kept = append(kept, id)
		}
	}
	t.StudentIDs = kept
	return nil
}

func (f *fakeUsers) GetStudentsByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.users {
		if u.HasTrainer(trainerID) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) SetTrainerForStudent(_ context.Context, studentID primitive.ObjectID, trainerID *primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[studentID]
	if !ok {
		return repository.ErrNotFound
	}
	u.TrainerID = trainerID
	return nil
}

type fakeExercises struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]domain.Exercise
}

func newFakeExercises(items ...domain.Exercise) *fakeExercises {
	f := &fakeExercises{items: make(map[primitive.ObjectID]domain.Exercise)}
	for _, e := range items {
		f.items[e.ID] = e
	}
	return f
}

func (f *fakeExercises) Create(_ context.Context, e *domain.Exercise) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = primitive.NewObjectID()
	f.items[e.ID] = *e
	return e.ID, nil
}

func (f *fakeExercises) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (f *fakeExercises) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Exercise
	for _, e := range f.items {
		if e.TrainerID == trainerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExercises) Update(_ context.Context, e *domain.Exercise) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[e.ID]; !ok {
		return repository.ErrNotFound
	}
	f.items[e.ID] = *e
	return nil
}

func (f *fakeExercises) Delete(_ context.Context, id, trainerID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.items[id]
	if !ok || e.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakePlans struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]domain.TrainingPlan
}

func newFakePlans(plans ...domain.TrainingPlan) *fakePlans {
	f := &fakePlans{plans: make(map[primitive.ObjectID]domain.TrainingPlan)}
	for _, p := range plans {
		f.plans[p.ID] = p
	}
	return f
}

func (f *fakePlans) Create(ctx context.Context, p *domain.TrainingPlan) (primitive.ObjectID, error) {
	f.mu.Lock()
	p.ID = primitive.NewObjectID()
	active := p.IsActive
	cp := *p
	cp.IsActive = false
	f.plans[p.ID] = cp
	f.mu.Unlock()
	if active {
		return p.ID, f.Activate(ctx, p.StudentID, p.ID)
	}
	return p.ID, nil
}

func (f *fakePlans) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakePlans) GetByStudentAndTrainerID(_ context.Context, studentID, trainerID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TrainingPlan
	for _, p := range f.plans {
		if p.StudentID == studentID && p.TrainerID == trainerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlans) GetByStudentID(_ context.Context, studentID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TrainingPlan
	for _, p := range f.plans {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlans) Activate(_ context.Context, studentID, planID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.plans[planID]; !ok {
		return repository.ErrNotFound
	}
	for id, p := range f.plans {
		if p.StudentID == studentID {
			p.IsActive = id == planID
			f.plans[id] = p
		}
	}
	return nil
}

type fakeWorkouts struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]domain.Workout
}

func newFakeWorkouts(ws ...domain.Workout) *fakeWorkouts {
	f := &fakeWorkouts{workouts: make(map[primitive.ObjectID]domain.Workout)}
	for _, w := range ws {
		f.workouts[w.ID] = w
	}
	return f
}

func (f *fakeWorkouts) Create(_ context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = primitive.NewObjectID()
	for i := range w.Exercises {
		if w.Exercises[i].ID.IsZero() {
			w.Exercises[i].ID = primitive.NewObjectID()
		}
	}
	f.workouts[w.ID] = *w
	return w.ID, nil
}

func (f *fakeWorkouts) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	w.Exercises = append([]domain.WorkoutExercise(nil), w.Exercises...)
	return &w, nil
}

func (f *fakeWorkouts) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Workout
	for _, w := range f.workouts {
		if w.TrainingPlanID == planID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (f *fakeWorkouts) Update(_ context.Context, w *domain.Workout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.workouts[w.ID]; !ok {
		return repository.ErrNotFound
	}
	for i := range w.Exercises {
		if w.Exercises[i].ID.IsZero() {
			w.Exercises[i].ID = primitive.NewObjectID()
		}
	}
	f.workouts[w.ID] = *w
	return nil
}

func (f *fakeWorkouts) Delete(_ context.Context, id, trainerID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workouts[id]
	if !ok || w.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	delete(f.workouts, id)
	return nil
}

type fakeFoods struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]domain.FoodItem
	err   error
}

func newFakeFoods(items ...domain.FoodItem) *fakeFoods {
	f := &fakeFoods{items: make(map[primitive.ObjectID]domain.FoodItem)}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeFoods) Create(_ context.Context, item *domain.FoodItem) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if strings.EqualFold(it.Name, item.Name) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	item.ID = primitive.NewObjectID()
	f.items[item.ID] = *item
	return item.ID, nil
}

func (f *fakeFoods) GetByID(_ context.Context, id primitive.ObjectID) (*domain.FoodItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &it, nil
}

func (f *fakeFoods) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.FoodItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.FoodItem
	for _, id := range ids {
		if it, ok := f.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeFoods) List(_ context.Context, search string, category domain.FoodCategory) ([]domain.FoodItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.FoodItem
	for _, it := range f.items {
		if search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(search)) {
			continue
		}
		if category != "" && it.Category != category {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeDiets struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]domain.DietPlan
}

func newFakeDiets(plans ...domain.DietPlan) *fakeDiets {
	f := &fakeDiets{plans: make(map[primitive.ObjectID]domain.DietPlan)}
	for _, p := range plans {
		f.plans[p.ID] = p
	}
	return f
}

func assignMealIDs(p *domain.DietPlan) {
	for i := range p.Meals {
		if p.Meals[i].ID.IsZero() {
			p.Meals[i].ID = primitive.NewObjectID()
		}
	}
}

func (f *fakeDiets) Create(ctx context.Context, p *domain.DietPlan) (primitive.ObjectID, error) {
	f.mu.Lock()
	p.ID = primitive.NewObjectID()
	assignMealIDs(p)
	active := p.IsActive
	cp := *p
	cp.IsActive = false
	f.plans[p.ID] = cp
	f.mu.Unlock()
	if active {
		return p.ID, f.Activate(ctx, p.StudentID, p.ID)
	}
	return p.ID, nil
}

func (f *fakeDiets) GetByID(_ context.Context, id primitive.ObjectID) (*domain.DietPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakeDiets) GetByStudentID(_ context.Context, studentID primitive.ObjectID) ([]domain.DietPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.DietPlan
	for _, p := range f.plans {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeDiets) GetActiveByStudentID(_ context.Context, studentID primitive.ObjectID) (*domain.DietPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.plans {
		if p.StudentID == studentID && p.IsActive {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDiets) Update(_ context.Context, p *domain.DietPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.plans[p.ID]; !ok {
		return repository.ErrNotFound
	}
	assignMealIDs(p)
	f.plans[p.ID] = *p
	return nil
}

func (f *fakeDiets) Activate(_ context.Context, studentID, planID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.plans[planID]; !ok {
		return repository.ErrNotFound
	}
	for id, p := range f.plans {
		if p.StudentID == studentID {
			p.IsActive = id == planID
			f.plans[id] = p
		}
	}
	return nil
}

func (f *fakeDiets) Delete(_ context.Context, id, trainerID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[id]
	if !ok || p.TrainerID == nil || *p.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	delete(f.plans, id)
	return nil
}

type fakeMeals struct {
	mu   sync.Mutex
	regs []domain.MealRegistration
}

func (f *fakeMeals) Create(_ context.Context, reg *domain.MealRegistration) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.StudentID == reg.StudentID && r.MealID == reg.MealID && r.Date == reg.Date {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	reg.ID = primitive.NewObjectID()
	f.regs = append(f.regs, *reg)
	return reg.ID, nil
}

func (f *fakeMeals) Delete(_ context.Context, studentID, mealID primitive.ObjectID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.regs {
		if r.StudentID == studentID && r.MealID == mealID && r.Date == date {
			f.regs = append(f.regs[:i], f.regs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeMeals) GetByPlanAndDate(_ context.Context, planID, studentID primitive.ObjectID, date string) ([]domain.MealRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.MealRegistration
	for _, r := range f.regs {
		if r.DietPlanID == planID && r.StudentID == studentID && r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]domain.WorkoutSession
	calls    int
	delay    time.Duration
}

func newFakeSessions(ss ...domain.WorkoutSession) *fakeSessions {
	f := &fakeSessions{sessions: make(map[primitive.ObjectID]domain.WorkoutSession)}
	for _, s := range ss {
		if s.ID.IsZero() {
			s.ID = primitive.NewObjectID()
		}
		f.sessions[s.ID] = s
	}
	return f
}

func cloneSession(s domain.WorkoutSession) domain.WorkoutSession {
	logs := make([]domain.ExerciseLog, len(s.ExerciseLogs))
	for i, l := range s.ExerciseLogs {
		l.SetLogs = append([]domain.SetLog(nil), l.SetLogs...)
		logs[i] = l
	}
	s.ExerciseLogs = logs
	return s
}

func (f *fakeSessions) Create(_ context.Context, s *domain.WorkoutSession) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = primitive.NewObjectID()
	f.sessions[s.ID] = cloneSession(*s)
	return s.ID, nil
}

func (f *fakeSessions) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := cloneSession(s)
	return &cp, nil
}

func (f *fakeSessions) GetByStudentID(_ context.Context, studentID primitive.ObjectID, since time.Time) ([]domain.WorkoutSession, error) {
	f.mu.Lock()
	f.calls++
	delay := f.delay
	var out []domain.WorkoutSession
	for _, s := range f.sessions {
		if s.StudentID == studentID && !s.Date.Before(since) {
			out = append(out, cloneSession(s))
		}
	}
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeSessions) Update(_ context.Context, s *domain.WorkoutSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[s.ID]; !ok {
		return repository.ErrNotFound
	}
	f.sessions[s.ID] = cloneSession(*s)
	return nil
}

func (f *fakeSessions) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeProgress struct {
	mu   sync.Mutex
	logs []domain.ProgressLog
	err  error
}

func (f *fakeProgress) Create(_ context.Context, l *domain.ProgressLog) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	l.ID = primitive.NewObjectID()
	f.logs = append(f.logs, *l)
	return l.ID, nil
}

func (f *fakeProgress) GetByStudentID(_ context.Context, studentID primitive.ObjectID) ([]domain.ProgressLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.ProgressLog
	for _, l := range f.logs {
		if l.StudentID == studentID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeMessages struct {
	mu   sync.Mutex
	msgs []domain.Message
}

func (f *fakeMessages) Create(_ context.Context, m *domain.Message) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = primitive.NewObjectID()
	f.msgs = append(f.msgs, *m)
	return m.ID, nil
}

func (f *fakeMessages) Conversation(_ context.Context, a, b primitive.ObjectID, limit int64) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Message
	for i := len(f.msgs) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		m := f.msgs[i]
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessages) MarkRead(_ context.Context, id, receiverID primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.msgs {
		if f.msgs[i].ID == id && f.msgs[i].ReceiverID == receiverID {
			if f.msgs[i].ReadAt == nil {
				f.msgs[i].ReadAt = &at
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeMessages) CountUnread(_ context.Context, receiverID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.msgs {
		if m.ReceiverID == receiverID && m.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

type fakeUploads struct {
	mu      sync.Mutex
	uploads []domain.Upload
}

func (f *fakeUploads) Create(_ context.Context, u *domain.Upload) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.uploads {
		if existing.S3ObjectKey == u.S3ObjectKey {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	f.uploads = append(f.uploads, *u)
	return u.ID, nil
}

func (f *fakeUploads) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.uploads {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUploads) GetByStudentID(_ context.Context, studentID primitive.ObjectID) ([]domain.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Upload
	for _, u := range f.uploads {
		if u.StudentID == studentID {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeStorage presigns as "<op>://<key>" and knows the objects in objects.
type fakeStorage struct {
	objects map[string]storage.ObjectMetadata
	err     error
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "put://" + key, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "get://" + key, nil
}

func (f *fakeStorage) StatObject(_ context.Context, key string) (*storage.ObjectMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	meta, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &meta, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

// recordingCache is a map-backed SummaryCache that counts invalidations.
type recordingCache struct {
	mu          sync.Mutex
	entries     map[primitive.ObjectID][]byte
	invalidated int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[primitive.ObjectID][]byte)}
}

func (c *recordingCache) Get(_ context.Context, studentID primitive.ObjectID, dst any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[studentID]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dst)
}

func (c *recordingCache) Set(_ context.Context, studentID primitive.ObjectID, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[studentID] = raw
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, studentID primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, studentID)
	c.invalidated++
	return nil
}

func (c *recordingCache) invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
