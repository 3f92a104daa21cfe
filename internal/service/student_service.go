package service

import (
	"context"
	"errors"
	"math"
	"time"

	"fitcoach/platform/internal/cache"
	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/events"
	"fitcoach/platform/internal/metrics"
	"fitcoach/platform/internal/progress"
	"fitcoach/platform/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNoActiveDietPlan = errors.New("student has no active diet plan")
	ErrMealNotFound     = errors.New("meal not found in the active diet plan")
	ErrInvalidDate      = errors.New("date must be formatted as YYYY-MM-DD")
)

// PlanWithWorkouts is a training plan together with its ordered workouts.
type PlanWithWorkouts struct {
	domain.TrainingPlan
	Workouts []domain.Workout `json:"workouts"`
}

type ProgressInput struct {
	Date          *time.Time
	CurrentWeight float64
	StartWeight   *float64
	GoalWeight    *float64
	BMI           *float64
	BodyFat       *float64
	Notes         string
}

// ProgressEntry is a log with its change against the previous entry.
type ProgressEntry struct {
	domain.ProgressLog
	Change float64 `json:"change"`
}

type ProgressSummary struct {
	Entries      []ProgressEntry      `json:"entries"`
	Trend        *progress.Trend      `json:"trend,omitempty"`
	GoalProgress *float64             `json:"goalProgress,omitempty"`
	BMI          *float64             `json:"bmi,omitempty"`
	BMICategory  progress.BMICategory `json:"bmiCategory,omitempty"`
}

// Dashboard is the student's landing summary.
type Dashboard struct {
	WorkoutsThisWeek   int                  `json:"workoutsThisWeek"`
	LastWeek           progress.WindowStats `json:"lastWeek"`
	TotalSessions      int                  `json:"totalSessions"`
	CompletedSessions  int                  `json:"completedSessions"`
	DaysSinceFirst     int                  `json:"daysSinceFirstSession"`
	CurrentWeight      *float64             `json:"currentWeight,omitempty"`
	Trend              *progress.Trend      `json:"trend,omitempty"`
	BMICategory        progress.BMICategory `json:"bmiCategory,omitempty"`
	ActiveDietName     string               `json:"activeDietName,omitempty"`
	TodayCalories      float64              `json:"todayCalories"`
	TodayCaloriesTotal float64              `json:"todayCaloriesTotal"`
	ActivePlanName     string               `json:"activePlanName,omitempty"`
	GeneratedAt        time.Time            `json:"generatedAt"`
}

// RecordView is a personal record with the exercise name resolved.
type RecordView struct {
	progress.PersonalRecord
	ExerciseName string `json:"exerciseName"`
}

type StudentService interface {
	// Diet
	GetActiveDiet(ctx context.Context, studentID primitive.ObjectID, date string) (*DietDayView, error)
	ToggleMeal(ctx context.Context, studentID, mealID primitive.ObjectID, date string) (*DietDayView, error)

	// Training
	GetMyPlans(ctx context.Context, studentID primitive.ObjectID) ([]PlanWithWorkouts, error)
	GetMyWorkouts(ctx context.Context, studentID, planID primitive.ObjectID) ([]domain.Workout, error)

	// Sessions
	StartSession(ctx context.Context, studentID, workoutID primitive.ObjectID, date *time.Time) (*SessionView, error)
	GetSession(ctx context.Context, studentID, sessionID primitive.ObjectID) (*SessionView, error)
	UpdateSet(ctx context.Context, studentID, sessionID primitive.ObjectID, in SetUpdate) (*SetUpdateResult, error)
	FinishSession(ctx context.Context, studentID, sessionID primitive.ObjectID, notes string) (*SessionView, error)
	SkipSession(ctx context.Context, studentID, sessionID primitive.ObjectID, notes string) (*SessionView, error)
	ListSessions(ctx context.Context, studentID primitive.ObjectID) ([]domain.WorkoutSession, error)
	GetPersonalRecords(ctx context.Context, studentID primitive.ObjectID) ([]RecordView, error)

	// Progress
	LogProgress(ctx context.Context, studentID primitive.ObjectID, in ProgressInput) (*domain.ProgressLog, error)
	GetProgressSummary(ctx context.Context, studentID primitive.ObjectID) (*ProgressSummary, error)
	GetDashboard(ctx context.Context, studentID primitive.ObjectID) (*Dashboard, error)
}

type StudentRepositories struct {
	Users     repository.UserRepository
	Exercises repository.ExerciseRepository
	Plans     repository.TrainingPlanRepository
	Workouts  repository.WorkoutRepository
	Diets     repository.DietPlanRepository
	Foods     repository.FoodItemRepository
	Meals     repository.MealRegistrationRepository
	Sessions  repository.WorkoutSessionRepository
	Progress  repository.ProgressLogRepository
}

type studentService struct {
	userRepo     repository.UserRepository
	exerciseRepo repository.ExerciseRepository
	planRepo     repository.TrainingPlanRepository
	workoutRepo  repository.WorkoutRepository
	dietRepo     repository.DietPlanRepository
	foodRepo     repository.FoodItemRepository
	mealRepo     repository.MealRegistrationRepository
	sessionRepo  repository.WorkoutSessionRepository
	progressRepo repository.ProgressLogRepository

	summaries cache.SummaryCache
	publisher events.Publisher
	metrics   *metrics.Manager
	group     singleflight.Group
	now       func() time.Time
}

func NewStudentService(repos StudentRepositories, summaries cache.SummaryCache, publisher events.Publisher, metricsManager *metrics.Manager) StudentService {
	if summaries == nil {
		summaries = cache.NoopSummaryCache{}
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &studentService{
		userRepo:     repos.Users,
		exerciseRepo: repos.Exercises,
		planRepo:     repos.Plans,
		workoutRepo:  repos.Workouts,
		dietRepo:     repos.Diets,
		foodRepo:     repos.Foods,
		mealRepo:     repos.Meals,
		sessionRepo:  repos.Sessions,
		progressRepo: repos.Progress,
		summaries:    summaries,
		publisher:    publisher,
		metrics:      metricsManager,
		now:          time.Now,
	}
}

// === Diet ===

// resolveDate validates a YYYY-MM-DD date; empty means today (UTC).
func (s *studentService) resolveDate(date string) (string, error) {
	if date == "" {
		return s.now().UTC().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", ErrInvalidDate
	}
	return date, nil
}

func (s *studentService) activeDiet(ctx context.Context, studentID primitive.ObjectID) (*domain.DietPlan, error) {
	plan, err := s.dietRepo.GetActiveByStudentID(ctx, studentID)
	if err != nil {
		return nil, storeErr(err, ErrNoActiveDietPlan)
	}
	return plan, nil
}

func (s *studentService) GetActiveDiet(ctx context.Context, studentID primitive.ObjectID, date string) (*DietDayView, error) {
	day, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	plan, err := s.activeDiet(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.dietDay(ctx, studentID, plan, day)
}

func (s *studentService) dietDay(ctx context.Context, studentID primitive.ObjectID, plan *domain.DietPlan, day string) (*DietDayView, error) {
	regs, err := s.mealRepo.GetByPlanAndDate(ctx, plan.ID, studentID, day)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	consumed := make(map[primitive.ObjectID]bool, len(regs))
	for _, r := range regs {
		consumed[r.MealID] = true
	}
	table, names, err := loadNutritionTable(ctx, s.foodRepo, plan)
	if err != nil {
		return nil, err
	}
	return newDietDayView(plan, table, names, day, consumed), nil
}

// ToggleMeal flips the consumed flag of a meal of the active plan for a day.
func (s *studentService) ToggleMeal(ctx context.Context, studentID, mealID primitive.ObjectID, date string) (*DietDayView, error) {
	day, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	plan, err := s.activeDiet(ctx, studentID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, m := range plan.Meals {
		if m.ID == mealID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrMealNotFound
	}

	consumedNow := false
	err = s.mealRepo.Delete(ctx, studentID, mealID, day)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		_, err = s.mealRepo.Create(ctx, &domain.MealRegistration{
			DietPlanID: plan.ID,
			MealID:     mealID,
			StudentID:  studentID,
			Date:       day,
			ConsumedAt: s.now().UTC(),
		})
		// A concurrent toggle already registered it.
		if err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return nil, storeErr(err, nil)
		}
		consumedNow = true
	case err != nil:
		return nil, storeErr(err, nil)
	}

	if s.metrics != nil {
		s.metrics.CounterMealsToggled.Inc()
	}
	s.invalidate(ctx, studentID)
	s.publish(ctx, events.New(events.TypeMealToggled, studentID, map[string]any{
		"mealId": mealID, "date": day, "consumed": consumedNow,
	}))
	return s.dietDay(ctx, studentID, plan, day)
}

// === Training ===

func (s *studentService) GetMyPlans(ctx context.Context, studentID primitive.ObjectID) ([]PlanWithWorkouts, error) {
	plans, err := s.planRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	out := make([]PlanWithWorkouts, 0, len(plans))
	for _, p := range plans {
		workouts, err := s.workoutRepo.GetByPlanID(ctx, p.ID)
		if err != nil {
			return nil, storeErr(err, nil)
		}
		out = append(out, PlanWithWorkouts{TrainingPlan: p, Workouts: workouts})
	}
	return out, nil
}

func (s *studentService) GetMyWorkouts(ctx context.Context, studentID, planID primitive.ObjectID) ([]domain.Workout, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, storeErr(err, ErrTrainingPlanNotFound)
	}
	if plan.StudentID != studentID {
		return nil, ErrAccessDenied
	}
	workouts, err := s.workoutRepo.GetByPlanID(ctx, planID)
	return workouts, storeErr(err, nil)
}

// === Progress ===

func positive(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 0)
}

func (in ProgressInput) validate() error {
	if !(in.CurrentWeight > 0) || math.IsInf(in.CurrentWeight, 0) {
		return invalid("current weight must be a positive number")
	}
	for name, v := range map[string]*float64{"startWeight": in.StartWeight, "goalWeight": in.GoalWeight, "imc": in.BMI} {
		if v != nil && !positive(v) {
			return invalid("%s must be a positive number", name)
		}
	}
	if in.BodyFat != nil && (!(*in.BodyFat >= 0) || *in.BodyFat > 100) {
		return invalid("body fat must be a percentage")
	}
	return nil
}

// LogProgress stores a body snapshot. A missing BMI is derived from the profile height.
func (s *studentService) LogProgress(ctx context.Context, studentID primitive.ObjectID, in ProgressInput) (*domain.ProgressLog, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	entry := &domain.ProgressLog{
		StudentID:     studentID,
		CurrentWeight: in.CurrentWeight,
		StartWeight:   in.StartWeight,
		GoalWeight:    in.GoalWeight,
		BMI:           in.BMI,
		BodyFat:       in.BodyFat,
		Notes:         in.Notes,
	}
	if in.Date != nil {
		entry.Date = in.Date.UTC()
	} else {
		entry.Date = s.now().UTC()
	}
	if entry.BMI == nil {
		user, err := s.userRepo.GetByID(ctx, studentID)
		if err != nil {
			return nil, storeErr(err, ErrStudentNotFound)
		}
		if bmi, ok := latestBMI(*entry, user); ok {
			bmi = math.Round(bmi*10) / 10
			entry.BMI = &bmi
		}
	}

	id, err := s.progressRepo.Create(ctx, entry)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	entry.ID = id

	if s.metrics != nil {
		s.metrics.CounterProgressLogs.Inc()
	}
	s.invalidate(ctx, studentID)
	s.publish(ctx, events.New(events.TypeProgressLogged, studentID, map[string]any{
		"progressLogId": id, "currentWeight": entry.CurrentWeight,
	}))
	return entry, nil
}

func (s *studentService) GetProgressSummary(ctx context.Context, studentID primitive.ObjectID) (*ProgressSummary, error) {
	logs, err := s.progressRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	sorted := progress.SortByDate(logs)
	changes := progress.WeightChanges(sorted)

	summary := &ProgressSummary{Entries: make([]ProgressEntry, 0, len(sorted))}
	for i, l := range sorted {
		summary.Entries = append(summary.Entries, ProgressEntry{ProgressLog: l, Change: changes[i]})
	}
	if len(sorted) == 0 {
		return summary, nil
	}

	trend, hasTrend := progress.WeightTrend(sorted)
	if hasTrend {
		summary.Trend = &trend
	}
	latest := sorted[len(sorted)-1]
	if latest.BMI != nil {
		bmi := *latest.BMI
		summary.BMI = &bmi
		summary.BMICategory = progress.ClassifyBMI(bmi)
	}
	if goal := latestGoal(sorted); goal != nil {
		start := sorted[0].CurrentWeight
		if hasTrend {
			start = trend.StartWeight
		}
		if pct, ok := progress.GoalProgress(start, latest.CurrentWeight, *goal); ok {
			summary.GoalProgress = &pct
		}
	}
	return summary, nil
}

func latestGoal(logs []domain.ProgressLog) *float64 {
	for i := len(logs) - 1; i >= 0; i-- {
		if positive(logs[i].GoalWeight) {
			return logs[i].GoalWeight
		}
	}
	return nil
}

// === Dashboard ===

// GetDashboard serves from the cache; concurrent misses for one student share
// a single computation.
func (s *studentService) GetDashboard(ctx context.Context, studentID primitive.ObjectID) (*Dashboard, error) {
	var cached Dashboard
	err := s.summaries.Get(ctx, studentID, &cached)
	switch {
	case err == nil:
		s.countCache("hit")
		return &cached, nil
	case errors.Is(err, cache.ErrMiss):
		s.countCache("miss")
	default:
		s.countCache("error")
		log.WithError(err).Warn("dashboard cache read failed")
	}

	v, err, _ := s.group.Do(studentID.Hex(), func() (interface{}, error) {
		d, err := s.computeDashboard(ctx, studentID)
		if err != nil {
			return nil, err
		}
		if err := s.summaries.Set(ctx, studentID, d); err != nil {
			log.WithError(err).Warn("dashboard cache write failed")
		}
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	d := *v.(*Dashboard)
	return &d, nil
}

func (s *studentService) computeDashboard(ctx context.Context, studentID primitive.ObjectID) (*Dashboard, error) {
	now := s.now()
	d := &Dashboard{GeneratedAt: now.UTC()}

	sessions, err := s.sessionRepo.GetByStudentID(ctx, studentID, time.Time{})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	d.LastWeek = progress.CompletionInWindow(sessions, now, 7)
	d.WorkoutsThisWeek = d.LastWeek.Completed
	d.TotalSessions = len(sessions)
	d.CompletedSessions = progress.CountCompleted(sessions)
	if len(sessions) > 0 {
		first := sessions[0].Date
		for _, ses := range sessions[1:] {
			if ses.Date.Before(first) {
				first = ses.Date
			}
		}
		d.DaysSinceFirst = progress.DaysSince(first, now)
	}

	logs, err := s.progressRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if len(logs) > 0 {
		sorted := progress.SortByDate(logs)
		latest := sorted[len(sorted)-1]
		w := latest.CurrentWeight
		d.CurrentWeight = &w
		if trend, ok := progress.WeightTrend(sorted); ok {
			d.Trend = &trend
		}
		if latest.BMI != nil {
			d.BMICategory = progress.ClassifyBMI(*latest.BMI)
		}
	}

	plan, err := s.dietRepo.GetActiveByStudentID(ctx, studentID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return nil, storeErr(err, nil)
	default:
		day, err := s.dietDay(ctx, studentID, plan, now.UTC().Format(dateLayout))
		if err != nil {
			return nil, err
		}
		d.ActiveDietName = plan.Name
		d.TodayCalories = day.Consumed.Calories
		d.TodayCaloriesTotal = day.Totals.Calories
	}

	plans, err := s.planRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	for _, p := range plans {
		if p.IsActive {
			d.ActivePlanName = p.Name
			break
		}
	}
	return d, nil
}

// === helpers ===

func (s *studentService) countCache(result string) {
	if s.metrics != nil {
		s.metrics.CounterCacheLookups.WithLabelValues(result).Inc()
	}
}

func (s *studentService) invalidate(ctx context.Context, studentID primitive.ObjectID) {
	if err := s.summaries.Invalidate(ctx, studentID); err != nil {
		log.WithError(err).WithField("student", studentID.Hex()).Warn("dashboard cache invalidation failed")
	}
}

// publish is best effort: the write already happened.
func (s *studentService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		log.WithError(err).WithField("event", e.Type).Warn("event publish failed")
	}
}
