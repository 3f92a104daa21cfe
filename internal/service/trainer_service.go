package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitcoach/platform/internal/cache"
	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/progress"
	"fitcoach/platform/internal/repository"
	"fitcoach/platform/internal/session"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrStudentNotFound         = errors.New("student user not found")
	ErrStudentNotRole          = errors.New("user found but is not a student")
	ErrStudentAlreadyAssigned  = errors.New("student is already assigned to another trainer")
	ErrStudentNotManaged       = errors.New("student is not managed by this trainer")
	ErrTrainingPlanNotFound    = errors.New("training plan not found")
	ErrWorkoutNotFound         = errors.New("workout not found")
	ErrDietPlanNotFound        = errors.New("diet plan not found")
	ErrWorkoutExerciseNotFound = errors.New("exercise is not part of this workout")
)

type TrainingPlanInput struct {
	Name        string
	Description string
	Goal        domain.TrainingGoal
	StartDate   *time.Time
	EndDate     *time.Time
	IsActive    bool
}

type WorkoutExerciseInput struct {
	ExerciseID primitive.ObjectID
	Sets       int
	Reps       int
	RestTime   string
	Notes      string
}

type WorkoutInput struct {
	Name      string
	DayOfWeek *int
	Sequence  int
	Exercises []WorkoutExerciseInput
}

// StudentOverview is the trainer's one-page view of a student.
type StudentOverview struct {
	Student       *domain.User         `json:"student"`
	LatestLog     *domain.ProgressLog  `json:"latestLog,omitempty"`
	Trend         *progress.Trend      `json:"trend,omitempty"`
	BMI           *float64             `json:"bmi,omitempty"`
	BMICategory   progress.BMICategory `json:"bmiCategory,omitempty"`
	ActiveDiet    *DietPlanView        `json:"activeDiet,omitempty"`
	LastWeek      progress.WindowStats `json:"lastWeek"`
	LastMonth     progress.WindowStats `json:"lastMonth"`
	TotalSessions int                  `json:"totalSessions"`
}

type TrainerService interface {
	// Student Management
	AddStudentByEmail(ctx context.Context, trainerID primitive.ObjectID, studentEmail string) (*domain.User, error)
	GetManagedStudents(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	RemoveStudent(ctx context.Context, trainerID, studentID primitive.ObjectID) error
	GetStudentOverview(ctx context.Context, trainerID, studentID primitive.ObjectID) (*StudentOverview, error)

	// Training Plans & Workouts
	CreateTrainingPlan(ctx context.Context, trainerID, studentID primitive.ObjectID, in TrainingPlanInput) (*domain.TrainingPlan, error)
	GetTrainingPlansForStudent(ctx context.Context, trainerID, studentID primitive.ObjectID) ([]domain.TrainingPlan, error)
	ActivateTrainingPlan(ctx context.Context, trainerID, planID primitive.ObjectID) (*domain.TrainingPlan, error)
	AddWorkoutToPlan(ctx context.Context, trainerID, planID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	GetWorkoutsForPlan(ctx context.Context, trainerID, planID primitive.ObjectID) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID) error

	// Diet Plans
	CreateDietPlan(ctx context.Context, trainerID, studentID primitive.ObjectID, in DietPlanInput) (*DietPlanView, error)
	UpdateDietPlan(ctx context.Context, trainerID, planID primitive.ObjectID, in DietPlanInput) (*DietPlanView, error)
	GetDietPlansForStudent(ctx context.Context, trainerID, studentID primitive.ObjectID) ([]DietPlanView, error)
	GetDietPlan(ctx context.Context, trainerID, planID primitive.ObjectID) (*DietPlanView, error)
	ActivateDietPlan(ctx context.Context, trainerID, planID primitive.ObjectID) (*DietPlanView, error)
	DeleteDietPlan(ctx context.Context, trainerID, planID primitive.ObjectID) error
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo     repository.UserRepository
	exerciseRepo repository.ExerciseRepository
	planRepo     repository.TrainingPlanRepository
	workoutRepo  repository.WorkoutRepository
	dietRepo     repository.DietPlanRepository
	foodRepo     repository.FoodItemRepository
	sessionRepo  repository.WorkoutSessionRepository
	progressRepo repository.ProgressLogRepository
	summaries    cache.SummaryCache
	now          func() time.Time
}

type TrainerRepositories struct {
	Users     repository.UserRepository
	Exercises repository.ExerciseRepository
	Plans     repository.TrainingPlanRepository
	Workouts  repository.WorkoutRepository
	Diets     repository.DietPlanRepository
	Foods     repository.FoodItemRepository
	Sessions  repository.WorkoutSessionRepository
	Progress  repository.ProgressLogRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(repos TrainerRepositories, summaries cache.SummaryCache) TrainerService {
	if summaries == nil {
		summaries = cache.NoopSummaryCache{}
	}
	return &trainerService{
		userRepo:     repos.Users,
		exerciseRepo: repos.Exercises,
		planRepo:     repos.Plans,
		workoutRepo:  repos.Workouts,
		dietRepo:     repos.Diets,
		foodRepo:     repos.Foods,
		sessionRepo:  repos.Sessions,
		progressRepo: repos.Progress,
		summaries:    summaries,
		now:          time.Now,
	}
}

// === Student Management ===

// AddStudentByEmail finds a student by email and links them to the trainer.
// Adding a student the trainer already manages is a no-op.
func (s *trainerService) AddStudentByEmail(ctx context.Context, trainerID primitive.ObjectID, studentEmail string) (*domain.User, error) {
	if strings.TrimSpace(studentEmail) == "" {
		return nil, invalid("student email is required")
	}

	student, err := s.userRepo.GetByEmail(ctx, studentEmail)
	if err != nil {
		return nil, storeErr(err, ErrStudentNotFound)
	}
	if !student.IsStudent() {
		return nil, ErrStudentNotRole
	}
	if student.TrainerID != nil && !student.TrainerID.IsZero() {
		if *student.TrainerID == trainerID {
			return student, nil
		}
		return nil, ErrStudentAlreadyAssigned
	}

	if err := s.userRepo.AddStudentToTrainer(ctx, trainerID, student.ID); err != nil {
		return nil, storeErr(err, ErrUserNotFound)
	}
	if err := s.userRepo.SetTrainerForStudent(ctx, student.ID, &trainerID); err != nil {
		// Keep the trainer's list consistent with the student record.
		if rbErr := s.userRepo.RemoveStudentFromTrainer(ctx, trainerID, student.ID); rbErr != nil {
			log.WithError(rbErr).WithField("student", student.ID.Hex()).Error("rollback of trainer link failed")
		}
		return nil, storeErr(err, ErrStudentNotFound)
	}

	student.TrainerID = &trainerID
	student.PasswordHash = ""
	return student, nil
}

func (s *trainerService) GetManagedStudents(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	students, err := s.userRepo.GetStudentsByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	for i := range students {
		students[i].PasswordHash = ""
	}
	return students, nil
}

// RemoveStudent unlinks a student. Plans and history stay in place.
func (s *trainerService) RemoveStudent(ctx context.Context, trainerID, studentID primitive.ObjectID) error {
	if _, err := s.requireStudent(ctx, trainerID, studentID); err != nil {
		return err
	}
	if err := s.userRepo.SetTrainerForStudent(ctx, studentID, nil); err != nil {
		return storeErr(err, ErrStudentNotFound)
	}
	return storeErr(s.userRepo.RemoveStudentFromTrainer(ctx, trainerID, studentID), ErrUserNotFound)
}

// requireStudent loads a student and checks the trainer manages them.
func (s *trainerService) requireStudent(ctx context.Context, trainerID, studentID primitive.ObjectID) (*domain.User, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, storeErr(err, ErrStudentNotFound)
	}
	if !student.IsStudent() {
		return nil, ErrStudentNotRole
	}
	if !student.HasTrainer(trainerID) {
		return nil, ErrStudentNotManaged
	}
	student.PasswordHash = ""
	return student, nil
}

func (s *trainerService) GetStudentOverview(ctx context.Context, trainerID, studentID primitive.ObjectID) (*StudentOverview, error) {
	student, err := s.requireStudent(ctx, trainerID, studentID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	overview := &StudentOverview{Student: student}

	logs, err := s.progressRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if len(logs) > 0 {
		sorted := progress.SortByDate(logs)
		latest := sorted[len(sorted)-1]
		overview.LatestLog = &latest
		if trend, ok := progress.WeightTrend(sorted); ok {
			overview.Trend = &trend
		}
		if bmi, ok := latestBMI(latest, student); ok {
			overview.BMI = &bmi
			overview.BMICategory = progress.ClassifyBMI(bmi)
		}
	}

	sessions, err := s.sessionRepo.GetByStudentID(ctx, studentID, time.Time{})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	overview.TotalSessions = len(sessions)
	overview.LastWeek = progress.CompletionInWindow(sessions, now, 7)
	overview.LastMonth = progress.CompletionInWindow(sessions, now, 30)

	plan, err := s.dietRepo.GetActiveByStudentID(ctx, studentID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return nil, storeErr(err, nil)
	default:
		table, names, err := loadNutritionTable(ctx, s.foodRepo, plan)
		if err != nil {
			return nil, err
		}
		view := newDietPlanView(plan, table, names, nil)
		overview.ActiveDiet = &view
	}
	return overview, nil
}

// latestBMI prefers the logged value, otherwise derives it from the profile height.
func latestBMI(entry domain.ProgressLog, student *domain.User) (float64, bool) {
	if entry.BMI != nil && *entry.BMI > 0 {
		return *entry.BMI, true
	}
	if student == nil || student.Student == nil {
		return 0, false
	}
	return progress.ComputeBMI(entry.CurrentWeight, student.Student.HeightCm)
}

// === Training Plans ===

func (in TrainingPlanInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("plan name is required")
	}
	if in.Goal != "" && !in.Goal.Valid() {
		return invalid("unknown training goal %q", in.Goal)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return invalid("end date cannot be before start date")
	}
	return nil
}

func (s *trainerService) CreateTrainingPlan(ctx context.Context, trainerID, studentID primitive.ObjectID, in TrainingPlanInput) (*domain.TrainingPlan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.requireStudent(ctx, trainerID, studentID); err != nil {
		return nil, err
	}
	if in.Goal == "" {
		in.Goal = domain.GoalGeneral
	}

	plan := &domain.TrainingPlan{
		TrainerID:   trainerID,
		StudentID:   studentID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Goal:        in.Goal,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		IsActive:    in.IsActive,
	}
	id, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	plan.ID = id
	s.invalidate(ctx, studentID)
	return plan, nil
}

func (s *trainerService) GetTrainingPlansForStudent(ctx context.Context, trainerID, studentID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	if _, err := s.requireStudent(ctx, trainerID, studentID); err != nil {
		return nil, err
	}
	plans, err := s.planRepo.GetByStudentAndTrainerID(ctx, studentID, trainerID)
	return plans, storeErr(err, nil)
}

func (s *trainerService) ActivateTrainingPlan(ctx context.Context, trainerID, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.ownedPlan(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.Activate(ctx, plan.StudentID, plan.ID); err != nil {
		return nil, storeErr(err, ErrTrainingPlanNotFound)
	}
	plan.IsActive = true
	s.invalidate(ctx, plan.StudentID)
	return plan, nil
}

func (s *trainerService) ownedPlan(ctx context.Context, trainerID, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, storeErr(err, ErrTrainingPlanNotFound)
	}
	if plan.TrainerID != trainerID {
		return nil, ErrAccessDenied
	}
	return plan, nil
}

// === Workouts ===

// buildExercises validates prescriptions and resolves library names.
func (s *trainerService) buildExercises(ctx context.Context, trainerID primitive.ObjectID, inputs []WorkoutExerciseInput) ([]domain.WorkoutExercise, error) {
	out := make([]domain.WorkoutExercise, 0, len(inputs))
	for i, in := range inputs {
		if in.Sets < 1 {
			return nil, invalid("exercise %d: sets must be at least 1", i+1)
		}
		if in.Reps < 0 {
			return nil, invalid("exercise %d: reps cannot be negative", i+1)
		}
		if in.RestTime != "" {
			if _, err := session.ParseRestDuration(in.RestTime); err != nil {
				return nil, invalid("exercise %d: %v", i+1, err)
			}
		}
		exercise, err := s.exerciseRepo.GetByID(ctx, in.ExerciseID)
		if err != nil {
			return nil, storeErr(err, ErrExerciseNotFound)
		}
		if exercise.TrainerID != trainerID {
			return nil, ErrExerciseAccessDenied
		}
		out = append(out, domain.WorkoutExercise{
			ExerciseID: exercise.ID,
			Name:       exercise.Name,
			Sets:       in.Sets,
			Reps:       in.Reps,
			RestTime:   in.RestTime,
			Notes:      in.Notes,
		})
	}
	return out, nil
}

func (in WorkoutInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("workout name is required")
	}
	if in.DayOfWeek != nil && (*in.DayOfWeek < 0 || *in.DayOfWeek > 6) {
		return invalid("dayOfWeek must be between 0 (Sunday) and 6 (Saturday)")
	}
	if in.Sequence < 0 {
		return invalid("sequence cannot be negative")
	}
	return nil
}

func (s *trainerService) AddWorkoutToPlan(ctx context.Context, trainerID, planID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	plan, err := s.ownedPlan(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}
	exercises, err := s.buildExercises(ctx, trainerID, in.Exercises)
	if err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		TrainingPlanID: plan.ID,
		TrainerID:      trainerID,
		StudentID:      plan.StudentID,
		Name:           strings.TrimSpace(in.Name),
		DayOfWeek:      in.DayOfWeek,
		Sequence:       in.Sequence,
		Exercises:      exercises,
	}
	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	workout.ID = id
	return workout, nil
}

func (s *trainerService) GetWorkoutsForPlan(ctx context.Context, trainerID, planID primitive.ObjectID) ([]domain.Workout, error) {
	if _, err := s.ownedPlan(ctx, trainerID, planID); err != nil {
		return nil, err
	}
	workouts, err := s.workoutRepo.GetByPlanID(ctx, planID)
	return workouts, storeErr(err, nil)
}

// UpdateWorkout replaces the workout's fields and prescriptions. Exercise ids
// of unchanged prescriptions are kept so logged sessions still match.
func (s *trainerService) UpdateWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, storeErr(err, ErrWorkoutNotFound)
	}
	if workout.TrainerID != trainerID {
		return nil, ErrAccessDenied
	}
	exercises, err := s.buildExercises(ctx, trainerID, in.Exercises)
	if err != nil {
		return nil, err
	}
	for i := range exercises {
		if i < len(workout.Exercises) && workout.Exercises[i].ExerciseID == exercises[i].ExerciseID {
			exercises[i].ID = workout.Exercises[i].ID
		}
	}

	workout.Name = strings.TrimSpace(in.Name)
	workout.DayOfWeek = in.DayOfWeek
	workout.Sequence = in.Sequence
	workout.Exercises = exercises
	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, storeErr(err, ErrWorkoutNotFound)
	}
	return workout, nil
}

func (s *trainerService) DeleteWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID) error {
	return storeErr(s.workoutRepo.Delete(ctx, workoutID, trainerID), ErrWorkoutNotFound)
}

// invalidate drops the student's cached dashboard; failures only cost freshness.
func (s *trainerService) invalidate(ctx context.Context, studentID primitive.ObjectID) {
	if err := s.summaries.Invalidate(ctx, studentID); err != nil {
		log.WithError(err).WithField("student", studentID.Hex()).Warn("dashboard cache invalidation failed")
	}
}
