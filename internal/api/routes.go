package api

import (
	"net/http"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth     service.AuthService
	Exercise service.ExerciseService
	Food     service.FoodService
	Trainer  service.TrainerService
	Student  service.StudentService
	Message  service.MessageService
	Photo    service.PhotoService
}

func SetupRoutes(router *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	exerciseHandler := NewExerciseHandler(svc.Exercise)
	foodHandler := NewFoodHandler(svc.Food)
	trainerHandler := NewTrainerHandler(svc.Trainer)
	studentHandler := NewStudentHandler(svc.Student)
	messageHandler := NewMessageHandler(svc.Message)
	photoHandler := NewPhotoHandler(svc.Photo)

	authMiddleware := AuthMiddleware(svc.Auth)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// --- Messages (trainer <-> student) ---
		messageGroup := protected.Group("/messages")
		{
			messageGroup.POST("", messageHandler.SendMessage)
			messageGroup.GET("/unread", messageHandler.GetUnread)
			messageGroup.GET("/:userId", messageHandler.GetConversation)
			messageGroup.POST("/:messageId/read", messageHandler.MarkRead)
		}

		// --- Trainer Specific Routes ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.POST("/exercises", exerciseHandler.CreateExercise)
			trainerGroup.GET("/exercises", exerciseHandler.GetTrainerExercises)
			trainerGroup.GET("/exercises/:exerciseId", exerciseHandler.GetExercise)
			trainerGroup.PUT("/exercises/:exerciseId", exerciseHandler.UpdateExercise)
			trainerGroup.DELETE("/exercises/:exerciseId", exerciseHandler.DeleteExercise)

			trainerGroup.POST("/foods", foodHandler.CreateFoodItem)
			trainerGroup.GET("/foods", foodHandler.ListFoodItems)
			trainerGroup.GET("/foods/:foodId", foodHandler.GetFoodItem)

			trainerGroup.POST("/students", trainerHandler.AddStudentByEmail)
			trainerGroup.GET("/students", trainerHandler.GetManagedStudents)
			trainerGroup.DELETE("/students/:studentId", trainerHandler.RemoveStudent)
			trainerGroup.GET("/students/:studentId/overview", trainerHandler.GetStudentOverview)
			trainerGroup.GET("/students/:studentId/photos", photoHandler.ListStudentPhotos)

			// --- Training Plan Management ---
			trainerGroup.POST("/students/:studentId/plans", trainerHandler.CreateTrainingPlan)
			trainerGroup.GET("/students/:studentId/plans", trainerHandler.GetTrainingPlansForStudent)
			trainerGroup.POST("/plans/:planId/activate", trainerHandler.ActivateTrainingPlan)

			// --- Workout Management ---
			trainerGroup.POST("/plans/:planId/workouts", trainerHandler.CreateWorkout)
			trainerGroup.GET("/plans/:planId/workouts", trainerHandler.GetWorkoutsForPlan)
			trainerGroup.PUT("/workouts/:workoutId", trainerHandler.UpdateWorkout)
			trainerGroup.DELETE("/workouts/:workoutId", trainerHandler.DeleteWorkout)

			// --- Diet Management ---
			trainerGroup.POST("/students/:studentId/diets", trainerHandler.CreateDietPlan)
			trainerGroup.GET("/students/:studentId/diets", trainerHandler.GetDietPlansForStudent)
			trainerGroup.GET("/diets/:planId", trainerHandler.GetDietPlan)
			trainerGroup.PUT("/diets/:planId", trainerHandler.UpdateDietPlan)
			trainerGroup.POST("/diets/:planId/activate", trainerHandler.ActivateDietPlan)
			trainerGroup.DELETE("/diets/:planId", trainerHandler.DeleteDietPlan)
		}

		// --- Student Specific Routes ---
		studentGroup := protected.Group("/student")
		studentGroup.Use(RoleMiddleware(domain.RoleStudent))
		{
			studentGroup.GET("/dashboard", studentHandler.GetDashboard)

			studentGroup.GET("/diet", studentHandler.GetActiveDiet)
			studentGroup.POST("/diet/meals/:mealId/toggle", studentHandler.ToggleMeal)

			studentGroup.GET("/plans", studentHandler.GetMyPlans)
			studentGroup.GET("/plans/:planId/workouts", studentHandler.GetMyWorkouts)

			studentGroup.POST("/sessions", studentHandler.StartSession)
			studentGroup.GET("/sessions", studentHandler.ListSessions)
			studentGroup.GET("/sessions/:sessionId", studentHandler.GetSession)
			studentGroup.PATCH("/sessions/:sessionId/sets", studentHandler.UpdateSet)
			studentGroup.POST("/sessions/:sessionId/finish", studentHandler.FinishSession)
			studentGroup.POST("/sessions/:sessionId/skip", studentHandler.SkipSession)
			studentGroup.GET("/records", studentHandler.GetPersonalRecords)

			studentGroup.POST("/progress", studentHandler.LogProgress)
			studentGroup.GET("/progress", studentHandler.GetProgressSummary)

			studentGroup.POST("/photos/upload-url", photoHandler.RequestUploadURL)
			studentGroup.POST("/photos", photoHandler.ConfirmUpload)
			studentGroup.GET("/photos", photoHandler.ListMyPhotos)
		}
	}
}
