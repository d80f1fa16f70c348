package api

import (
	"net/http"

	"fitweek/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler into the router. Everything except /ping
// and the auth endpoints sits behind the JWT middleware.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	routineService service.RoutineService,
	performService service.PerformService,
	ledgerService service.LedgerService,
	profileService service.ProfileService,
) {
	authHandler := NewAuthHandler(authService)
	routineHandler := NewRoutineHandler(routineService)
	performHandler := NewPerformHandler(performService)
	ledgerHandler := NewLedgerHandler(ledgerService)
	userHandler := NewUserHandler(profileService, routineService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/oauth/login", authHandler.OAuthLogin)
			authGroup.GET("/oauth/callback", authHandler.OAuthCallback)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Routine Routes ---
		routineGroup := protected.Group("/routine")
		{
			routineGroup.GET("/list", routineHandler.ListRoutines)
			routineGroup.POST("/add", routineHandler.AddRoutine)
			routineGroup.POST("/edit", routineHandler.EditRoutine)
			routineGroup.POST("/remove", routineHandler.RemoveRoutine)
			routineGroup.POST("/rename", routineHandler.RenameRoutine)
			routineGroup.POST("/exercise/add", routineHandler.AddExercise)
			routineGroup.POST("/exercise/remove", routineHandler.RemoveExercise)
			routineGroup.POST("/exercise/move", routineHandler.MoveExercise)
		}

		// --- Perform Routes ---
		performGroup := protected.Group("/perform")
		{
			performGroup.GET("", performHandler.Today)
			performGroup.POST("/toggle", performHandler.ToggleSet)
			performGroup.POST("/checkall", performHandler.CheckAllSets)
			performGroup.POST("/commit", performHandler.Commit)
		}

		// --- Ledger Routes ---
		completeGroup := protected.Group("/complete")
		{
			completeGroup.GET("/list", ledgerHandler.ListCompletions)
			completeGroup.GET("/calendar", ledgerHandler.Calendar)
			completeGroup.POST("/add", ledgerHandler.AddCompletion)
			completeGroup.POST("/remove", ledgerHandler.RemoveCompletion)
		}
		progressGroup := protected.Group("/progress")
		{
			progressGroup.GET("", ledgerHandler.GetProgress)
			progressGroup.POST("/add", ledgerHandler.AddProgress)
			progressGroup.POST("/remove", ledgerHandler.RemoveProgress)
		}

		// --- User Routes ---
		userGroup := protected.Group("/user")
		{
			userGroup.GET("/me", userHandler.GetMe)
			userGroup.PUT("/profile", userHandler.UpdateProfile)
			userGroup.POST("/curroutine", userHandler.SetCurrentRoutine)
			userGroup.POST("/avatar", userHandler.RequestAvatarUpload)
			userGroup.GET("/avatar", userHandler.GetAvatar)
		}
	}
}
