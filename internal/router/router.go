package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/morning-sprint/backend/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Profile  *apiHandler.ProfileHandler
	Task     *apiHandler.TaskHandler
	Streak   *apiHandler.StreakHandler
	Feedback *apiHandler.FeedbackHandler
	Import   *apiHandler.ImportHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)

	// Protected routes
	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Profile.UpdateProfile))

	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/range", authMiddleware(handlers.Task.GetRange))
	r.GET("/api/v1/tasks/export", authMiddleware(handlers.Task.ExportRange))
	r.POST("/api/v1/tasks/share-today", authMiddleware(handlers.Task.ShareToday))
	r.PATCH("/api/v1/tasks/{id}", authMiddleware(handlers.Task.PatchTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	r.POST("/api/v1/tasks/{id}/toggle-like", authMiddleware(handlers.Task.ToggleLike))

	r.GET("/api/v1/dashboard/shared", authMiddleware(handlers.Task.SharedDashboard))

	r.GET("/api/v1/feedbacks", authMiddleware(handlers.Feedback.List))
	r.POST("/api/v1/feedbacks", authMiddleware(handlers.Feedback.Create))
	r.POST("/api/v1/feedbacks/{id}/comments", authMiddleware(handlers.Feedback.AddComment))

	r.GET("/api/v1/streak", authMiddleware(handlers.Streak.GetHistory))
	r.GET("/api/v1/admin/streaks", authMiddleware(handlers.Streak.GetLeaderboard))

	r.POST("/api/v1/import/localstorage", authMiddleware(handlers.Import.Run))
	r.GET("/api/v1/import/history", authMiddleware(handlers.Import.History))

	return r
}
