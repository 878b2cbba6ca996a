package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/leadership-api/internal/domain/entity"
	"github.com/yourusername/leadership-api/internal/middleware"
)

// Handlers объединяет обработчики для регистрации маршрутов
type Handlers struct {
	Auth       *AuthHandler
	Game       *GameHandler
	Team       *TeamHandler
	Task       *TaskHandler
	Submission *SubmissionHandler
	Reflection *ReflectionHandler
	Admin      *AdminHandler
	WS         *WSHandler
}

// RegisterRoutes настраивает маршруты API и WebSocket.
// limiter может быть nil, тогда ограничение частоты запросов отключено.
func RegisterRoutes(router *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware, limiter *middleware.RateLimiter) {
	withID := middleware.ExtractUintParam("id", "id")
	staff := middleware.RequireRoles(entity.RoleInstructor, entity.RoleAdmin)
	adminOnly := middleware.RequireRoles(entity.RoleAdmin)

	rateLimit := func(cfg middleware.RateLimitConfig, byRoute bool) gin.HandlerFunc {
		if limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		if byRoute {
			return limiter.Limit(cfg)
		}
		return limiter.LimitByIP(cfg)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", rateLimit(middleware.DefaultAPIRateLimitConfig(), false))

	// Аутентификация
	authGroup := api.Group("/auth")
	{
		strict := rateLimit(middleware.StrictAuthRateLimitConfig(), true)
		authGroup.POST("/register", strict, h.Auth.Register)
		authGroup.POST("/login", strict, h.Auth.Login)

		authed := authGroup.Group("", authMiddleware.RequireAuth())
		authed.GET("/profile", h.Auth.Profile)
		authed.POST("/logout", h.Auth.Logout)
	}

	protected := api.Group("", authMiddleware.RequireAuth())

	games := protected.Group("/games")
	{
		games.POST("", staff, h.Game.CreateGame)
		games.GET("", adminOnly, h.Game.ListGames)
		games.GET("/instructor", staff, h.Game.ListInstructorGames)
		games.POST("/join", h.Game.JoinGame)
		games.GET("/:id", withID, h.Game.GetGame)
		games.PUT("/:id", withID, staff, h.Game.UpdateGame)
		games.DELETE("/:id", withID, staff, h.Game.DeleteGame)
		games.GET("/:id/scoreboard", withID, h.Game.GetScoreboard)
		games.GET("/:id/teams", withID, h.Game.ListTeams)
		games.GET("/:id/tasks", withID, h.Game.ListTasks)
		games.GET("/:id/submissions", withID, staff, h.Game.ListSubmissions)
		games.GET("/:id/reflections", withID, staff, h.Game.ListReflections)
	}

	teams := protected.Group("/teams")
	{
		teams.POST("", h.Team.CreateTeam)
		teams.GET("", adminOnly, h.Team.ListTeams)
		teams.GET("/my", h.Team.ListMyTeams)
		teams.GET("/user", h.Team.ListMyTeams)
		teams.GET("/:id", withID, h.Team.GetTeam)
		teams.POST("/:id/join", withID, h.Team.JoinTeam)
		teams.POST("/:id/members", withID, staff, h.Team.AddMember)
		teams.GET("/:id/submissions", withID, h.Team.ListSubmissions)
		teams.GET("/:id/reflections", withID, h.Team.ListReflections)
	}

	tasks := protected.Group("/tasks")
	{
		tasks.POST("", staff, h.Task.CreateTask)
		tasks.GET("", adminOnly, h.Task.ListTasks)
		tasks.GET("/:id", withID, h.Task.GetTask)
		tasks.PUT("/:id", withID, staff, h.Task.UpdateTask)
		tasks.DELETE("/:id", withID, staff, h.Task.DeleteTask)
	}

	submissions := protected.Group("/submissions")
	{
		submissions.POST("", h.Submission.Submit)
		submissions.GET("", adminOnly, h.Submission.ListSubmissions)
		submissions.GET("/pending", staff, h.Submission.ListPending)
		submissions.GET("/:id", withID, h.Submission.GetSubmission)
		submissions.PUT("/:id", withID, staff, h.Submission.Evaluate)
		submissions.PUT("/:id/evaluate", withID, staff, h.Submission.Evaluate)
	}

	reflections := protected.Group("/reflections")
	{
		reflections.POST("", h.Reflection.Upsert)
		reflections.GET("", adminOnly, h.Reflection.ListReflections)
		reflections.GET("/:id", withID, h.Reflection.GetReflection)
		reflections.PUT("/:id", withID, h.Reflection.UpdateReflection)
	}

	admin := protected.Group("/admin")
	{
		admin.GET("/stats", adminOnly, h.Admin.GetStats)
		admin.GET("/users", adminOnly, h.Admin.ListUsers)
		admin.PUT("/users/:id", withID, adminOnly, h.Admin.UpdateUser)
		admin.POST("/recalculate-points", adminOnly, h.Admin.RecalculatePoints)
		admin.GET("/export/games/:id", withID, staff, h.Admin.ExportGame)
	}

	router.GET("/ws/games/:id", withID, authMiddleware.RequireSocketAuth(), h.WS.ServeGame)
}
