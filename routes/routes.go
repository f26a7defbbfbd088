package routes

import (
	"net/http"

	"numberhunt/handlers"
	"numberhunt/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Room        *handlers.RoomHandler
	Game        *handlers.GameHandler
	Leaderboard *handlers.LeaderboardHandler
	Question    *handlers.QuestionHandler
}

func SetupRoutes(router *gin.Engine, h Handlers, tokens middleware.TokenVerifier, db *gorm.DB) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		api.GET("/leaderboard", h.Leaderboard.GetLeaderboard)
		api.GET("/stats/global", h.Leaderboard.GlobalStats)

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(tokens))
		{
			protected.GET("/auth/profile", h.Auth.GetProfile)
			protected.PUT("/auth/profile", h.Auth.UpdateProfile)
			protected.GET("/stats/history", h.Leaderboard.History)
			protected.GET("/stats/detailed", h.Leaderboard.DetailedStats)

			rooms := protected.Group("/rooms")
			{
				rooms.GET("", h.Room.ListRooms)
				rooms.POST("", h.Room.CreateRoom)
				rooms.GET("/mine", h.Room.MyRooms)
				rooms.GET("/reconnect", h.Room.CheckReconnection)
				rooms.POST("/join-by-code", h.Room.JoinByCode)

				rooms.GET("/:id", h.Room.GetRoom)
				rooms.POST("/:id/join", h.Room.JoinRoom)
				rooms.POST("/:id/leave", h.Room.LeaveRoom)
				rooms.POST("/:id/activity", h.Room.UpdateActivity)
				rooms.POST("/:id/close", h.Room.CloseRoom)
				rooms.DELETE("/:id", middleware.AdminOnly(), h.Room.DeleteRoom)

				// Round lifecycle
				rooms.POST("/:id/start", h.Game.StartGame)
				rooms.GET("/:id/round", h.Game.CurrentRound)
				rooms.POST("/:id/answer", h.Game.SubmitAnswer)
				rooms.POST("/:id/start-voting", h.Game.StartVoting)
				rooms.POST("/:id/vote", h.Game.SubmitVote)
				rooms.GET("/:id/results", h.Game.RoundResults)
				rooms.POST("/:id/continue", h.Game.Continue)
				rooms.GET("/:id/events", h.Game.RecentEvents)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.POST("/leaderboard/recompute", h.Leaderboard.Recompute)
				admin.POST("/users/:id/reconcile", h.Leaderboard.ReconcileUser)
				admin.POST("/users/:id/reset", h.Leaderboard.ResetUser)

				admin.GET("/questions", h.Question.ListPool)
				admin.POST("/questions", h.Question.CreateQuestion)
				admin.PUT("/questions/:id/active", h.Question.SetActive)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if db != nil {
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database-unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
