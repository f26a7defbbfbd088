package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"numberhunt/config"
	"numberhunt/handlers"
	"numberhunt/middleware"
	"numberhunt/models"
	"numberhunt/routes"
	"numberhunt/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()
	config.InitLogger(cfg.LogLevel, cfg.LogFormat)

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate database models
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)
	defer redisClient.Close()

	var cache services.Cache = services.NewRedisCache(redisClient, "numberhunt:")
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, leaderboard cache disabled")
		cache = nil
	}
	cancel()

	// Initialize services
	rng := services.NewRandomizer()
	if cfg.GameSeed != 0 {
		log.Warn().Uint64("seed", cfg.GameSeed).Msg("using seeded randomness; imposter and question picks are reproducible")
		rng = services.NewSeededRandomizer(cfg.GameSeed)
	}
	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	leaderboardService := services.NewLeaderboardService(db, cache, cfg.LeaderboardCacheTTL, cfg.Location())
	authService := services.NewAuthService(db, tokens)
	roomService := services.NewRoomService(db)
	questionService := services.NewQuestionService(db)
	gameService := services.NewGameService(db, services.NewContentService(rng), rng, leaderboardService)

	// Setup Gin router
	if cfg.LogFormat == "json" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	routes.SetupRoutes(router, routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Room:        handlers.NewRoomHandler(roomService),
		Game:        handlers.NewGameHandler(gameService),
		Leaderboard: handlers.NewLeaderboardHandler(leaderboardService),
		Question:    handlers.NewQuestionHandler(questionService),
	}, tokens, db)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddress, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
