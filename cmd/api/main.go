package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/leadership-api/internal/config"
	"github.com/yourusername/leadership-api/internal/handler"
	"github.com/yourusername/leadership-api/internal/logger"
	"github.com/yourusername/leadership-api/internal/middleware"
	pgRepo "github.com/yourusername/leadership-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/leadership-api/internal/repository/redis"
	"github.com/yourusername/leadership-api/internal/service"
	ws "github.com/yourusername/leadership-api/internal/websocket"
	"github.com/yourusername/leadership-api/pkg/auth"
	"github.com/yourusername/leadership-api/pkg/database"
)

func main() {
	logger.Init(os.Getenv("GIN_MODE"))

	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Info().Str("path", configPath).Msg("loading configuration")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.Server.Mode)
	if cfg.Server.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), !cfg.Server.IsRelease())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	log.Info().Str("mode", cfg.Redis.Mode).Msg("connected to redis")

	// Репозитории
	userRepo := pgRepo.NewUserRepo(db)
	gameRepo := pgRepo.NewGameRepo(db)
	teamRepo := pgRepo.NewTeamRepo(db)
	taskRepo := pgRepo.NewTaskRepo(db)
	submissionRepo := pgRepo.NewSubmissionRepo(db)
	reflectionRepo := pgRepo.NewReflectionRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache repo")
	}
	blacklist, err := redisRepo.NewTokenBlacklist(redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token blacklist")
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize jwt service")
	}

	wsHub := ws.NewHub()

	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.ResendAPIKey != "" {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize email service")
		}
		emailService = resendService
	} else {
		log.Warn().Msg("email notifications disabled: resend api key is not set")
	}

	// Сервисы
	scoreboardService := service.NewScoreboardService(teamRepo, cacheRepo, wsHub)
	ledger := service.NewScoreLedger(teamRepo, submissionRepo, db)
	mediaStorage := service.NewLocalMediaStorage(cfg.Uploads.Dir, cfg.Uploads.PublicPrefix, cfg.Uploads.MaxSizeBytes())

	authService := service.NewAuthService(userRepo, jwtService, blacklist)
	gameService := service.NewGameService(gameRepo, teamRepo, taskRepo, submissionRepo, reflectionRepo, scoreboardService)
	teamService := service.NewTeamService(teamRepo, gameRepo, userRepo, submissionRepo, reflectionRepo, scoreboardService)
	taskService := service.NewTaskService(db, taskRepo, gameRepo, submissionRepo, ledger, scoreboardService)
	submissionService := service.NewSubmissionService(db, submissionRepo, taskRepo, teamRepo, gameRepo, ledger, scoreboardService, mediaStorage, emailService)
	reflectionService := service.NewReflectionService(reflectionRepo, teamRepo, gameRepo)
	userService := service.NewUserService(userRepo, gameRepo, teamRepo, submissionRepo)
	exportService := service.NewExportService(gameRepo, teamRepo, taskRepo, submissionRepo, reflectionRepo)
	seedService := service.NewSeedService(userRepo, gameRepo, teamRepo, taskRepo)

	if cfg.Seed.DefaultAdmin {
		if created, err := seedService.EnsureDefaultAdmin(); err != nil {
			log.Error().Err(err).Msg("failed to ensure default admin")
		} else if created {
			log.Warn().Str("email", service.DefaultAdminEmail).Msg("default admin created, change its password")
		}
	}
	if cfg.Seed.DemoData {
		if created, err := seedService.SeedDemoData(); err != nil {
			log.Error().Err(err).Msg("failed to seed demo data")
		} else if created {
			log.Info().Msg("demo data seeded")
		}
	}

	if err := handler.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	// В release не доверяем прокси-заголовкам, в разработке доверяем localhost
	trustedProxies := []string{"127.0.0.1", "::1"}
	if cfg.Server.IsRelease() {
		trustedProxies = nil
	}
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		log.Warn().Err(err).Msg("failed to set trusted proxies")
	}

	corsConfig := cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// "*" несовместим с AllowCredentials
	if slices.Contains(cfg.Server.CORSOrigins, "*") {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	// Загруженные видеоответы
	router.Static(cfg.Uploads.PublicPrefix, cfg.Uploads.Dir)

	handler.RegisterRoutes(router, handler.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Game:       handler.NewGameHandler(gameService),
		Team:       handler.NewTeamHandler(teamService),
		Task:       handler.NewTaskHandler(taskService),
		Submission: handler.NewSubmissionHandler(submissionService, cfg.Uploads.MaxSizeBytes()),
		Reflection: handler.NewReflectionHandler(reflectionService),
		Admin:      handler.NewAdminHandler(userService, exportService, ledger),
		WS:         handler.NewWSHandler(wsHub, gameService, cfg.Server.CORSOrigins),
	}, middleware.NewAuthMiddleware(jwtService, blacklist), middleware.NewRateLimiter(redisClient))

	// Тайм-ауты защищают от медленных клиентов
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	wsHub.Close()

	if err := redisClient.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close redis client")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info().Msg("server exited properly")
}
