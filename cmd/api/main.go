// @title QuizDeck API
// @version 1.0
// @description Quiz attempt lifecycle and scoring API.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizdeck/internal/adapter"
	"quizdeck/internal/cache"
	"quizdeck/internal/config"
	"quizdeck/internal/database"
	"quizdeck/internal/handler"
	"quizdeck/internal/logger"
	"quizdeck/internal/middleware"
	"quizdeck/internal/repository"
	"quizdeck/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	quizRepository := repository.NewSQLXQuizRepository(db)
	attemptRepository := repository.NewSQLXAttemptRepository(db)
	subscriptionRepository := repository.NewSQLXSubscriptionRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize Redis client and cache adapter
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize services
	billingGateway := service.NewSubscriptionBillingGateway(subscriptionRepository, cacheAdapter)
	entitlementService := service.NewEntitlementService(attemptRepository, billingGateway)
	resolver := service.NewQuestionSetResolver(quizRepository)
	timerPolicy := service.NewTimerPolicy()

	attemptService := service.NewAttemptService(
		quizRepository,
		attemptRepository,
		entitlementService,
		resolver,
		timerPolicy,
		txManager,
	)
	catalogService := service.NewCatalogService(quizRepository, attemptRepository, entitlementService, billingGateway)
	historyService := service.NewHistoryService(attemptRepository)

	authService, err := service.NewAuthService(cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(catalogService)
	attemptHandler := handler.NewAttemptHandler(attemptService)
	historyHandler := handler.NewHistoryHandler(historyService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  20 * time.Second,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Guest-Session-ID", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	apiGroup := app.Group("/api")

	// Quiz catalog routes; authentication is optional so guests can browse
	apiGroup.Get("/quizzes", quizHandler.ListQuizzes)
	apiGroup.Get("/quizzes/:quizId", middleware.OptionalAuth(authService), quizHandler.GetQuiz)

	// Attempt lifecycle routes
	apiGroup.Post("/quizzes/:quizId/attempts", middleware.OptionalAuth(authService), attemptHandler.StartAttempt)
	attemptGroup := apiGroup.Group("/attempts", middleware.OptionalAuth(authService))
	attemptGroup.Get("/:attemptId", attemptHandler.GetAttemptState)
	attemptGroup.Post("/:attemptId/answers", attemptHandler.RecordAnswer)
	attemptGroup.Post("/:attemptId/questions/:questionId/flag", attemptHandler.ToggleFlag)
	attemptGroup.Get("/:attemptId/flagged", attemptHandler.GetFlaggedQuestions)
	attemptGroup.Post("/:attemptId/complete", attemptHandler.CompleteAttempt)
	attemptGroup.Post("/:attemptId/abandon", attemptHandler.AbandonAttempt)
	attemptGroup.Get("/:attemptId/result", attemptHandler.GetAttemptResult)

	// History routes (user only)
	apiGroup.Get("/me/attempts", middleware.Protected(authService), historyHandler.GetHistory)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
