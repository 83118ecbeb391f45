package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/quizplay-api/internal/config"
	"github.com/yourusername/quizplay-api/internal/handler"
	"github.com/yourusername/quizplay-api/internal/middleware"
	pgRepo "github.com/yourusername/quizplay-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quizplay-api/internal/repository/redis"
	"github.com/yourusername/quizplay-api/internal/service"
	"github.com/yourusername/quizplay-api/internal/service/session"
	ws "github.com/yourusername/quizplay-api/internal/websocket"
	"github.com/yourusername/quizplay-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	sessionConfig := &session.Config{
		TickInterval: cfg.Session.TickInterval(),
		EventBuffer:  cfg.Session.EventBuffer,
	}
	sessionStore := session.NewStore()

	userService := service.NewUserService(userRepo)
	quizService := service.NewQuizService(quizRepo, cacheRepo)
	attemptService := service.NewAttemptService(attemptRepo, quizRepo)
	leaderboardService := service.NewLeaderboardService(attemptRepo, userRepo, quizRepo)
	sessionService := service.NewSessionService(quizService, attemptService, sessionStore, sessionConfig)

	// WebSocket-концентратор рассылает события сессий подписчикам
	wsHub := ws.NewHub()

	// Инициализируем обработчики
	quizHandler := handler.NewQuizHandler(quizService, attemptService, leaderboardService)
	sessionHandler := handler.NewSessionHandler(sessionService, wsHub)
	attemptHandler := handler.NewAttemptHandler(attemptService)
	userHandler := handler.NewUserHandler(userService)
	wsHandler := handler.NewWSHandler(sessionService, wsHub, cfg.CORS.AllowedOrigins)

	// Инициализируем middleware
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// В production (GIN_MODE=release): не доверяем прокси (защита от IP spoofing)
	// При деплое за балансировщиком добавьте его IP в список
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Викторины
		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("", quizHandler.ListQuizzes)
			quizzes.POST("", rateLimiter.Limit(middleware.MutationRateLimitConfig()), quizHandler.CreateQuiz)

			// Поиск по коду подключения ограничиваем отдельно: защита от перебора кодов
			quizzes.GET("/code/:code", rateLimiter.Limit(middleware.JoinRateLimitConfig()), quizHandler.GetQuizByCode)

			// Группа маршрутов, требующих quizID
			quizWithID := quizzes.Group("/:id")
			quizWithID.Use(middleware.ExtractUintParam("id", "quizID"))
			{
				quizWithID.GET("", quizHandler.GetQuiz)
				quizWithID.GET("/with-questions", quizHandler.GetQuizWithQuestions)
				quizWithID.GET("/leaderboard", quizHandler.GetLeaderboard)
				quizWithID.GET("/stats", quizHandler.GetQuizStats)
				quizWithID.GET("/attempts", quizHandler.GetQuizAttempts)
				quizWithID.DELETE("", rateLimiter.Limit(middleware.MutationRateLimitConfig()), quizHandler.DeleteQuiz)
			}
		}

		// Сессии прохождения
		sessions := api.Group("/sessions")
		{
			sessions.POST("", rateLimiter.Limit(middleware.JoinRateLimitConfig()), sessionHandler.CreateSession)
			sessions.POST("/:id/start", sessionHandler.StartSession)
			sessions.PUT("/:id/answer", sessionHandler.SubmitAnswer)
			sessions.POST("/:id/advance", sessionHandler.AdvanceSession)
			sessions.DELETE("/:id", sessionHandler.CancelSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.GET("/:id/result", sessionHandler.GetResult)
		}

		// Участники и их история попыток
		api.POST("/takers", rateLimiter.Limit(middleware.MutationRateLimitConfig()), userHandler.RegisterTaker)
		takers := api.Group("/takers/:id")
		takers.Use(middleware.ExtractUintParam("id", "takerID"))
		{
			takers.GET("", userHandler.GetTaker)
			takers.GET("/attempts", attemptHandler.GetTakerAttempts)
		}
	}

	// WebSocket маршрут: трансляция событий сессии
	router.GET("/ws/sessions/:id", wsHandler.HandleConnection)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ждем сигнал остановки и корректно гасим сервер
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
