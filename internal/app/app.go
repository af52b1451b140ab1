package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"tankograd/internal/config"
	"tankograd/internal/database"
	"tankograd/internal/handlers"
	"tankograd/internal/metrics"
	"tankograd/internal/repositories"
	"tankograd/internal/routes"
	"tankograd/internal/services"
	"tankograd/internal/workers"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "tankograd/docs"
)

func Run() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("БД недоступна: ", err)
	}

	// === Migrations ===
	if err := database.RunMigrations(cfg.Database.DSN); err != nil {
		log.Fatal("Ошибка миграций: ", err)
	}

	// === Repos ===
	profileRepo := repositories.NewProfileRepository(db)
	codeRepo := repositories.NewLoginCodeRepository(db)

	// === Metrics ===
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// === Services ===
	loginService := services.NewLoginService(
		profileRepo,
		codeRepo,
		collector,
		cfg.CodeTTL(),
		cfg.Login.CodeBytes,
		cfg.Login.MaxAttempts,
	)

	// === Telegram bot (long polling) ===
	bot, err := services.NewTelegramBot(cfg.Telegram.BotToken, loginService, cfg.Telegram.PollTimeout)
	if err != nil {
		log.Fatal("Ошибка запуска Telegram-бота: ", err)
	}
	go bot.Run(ctx)

	// === Cleanup worker ===
	if cfg.Cleanup.Enabled {
		cleanup := workers.NewCodeCleanup(codeRepo, cfg.CleanupRetention(), cfg.CleanupInterval())
		go cleanup.Run(ctx)
	}

	// === Handlers ===
	jwtKey := []byte(cfg.Auth.JWTSecret)
	loginHandler := handlers.NewLoginHandler(loginService, jwtKey, cfg.TokenTTL())
	adminHandler := handlers.NewAdminHandler(codeRepo)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, db, loginHandler, adminHandler, jwtKey, registry)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
