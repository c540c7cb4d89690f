package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"abarrotes-backend/internal/assistant"
	"abarrotes-backend/internal/auth"
	"abarrotes-backend/internal/backup"
	"abarrotes-backend/internal/cache"
	"abarrotes-backend/internal/config"
	"abarrotes-backend/internal/database"
	"abarrotes-backend/internal/db"
	"abarrotes-backend/internal/handlers"
	"abarrotes-backend/internal/health"
	h "abarrotes-backend/internal/http"
	"abarrotes-backend/internal/middleware"
	"abarrotes-backend/internal/notify"
	"abarrotes-backend/internal/repositories"
	"abarrotes-backend/internal/services"
	"abarrotes-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional, everything degrades gracefully without it.
	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	if err := cache.Init(redisAddr, cfg.Redis.Password); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (running without cache)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations from the embedded filesystem
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, migrations.FS, ".")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool, cache.GetClient())
	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	credentialRepo := repositories.NewDeviceCredentialRepository(pool)
	accountRepo := repositories.NewAccountRepository(pool)
	movementRepo := repositories.NewMovementRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	cashCutRepo := repositories.NewCashCutRepository(pool)

	// Notification hub and relay poller
	hub := notify.NewHub(cache.GetClient())
	poller := notify.NewPoller(cfg.Notify.RelayBaseURL)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Listen(hubCtx)

	// Assistant (optional, endpoints answer 503 without a key)
	var aiClient *assistant.Client
	if cfg.Assistant.APIKey != "" {
		aiClient = assistant.NewClient(
			cfg.Assistant.BaseURL,
			cfg.Assistant.APIKey,
			cfg.Assistant.Model,
			cfg.Assistant.ImageModel,
			cfg.Assistant.Temperature,
		)
	} else {
		log.Println("[Assistant] No API key configured, assistant endpoints disabled")
	}

	// Services
	userService := services.NewUserService(userRepo, credentialRepo, jwtManager)
	accountService := services.NewAccountService(pool, accountRepo, movementRepo)
	productService := services.NewProductService(productRepo)
	cashCutService := services.NewCashCutService(cashCutRepo, hub)
	importService := services.NewImportService(productRepo, hub)
	notificationService := services.NewNotificationService(hub, poller, cfg.JWT.Secret)

	var chat *assistant.Chat
	if aiClient != nil {
		chat = assistant.NewChat(aiClient, productService)
	}

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService)
	productHandler := handlers.NewProductHandler(productService, aiClient)
	cashCutHandler := handlers.NewCashCutHandler(cashCutService, aiClient)
	importHandler := handlers.NewImportHandler(importService)
	chatHandler := handlers.NewChatHandler(chat)
	avatarHandler := handlers.NewAvatarHandler(aiClient, userRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Nightly bucket export of catalog and cash cut snapshots
	if cfg.Backup.Enabled {
		exporter, err := backup.NewExporter(context.Background(), backup.Options{
			Endpoint:  cfg.Backup.Endpoint,
			AccessKey: cfg.Backup.AccessKey,
			SecretKey: cfg.Backup.SecretKey,
			Bucket:    cfg.Backup.Bucket,
			Region:    cfg.Backup.Region,
		}, productRepo, cashCutRepo)
		if err != nil {
			log.Printf("[Backup] Exporter disabled: %v", err)
		} else {
			go exporter.Run(hubCtx)
			log.Println("[Backup] Nightly export scheduled")
		}
	}

	router := h.NewRouter(
		authHandler,
		accountHandler,
		productHandler,
		cashCutHandler,
		importHandler,
		chatHandler,
		avatarHandler,
		notificationHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
