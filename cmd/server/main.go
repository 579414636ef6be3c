package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/liveauction/auction-backend/internal/config"
	"github.com/liveauction/auction-backend/internal/db"
	"github.com/liveauction/auction-backend/internal/events"
	"github.com/liveauction/auction-backend/internal/goroutine"
	httpHandlers "github.com/liveauction/auction-backend/internal/http/handlers"
	httpRouter "github.com/liveauction/auction-backend/internal/http/router"
	"github.com/liveauction/auction-backend/internal/logger"
	"github.com/liveauction/auction-backend/internal/repository"
	"github.com/liveauction/auction-backend/internal/service"
	"github.com/liveauction/auction-backend/internal/storage"
	"github.com/liveauction/auction-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Публикация событий аукционов в NATS.
	publisher, err := events.NewNATSPublisher(cfg.NATSURL, cfg.AuctionEventsRoutingKey)
	if err != nil {
		log.Fatalf("main: ошибка подключения к NATS: %v", err)
	}
	defer publisher.Close()

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	itemRepo := repository.NewItemRepository(dbConn)
	claimRepo := repository.NewClaimRepository(dbConn)
	auctionRepo := repository.NewAuctionRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	itemService := service.NewItemService(itemRepo)
	claimService := service.NewClaimService(claimRepo, itemRepo, hub)
	auctionService := service.NewAuctionService(auctionRepo, claimRepo)
	lifecycleService := service.NewLifecycleService(auctionRepo, publisher, cfg.SweepInterval)
	seedService := service.NewSeedService(userRepo, itemRepo)

	// Фоновый цикл жизненного цикла аукционов.
	goroutine.SafeGoWithContext(ctx, lifecycleService.Run)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	userHandler := httpHandlers.NewUserHandler(userRepo)
	itemHandler := httpHandlers.NewItemHandler(itemService)
	claimHandler := httpHandlers.NewClaimHandler(claimService)
	auctionHandler := httpHandlers.NewAuctionHandler(auctionService)
	mediaHandler := httpHandlers.NewMediaHandler(mediaRepo, photoStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	seedHandler := httpHandlers.NewSeedHandler(seedService)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, userHandler, itemHandler, claimHandler, auctionHandler, mediaHandler, wsHandler, healthHandler, seedHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
