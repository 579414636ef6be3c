package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liveauction/auction-backend/internal/config"
	"github.com/liveauction/auction-backend/internal/http/handlers"
	"github.com/liveauction/auction-backend/internal/http/middleware"
	"github.com/liveauction/auction-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	itemHandler *handlers.ItemHandler,
	claimHandler *handlers.ClaimHandler,
	auctionHandler *handlers.AuctionHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod, cfg.RedisURL))

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
		api.GET("/seed", seedHandler.Seed)
	}

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod, cfg.RedisURL)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", authHandler.DeleteSession)
		protectedAuth.DELETE("/sessions", authHandler.DeleteAllSessionsExcept)
	}

	// Публичные маршруты
	api.GET("/items", itemHandler.Catalog)
	api.GET("/auctions", auctionHandler.List)
	api.GET("/auctions/:id", middleware.UUIDValidator("id"), auctionHandler.Get)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		// Пользователи
		protected.GET("/users/me", userHandler.Me)
		protected.PUT("/users/:id/role", middleware.UUIDValidator("id"), userHandler.UpdateRole)

		// Лоты
		protected.POST("/items", itemHandler.Create)
		protected.GET("/items/my", itemHandler.ListMy)
		protected.GET("/items/pending", itemHandler.ListPending)
		protected.GET("/items/:id", middleware.UUIDValidator("id"), itemHandler.Get)
		protected.PUT("/items/:id", middleware.UUIDValidator("id"), itemHandler.Update)
		protected.POST("/items/:id/submit", middleware.UUIDValidator("id"), itemHandler.Submit)
		protected.POST("/items/:id/review", middleware.UUIDValidator("id"), itemHandler.Review)
		protected.POST("/items/:id/cancel", middleware.UUIDValidator("id"), itemHandler.Cancel)
		protected.PUT("/items/:id/photos", middleware.UUIDValidator("id"), itemHandler.SetPhotos)
		protected.GET("/items/:id/claims", middleware.UUIDValidator("id"), claimHandler.ListByItem)

		// Заявки аукционистов
		protected.POST("/claims", claimHandler.Create)
		protected.GET("/claims/my", claimHandler.ListMy)
		protected.GET("/claims/:id", middleware.UUIDValidator("id"), claimHandler.Get)
		protected.POST("/claims/:id/review", middleware.UUIDValidator("id"), claimHandler.Review)

		// Аукционы
		protected.POST("/auctions", auctionHandler.Create)
		protected.GET("/auctions/my", auctionHandler.ListMy)
		protected.PUT("/auctions/:id", middleware.UUIDValidator("id"), auctionHandler.Update)
		protected.POST("/auctions/:id/cancel", middleware.UUIDValidator("id"), auctionHandler.Cancel)

		// Медиа
		protected.POST("/media/photos", mediaHandler.UploadPhoto)
		protected.DELETE("/media/:id", middleware.UUIDValidator("id"), mediaHandler.DeleteMedia)
	}

	return r
}
