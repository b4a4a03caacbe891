package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "bizledger/api/swagger" // swagger docs
	"bizledger/internal/config"
	"bizledger/internal/handler"
	"bizledger/internal/ledger"
	"bizledger/internal/logging"
	"bizledger/internal/service"
	"bizledger/internal/store"
	"bizledger/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// @title           BizLedger API
// @version         1.0
// @description     Inventory and profit tracking API for small businesses.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snap, err := newSnapshotStore(ctx, cfg.Storage)
	if err != nil {
		logger.Error("init snapshot store", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	logger.Info("snapshot store ready", "backend", cfg.Storage.Backend)

	users, err := store.NewUserStore(ctx, snap)
	if err != nil {
		logger.Error("load user store", "error", err)
		os.Exit(1)
	}

	ledgers := ledger.NewManager(snap, ledger.AdjustmentMode(cfg.Ledger.AdjustmentMode), logger)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Store -> Service -> Handler)
	secret := []byte(cfg.JWTSecret)
	entitlements := service.NewEntitlements(users)
	userService := service.NewUserService(users, secret)
	productService := service.NewProductService(ledgers, entitlements, wsHub)
	vendorService := service.NewVendorService(ledgers, entitlements)
	transactionService := service.NewTransactionService(ledgers, entitlements, wsHub)
	stockService := service.NewStockService(ledgers)
	reportService := service.NewReportService(ledgers)
	subscriptionService := service.NewSubscriptionService(users, ledgers)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(userService, secret, cfg.SecureCookies)
	productHandler := handler.NewProductHandler(productService, secret)
	vendorHandler := handler.NewVendorHandler(vendorService, secret)
	transactionHandler := handler.NewTransactionHandler(transactionService, secret)
	stockHandler := handler.NewStockHandler(stockService, secret)
	reportHandler := handler.NewReportHandler(reportService, secret)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, secret)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, secret)
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	productHandler.RegisterRoutes(router.Group(""))
	vendorHandler.RegisterRoutes(router.Group(""))
	transactionHandler.RegisterRoutes(router.Group(""))
	stockHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	subscriptionHandler.RegisterRoutes(router.Group(""))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	// Final synchronous flush so no mutation is lost on exit.
	if err := ledgers.FlushAll(shutdownCtx); err != nil {
		logger.Error("flush ledgers", "error", err)
	}
	logger.Info("shutdown complete")
}

func newSnapshotStore(ctx context.Context, cfg config.Storage) (store.Snapshotter, error) {
	switch cfg.Backend {
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		rs := store.NewRedisStore(client)
		if err := rs.Ping(ctx); err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return store.NewFileStore(cfg.DataDir)
	}
}
