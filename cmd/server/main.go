package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/config"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/gateway"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/handler"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/metrics"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/models"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/repository"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/internal/service"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/pkg/database"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/pkg/logger"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/pkg/middleware"
	"github.com/GauravK1704/zero-waste-compass-mart-85-02-sub001/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("mart-payments", cfg.Environment)
	defer log.Sync()

	ctx := context.Background()

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx, models.OrderSchema, models.PaymentSchema); err != nil {
		log.Fatal("failed to apply schema", zap.Error(err))
	}

	redisClient := redis.NewClient(cfg.RedisURL)
	defer redisClient.Close()

	var gw gateway.Client
	if cfg.GatewayConfigured() {
		gw = gateway.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	} else {
		log.Warn("razorpay credentials missing; payment endpoints will return configuration errors")
	}

	paymentRepo := repository.NewPaymentRepository(db.DB)
	orderRepo := repository.NewOrderRepository(db.DB)

	checkout := service.NewCheckoutService(gw, paymentRepo, redisClient, cfg.RazorpayKeyID, log)
	verification := service.NewVerificationService(gw, paymentRepo, orderRepo, cfg.RazorpayKeySecret, log)

	paymentHandler := handler.NewPaymentHandler(checkout, verification, cfg.RazorpayWebhookSecret, log)
	orderHandler := handler.NewOrderHandler(orderRepo, log)

	router := setupRouter(paymentHandler, orderHandler, redisClient, db, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func setupRouter(payments *handler.PaymentHandler, orders *handler.OrderHandler, redisClient *redis.Client, db *database.PostgresDB, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())
	router.Use(metrics.Handler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		if err := redisClient.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		pay := v1.Group("/payments")
		{
			pay.POST("/orders", payments.CreateOrder)
			pay.POST("/verify", payments.VerifyPayment)
		}

		v1.GET("/orders/:id", orders.GetOrder)
		v1.POST("/webhooks/razorpay", payments.Webhook)
	}

	return router
}
