package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitbook/config"
	"fitbook/cron"
	"fitbook/database"
	bookingRepo "fitbook/database/repository/booking"
	paymentRepo "fitbook/database/repository/payment"
	trainerRepo "fitbook/database/repository/trainer"
	"fitbook/handlers"
	"fitbook/middleware"
	"fitbook/routes"
	"fitbook/services/booking"
	"fitbook/services/notification"
	"fitbook/services/payment"
	"fitbook/services/tasks"
	"fitbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// stores groups the persistence backends selected by STORE_DRIVER.
type stores struct {
	bookings bookingRepo.BookingRepository
	orders   paymentRepo.PaymentOrderRepository
	trainers trainerRepo.TrainerRepository
	mongo    *mongo.Client
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		logger.Fatal("main: JWT_SECRET is required")
	}
	utils.InitJWT(cfg.JWTSecret)
	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatal("main: failed to register validators", zap.Error(err))
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStores(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("main: failed to open stores", zap.Error(err))
	}

	// Redis backs the order lock and the task queue. The memory driver runs without it.
	var (
		redisClient *redis.Client
		locker      payment.Locker = payment.NewMemoryLocker()
	)
	if cfg.StoreDriver != "memory" {
		redisClient = utils.GetCacheClient()
		locker = payment.NewRedisLocker(redisClient)
	}

	verifier, err := payment.NewSignatureVerifier(cfg.PaymentSigningSecret)
	if err != nil {
		logger.Fatal("main: payment signature verification is not configured", zap.Error(err))
	}
	paymentService := &payment.DefaultPaymentService{
		Client:         newOrderClient(cfg, logger),
		Orders:         st.orders,
		Locker:         locker,
		Verifier:       verifier,
		Logger:         logger,
		AttemptTimeout: cfg.GatewayTimeout,
		MaxAttempts:    cfg.GatewayMaxAttempts,
		BackoffBase:    cfg.GatewayBackoffBase,
		LockTTL:        cfg.OrderLockTTL,
	}

	var events notification.NotificationService = &notification.LogNotificationService{Logger: logger}
	if brokers := config.KafkaBrokerList(); len(brokers) > 0 {
		events = notification.NewKafkaNotificationService(brokers, cfg.KafkaTopic)
		logger.Info("Publishing booking events to Kafka", zap.Strings("brokers", brokers), zap.String("topic", cfg.KafkaTopic))
	}
	defer events.Close()

	bookingService := &booking.DefaultBookingService{
		Repo:         st.bookings,
		Trainers:     st.trainers,
		Payments:     paymentService,
		Events:       events,
		Logger:       logger,
		Currency:     cfg.PaymentCurrency,
		ExpiryWindow: cfg.BookingExpiryWindow,
	}

	var worker *cron.Worker
	if redisClient != nil {
		queueClient := asynq.NewClient(utils.QueueRedisOpt())
		defer queueClient.Close()
		bookingService.Expiry = tasks.NewAsynqExpiryScheduler(queueClient)

		worker, err = cron.NewWorker(cron.WorkerConfig{
			RedisOpt:          utils.QueueRedisOpt(),
			SweepInterval:     cfg.ExpirySweepInterval,
			ReconcileInterval: cfg.ReconcileInterval,
			ReconcileGrace:    cfg.ReconcileGrace,
		}, bookingService)
		if err != nil {
			logger.Fatal("main: failed to build task worker", zap.Error(err))
		}
		worker.Start()
	} else {
		go runInProcessSweeps(rootCtx, bookingService, cfg, logger)
	}

	utils.StartHealthMonitor(rootCtx, 15*time.Second, redisClient, st.mongo)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewBookingHandler(bookingService),
		handlers.NewTrainerHandler(st.trainers),
		gin.WrapH(promhttp.Handler()),
	)
	routes.RegisterRoutes(router, handlerBundle, cfg.FrontendURL)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server",
		zap.String("addr", srv.Addr),
		zap.String("store", cfg.StoreDriver),
		zap.String("gateway", paymentService.GatewayName()))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if st.mongo != nil {
		if err := database.Disconnect(ctx); err != nil {
			logger.Warn("main: mongo disconnect failed", zap.Error(err))
		}
	}
	logger.Info("main: server stopped gracefully")
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("Using in-memory stores; data is lost on restart")
		return &stores{
			bookings: bookingRepo.NewMemoryBookingRepo(),
			orders:   paymentRepo.NewMemoryPaymentOrderRepo(),
			trainers: trainerRepo.NewMemoryTrainerRepo(trainerRepo.SampleTrainers(time.Now().UTC())...),
		}, nil
	}

	if err := database.InitDB(ctx); err != nil {
		return nil, err
	}
	db := database.Database()
	bookings, err := bookingRepo.NewMongoBookingRepo(db)
	if err != nil {
		return nil, err
	}
	orders, err := paymentRepo.NewMongoPaymentOrderRepo(db)
	if err != nil {
		return nil, err
	}
	return &stores{
		bookings: bookings,
		orders:   orders,
		trainers: trainerRepo.NewMongoTrainerRepo(db),
		mongo:    database.MongoClient,
	}, nil
}

func newOrderClient(cfg config.Config, logger *zap.Logger) payment.OrderClient {
	switch cfg.PaymentGateway {
	case "stripe":
		if cfg.StripeKey == "" {
			logger.Fatal("main: STRIPE_KEY is required for the stripe gateway")
		}
		return payment.NewStripeClient(cfg.StripeKey, cfg.GatewayTimeout)
	case "razorpay":
		if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
			logger.Fatal("main: RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required for the razorpay gateway")
		}
		return payment.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL, cfg.GatewayTimeout)
	default:
		logger.Fatal("main: unsupported PAYMENT_GATEWAY", zap.String("gateway", cfg.PaymentGateway))
		return nil
	}
}

// runInProcessSweeps stands in for the asynq scheduler when Redis is not configured.
func runInProcessSweeps(ctx context.Context, svc booking.BookingService, cfg config.Config, logger *zap.Logger) {
	sweep := time.NewTicker(cfg.ExpirySweepInterval)
	defer sweep.Stop()
	reconcile := time.NewTicker(cfg.ReconcileInterval)
	defer reconcile.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweep.C:
			if _, err := svc.ExpireOverdue(ctx, 200); err != nil {
				logger.Warn("Expiry sweep failed", zap.Error(err))
			}
		case <-reconcile.C:
			if _, err := svc.ReconcileOrphanedOrders(ctx, cfg.ReconcileGrace, 200); err != nil {
				logger.Warn("Reconciliation failed", zap.Error(err))
			}
		}
	}
}
