package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/MutabPato/alx-travel-app-0x01/internal/gateway/chapa"
	"github.com/MutabPato/alx-travel-app-0x01/internal/notification"
	"github.com/MutabPato/alx-travel-app-0x01/internal/notification/email"
	"github.com/MutabPato/alx-travel-app-0x01/internal/repository"
	"github.com/MutabPato/alx-travel-app-0x01/internal/service"
	transporthttp "github.com/MutabPato/alx-travel-app-0x01/internal/transport/http"
	"github.com/MutabPato/alx-travel-app-0x01/internal/transport/http/handler"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/config"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/db"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/kafka"
	outboxrepo "github.com/MutabPato/alx-travel-app-0x01/pkg/outbox/repository"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/outbox/worker"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	tp, err := utils.InitTracer(ctx, "travelapp")
	if err != nil {
		log.Fatalf("Failed to init trace: %v", err)
	}

	logger, err := config.NewLogger(config.LoggerConfig{
		Level: cfg.Log.Level,
		Env:   cfg.Env,
	})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := db.NewPostgresPool(ctx, db.Config{
		URL:      cfg.Postgres.URL,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	})
	if err != nil {
		log.Fatalf("Error connecting to postgres: %v", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing redis client: %v\n", err)
		}
	}()

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Fatalf("Error creating kafka producer: %v", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			log.Printf("Error closing kafka producer: %v\n", err)
		}
	}()

	userRepo := repository.NewUserRepository(pool, logger)
	listingRepo := repository.NewListingRepository(pool, logger)
	bookingRepo := repository.NewBookingRepository(pool, logger)
	reviewRepo := repository.NewReviewRepository(pool, logger)
	paymentRepo := repository.NewPaymentRepository(pool, logger)
	outboxRepo := outboxrepo.NewOutboxRepository(pool, logger)

	chapaClient := chapa.NewClient(cfg.Chapa, logger)

	authService := service.NewAuthService(userRepo, cfg.Auth, logger)
	listingService := service.NewCachedListingService(
		service.NewListingService(listingRepo, logger),
		redisClient,
		logger,
	)
	bookingService := service.NewBookingService(bookingRepo, listingRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, listingRepo, logger)
	paymentService := service.NewPaymentService(
		pool,
		paymentRepo,
		bookingRepo,
		userRepo,
		outboxRepo,
		chapaClient,
		cfg.Kafka.PaymentTopic,
		cfg.HTTP.BaseURL,
		logger,
	)

	outboxProcessor := worker.NewOutboxProcessor(pool, outboxRepo, producer, logger)
	go outboxProcessor.Start(ctx)

	emailSender := email.NewSMTPSender(cfg.SMTP, logger)
	notificationService := notification.NewService(emailSender, logger, pool)
	notificationConsumer := notification.NewConsumer(notificationService, logger)
	go func() {
		if err := notificationConsumer.Start(ctx, cfg.Kafka.Brokers, cfg.Kafka.PaymentTopic); err != nil {
			logger.Error("Notification consumer stopped with error: " + err.Error())
		}
	}()

	app := fiber.New()

	app.Use(otelfiber.Middleware())

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Limiter.Max,
		Expiration: cfg.Limiter.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Try again later.",
			})
		},
	}))

	handlers := &transporthttp.Handlers{
		Auth:    handler.NewAuthHandler(authService, logger),
		Listing: handler.NewListingHandler(listingService, logger),
		Booking: handler.NewBookingHandler(bookingService, logger),
		Review:  handler.NewReviewHandler(reviewService, logger),
		Payment: handler.NewPaymentHandler(paymentService, logger),
	}

	transporthttp.RegisterRoutes(app, handlers, cfg.Auth.AccessSecret)

	logger.Info("Travel app started!")

	go func() {
		log.Println("HTTP Service listening on: " + cfg.HTTP.Port)
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("Error listening on HTTP port %v: %v\n", cfg.HTTP.Port, err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down gracefully...")
	shutdownContext, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownContext); err != nil {
		log.Printf("Error shutting down HTTP app: %v\n", err)
	} else {
		log.Println("HTTP App stopped gracefully")
	}

	if err := tp.Shutdown(shutdownContext); err != nil {
		log.Printf("Error shutting down telemetry: %v\n", err)
	} else {
		log.Println("Telemetry stopped correctly")
	}
}
