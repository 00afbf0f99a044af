package main

import (
	"boatsafari/internal/bookings/gateway"
	"boatsafari/internal/bookings/handler"
	"boatsafari/internal/bookings/notify"
	"boatsafari/internal/bookings/repository"
	"boatsafari/internal/bookings/service"
	"boatsafari/internal/bookings/validator"
	"boatsafari/pkg/app"
	"boatsafari/pkg/config"
	"boatsafari/pkg/kafka"
	kafkaconfig "boatsafari/pkg/kafka/config"
	kafkamiddleware "boatsafari/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	serverApp := app.NewApplication(cfg)
	serverApp.AddShutdownHook("mongo-client", cfg.Client.GracefulShutdown)

	producer := initProducer(cfg)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	tripRepo := repository.NewMongoTripRepository(cfg)
	ledger := service.NewCapacityLedger(tripRepo, bookingRepo)

	hub := notify.NewHub(cfg.Log,
		notify.NewEmailObserver(cfg.Log),
		notify.NewAuditObserver(cfg.Log),
		notify.NewInventoryObserver(ledger, cfg.Log),
	)
	if producer != nil {
		hub.Register(notify.NewStreamObserver(producer, ServiceName, cfg.Log))
		serverApp.AddShutdownHook("kafka-producer", func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		})
	}

	bookingService := service.NewBookingService(
		bookingRepo,
		tripRepo,
		repository.NewTripLockRepository(cfg),
		validator.NewBookingValidator(cfg.Log),
		service.NewHoldManager(cfg.HoldDuration),
		ledger,
		hub,
		cfg,
	)
	paymentService := service.NewPaymentService(
		bookingService,
		bookingRepo,
		repository.NewMongoPaymentRepository(cfg),
		gateway.NewMockGateway(cfg.Log, 0),
		validator.NewBookingValidator(cfg.Log),
		cfg,
	)

	sweeper := service.NewSweeper(bookingService, cfg.SweepInterval, cfg.Log)
	sweeper.Start()
	serverApp.AddShutdownHook("hold-sweeper", sweeper.Stop)

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName)

	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, cfg.Log),
		handler.NewPaymentHandler(paymentService, cfg.Log),
		handler.NewTripHandler(tripRepo, ledger, cfg.Log),
	)
	serverApp.Run()
}

// initProducer builds the event-stream producer. The service runs
// without it when Kafka is not configured; booking flows never depend
// on the stream.
func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Warn("Kafka disabled, running without event stream", "error", err)
		return nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQ)
	if err != nil {
		cfg.Log.Warn("Failed to create Kafka producer, running without event stream", "error", err)
		return nil
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.BookingEventsTopic)
	return producer
}
