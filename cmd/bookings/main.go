package main

import (
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/availability"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/handler"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/repository"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/bookings/service"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/pricing"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/properties"
	"github.com/barreyo/ysc-redesign-ex-sub001/internal/seasons"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/app"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/contracts"
	mongodb "github.com/barreyo/ysc-redesign-ex-sub001/pkg/db/mongo"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/kafka"
	kafka_config "github.com/barreyo/ysc-redesign-ex-sub001/pkg/kafka/config"
	kafka_middleware "github.com/barreyo/ysc-redesign-ex-sub001/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetMembership()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	producer := initProducer(cfg)
	defer func() { _ = producer.Close() }()

	handlers := initServices(cfg, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewHealthHandler(cfg), handlers...)
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	producer, err := kafka.NewProducer(
		kafka_config.Load(),
		cfg.KafkaTopicBookingEvent,
		cfg.KafkaTopicBookingEvent+".dlq",
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaTopicBookingEvent)
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) []contracts.Handler {
	seasonRepo := seasons.NewMongoSeasonRepository(cfg)
	roomRepo := properties.NewMongoRoomRepository(cfg)
	blackoutRepo := properties.NewMongoBlackoutRepository(cfg)
	ruleRepo := pricing.NewMongoRuleRepository(cfg)

	calendar := seasons.NewCalendar(seasonRepo, cfg)
	quoteService := pricing.NewService(cfg, ruleRepo, roomRepo, calendar)
	availabilityService := availability.NewService(cfg, roomRepo, blackoutRepo, availability.NewMongoStayReader(cfg))

	bookingService := service.NewBookingService(cfg, service.Dependencies{
		Bookings:  repository.NewMongoBookingRepository(cfg),
		Inventory: repository.NewMongoInventoryRepository(cfg),
		Locks:     repository.NewMongoLockRepository(cfg),
		Tx:        mongodb.NewTransactionManager(cfg.Client.Mongo),
		Rooms:     roomRepo,
		Blackouts: blackoutRepo,
		Seasons:   seasonRepo,
		Rules:     ruleRepo,
		Quoter:    quoteService,
		Members:   cfg.Client.Membership,
		Events:    producer,
	})

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		handler.NewBookingHandler(cfg, bookingService),
		pricing.NewHandler(cfg, quoteService),
		availability.NewHandler(cfg, availabilityService),
		properties.NewHandler(cfg, roomRepo, blackoutRepo, seasonRepo),
	}
}
