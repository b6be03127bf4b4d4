package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/barreyo/ysc-redesign-ex-sub001/internal/notifier"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/config"
	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/kafka"
	kafka_config "github.com/barreyo/ysc-redesign-ex-sub001/pkg/kafka/config"
	kafka_middleware "github.com/barreyo/ysc-redesign-ex-sub001/pkg/kafka/middleware"
)

const (
	ServiceName     = "notifier"
	ConsumerGroupID = "notifier"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Notifier service")

	service := notifier.NewService(cfg.Log, &notifier.LogSender{Log: cfg.Log})

	consumer, err := kafka.NewConsumer(
		kafka_config.Load(),
		cfg.KafkaTopicBookingEvent,
		ConsumerGroupID,
		cfg.KafkaTopicBookingEvent+".dlq",
		service.HandleMessage,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Consuming booking events",
		"topic", cfg.KafkaTopicBookingEvent,
		"group_id", ConsumerGroupID,
	)
	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Fatal("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer cleanly", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
