package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "lodge"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Stay rules.
	DefaultMaxNights          = 4
	DefaultFallbackAdvance    = 365 * 24 * time.Hour
	DefaultBuyoutOccupancyCap = 17

	// Rates applied when no pricing rule carries its own amount, in cents.
	DefaultAdultRateCents = 4500
	DefaultChildRateCents = 2500

	// Inventory locking.
	DefaultLockTTL          = 30 * time.Second
	DefaultLockRetries      = 5
	DefaultLockRetryBackoff = 100 * time.Millisecond

	DefaultMembershipServiceURL = "http://localhost:8081"

	DefaultKafkaBrokers             = "localhost:9092"
	DefaultKafkaTopicBookingEvents  = "booking.events"
	DefaultKafkaConsumerGroupPrefix = "lodge"

	DefaultPaginationLimit = 100
)
