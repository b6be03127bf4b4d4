package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvMaxNights          = "MAX_NIGHTS"
	EnvFallbackAdvance    = "FALLBACK_ADVANCE_WINDOW"
	EnvBuyoutOccupancyCap = "BUYOUT_OCCUPANCY_CAP"

	EnvAdultRateCents = "ADULT_RATE_CENTS"
	EnvChildRateCents = "CHILD_RATE_CENTS"

	EnvLockTTL          = "INVENTORY_LOCK_TTL"
	EnvLockRetries      = "INVENTORY_LOCK_RETRIES"
	EnvLockRetryBackoff = "INVENTORY_LOCK_RETRY_BACKOFF"

	EnvMembershipServiceURL = "MEMBERSHIP_SERVICE_URL"

	EnvKafkaBrokers            = "KAFKA_BROKERS"
	EnvKafkaTopicBookingEvents = "KAFKA_TOPIC_BOOKING_EVENTS"
)
