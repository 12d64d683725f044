package config

import (
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "healnexus"),
			Username: utils.GetEnvString("MONGODB_USERNAME", ""),
			Password: utils.GetEnvString("MONGODB_PASSWORD", ""),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			Region:   utils.GetEnvString("MINIO_REGION", "us-east-1"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", constvars.AppEnvDevelopment),
			Port:                       utils.GetEnvString("APP_PORT", "8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			StorageDriver:              utils.GetEnvString("APP_STORAGE_DRIVER", constvars.StorageDriverMongo),
			MemorySeedFile:             utils.GetEnvString("APP_MEMORY_SEED_FILE", ""),
			AllowedOrigins:             utils.GetEnvStringSlice("APP_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:5174"}),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 10),
			RequestBodyLimitInKilobyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_KILOBYTE", 64),
		},
		JWT: AppJWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		Booking: AppBooking{
			LockTTLInSeconds:             utils.GetEnvInt("BOOKING_LOCK_TTL_IN_SECONDS", 10),
			LockWaitInMilliseconds:       utils.GetEnvInt("BOOKING_LOCK_WAIT_IN_MILLISECONDS", 2000),
			HoldExpiryInMinutes:          utils.GetEnvInt("BOOKING_HOLD_EXPIRY_IN_MINUTES", 0),
			HoldSweepCronSpec:            utils.GetEnvString("BOOKING_HOLD_SWEEP_CRON_SPEC", "@every 1m"),
			HoldSweepBatchSize:           utils.GetEnvInt("BOOKING_HOLD_SWEEP_BATCH_SIZE", 100),
			NotificationTimeoutInSeconds: utils.GetEnvInt("BOOKING_NOTIFICATION_TIMEOUT_IN_SECONDS", 5),
		},
		Mailer: AppMailer{
			EmailSender: utils.GetEnvString("APP_MAILER_EMAIL_SENDER", "no-reply@healnexus.local"),
		},
		RabbitMQ: AppRabbitMQ{
			MailerQueue: utils.GetEnvString("APP_RABBITMQ_MAILER_QUEUE", "healnexus.mailer"),
		},
		Minio: AppMinio{
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "healnexus-receipts"),
		},
		Metrics: AppMetrics{
			Enabled: utils.GetEnvBool("APP_METRICS_ENABLED", true),
			Path:    utils.GetEnvString("APP_METRICS_PATH", "/metrics"),
		},
	}
}
