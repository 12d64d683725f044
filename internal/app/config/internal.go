package config

import (
	"healnexus-service/internal/pkg/constvars"
	"time"
)

type InternalConfig struct {
	App      App
	JWT      AppJWT
	Booking  AppBooking
	Mailer   AppMailer
	RabbitMQ AppRabbitMQ
	Minio    AppMinio
	Metrics  AppMetrics
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	EndpointPrefix             string
	StorageDriver              string
	MemorySeedFile             string
	AllowedOrigins             []string
	MaxRequests                int
	MaxTimeRequestsPerSeconds  int
	ShutdownTimeoutInSeconds   int
	RequestTimeoutInSeconds    int
	RequestBodyLimitInKilobyte int
}

func (a App) IsProduction() bool {
	return a.Env == constvars.AppEnvProduction
}

func (a App) UsesMemoryStorage() bool {
	return a.StorageDriver == constvars.StorageDriverMemory
}

type AppJWT struct {
	Secret string
}

type AppBooking struct {
	LockTTLInSeconds             int
	LockWaitInMilliseconds       int
	HoldExpiryInMinutes          int
	HoldSweepCronSpec            string
	HoldSweepBatchSize           int
	NotificationTimeoutInSeconds int
}

func (b AppBooking) LockTTL() time.Duration {
	return time.Duration(b.LockTTLInSeconds) * time.Second
}

func (b AppBooking) LockWait() time.Duration {
	return time.Duration(b.LockWaitInMilliseconds) * time.Millisecond
}

func (b AppBooking) HoldExpiry() time.Duration {
	return time.Duration(b.HoldExpiryInMinutes) * time.Minute
}

func (b AppBooking) NotificationTimeout() time.Duration {
	return time.Duration(b.NotificationTimeoutInSeconds) * time.Second
}

type AppMailer struct {
	EmailSender string
}

type AppRabbitMQ struct {
	MailerQueue string
}

type AppMinio struct {
	BucketName string
}

type AppMetrics struct {
	Enabled bool
	Path    string
}
