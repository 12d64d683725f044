package config

import (
	"context"
	"errors"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Bootstrap holds the process-wide clients. Clients are nil when the storage
// driver does not need them.
type Bootstrap struct {
	Router         *chi.Mux
	MongoDB        *mongo.Client
	Redis          *redis.Client
	RabbitMQ       *amqp091.Connection
	Minio          *minio.Client
	Logger         *zap.Logger
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// WorkerStop if set will be called during Shutdown to stop background workers
	WorkerStop func()
	// DrainBackground if set waits for in-flight notifications and receipt uploads
	DrainBackground func()
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	var errs []error

	if b.WorkerStop != nil {
		b.WorkerStop()
		log.Println("Successfully stopped background workers")
	}

	if b.DrainBackground != nil {
		drained := make(chan struct{})
		go func() {
			b.DrainBackground()
			close(drained)
		}()
		select {
		case <-drained:
			log.Println("Successfully drained background jobs")
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
		}
	}

	if b.RabbitMQ != nil {
		if err := b.RabbitMQ.Close(); err != nil {
			errs = append(errs, err)
		} else {
			log.Println("Successfully closing RabbitMQ")
		}
	}

	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			errs = append(errs, err)
		} else {
			log.Println("Successfully closing Redis")
		}
	}

	if b.MongoDB != nil {
		if err := b.MongoDB.Disconnect(ctx); err != nil {
			errs = append(errs, err)
		} else {
			log.Println("Successfully closing MongoDB")
		}
	}

	if b.Logger != nil {
		// Sync on stdout returns EINVAL on some platforms and is not worth failing shutdown for.
		_ = b.Logger.Sync()
	}

	return errors.Join(errs...)
}
