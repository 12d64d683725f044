package database

import (
	"context"
	"fmt"
	"healnexus-service/internal/app/config"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoConnectTimeout = 10 * time.Second

func mongoURI(cfg config.MongoDB) string {
	if cfg.Username == "" {
		return fmt.Sprintf("mongodb://%s:%s", cfg.Host, cfg.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s", cfg.Username, cfg.Password, cfg.Host, cfg.Port)
}

func NewMongoDB(driverConfig *config.DriverConfig) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI(driverConfig.MongoDB)))
	if err != nil {
		log.Fatalf("Failed to connect to mongo database: %s", err.Error())
	}
	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatalf("Failed to ping or test the connection to mongo database: %s", err.Error())
	}
	log.Println("Successfully connected to mongo database")
	return client
}
