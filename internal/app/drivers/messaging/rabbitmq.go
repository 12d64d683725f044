package messaging

import (
	"healnexus-service/internal/app/config"
	"log"
	"strconv"

	"github.com/rabbitmq/amqp091-go"
)

func rabbitMQURI(cfg config.RabbitMQ) string {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		port = 5672
	}
	uri := amqp091.URI{
		Scheme:   "amqp",
		Host:     cfg.Host,
		Port:     port,
		Username: cfg.Username,
		Password: cfg.Password,
		Vhost:    "/",
	}
	return uri.String()
}

func NewRabbitMQ(driverConfig *config.DriverConfig) *amqp091.Connection {
	conn, err := amqp091.DialConfig(rabbitMQURI(driverConfig.RabbitMQ), amqp091.Config{
		Properties: amqp091.Table{"connection_name": "healnexus-service"},
	})
	if err != nil {
		log.Fatalf("Failed to connect to rabbitMQ: %s", err.Error())
	}
	log.Println("Successfully connected to rabbitMQ")
	return conn
}
