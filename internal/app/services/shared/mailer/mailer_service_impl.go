package mailer

import (
	"context"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/dto/requests"
	"healnexus-service/internal/pkg/exceptions"
	"healnexus-service/internal/pkg/utils"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type mailerService struct {
	mu      sync.Mutex
	Channel *amqp091.Channel
	Queue   string
	Log     *zap.Logger
}

// NewMailerService publishes email payloads to a durable queue consumed by
// the notification worker.
func NewMailerService(rabbitMQConnection *amqp091.Connection, queue string, logger *zap.Logger) (contracts.MailerService, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}

	_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		return nil, err
	}

	return &mailerService{
		Channel: channel,
		Queue:   queue,
		Log:     logger,
	}, nil
}

func (s *mailerService) SendEmail(ctx context.Context, request *requests.EmailPayload) error {
	requestID := utils.GetRequestID(ctx)

	body, err := json.Marshal(request)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		MessageId:    utils.GenerateLockValue(),
		Headers: amqp091.Table{
			"message_type":     "JSON",
			"requeue_strategy": "DROP",
			"event":            request.Event,
		},
	}

	// amqp channels are not safe for concurrent publishing.
	s.mu.Lock()
	err = s.Channel.PublishWithContext(ctx, "", s.Queue, false, false, message)
	s.mu.Unlock()
	if err != nil {
		s.Log.Error("mailerService.SendEmail error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueNameKey, s.Queue),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, s.Queue)
	}

	s.Log.Info("mailerService.SendEmail published message",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, s.Queue),
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
	)
	return nil
}
