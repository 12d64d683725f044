package memory

import (
	"context"
	"fmt"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/dto/requests"
	"sync"

	"go.uber.org/zap"
)

// Outbox records emails and receipts instead of sending them anywhere.
type Outbox struct {
	mu       sync.Mutex
	log      *zap.Logger
	emails   []requests.EmailPayload
	receipts map[string]requests.PaymentReceipt
}

func NewOutbox(logger *zap.Logger) *Outbox {
	return &Outbox{
		log:      logger,
		receipts: make(map[string]requests.PaymentReceipt),
	}
}

func (o *Outbox) SendEmail(ctx context.Context, request *requests.EmailPayload) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.emails = append(o.emails, *request)
	o.log.Info("Outbox.SendEmail recorded email",
		zap.String(constvars.LoggingAppointmentIDKey, request.AppointmentID),
		zap.Strings("to", request.To),
	)
	return nil
}

func (o *Outbox) ArchiveReceipt(ctx context.Context, receipt *requests.PaymentReceipt) (string, error) {
	objectName := fmt.Sprintf(constvars.ReceiptObjectKeyFormat, receipt.AppointmentID)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.receipts[objectName] = *receipt
	return objectName, nil
}

func (o *Outbox) Emails() []requests.EmailPayload {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]requests.EmailPayload(nil), o.emails...)
}

func (o *Outbox) Receipt(objectName string) (requests.PaymentReceipt, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	receipt, ok := o.receipts[objectName]
	return receipt, ok
}
