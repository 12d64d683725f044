package contracts

import (
	"context"
	"healnexus-service/internal/pkg/dto/requests"
)

type ReceiptStorage interface {
	ArchiveReceipt(ctx context.Context, receipt *requests.PaymentReceipt) (objectName string, err error)
}
