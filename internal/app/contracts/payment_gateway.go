package contracts

import "context"

type PaymentGatewayService interface {
	VerifyPayment(ctx context.Context, appointmentID string, amount float64) error
}
