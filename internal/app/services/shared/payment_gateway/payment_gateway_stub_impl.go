package payment_gateway

import (
	"context"
	"errors"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/utils"

	"go.uber.org/zap"
)

var ErrNonPositiveAmount = errors.New("amount must be positive")

type stubPaymentGateway struct {
	Log *zap.Logger
}

// NewStubPaymentGateway approves every positive amount. It stands in for the
// real gateway callback until one is integrated.
func NewStubPaymentGateway(logger *zap.Logger) contracts.PaymentGatewayService {
	return &stubPaymentGateway{Log: logger}
}

func (g *stubPaymentGateway) VerifyPayment(ctx context.Context, appointmentID string, amount float64) error {
	requestID := utils.GetRequestID(ctx)
	if amount <= 0 {
		g.Log.Warn("stubPaymentGateway.VerifyPayment rejected payment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Float64(constvars.LoggingAmountKey, amount),
		)
		return ErrNonPositiveAmount
	}

	g.Log.Info("stubPaymentGateway.VerifyPayment approved payment",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.Float64(constvars.LoggingAmountKey, amount),
	)
	return nil
}
