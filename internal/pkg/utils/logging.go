package utils

import (
	"context"
	"healnexus-service/internal/pkg/constvars"
	"time"

	"go.uber.org/zap"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string); ok {
		return requestID
	}
	return ""
}

// LogDuration logs how long a background job took and whether it failed.
func LogDuration(logger *zap.Logger, message string, start time.Time, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
		zap.Bool(constvars.LoggingSuccessKey, err == nil),
	)
	if err != nil {
		logger.Error(message, append(fields, zap.Error(err))...)
		return
	}
	logger.Info(message, fields...)
}
