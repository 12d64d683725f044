package contracts

import (
	"context"
	"healnexus-service/internal/app/models"
)

type SessionService interface {
	GetSessionData(ctx context.Context, sessionID string) (sessionData string, err error)
	ParseSessionData(ctx context.Context, sessionData string) (*models.Session, error)
}
