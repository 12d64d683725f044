package session

import (
	"context"
	"fmt"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/app/models"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
)

type sessionService struct {
	RedisRepository contracts.RedisRepository
}

func NewSessionService(redisRepository contracts.RedisRepository) contracts.SessionService {
	return &sessionService{
		RedisRepository: redisRepository,
	}
}

func (svc *sessionService) GetSessionData(ctx context.Context, sessionID string) (string, error) {
	sessionData, err := svc.RedisRepository.Get(ctx, fmt.Sprintf(constvars.SessionKeyFormat, sessionID))
	if err != nil {
		return "", err
	}
	if sessionData == "" {
		return "", exceptions.ErrSessionNotFound(nil)
	}
	return sessionData, nil
}

func (svc *sessionService) ParseSessionData(ctx context.Context, sessionData string) (*models.Session, error) {
	session := new(models.Session)
	err := json.Unmarshal([]byte(sessionData), session)
	if err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	if session.UserID == "" {
		return nil, exceptions.ErrSessionNotFound(nil)
	}
	if session.IsExpired(time.Now()) {
		return nil, exceptions.ErrTokenInvalidOrExpired(nil)
	}
	return session, nil
}
