package utils

import (
	"healnexus-service/internal/pkg/constvars"
	"strings"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func GenerateLockValue() string {
	return uuid.NewString()
}
