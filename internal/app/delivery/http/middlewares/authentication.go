package middlewares

import (
	"context"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/exceptions"
	"healnexus-service/internal/pkg/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get(constvars.HeaderAuthorization)
	if strings.HasPrefix(authHeader, constvars.BearerTokenPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, constvars.BearerTokenPrefix))
	}
	if cookie, err := r.Cookie(constvars.CookieToken); err == nil {
		return cookie.Value
	}
	return ""
}

// Authenticate resolves the session behind the request's JWT and stores its
// raw data in the context for controllers.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())

		token := bearerToken(r)
		if token == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		sessionID, err := utils.ParseJWT(token, m.InternalConfig.JWT.Secret)
		if err != nil {
			m.Log.Warn("Middlewares.Authenticate invalid token",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		sessionData, err := m.SessionService.GetSessionData(r.Context(), sessionID)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		session, err := m.SessionService.ParseSessionData(r.Context(), sessionData)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		m.Log.Debug("Middlewares.Authenticate succeeded",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingUserIDKey, session.UserID),
		)
		ctx := context.WithValue(r.Context(), constvars.CONTEXT_SESSION_DATA_KEY, sessionData)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated sessions whose role differs from role.
func (m *Middlewares) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionData, ok := r.Context().Value(constvars.CONTEXT_SESSION_DATA_KEY).(string)
			if !ok {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrMissingSessionData(nil))
				return
			}
			session, err := m.SessionService.ParseSessionData(r.Context(), sessionData)
			if err != nil {
				utils.BuildErrorResponse(m.Log, w, err)
				return
			}
			if session.Role != role {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrNotAuthorizedRole(nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
