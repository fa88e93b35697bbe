package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"smartcareer-backend/internal/delivery/http/response"
	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/auth"
	"smartcareer-backend/pkg/i18n"
	"smartcareer-backend/pkg/logger"
	"smartcareer-backend/pkg/security"
)

// Authenticator verifies bearer tokens and checks them against the
// revocation store.
type Authenticator struct {
	tokens      *auth.TokenManager
	revocations auth.RevocationStore
	secLog      *security.SecurityLogger
}

func NewAuthenticator(tokens *auth.TokenManager, revocations auth.RevocationStore, secLog *security.SecurityLogger) *Authenticator {
	if secLog == nil {
		secLog = security.DefaultLogger()
	}
	return &Authenticator{tokens: tokens, revocations: revocations, secLog: secLog}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// authenticate returns the i18n key of the failure, or "" on success.
func (a *Authenticator) authenticate(c *gin.Context, token string) string {
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return i18n.SessionExpired
	}

	revoked, err := a.revocations.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		// fail open
		logger.Log.Warn("Revocation check failed", "error", err)
	}
	if revoked {
		a.secLog.LogRevokedTokenUsed(c.Request.Context(), claims.ID, c.ClientIP(), c.GetString(response.RequestIDKey))
		return i18n.SessionExpired
	}

	c.Set(string(domain.KeyUserID), claims.Subject)
	c.Set(string(domain.KeyUserEmail), claims.Email)
	c.Set(string(domain.KeyTokenID), claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(string(domain.KeyTokenExpiry), claims.ExpiresAt.Time)
	}
	return ""
}

// Required rejects requests without a valid, unrevoked token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, Text(c, i18n.Unauthorized))
			return
		}
		if key := a.authenticate(c, token); key != "" {
			response.Abort(c, http.StatusUnauthorized, Text(c, key))
			return
		}
		c.Next()
	}
}

// Optional identifies the caller when a valid token is presented and
// otherwise continues anonymously.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			_ = a.authenticate(c, token)
		}
		c.Next()
	}
}
