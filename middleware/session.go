package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sachahurley/betterfly-app/utils"
)

const (
	// ContextSessionIDKey holds the authenticated onboarding session id.
	ContextSessionIDKey = "session_id"
	// ContextClaimsKey holds the parsed *utils.SessionClaims.
	ContextClaimsKey = "session_claims"
	// ContextTokenKey holds the raw bearer token.
	ContextTokenKey = "session_token"
)

// TokenParser verifies session tokens.
type TokenParser interface {
	Parse(token string) (*utils.SessionClaims, error)
}

// RevocationChecker reports revoked tokens.
type RevocationChecker interface {
	Revoked(token string) bool
}

// SessionRequired ensures the request carries a valid, unrevoked session token.
func SessionRequired(tokens TokenParser, revocations RevocationChecker) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		if revocations.Revoked(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "session ended")
			ctx.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid session token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextSessionIDKey, claims.SessionID)
		ctx.Set(ContextClaimsKey, claims)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Next()
	}
}

// SessionID returns the session id set by SessionRequired.
func SessionID(ctx *gin.Context) string {
	return ctx.GetString(ContextSessionIDKey)
}
