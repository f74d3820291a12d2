package middleware

import (
	"net/http"
	"strings"

	"github.com/upb/association-hub/backend/auth"
	"github.com/upb/association-hub/backend/internal/observability"
	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/utils"
	"go.uber.org/zap"
)

const (
	msgMissingHeader = "Authorization header is missing"
	msgMissingToken  = "Authentication token is missing"
)

// TokenVerifier checks a session token and returns its claims
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth rejects requests without a valid bearer token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := observability.LoggerWithContext(ctx, m.logger)

		token, problem := extractBearerToken(r)
		if problem != "" {
			logger.Debug("missing credentials", zap.String("reason", problem))
			_ = utils.WriteUnauthorized(w, problem)
			return
		}

		principal, err := m.authenticate(token)
		if err != nil {
			logger.Warn("token validation failed", zap.Error(err))
			_ = utils.WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		logger.Debug("authentication successful",
			zap.Int64("user_id", principal.ID),
			zap.String("role", principal.Role.String()))

		next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
	})
}

// OptionalAuth attaches the principal when a valid token is presented and
// otherwise lets the request through anonymously
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, problem := extractBearerToken(r)
		if problem != "" {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := m.authenticate(token)
		if err != nil {
			observability.LoggerWithContext(r.Context(), m.logger).
				Debug("ignoring invalid token on public route", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireAdmin is a middleware that requires the admin role.
// It must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := GetPrincipalFromContext(r.Context())
		if principal == nil {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}
		if !principal.IsAdmin() {
			observability.LoggerWithContext(r.Context(), m.logger).Warn("insufficient permissions",
				zap.Int64("user_id", principal.ID),
				zap.String("role", principal.Role.String()))
			_ = utils.WriteForbidden(w, "Admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) authenticate(token string) (*policy.Principal, error) {
	claims, err := m.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	return claims.Principal()
}

// extractBearerToken extracts the token from "Authorization: Bearer TOKEN".
// On failure the second result is the client-facing reason.
func extractBearerToken(r *http.Request) (string, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", msgMissingHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", msgMissingToken
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", msgMissingToken
	}
	return token, ""
}
