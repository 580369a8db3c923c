package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vacq/booking-service/internal/domain"
	"github.com/vacq/booking-service/internal/repository"
	apperrors "github.com/vacq/booking-service/pkg/util/errorutil"
)

const (
	principalKey = "auth_principal"

	// TokenCookie is the cookie the token is issued in and read back from.
	TokenCookie = "token"
)

type principalCtxKey struct{}

// Principal represents the authenticated caller.
type Principal struct {
	ID   string
	Role domain.Role
}

// FailureRecorder receives guard rejections, keyed by reason.
type FailureRecorder interface {
	RecordAuthFailure(reason string)
}

// AuthMiddleware validates session tokens and loads principals.
type AuthMiddleware struct {
	tokens  TokenVerifier
	users   repository.UserRepository
	logger  *zap.Logger
	metrics FailureRecorder
}

// NewAuthMiddleware constructs middleware. metrics may be nil.
func NewAuthMiddleware(tokens TokenVerifier, users repository.UserRepository, logger *zap.Logger, metrics FailureRecorder) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, users: users, logger: logger, metrics: metrics}
}

// RequireAuthenticated rejects requests without a valid token for an existing user.
func (m *AuthMiddleware) RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := m.authenticate(c)
		if err != nil {
			return err
		}
		c.Locals(principalKey, principal)
		c.SetUserContext(ContextWithPrincipal(c.UserContext(), principal))
		return c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*Principal, error) {
	raw, ok := extractToken(c)
	if !ok {
		return nil, m.reject(apperrors.ReasonTokenMissing, "not authorized to access this route")
	}

	claims, err := m.tokens.Verify(raw)
	if err != nil {
		kind := TokenErrorKindOf(err)
		m.logger.Debug("token rejected", zap.String("kind", kind.String()), zap.String("path", c.Path()))
		if kind == TokenExpired {
			return nil, m.reject(apperrors.ReasonTokenExpired, "token expired")
		}
		return nil, m.reject(apperrors.ReasonTokenInvalid, "not authorized to access this route")
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			m.logger.Debug("token subject no longer exists", zap.String("user_id", claims.UserID()))
			return nil, m.reject(apperrors.ReasonTokenInvalid, "not authorized to access this route")
		}
		return nil, apperrors.NewInternalError(err)
	}

	return &Principal{ID: user.ID, Role: user.Role}, nil
}

func (m *AuthMiddleware) reject(reason, message string) error {
	if m.metrics != nil {
		m.metrics.RecordAuthFailure(reason)
	}
	return apperrors.NewUnauthenticated(reason, message)
}

// extractToken reads the bearer header first and falls back to the token cookie.
func extractToken(c *fiber.Ctx) (string, bool) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		token := strings.TrimSpace(parts[1])
		return token, token != ""
	}
	if cookie := c.Cookies(TokenCookie); cookie != "" {
		return cookie, true
	}
	return "", false
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// ContextWithPrincipal attaches p to ctx for code that only sees a context.Context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFrom returns the principal stored by ContextWithPrincipal.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(*Principal)
	return p, ok && p != nil
}
