package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vacq/booking-service/internal/domain"
	apperrors "github.com/vacq/booking-service/pkg/util/errorutil"
)

// RequireRole ensures the authenticated principal has one of the allowed roles.
// An empty list admits any authenticated caller. It must run after RequireAuthenticated.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated(apperrors.ReasonTokenMissing, "not authorized to access this route")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("user role " + principal.Role.String() + " is not authorized to access this route")
		}
		return c.Next()
	}
}

