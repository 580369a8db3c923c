package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vacq/booking-service/internal/api/dto"
	"github.com/vacq/booking-service/internal/auth"
	"github.com/vacq/booking-service/internal/domain"
	"github.com/vacq/booking-service/internal/service"
	apperrors "github.com/vacq/booking-service/pkg/util/errorutil"
)

// AuthHandler exposes registration, login and password endpoints.
type AuthHandler struct {
	auth             *service.AuthService
	cookieSecure     bool
	exposeResetToken bool
}

// AuthHandlerOptions tunes transport-level behavior.
type AuthHandlerOptions struct {
	CookieSecure bool
	// ExposeResetToken returns the raw reset token in the response body. Only
	// meant for development, where no mailer is wired.
	ExposeResetToken bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, opts AuthHandlerOptions) *AuthHandler {
	return &AuthHandler{
		auth:             authService,
		cookieSecure:     opts.CookieSecure,
		exposeResetToken: opts.ExposeResetToken,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return h.sendToken(c, http.StatusCreated, user, token)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, err := h.auth.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.IP(),
	})
	if err != nil {
		return err
	}
	return h.sendToken(c, http.StatusOK, user, token)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated(apperrors.ReasonTokenMissing, "not authorized to access this route")
	}
	user, err := h.auth.Me(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user.Public()})
}

// Logout handles GET /api/v1/auth/logout. Tokens cannot be revoked server side;
// the cookie is cleared and clients must discard any stored token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// UpdatePassword handles PUT /api/v1/auth/updatepassword.
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated(apperrors.ReasonTokenMissing, "not authorized to access this route")
	}

	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, err := h.auth.UpdatePassword(c.UserContext(), principal.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return h.sendToken(c, http.StatusOK, user, token)
}

// ForgotPassword handles POST /api/v1/auth/forgotpassword.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	reset, err := h.auth.ForgotPassword(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	data := fiber.Map{"message": "reset instructions sent", "expiresAt": reset.ExpiresAt}
	if h.exposeResetToken {
		data["resetToken"] = reset.Token
	}
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// ResetPassword handles PUT /api/v1/auth/resetpassword/:resettoken.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, err := h.auth.ResetPassword(c.UserContext(), c.Params("resettoken"), req.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, http.StatusOK, user, token)
}

func (h *AuthHandler) sendToken(c *fiber.Ctx, status int, user *domain.User, token domain.Token) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.TokenCookie,
		Value:    token.Value,
		Expires:  token.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Status(status).JSON(dto.AuthResponse{
		Success:   true,
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      user.Public(),
	})
}
