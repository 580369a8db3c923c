package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vacq/booking-service/internal/auth"
	"github.com/vacq/booking-service/internal/config"
	"github.com/vacq/booking-service/internal/domain"
	"github.com/vacq/booking-service/internal/events"
	"github.com/vacq/booking-service/internal/repository"
	apperrors "github.com/vacq/booking-service/pkg/util/errorutil"
)

// RegisterInput is the public registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginInput carries credentials and the caller's address. Failed attempts
// are counted per email and ClientIP pair.
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

// AuthService coordinates registration, login and password flows.
type AuthService struct {
	users            repository.UserRepository
	credentials      *CredentialStore
	hasher           *auth.PasswordHasher
	tokenMgr         *auth.TokenManager
	throttle         *auth.Throttle
	dispatcher       events.Dispatcher
	logger           *zap.Logger
	resetTTL         time.Duration
	allowAdminSignup bool
	now              func() time.Time
	dummyHash        string
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	// Clock overrides time.Now for token issuing and reset expiry.
	Clock func() time.Time
}

// NewAuthService builds the service. The signing secret and lifetimes come
// from cfg only.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) (*AuthService, error) {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tokenMgr, err := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL, auth.WithClock(now))
	if err != nil {
		return nil, err
	}

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:            deps.UserRepo,
		credentials:      NewCredentialStore(deps.UserRepo, hasher),
		hasher:           hasher,
		tokenMgr:         tokenMgr,
		throttle:         auth.NewLoginThrottle(cfg.LoginAttemptsPerMinute),
		dispatcher:       deps.Dispatcher,
		logger:           logger,
		resetTTL:         cfg.PasswordResetTTL(),
		allowAdminSignup: cfg.AllowAdminSignup,
		now:              now,
		dummyHash:        dummyHash,
	}, nil
}

// Register creates a user through the public endpoint and signs them in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, domain.Token, error) {
	role := domain.RoleUser
	if in.Role != "" {
		parsed, err := domain.ParseRole(in.Role)
		if err != nil {
			return nil, domain.Token{}, apperrors.NewValidationError("invalid user", map[string]any{"role": "role must be user or admin"})
		}
		role = parsed
	}
	if role == domain.RoleAdmin && !s.allowAdminSignup {
		return nil, domain.Token{}, apperrors.NewValidationError("invalid user", map[string]any{"role": "admin accounts cannot be self-registered"})
	}

	user, err := s.CreateUser(ctx, NewUser{Name: in.Name, Email: in.Email, Password: in.Password, Role: role})
	if err != nil {
		return nil, domain.Token{}, err
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, domain.Token{}, err
	}
	return user, token, nil
}

// CreateUser persists a user of any role. Callers outside HTTP (the admin
// bootstrap command) use it directly.
func (s *AuthService) CreateUser(ctx context.Context, in NewUser) (*domain.User, error) {
	user, err := s.credentials.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", user.Role.String()))
	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role.String(),
	})
	return user, nil
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.User, domain.Token, error) {
	email, password := NormalizeEmail(in.Email), in.Password
	if email == "" || password == "" {
		return nil, domain.Token{}, apperrors.NewValidationError("please provide an email and password", nil)
	}
	throttleKey := email + "|" + in.ClientIP
	if !s.throttle.Allow(throttleKey) {
		return nil, domain.Token{}, apperrors.NewTooManyRequests("too many login attempts, try again later")
	}

	user, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, domain.Token{}, apperrors.NewInternalError(err)
		}
		// Spend the same hashing effort as a real comparison.
		s.hasher.Verify(s.dummyHash, password)
		return nil, domain.Token{}, invalidCredentials()
	}
	if !s.credentials.VerifySecret(user, password) {
		return nil, domain.Token{}, invalidCredentials()
	}
	s.throttle.Reset(throttleKey)

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, domain.Token{}, err
	}
	return user, token, nil
}

// Me loads the current user.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthenticated(apperrors.ReasonTokenInvalid, "not authorized to access this route")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// UpdatePassword changes the password after checking the current one and
// returns a fresh token.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (*domain.User, domain.Token, error) {
	if currentPassword == "" || newPassword == "" {
		return nil, domain.Token{}, apperrors.NewValidationError("current and new password required", nil)
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, domain.Token{}, err
	}
	if !s.credentials.VerifySecret(user, currentPassword) {
		return nil, domain.Token{}, apperrors.NewUnauthenticated(apperrors.ReasonInvalidCredentials, "password is incorrect")
	}
	if err := s.credentials.UpdatePassword(ctx, user.ID, newPassword); err != nil {
		return nil, domain.Token{}, err
	}
	s.publish(ctx, events.EventPasswordChanged, user.ID, events.PasswordChangedPayload{Email: user.Email, Via: "update"})

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, domain.Token{}, err
	}
	return user, token, nil
}

// ForgotPassword stores a hashed reset token for the account and returns the raw one.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*domain.PasswordReset, error) {
	user, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	raw := uuid.NewString()
	hashed := hashResetToken(raw)
	expiresAt := s.now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, &hashed, &expiresAt); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventPasswordResetRequested, user.ID, events.PasswordResetRequestedPayload{
		Email:      user.Email,
		ResetToken: raw,
		ExpiresAt:  expiresAt,
	})
	return &domain.PasswordReset{Token: raw, ExpiresAt: expiresAt}, nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) (*domain.User, domain.Token, error) {
	if rawToken == "" {
		return nil, domain.Token{}, invalidResetToken()
	}

	hashed := hashResetToken(rawToken)
	user, err := s.credentials.RedeemResetToken(ctx, hashed, s.now(), newPassword)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.clearExpiredResetToken(ctx, hashed)
			return nil, domain.Token{}, invalidResetToken()
		}
		return nil, domain.Token{}, err
	}
	s.publish(ctx, events.EventPasswordChanged, user.ID, events.PasswordChangedPayload{Email: user.Email, Via: "reset"})

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, domain.Token{}, err
	}
	return user, token, nil
}

func (s *AuthService) clearExpiredResetToken(ctx context.Context, hashed string) {
	user, err := s.users.GetByResetToken(ctx, hashed)
	if err != nil {
		return
	}
	if err := s.users.SetResetToken(ctx, user.ID, nil, nil); err != nil {
		s.logger.Warn("failed to clear expired reset token", zap.String("user_id", user.ID), zap.Error(err))
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(userID string) (domain.Token, error) {
	token, err := s.tokenMgr.Issue(userID)
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}
	return token, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	})
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func invalidCredentials() error {
	return apperrors.NewUnauthenticated(apperrors.ReasonInvalidCredentials, "invalid credentials")
}

func invalidResetToken() error {
	return apperrors.NewValidationError("invalid or expired reset token", nil)
}
