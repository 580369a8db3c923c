package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vacq/booking-service/internal/auth"
	"github.com/vacq/booking-service/internal/domain"
	"github.com/vacq/booking-service/internal/repository"
	apperrors "github.com/vacq/booking-service/pkg/util/errorutil"
)

const (
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes, so longer secrets are refused.
	maxPasswordBytes = 72
)

var emailPattern = regexp.MustCompile(`^(([^<>()\[\].,;:\s@"]+(\.[^<>()\[\].,;:\s@"]+)*)|(".+"))@(([^<>()\[\].,;:\s@"]+\.)+[^<>()\[\].,;:\s@"]{2,})$`)

// NewUser is the input for creating a credential record.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// CredentialStore owns user records and their password hashes. Hashing happens
// explicitly in Create and UpdatePassword, never as a persistence side effect.
type CredentialStore struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
}

// NewCredentialStore wires the store.
func NewCredentialStore(users repository.UserRepository, hasher *auth.PasswordHasher) *CredentialStore {
	return &CredentialStore{users: users, hasher: hasher}
}

// Create validates input, hashes the password and persists the user.
func (s *CredentialStore) Create(ctx context.Context, in NewUser) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	role := in.Role
	if role == 0 {
		role = domain.RoleUser
	}

	details := map[string]any{}
	if name == "" {
		details["name"] = "please add a name"
	}
	if err := ValidateEmail(email); err != nil {
		details["email"] = err.Error()
	}
	if err := ValidatePassword(in.Password); err != nil {
		details["password"] = err.Error()
	}
	if !role.Valid() {
		details["role"] = "role must be user or admin"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid user", details)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewDuplicateEmail()
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// FindByEmail returns the user including its hash, or repository.ErrNotFound.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, NormalizeEmail(email))
}

// VerifySecret reports whether plain matches the stored hash.
func (s *CredentialStore) VerifySecret(user *domain.User, plain string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return s.hasher.Verify(user.PasswordHash, plain)
}

// UpdatePassword validates and hashes plain, replacing the stored hash and
// clearing any pending reset token.
func (s *CredentialStore) UpdatePassword(ctx context.Context, userID, plain string) error {
	if err := ValidatePassword(plain); err != nil {
		return apperrors.NewValidationError("invalid password", map[string]any{"password": err.Error()})
	}
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// RedeemResetToken hashes plain and stores it for the user holding the pending
// hashedToken, consuming the token. It returns repository.ErrNotFound when the
// token is unknown, expired or already used.
func (s *CredentialStore) RedeemResetToken(ctx context.Context, hashedToken string, now time.Time, plain string) (*domain.User, error) {
	if err := ValidatePassword(plain); err != nil {
		return nil, apperrors.NewValidationError("invalid password", map[string]any{"password": err.Error()})
	}
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user, err := s.users.ConsumeResetToken(ctx, hashedToken, now, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address grammar.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("please add an email")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("please add a valid email")
	}
	return nil
}

// ValidatePassword enforces the length bounds.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("please add a password")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return errors.New("password must be at least 6 characters")
	}
	if len(password) > maxPasswordBytes {
		return errors.New("password must be at most 72 bytes")
	}
	return nil
}
