package repository

import (
	"context"
	"sync"
	"time"

	"github.com/vacq/booking-service/internal/domain"
)

// MemoryUserRepository keeps users in process memory. The email index acts as
// the uniqueness constraint and is checked and written under a single lock.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
	now     func() time.Time
}

// NewMemoryUserRepository returns an empty in-memory repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}
	user.CreatedAt = r.now().UTC()
	stored := cloneUser(user)
	r.byID[user.ID] = stored
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *MemoryUserRepository) GetByResetToken(_ context.Context, hashedToken string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byID {
		if user.ResetPasswordToken != nil && *user.ResetPasswordToken == hashedToken {
			return cloneUser(user), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.ResetPasswordToken = nil
	user.ResetPasswordExpire = nil
	return nil
}

func (r *MemoryUserRepository) ConsumeResetToken(_ context.Context, hashedToken string, now time.Time, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.byID {
		if user.ResetPasswordToken == nil || *user.ResetPasswordToken != hashedToken {
			continue
		}
		if !user.ResetTokenValid(now) {
			return nil, ErrNotFound
		}
		user.PasswordHash = passwordHash
		user.ResetPasswordToken = nil
		user.ResetPasswordExpire = nil
		return cloneUser(user), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) SetResetToken(_ context.Context, id string, hashedToken *string, expire *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	user.ResetPasswordToken = cloneString(hashedToken)
	user.ResetPasswordExpire = cloneTime(expire)
	return nil
}

// Delete removes a user. Tokens issued to the user stop authenticating.
func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byEmail, user.Email)
	delete(r.byID, id)
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.ResetPasswordToken = cloneString(u.ResetPasswordToken)
	c.ResetPasswordExpire = cloneTime(u.ResetPasswordExpire)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
