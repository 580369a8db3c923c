package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacq/booking-service/internal/domain"
)

func TestMemoryUserRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &domain.User{ID: "u1", Name: "Ann", Email: "ann@vacq.test", Role: domain.RoleUser, PasswordHash: "h1"}
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ann@vacq.test")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	byEmail.Name = "mutated"
	byID, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", byID.Name, "returned users are copies")

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByEmail(ctx, "missing@vacq.test")
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Create(ctx, &domain.User{ID: "u2", Email: "ann@vacq.test"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	require.NoError(t, repo.Delete(ctx, "u1"))
	_, err = repo.GetByID(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "u1"), ErrNotFound)
}

func TestMemoryUserRepositoryResetToken(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "ann@vacq.test", PasswordHash: "old"}))

	token := "hashed"
	expire := time.Now().Add(10 * time.Minute)
	require.NoError(t, repo.SetResetToken(ctx, "u1", &token, &expire))

	found, err := repo.GetByResetToken(ctx, "hashed")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)
	require.NotNil(t, found.ResetPasswordExpire)
	assert.True(t, found.ResetPasswordExpire.Equal(expire))

	require.NoError(t, repo.UpdatePassword(ctx, "u1", "new"))
	_, err = repo.GetByResetToken(ctx, "hashed")
	assert.ErrorIs(t, err, ErrNotFound, "password update clears the reset token")

	updated, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.PasswordHash)
	assert.Nil(t, updated.ResetPasswordExpire)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, "missing", "x"), ErrNotFound)
	assert.ErrorIs(t, repo.SetResetToken(ctx, "missing", nil, nil), ErrNotFound)
}

func TestMemoryUserRepositoryConcurrentDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	const writers = 16
	var (
		wg      sync.WaitGroup
		created atomic.Int32
		dupes   atomic.Int32
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, &domain.User{ID: fmt.Sprintf("u%d", i), Email: "same@vacq.test"})
			switch err {
			case nil:
				created.Add(1)
			case ErrDuplicateEmail:
				dupes.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, created.Load())
	assert.EqualValues(t, writers-1, dupes.Load())
}

func TestMemoryUserRepositoryConsumeResetToken(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "ann@vacq.test", PasswordHash: "old"}))

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	token := "hashed"
	expire := now.Add(10 * time.Minute)
	require.NoError(t, repo.SetResetToken(ctx, "u1", &token, &expire))

	_, err := repo.ConsumeResetToken(ctx, "other", now, "new")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.ConsumeResetToken(ctx, "hashed", expire, "new")
	assert.ErrorIs(t, err, ErrNotFound, "a token is dead at its expiry instant")

	user, err := repo.ConsumeResetToken(ctx, "hashed", now, "new")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "new", user.PasswordHash)
	assert.Nil(t, user.ResetPasswordToken)

	_, err = repo.ConsumeResetToken(ctx, "hashed", now, "newer")
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new", stored.PasswordHash)
}
