package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vacq/booking-service/internal/domain"
)

const usersEmailConstraint = "users_email_key"

// UserRepository defines persistence access for user identities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByResetToken(ctx context.Context, hashedToken string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id string, hashedToken *string, expire *time.Time) error
	// ConsumeResetToken swaps in passwordHash and clears the reset token in one
	// step, provided hashedToken is pending and expires after now. It returns
	// ErrNotFound otherwise, so a token can be redeemed once.
	ConsumeResetToken(ctx context.Context, hashedToken string, now time.Time, passwordHash string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, role, password_hash, reset_password_token, reset_password_expire, created_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, name, email, role, password_hash)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Role.String(),
		user.PasswordHash,
	).Scan(&user.CreatedAt)
	if isUniqueViolation(err, usersEmailConstraint) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) GetByResetToken(ctx context.Context, hashedToken string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE reset_password_token=$1`, hashedToken)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
        UPDATE users
        SET password_hash=$1, reset_password_token=NULL, reset_password_expire=NULL
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) ConsumeResetToken(ctx context.Context, hashedToken string, now time.Time, passwordHash string) (*domain.User, error) {
	const query = `
        UPDATE users
        SET password_hash=$1, reset_password_token=NULL, reset_password_expire=NULL
        WHERE reset_password_token=$2 AND reset_password_expire > $3
        RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, passwordHash, hashedToken, now))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return user, nil
}

func (r *userRepository) SetResetToken(ctx context.Context, id string, hashedToken *string, expire *time.Time) error {
	const query = `
        UPDATE users SET reset_password_token=$1, reset_password_expire=$2
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, hashedToken, expire, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&role,
		&user.PasswordHash,
		&user.ResetPasswordToken,
		&user.ResetPasswordExpire,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}
	user.Role = parsed
	return &user, nil
}
