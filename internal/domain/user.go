package domain

import "time"

// User is the identity record for people booking at hospitals.
type User struct {
	ID                  string
	Name                string
	Email               string
	Role                Role
	PasswordHash        string `json:"-"`
	ResetPasswordToken  *string
	ResetPasswordExpire *time.Time
	CreatedAt           time.Time
}

// PublicUser is the read model returned to callers. It never carries the hash
// or reset fields.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public strips credential material from the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ResetTokenValid reports whether a pending reset token exists and has not expired at now.
func (u *User) ResetTokenValid(now time.Time) bool {
	if u.ResetPasswordToken == nil || u.ResetPasswordExpire == nil {
		return false
	}
	return now.Before(*u.ResetPasswordExpire)
}
