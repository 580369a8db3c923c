package domain

import "time"

// Token is an issued session token together with its validity window.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// PasswordReset is the raw reset token handed back to the requester.
type PasswordReset struct {
	Token     string
	ExpiresAt time.Time
}
