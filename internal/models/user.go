package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
//
// Accounts start unverified: a verification token is issued at registration
// and the account cannot log in until the token is redeemed.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique).
	Email string

	// Nickname is the unique short handle (3-30 chars, [A-Za-z0-9_]).
	Nickname string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// Verified reports whether the email verification token was redeemed.
	Verified bool

	// VerificationToken is the outstanding email verification token,
	// empty once redeemed.
	VerificationToken string

	// TokenExpiresAt is the Unix timestamp after which the verification
	// token is no longer accepted. Zero when no token is outstanding.
	TokenExpiresAt int64

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser builds an unverified user with a fresh ID and verification token.
func NewUser(email, nickname, passwordHash string, tokenTTL time.Duration) *User {
	now := time.Now()
	return &User{
		ID:                uuid.New().String(),
		Email:             email,
		Nickname:          nickname,
		PasswordHash:      passwordHash,
		Verified:          false,
		VerificationToken: uuid.New().String(),
		TokenExpiresAt:    now.Add(tokenTTL).Unix(),
		CreatedAt:         now.Unix(),
	}
}
