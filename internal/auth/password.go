package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/splitparty/backend/internal/models"
	"github.com/splitparty/backend/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidNickname    = errors.New("nickname must be 3-30 characters, letters, digits, underscore only")
	ErrEmailExists        = errors.New("email already registered")
	ErrNicknameExists     = errors.New("nickname already taken")
)

var nicknameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)

// PasswordAuthenticator implements password-based registration and login
// using bcrypt. The verification-token lifecycle hangs off registration:
// new accounts get a token with a limited TTL and stay unverified until
// it is redeemed.
type PasswordAuthenticator struct {
	storage  storage.UserStore
	tokenTTL time.Duration
}

// NewPasswordAuthenticator creates a new password-based authenticator.
// tokenTTL bounds how long email verification tokens stay redeemable.
func NewPasswordAuthenticator(storage storage.UserStore, tokenTTL time.Duration) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage:  storage,
		tokenTTL: tokenTTL,
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new unverified user account with a hashed password
// and a fresh verification token.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, nickname, credential string) (*models.User, error) {
	if !nicknameRe.MatchString(nickname) {
		return nil, ErrInvalidNickname
	}
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	// Email and nickname each get a distinct duplicate error.
	if existing, err := a.storage.GetUserByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return nil, ErrEmailExists
	}
	if existing, err := a.storage.GetUserByNickname(ctx, nickname); err != nil {
		return nil, fmt.Errorf("failed to check nickname: %w", err)
	} else if existing != nil {
		return nil, ErrNicknameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, nickname, string(hashedPassword), a.tokenTTL)

	if err := a.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the credentials, looking the user up by email or
// nickname, and returns the user if valid. Unknown user and wrong password
// are indistinguishable to the caller.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, emailOrNick, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByEmail(ctx, emailOrNick)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		user, err = a.storage.GetUserByNickname(ctx, emailOrNick)
		if err != nil {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
