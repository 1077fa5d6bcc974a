package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/splitparty/backend/internal/apperr"
	"github.com/splitparty/backend/internal/auth"
	"github.com/splitparty/backend/internal/metrics"
	"github.com/splitparty/backend/internal/models"
	"github.com/splitparty/backend/internal/notify"
	"github.com/splitparty/backend/internal/storage"
)

// ErrNotVerified rejects login attempts by accounts that never redeemed
// their verification token.
var ErrNotVerified = errors.New("email not verified")

// AuthService handles registration, email verification and login.
type AuthService struct {
	authenticator *auth.PasswordAuthenticator
	jwtManager    *auth.JWTManager
	mailer        notify.Mailer
	store         storage.UserStore
	metrics       *metrics.Metrics
}

// NewAuthService creates an AuthService with its collaborators.
func NewAuthService(
	authenticator *auth.PasswordAuthenticator,
	jwtManager *auth.JWTManager,
	mailer notify.Mailer,
	store storage.UserStore,
	m *metrics.Metrics,
) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		mailer:        mailer,
		store:         store,
		metrics:       m,
	}
}

// Register creates an unverified account and sends the verification token.
// Mail delivery is best-effort: a failed send is logged and the account is
// kept; the user can still be verified through a resent token.
func (s *AuthService) Register(ctx context.Context, email, nickname, password string) (*models.User, error) {
	user, err := s.authenticator.Register(ctx, email, nickname, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidNickname),
			errors.Is(err, auth.ErrWeakPassword),
			errors.Is(err, auth.ErrEmailExists),
			errors.Is(err, auth.ErrNicknameExists):
			return nil, apperr.Invalid("%s", err.Error())
		}
		return nil, err
	}

	if err := s.mailer.SendVerification(ctx, user.Email, user.VerificationToken); err != nil {
		slog.Error("verification mail send failed",
			"user_id", user.ID,
			"email", user.Email,
			"error", err,
		)
	}

	s.metrics.UsersRegistered.Inc()
	slog.Info("user registered", "user_id", user.ID, "nickname", user.Nickname)

	return user, nil
}

// Verify redeems a verification token and marks the account verified.
func (s *AuthService) Verify(ctx context.Context, token string) error {
	user, err := s.store.GetUserByVerificationToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to look up token: %w", err)
	}
	if user == nil {
		return apperr.Invalid("invalid token")
	}
	if user.TokenExpiresAt != 0 && time.Now().Unix() > user.TokenExpiresAt {
		return apperr.Invalid("token expired")
	}

	if err := s.store.MarkUserVerified(ctx, user.ID); err != nil {
		return err
	}

	slog.Info("user verified", "user_id", user.ID)
	return nil
}

// Login checks credentials against email or nickname and issues an access
// token. Unverified accounts are rejected.
func (s *AuthService) Login(ctx context.Context, emailOrNick, password string) (string, error) {
	user, err := s.authenticator.Authenticate(ctx, emailOrNick, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return "", apperr.Invalid("invalid credentials")
		}
		return "", err
	}
	if !user.Verified {
		return "", ErrNotVerified
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return "", err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return token, nil
}

// Me returns the account for an authenticated user id.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}
