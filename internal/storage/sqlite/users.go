package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/splitparty/backend/internal/models"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, nickname, password_hash, verified, verification_token, token_expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Nickname,
		user.PasswordHash,
		user.Verified,
		nullableString(user.VerificationToken),
		nullableInt64(user.TokenExpiresAt),
		user.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUserWhere(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUserWhere(ctx, "email = ?", email)
}

// GetUserByNickname retrieves a user by their nickname.
func (s *SQLiteStore) GetUserByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return s.getUserWhere(ctx, "nickname = ?", nickname)
}

// GetUserByVerificationToken retrieves the user holding an outstanding
// verification token.
func (s *SQLiteStore) GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return s.getUserWhere(ctx, "verification_token = ?", token)
}

// MarkUserVerified flips the verified flag and clears the token columns.
func (s *SQLiteStore) MarkUserVerified(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET verified = 1, verification_token = NULL, token_expires_at = NULL WHERE id = ?",
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check verified update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}

	return nil
}

func (s *SQLiteStore) getUserWhere(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, email, nickname, password_hash, verified, verification_token, token_expires_at, created_at
		FROM users
		WHERE ` + where

	user := &models.User{}
	var token sql.NullString
	var expires sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Nickname,
		&user.PasswordHash,
		&user.Verified,
		&token,
		&expires,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.VerificationToken = token.String
	user.TokenExpiresAt = expires.Int64

	return user, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt64(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
