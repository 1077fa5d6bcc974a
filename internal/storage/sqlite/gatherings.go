package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitparty/backend/internal/apperr"
	"github.com/splitparty/backend/internal/models"
)

// CreateGathering inserts the gathering and enrolls the owner as a
// participant. Both writes happen in one transaction: a gathering is never
// visible without its owner enrolled.
func (s *SQLiteStore) CreateGathering(ctx context.Context, gathering *models.Gathering) error {
	if gathering.ID == "" {
		gathering.ID = uuid.New().String()
	}
	if gathering.CreatedAt == 0 {
		gathering.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO gatherings (id, name, description, owner_id, created_at) VALUES (?, ?, ?, ?, ?)",
		gathering.ID, gathering.Name, gathering.Description, gathering.OwnerID, gathering.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert gathering: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO gathering_participants (gathering_id, user_id, joined_at) VALUES (?, ?, ?)",
		gathering.ID, gathering.OwnerID, gathering.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enroll owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGathering retrieves a gathering by ID.
func (s *SQLiteStore) GetGathering(ctx context.Context, id string) (*models.Gathering, error) {
	gathering := &models.Gathering{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, owner_id, created_at FROM gatherings WHERE id = ?",
		id,
	).Scan(&gathering.ID, &gathering.Name, &gathering.Description, &gathering.OwnerID, &gathering.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gathering: %w", err)
	}

	return gathering, nil
}

// AddParticipant enrolls a user in a gathering.
// Returns apperr.ErrAlreadyMember when the participant row already exists.
func (s *SQLiteStore) AddParticipant(ctx context.Context, gatheringID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM gathering_participants WHERE gathering_id = ? AND user_id = ?)",
		gatheringID, userID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check participant: %w", err)
	}
	if exists {
		return apperr.ErrAlreadyMember
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO gathering_participants (gathering_id, user_id, joined_at) VALUES (?, ?, ?)",
		gatheringID, userID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// IsParticipant reports whether the user is enrolled in the gathering.
func (s *SQLiteStore) IsParticipant(ctx context.Context, gatheringID, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM gathering_participants WHERE gathering_id = ? AND user_id = ?)",
		gatheringID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}

	return exists, nil
}

// ListParticipants returns every current participant of the gathering,
// joined with the users table for nicknames.
func (s *SQLiteStore) ListParticipants(ctx context.Context, gatheringID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.gathering_id, p.user_id, u.nickname, p.joined_at
		FROM gathering_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.gathering_id = ?
		ORDER BY p.joined_at`,
		gatheringID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.GatheringID, &p.UserID, &p.Nickname, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}
