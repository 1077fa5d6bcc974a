package sqlite

import (
	"context"
	"fmt"

	"github.com/splitparty/backend/internal/models"
)

// ReplaceClaims atomically swaps the user's claim set for the receipt:
// it deletes every claim the user holds on the receipt's items, then
// inserts one claim per given item id, all inside one transaction. A
// concurrent summary read never observes the deleted-but-not-reinserted
// intermediate state. An empty itemIDs list just clears the claims.
func (s *SQLiteStore) ReplaceClaims(ctx context.Context, receiptID, userID string, itemIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM user_receipt_items
		WHERE user_id = ?
		  AND receipt_item_id IN (SELECT id FROM receipt_items WHERE receipt_id = ?)`,
		userID, receiptID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete prior claims: %w", err)
	}

	for _, itemID := range itemIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO user_receipt_items (user_id, receipt_item_id) VALUES (?, ?)",
			userID, itemID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert claim: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CountUserClaims returns how many of the receipt's items the user claims.
func (s *SQLiteStore) CountUserClaims(ctx context.Context, receiptID, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM user_receipt_items c
		JOIN receipt_items i ON i.id = c.receipt_item_id
		WHERE c.user_id = ? AND i.receipt_id = ?`,
		userID, receiptID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count claims: %w", err)
	}

	return count, nil
}

// ListClaims returns all claims on the receipt's items.
func (s *SQLiteStore) ListClaims(ctx context.Context, receiptID string) ([]models.Claim, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.user_id, c.receipt_item_id
		FROM user_receipt_items c
		JOIN receipt_items i ON i.id = c.receipt_item_id
		WHERE i.receipt_id = ?`,
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	var claims []models.Claim
	for rows.Next() {
		var c models.Claim
		if err := rows.Scan(&c.UserID, &c.ReceiptItemID); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claims: %w", err)
	}

	return claims, nil
}
