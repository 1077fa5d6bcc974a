package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/splitparty/backend/internal/apperr"
	"github.com/splitparty/backend/internal/models"
)

// CreateReceipt persists a receipt and all of its items in one transaction.
// On any failure the whole write rolls back: no receipt without its items.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}
	if receipt.Currency == "" {
		receipt.Currency = models.DefaultCurrency
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO receipts (id, gathering_id, name, total_amount, currency, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		receipt.ID, receipt.GatheringID, receipt.Name, receipt.TotalAmount.String(), receipt.Currency, receipt.CreatedBy, receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i := range receipt.Items {
		item := &receipt.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.ReceiptID = receipt.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO receipt_items (id, receipt_id, name, price) VALUES (?, ?, ?, ?)",
			item.ID, item.ReceiptID, item.Name, item.Price.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert receipt item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetReceipt retrieves a receipt by ID, including all of its items.
func (s *SQLiteStore) GetReceipt(ctx context.Context, id string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	var total string
	var createdBy sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, gathering_id, name, total_amount, currency, created_by, created_at FROM receipts WHERE id = ?",
		id,
	).Scan(&receipt.ID, &receipt.GatheringID, &receipt.Name, &total, &receipt.Currency, &createdBy, &receipt.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	receipt.CreatedBy = createdBy.String
	receipt.TotalAmount, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt total %q: %w", total, err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, receipt_id, name, price FROM receipt_items WHERE receipt_id = ?",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.ReceiptItem
		var price string
		if err := rows.Scan(&item.ID, &item.ReceiptID, &item.Name, &price); err != nil {
			return nil, fmt.Errorf("failed to scan receipt item: %w", err)
		}
		item.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse item price %q: %w", price, err)
		}
		receipt.Items = append(receipt.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipt items: %w", err)
	}

	return receipt, nil
}
