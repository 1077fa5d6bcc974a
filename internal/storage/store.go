// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/splitparty/backend/internal/models"
)

// Store defines the persistence interface for the whole system.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Every multi-row write (gathering with owner enrollment, receipt with items,
// claim replacement) must be atomic: concurrent readers never observe a
// partially applied operation.
type Store interface {
	UserStore
	GatheringStore
	ReceiptStore
	ClaimStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
// Lookups return (nil, nil) when no matching user exists.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByNickname(ctx context.Context, nickname string) (*models.User, error)
	GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error)

	// MarkUserVerified sets verified and clears the outstanding token.
	MarkUserVerified(ctx context.Context, userID string) error
}

// GatheringStore persists gatherings and their participant rows.
type GatheringStore interface {
	// CreateGathering inserts the gathering and enrolls the owner as a
	// participant in one transaction. Populates ID and CreatedAt.
	CreateGathering(ctx context.Context, gathering *models.Gathering) error

	// GetGathering returns apperr.ErrNotFound when the gathering is absent.
	GetGathering(ctx context.Context, id string) (*models.Gathering, error)

	// AddParticipant returns apperr.ErrAlreadyMember when the row exists.
	AddParticipant(ctx context.Context, gatheringID, userID string) error

	IsParticipant(ctx context.Context, gatheringID, userID string) (bool, error)

	// ListParticipants returns every current participant with nickname.
	ListParticipants(ctx context.Context, gatheringID string) ([]models.Participant, error)
}

// ReceiptStore persists receipts and their line items.
type ReceiptStore interface {
	// CreateReceipt inserts the receipt and all of its items in one
	// transaction. Populates receipt and item IDs and CreatedAt.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt returns the receipt with its items, or apperr.ErrNotFound.
	GetReceipt(ctx context.Context, id string) (*models.Receipt, error)
}

// ClaimStore persists (user, receipt item) claims.
type ClaimStore interface {
	// ReplaceClaims atomically deletes the user's claims on the receipt's
	// items and inserts one claim per given item id. The caller has
	// already validated that every id belongs to the receipt.
	ReplaceClaims(ctx context.Context, receiptID, userID string, itemIDs []string) error

	// CountUserClaims returns how many items of the receipt the user claims.
	CountUserClaims(ctx context.Context, receiptID, userID string) (int, error)

	// ListClaims returns all claims on the receipt's items.
	ListClaims(ctx context.Context, receiptID string) ([]models.Claim, error)
}
