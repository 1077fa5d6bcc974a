package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/splitparty/backend/internal/apperr"
	"github.com/splitparty/backend/internal/calculator"
	"github.com/splitparty/backend/internal/metrics"
	"github.com/splitparty/backend/internal/models"
	"github.com/splitparty/backend/internal/storage"
)

// ReceiptStatus is a user's answer state for a receipt.
type ReceiptStatus string

const (
	// StatusCompleted means the user holds at least one claim on the receipt.
	StatusCompleted ReceiptStatus = "completed"

	// StatusPending means the user holds no claims. An explicit empty claim
	// set and "never responded" both read as pending.
	StatusPending ReceiptStatus = "pending"
)

// UserTotal is one participant's share of a receipt summary.
type UserTotal struct {
	UserID    string
	Nickname  string
	TotalPaid decimal.Decimal
}

// Summary is the full picture of a receipt: its items, and for every
// current participant of the owning gathering what they claim to have paid.
type Summary struct {
	Items         []models.ReceiptItem
	PerUserTotals []UserTotal
}

// AssignmentService owns (user, receipt item) claims and the aggregations
// over them.
type AssignmentService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewAssignmentService creates an AssignmentService with the given storage backend.
func NewAssignmentService(store storage.Store, m *metrics.Metrics) *AssignmentService {
	return &AssignmentService{store: store, metrics: m}
}

// memberReceipt loads the receipt and gates on the requester's membership
// in the owning gathering: apperr.ErrNotFound, then apperr.ErrForbidden.
func (s *AssignmentService) memberReceipt(ctx context.Context, receiptID, userID string) (*models.Receipt, error) {
	receipt, err := s.store.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	member, err := s.store.IsParticipant(ctx, receipt.GatheringID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperr.ErrForbidden
	}

	return receipt, nil
}

// ReplaceClaims replaces the user's whole claim set for the receipt with
// one claim per given item id. Every id is validated against the receipt
// before anything is written: an unknown id aborts the call and the prior
// claim set stays intact. An empty list clears the claims, which is how
// "not participating" is expressed. The operation is idempotent.
func (s *AssignmentService) ReplaceClaims(ctx context.Context, receiptID, userID string, itemIDs []string) error {
	receipt, err := s.memberReceipt(ctx, receiptID, userID)
	if err != nil {
		return err
	}

	valid := make(map[string]bool, len(receipt.Items))
	for _, item := range receipt.Items {
		valid[item.ID] = true
	}
	seen := make(map[string]bool, len(itemIDs))
	deduped := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		if !valid[id] {
			return &apperr.InvalidItemError{ItemID: id}
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		deduped = append(deduped, id)
	}

	if err := s.store.ReplaceClaims(ctx, receiptID, userID, deduped); err != nil {
		slog.Error("replace claims failed", "receipt_id", receiptID, "user_id", userID, "error", err)
		return err
	}

	s.metrics.ClaimsReplaced.Inc()
	slog.Info("claims replaced",
		"receipt_id", receiptID,
		"user_id", userID,
		"items", len(deduped),
	)

	return nil
}

// Status reports whether the user has answered for the receipt: completed
// with at least one claim, pending otherwise.
func (s *AssignmentService) Status(ctx context.Context, receiptID, userID string) (ReceiptStatus, error) {
	if _, err := s.store.GetReceipt(ctx, receiptID); err != nil {
		return "", err
	}

	count, err := s.store.CountUserClaims(ctx, receiptID, userID)
	if err != nil {
		return "", err
	}

	if count > 0 {
		return StatusCompleted, nil
	}
	return StatusPending, nil
}

// Summary computes the receipt summary for a member: all items plus one
// entry per current participant of the owning gathering with the exact sum
// of the prices they claimed, zero included. It is always computed fresh
// from the current claim rows.
func (s *AssignmentService) Summary(ctx context.Context, receiptID, requesterID string) (*Summary, error) {
	receipt, err := s.memberReceipt(ctx, receiptID, requesterID)
	if err != nil {
		return nil, err
	}

	participants, err := s.store.ListParticipants(ctx, receipt.GatheringID)
	if err != nil {
		return nil, err
	}

	claims, err := s.store.ListClaims(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	calcItems := make([]calculator.Item, len(receipt.Items))
	for i, item := range receipt.Items {
		calcItems[i] = calculator.Item{ID: item.ID, Name: item.Name, Price: item.Price}
	}
	calcClaims := make([]calculator.Claim, len(claims))
	for i, claim := range claims {
		calcClaims[i] = calculator.Claim{UserID: claim.UserID, ItemID: claim.ReceiptItemID}
	}
	participantIDs := make([]string, len(participants))
	for i, p := range participants {
		participantIDs[i] = p.UserID
	}

	totals, err := calculator.PaidTotals(calcItems, calcClaims, participantIDs)
	if err != nil {
		return nil, err
	}

	perUser := make([]UserTotal, len(participants))
	for i, p := range participants {
		perUser[i] = UserTotal{
			UserID:    p.UserID,
			Nickname:  p.Nickname,
			TotalPaid: totals[p.UserID],
		}
	}

	return &Summary{
		Items:         receipt.Items,
		PerUserTotals: perUser,
	}, nil
}
