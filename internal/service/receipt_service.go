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

// NewItem is a line item of a receipt being created.
type NewItem struct {
	Name  string
	Price decimal.Decimal
}

// ReceiptService owns receipts and their line items.
type ReceiptService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewReceiptService creates a ReceiptService with the given storage backend.
func NewReceiptService(store storage.Store, m *metrics.Metrics) *ReceiptService {
	return &ReceiptService{store: store, metrics: m}
}

// AddReceipt creates a receipt with its items in the gathering. The
// requester must be a member. The total is the exact decimal sum of item
// prices, fixed at creation time; receipt and items are one transaction.
func (s *ReceiptService) AddReceipt(ctx context.Context, gatheringID, requesterID, name, currency string, items []NewItem) (*models.Receipt, error) {
	member, err := s.store.IsParticipant(ctx, gatheringID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperr.ErrForbidden
	}

	if len(items) == 0 {
		return nil, apperr.Invalid("receipt must have at least one item")
	}

	receiptItems := make([]models.ReceiptItem, len(items))
	calcItems := make([]calculator.Item, len(items))
	for i, item := range items {
		if item.Name == "" {
			return nil, apperr.Invalid("item name required")
		}
		if item.Price.IsNegative() {
			return nil, apperr.Invalid("item price must be non-negative")
		}
		receiptItems[i] = models.ReceiptItem{Name: item.Name, Price: item.Price}
		calcItems[i] = calculator.Item{Name: item.Name, Price: item.Price}
	}

	receipt := &models.Receipt{
		GatheringID: gatheringID,
		Name:        name,
		TotalAmount: calculator.SumPrices(calcItems),
		Currency:    currency,
		CreatedBy:   requesterID,
		Items:       receiptItems,
	}

	if err := s.store.CreateReceipt(ctx, receipt); err != nil {
		slog.Error("create receipt failed", "gathering_id", gatheringID, "error", err)
		return nil, err
	}

	s.metrics.ReceiptsCreated.Inc()
	slog.Info("receipt created",
		"receipt_id", receipt.ID,
		"gathering_id", gatheringID,
		"items", len(receipt.Items),
		"total", receipt.TotalAmount.String(),
	)

	return receipt, nil
}

// GetReceipt fetches a receipt with its items.
func (s *ReceiptService) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	return s.store.GetReceipt(ctx, receiptID)
}
