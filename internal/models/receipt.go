package models

import "github.com/shopspring/decimal"

// DefaultCurrency is applied when a receipt is created without an
// explicit currency code.
const DefaultCurrency = "RUB"

// Receipt represents a purchase event belonging to a gathering.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string

	// GatheringID is the gathering this receipt belongs to.
	GatheringID string

	// Name is the display name of the receipt.
	Name string

	// TotalAmount is the sum of item prices, computed once at creation
	// and stored. It is never recomputed on read.
	TotalAmount decimal.Decimal

	// Currency is the ISO 4217 code for all amounts on this receipt.
	Currency string

	// CreatedBy is the user who added the receipt.
	CreatedBy string

	// Items are the line items. Immutable once created.
	Items []ReceiptItem

	// CreatedAt is the Unix timestamp when the receipt was created.
	CreatedAt int64
}

// ReceiptItem is a single line item of a receipt.
type ReceiptItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// ReceiptID is the parent receipt.
	ReceiptID string

	// Name describes the item (e.g. "Coffee", "Cake").
	Name string

	// Price is the item price. Non-negative.
	Price decimal.Decimal
}

// Claim marks that a user paid for a specific receipt item.
// Multiple users may claim the same item; a user may claim any subset
// of a receipt's items, including none.
type Claim struct {
	UserID        string
	ReceiptItemID string
}
