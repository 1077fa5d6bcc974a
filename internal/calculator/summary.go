// Package calculator implements the pure aggregation at the heart of the
// summary computation: given a receipt's items, the current claim rows and
// the gathering's participants, it produces per-user totals.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Item is a receipt line item as seen by the aggregation.
type Item struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Claim marks that a user paid for one item.
type Claim struct {
	UserID string
	ItemID string
}

// PaidTotals computes, for every participant, the exact decimal sum of the
// prices of the items they claimed. Every participant appears in the result
// exactly once; participants with no claims map to zero. A claim referencing
// an item outside the given list is an error: the caller is expected to pass
// a consistent snapshot.
func PaidTotals(items []Item, claims []Claim, participantIDs []string) (map[string]decimal.Decimal, error) {
	if len(participantIDs) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	prices := make(map[string]decimal.Decimal, len(items))
	for _, item := range items {
		prices[item.ID] = item.Price
	}

	totals := make(map[string]decimal.Decimal, len(participantIDs))
	for _, id := range participantIDs {
		totals[id] = decimal.Zero
	}

	for _, claim := range claims {
		price, ok := prices[claim.ItemID]
		if !ok {
			return nil, fmt.Errorf("claim references unknown item %s", claim.ItemID)
		}
		// Claims by users who are no longer participants are dropped;
		// the result covers current participants only.
		if total, ok := totals[claim.UserID]; ok {
			totals[claim.UserID] = total.Add(price)
		}
	}

	return totals, nil
}

// SumPrices returns the exact decimal sum of the item prices. Used to fix a
// receipt's total at creation time.
func SumPrices(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}
