package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestPaidTotals(t *testing.T) {
	coffee := Item{ID: "i1", Name: "Coffee", Price: d("3.00")}
	cake := Item{ID: "i2", Name: "Cake", Price: d("5.00")}

	tests := []struct {
		name         string
		items        []Item
		claims       []Claim
		participants []string
		wantErr      bool
		want         map[string]string
	}{
		{
			name:         "each participant claims one item",
			items:        []Item{coffee, cake},
			claims:       []Claim{{UserID: "alice", ItemID: "i1"}, {UserID: "bob", ItemID: "i2"}},
			participants: []string{"alice", "bob"},
			want:         map[string]string{"alice": "3.00", "bob": "5.00"},
		},
		{
			name:         "participant with no claims gets zero",
			items:        []Item{coffee, cake},
			claims:       []Claim{{UserID: "alice", ItemID: "i1"}},
			participants: []string{"alice", "bob", "carol"},
			want:         map[string]string{"alice": "3.00", "bob": "0", "carol": "0"},
		},
		{
			name:  "shared item counted fully for each claimant",
			items: []Item{coffee},
			claims: []Claim{
				{UserID: "alice", ItemID: "i1"},
				{UserID: "bob", ItemID: "i1"},
			},
			participants: []string{"alice", "bob"},
			want:         map[string]string{"alice": "3.00", "bob": "3.00"},
		},
		{
			name:         "no claims at all",
			items:        []Item{coffee, cake},
			claims:       nil,
			participants: []string{"alice", "bob"},
			want:         map[string]string{"alice": "0", "bob": "0"},
		},
		{
			name:         "decimal sums stay exact",
			items:        []Item{{ID: "a", Price: d("0.10")}, {ID: "b", Price: d("0.20")}},
			claims:       []Claim{{UserID: "alice", ItemID: "a"}, {UserID: "alice", ItemID: "b"}},
			participants: []string{"alice"},
			want:         map[string]string{"alice": "0.30"},
		},
		{
			name:         "claim on unknown item should error",
			items:        []Item{coffee},
			claims:       []Claim{{UserID: "alice", ItemID: "missing"}},
			participants: []string{"alice"},
			wantErr:      true,
		},
		{
			name:         "no participants should error",
			items:        []Item{coffee},
			claims:       nil,
			participants: []string{},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := PaidTotals(tt.items, tt.claims, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PaidTotals() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if len(totals) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(totals), len(tt.want))
			}
			for user, want := range tt.want {
				got, ok := totals[user]
				if !ok {
					t.Errorf("missing entry for %s", user)
					continue
				}
				if !got.Equal(d(want)) {
					t.Errorf("%s total = %s, want %s", user, got, want)
				}
			}
		})
	}
}

func TestSumPrices(t *testing.T) {
	items := []Item{
		{ID: "a", Price: d("0.1")},
		{ID: "b", Price: d("0.2")},
		{ID: "c", Price: d("1234567.89")},
	}

	got := SumPrices(items)
	if !got.Equal(d("1234568.19")) {
		t.Errorf("SumPrices() = %s, want 1234568.19", got)
	}

	if !SumPrices(nil).Equal(decimal.Zero) {
		t.Error("SumPrices(nil) should be zero")
	}
}
