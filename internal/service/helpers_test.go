package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitparty/backend/internal/metrics"
	"github.com/splitparty/backend/internal/models"
	"github.com/splitparty/backend/internal/storage/sqlite"
)

// Prometheus collectors register globally, so the whole test binary shares
// one Metrics instance.
var testMetrics = metrics.New()

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// newVerifiedUser inserts a verified user directly into storage.
func newVerifiedUser(t *testing.T, store *sqlite.SQLiteStore, email, nickname string) *models.User {
	t.Helper()

	user := models.NewUser(email, nickname, "hash", time.Hour)
	user.Verified = true
	user.VerificationToken = ""
	user.TokenExpiresAt = 0
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

func price(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
