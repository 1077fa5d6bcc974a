package service

import (
	"context"
	"errors"
	"testing"

	"github.com/splitparty/backend/internal/apperr"
)

func TestGatheringCreate(t *testing.T) {
	store := newTestStore(t)
	svc := NewGatheringService(store, testMetrics)
	ctx := context.Background()

	owner := newVerifiedUser(t, store, "owner@example.com", "owner")

	t.Run("creates gathering and auto-enrolls owner", func(t *testing.T) {
		gathering, err := svc.Create(ctx, "Ski trip", "January", owner.ID)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if gathering.ID == "" {
			t.Fatal("expected gathering ID to be generated")
		}

		member, err := svc.IsMember(ctx, gathering.ID, owner.ID)
		if err != nil {
			t.Fatalf("IsMember failed: %v", err)
		}
		if !member {
			t.Error("expected owner to be a member")
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := svc.Create(ctx, "", "", owner.ID)
		var validation *apperr.ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestGatheringJoin(t *testing.T) {
	store := newTestStore(t)
	svc := NewGatheringService(store, testMetrics)
	ctx := context.Background()

	owner := newVerifiedUser(t, store, "owner@example.com", "owner")
	friend := newVerifiedUser(t, store, "friend@example.com", "friend")

	gathering, err := svc.Create(ctx, "Dinner", "", owner.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("join succeeds once", func(t *testing.T) {
		if err := svc.Join(ctx, gathering.ID, friend.ID); err != nil {
			t.Fatalf("Join failed: %v", err)
		}

		member, err := svc.IsMember(ctx, gathering.ID, friend.ID)
		if err != nil {
			t.Fatalf("IsMember failed: %v", err)
		}
		if !member {
			t.Error("expected friend to be a member")
		}
	})

	t.Run("second join fails with AlreadyMember and count is unchanged", func(t *testing.T) {
		err := svc.Join(ctx, gathering.ID, friend.ID)
		if !errors.Is(err, apperr.ErrAlreadyMember) {
			t.Errorf("expected ErrAlreadyMember, got %v", err)
		}

		participants, err := store.ListParticipants(ctx, gathering.ID)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(participants) != 2 {
			t.Errorf("expected 2 participants, got %d", len(participants))
		}
	})

	t.Run("join of a missing gathering fails with NotFound", func(t *testing.T) {
		err := svc.Join(ctx, "missing-id", friend.ID)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
