package service

import (
	"context"
	"log/slog"

	"github.com/splitparty/backend/internal/apperr"
	"github.com/splitparty/backend/internal/metrics"
	"github.com/splitparty/backend/internal/models"
	"github.com/splitparty/backend/internal/storage"
)

// GatheringService owns gatherings and membership.
type GatheringService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewGatheringService creates a GatheringService with the given storage backend.
func NewGatheringService(store storage.Store, m *metrics.Metrics) *GatheringService {
	return &GatheringService{store: store, metrics: m}
}

// Create makes a new gathering owned by ownerID. The owner is enrolled as a
// participant in the same transaction, so the gathering is never visible
// without at least one member.
func (s *GatheringService) Create(ctx context.Context, name, description, ownerID string) (*models.Gathering, error) {
	if name == "" {
		return nil, apperr.Invalid("gathering name required")
	}

	gathering := &models.Gathering{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}

	if err := s.store.CreateGathering(ctx, gathering); err != nil {
		slog.Error("create gathering failed", "owner_id", ownerID, "error", err)
		return nil, err
	}

	s.metrics.GatheringsCreated.Inc()
	slog.Info("gathering created", "gathering_id", gathering.ID, "owner_id", ownerID)

	return gathering, nil
}

// Join enrolls userID in the gathering. Fails with apperr.ErrNotFound when
// the gathering is absent and apperr.ErrAlreadyMember on duplicate joins.
func (s *GatheringService) Join(ctx context.Context, gatheringID, userID string) error {
	if _, err := s.store.GetGathering(ctx, gatheringID); err != nil {
		return err
	}

	if err := s.store.AddParticipant(ctx, gatheringID, userID); err != nil {
		return err
	}

	slog.Info("user joined gathering", "gathering_id", gatheringID, "user_id", userID)
	return nil
}

// IsMember reports whether userID participates in the gathering.
func (s *GatheringService) IsMember(ctx context.Context, gatheringID, userID string) (bool, error) {
	return s.store.IsParticipant(ctx, gatheringID, userID)
}
