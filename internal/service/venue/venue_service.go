package venue

import (
	"context"

	"tablebooking/internal/domain"
	"tablebooking/internal/repository"
)

type VenueUseCase interface {
	Tables(ctx context.Context) ([]domain.Table, error)
	SeatingTypes(ctx context.Context) ([]domain.SeatingType, error)
	TimeSlots(ctx context.Context) ([]domain.TimeSlot, error)
	DeleteTable(ctx context.Context, id int64) error
}

type Cache interface {
	GetTimeSlots(ctx context.Context) ([]domain.TimeSlot, error)
	SetTimeSlots(ctx context.Context, slots []domain.TimeSlot) error
	GetSeatingTypes(ctx context.Context) ([]domain.SeatingType, error)
	SetSeatingTypes(ctx context.Context, types []domain.SeatingType) error
}

// VenueService serves the venue's read-mostly reference data, cache-aside
// through redis. It doubles as the pricing engine's time-slot source.
type VenueService struct {
	repo  repository.VenueRepository
	cache Cache
}

func NewVenueService(repo repository.VenueRepository, cache Cache) *VenueService {
	return &VenueService{repo: repo, cache: cache}
}

func (s *VenueService) TimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTimeSlots(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	slots, err := s.repo.TimeSlots(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetTimeSlots(ctx, slots)
	}
	return slots, nil
}

func (s *VenueService) SeatingTypes(ctx context.Context) ([]domain.SeatingType, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSeatingTypes(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	types, err := s.repo.SeatingTypes(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSeatingTypes(ctx, types)
	}
	return types, nil
}

func (s *VenueService) Tables(ctx context.Context) ([]domain.Table, error) {
	return s.repo.Tables(ctx)
}

// DeleteTable refuses to remove a table while bookings still reference it
// (domain.ErrTableInUse).
func (s *VenueService) DeleteTable(ctx context.Context, id int64) error {
	return s.repo.DeleteTable(ctx, id)
}

var _ VenueUseCase = (*VenueService)(nil)
