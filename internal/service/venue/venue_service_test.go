package venue

import (
	"context"
	"errors"
	"testing"
	"time"

	"tablebooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) EligibleTables(ctx context.Context, seatingTypeID int64, minCapacity int) ([]domain.Table, error) {
	args := m.Called(ctx, seatingTypeID, minCapacity)
	return args.Get(0).([]domain.Table), args.Error(1)
}

func (m *MockVenueRepository) BookingsInWindow(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockVenueRepository) SeatingTypeByID(ctx context.Context, id int64) (*domain.SeatingType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatingType), args.Error(1)
}

func (m *MockVenueRepository) Tables(ctx context.Context) ([]domain.Table, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Table), args.Error(1)
}

func (m *MockVenueRepository) SeatingTypes(ctx context.Context) ([]domain.SeatingType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatingType), args.Error(1)
}

func (m *MockVenueRepository) TimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}

func (m *MockVenueRepository) DeleteTable(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetTimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}

func (m *MockCache) SetTimeSlots(ctx context.Context, slots []domain.TimeSlot) error {
	args := m.Called(ctx, slots)
	return args.Error(0)
}

func (m *MockCache) GetSeatingTypes(ctx context.Context) ([]domain.SeatingType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatingType), args.Error(1)
}

func (m *MockCache) SetSeatingTypes(ctx context.Context, types []domain.SeatingType) error {
	args := m.Called(ctx, types)
	return args.Error(0)
}

var testSlots = []domain.TimeSlot{
	{ID: 1, StartMinute: 720, EndMinute: 900, Label: "Lunch", BasePriceCents: 1000, IsActive: true},
}

func TestVenueService_TimeSlots_CacheHit(t *testing.T) {
	repo := &MockVenueRepository{}
	cache := &MockCache{}
	service := NewVenueService(repo, cache)
	ctx := context.Background()

	cache.On("GetTimeSlots", ctx).Return(testSlots, nil).Once()

	slots, err := service.TimeSlots(ctx)

	assert.NoError(t, err)
	assert.Equal(t, testSlots, slots)
	repo.AssertNotCalled(t, "TimeSlots")
}

func TestVenueService_TimeSlots_CacheMissPopulates(t *testing.T) {
	repo := &MockVenueRepository{}
	cache := &MockCache{}
	service := NewVenueService(repo, cache)
	ctx := context.Background()

	cache.On("GetTimeSlots", ctx).Return(nil, nil).Once()
	repo.On("TimeSlots", ctx).Return(testSlots, nil).Once()
	cache.On("SetTimeSlots", ctx, testSlots).Return(nil).Once()

	slots, err := service.TimeSlots(ctx)

	assert.NoError(t, err)
	assert.Equal(t, testSlots, slots)
	cache.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestVenueService_TimeSlots_CacheErrorFallsThrough(t *testing.T) {
	repo := &MockVenueRepository{}
	cache := &MockCache{}
	service := NewVenueService(repo, cache)
	ctx := context.Background()

	cache.On("GetTimeSlots", ctx).Return(nil, errors.New("redis down")).Once()
	repo.On("TimeSlots", ctx).Return(testSlots, nil).Once()
	cache.On("SetTimeSlots", ctx, testSlots).Return(nil).Once()

	slots, err := service.TimeSlots(ctx)

	assert.NoError(t, err)
	assert.Equal(t, testSlots, slots)
}

func TestVenueService_SeatingTypes_CacheMiss(t *testing.T) {
	repo := &MockVenueRepository{}
	cache := &MockCache{}
	service := NewVenueService(repo, cache)
	ctx := context.Background()

	types := []domain.SeatingType{{ID: 1, Name: "Standard", PriceMultiplierPct: 100, IsActive: true}}
	cache.On("GetSeatingTypes", ctx).Return(nil, nil).Once()
	repo.On("SeatingTypes", ctx).Return(types, nil).Once()
	cache.On("SetSeatingTypes", ctx, types).Return(nil).Once()

	got, err := service.SeatingTypes(ctx)

	assert.NoError(t, err)
	assert.Equal(t, types, got)
	cache.AssertExpectations(t)
}

func TestVenueService_NilCache(t *testing.T) {
	repo := &MockVenueRepository{}
	service := NewVenueService(repo, nil)
	ctx := context.Background()

	repo.On("TimeSlots", ctx).Return(testSlots, nil).Once()

	slots, err := service.TimeSlots(ctx)

	assert.NoError(t, err)
	assert.Equal(t, testSlots, slots)
}

func TestVenueService_DeleteTable_InUse(t *testing.T) {
	repo := &MockVenueRepository{}
	service := NewVenueService(repo, &MockCache{})
	ctx := context.Background()

	repo.On("DeleteTable", ctx, int64(7)).Return(domain.ErrTableInUse).Once()

	err := service.DeleteTable(ctx, 7)

	assert.ErrorIs(t, err, domain.ErrTableInUse)
}
