package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tablebooking/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockVenueUseCase is a mock implementation of venue.VenueUseCase
type MockVenueUseCase struct {
	mock.Mock
}

func (m *MockVenueUseCase) Tables(ctx context.Context) ([]domain.Table, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Table), args.Error(1)
}

func (m *MockVenueUseCase) SeatingTypes(ctx context.Context) ([]domain.SeatingType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SeatingType), args.Error(1)
}

func (m *MockVenueUseCase) TimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}

func (m *MockVenueUseCase) DeleteTable(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestVenueHandler_tables(t *testing.T) {
	mockService := &MockVenueUseCase{}
	handler := NewVenueHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/venue/tables", nil)

	tables := []domain.Table{
		{ID: 1, TableNumber: "W1", SeatingTypeID: 2, Capacity: 4, IsActive: true},
		{ID: 2, TableNumber: "W2", SeatingTypeID: 2, Capacity: 6, IsActive: true},
	}
	mockService.On("Tables", c.Request.Context()).Return(tables, nil)

	handler.tables(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []tableResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)
	assert.Equal(t, "W1", response[0].TableNumber)

	mockService.AssertExpectations(t)
}

func TestVenueHandler_timeSlots(t *testing.T) {
	mockService := &MockVenueUseCase{}
	handler := NewVenueHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/venue/time-slots", nil)

	slots := []domain.TimeSlot{
		{ID: 1, StartMinute: 720, EndMinute: 900, Label: "Lunch", BasePriceCents: 1000, IsActive: true},
	}
	mockService.On("TimeSlots", c.Request.Context()).Return(slots, nil)

	handler.timeSlots(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []timeSlotResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, int64(1000), response[0].BasePriceCents)

	mockService.AssertExpectations(t)
}

func TestVenueHandler_deleteTable(t *testing.T) {
	mockService := &MockVenueUseCase{}
	handler := NewVenueHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "3"}}
	c.Request = httptest.NewRequest("DELETE", "/venue/tables/3", nil)

	mockService.On("DeleteTable", c.Request.Context(), int64(3)).Return(nil)

	handler.deleteTable(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)

	mockService.AssertExpectations(t)
}

func TestVenueHandler_deleteTable_inUse(t *testing.T) {
	mockService := &MockVenueUseCase{}
	handler := NewVenueHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "3"}}
	c.Request = httptest.NewRequest("DELETE", "/venue/tables/3", nil)

	mockService.On("DeleteTable", c.Request.Context(), int64(3)).Return(domain.ErrTableInUse)

	handler.deleteTable(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVenueHandler_deleteTable_badID(t *testing.T) {
	mockService := &MockVenueUseCase{}
	handler := NewVenueHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("DELETE", "/venue/tables/abc", nil)

	handler.deleteTable(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "DeleteTable")
}
