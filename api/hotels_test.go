package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/suryastays/hotelbooking/internal/domain"
)

// MockHotelUseCase is a mock implementation of hotels.HotelUseCase
type MockHotelUseCase struct {
	mock.Mock
}

func (m *MockHotelUseCase) List(ctx context.Context) ([]domain.Hotel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

func (m *MockHotelUseCase) Search(ctx context.Context, location string) ([]domain.Hotel, error) {
	args := m.Called(ctx, location)
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

func (m *MockHotelUseCase) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *MockHotelUseCase) ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	args := m.Called(ctx, hotelID)
	return args.Get(0).([]domain.Room), args.Error(1)
}

func TestHotelHandler_list(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewHotelHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/hotels", nil)

	mockService.On("List", c.Request.Context()).Return([]domain.Hotel{
		{ID: 1, Name: "Grand Palace", Location: "Mumbai", Rating: 4.6},
	}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []hotelResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "Grand Palace", response[0].Name)

	mockService.AssertExpectations(t)
}

func TestHotelHandler_list_byLocation(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewHotelHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/hotels?location=Goa", nil)

	mockService.On("Search", c.Request.Context(), "Goa").Return([]domain.Hotel{
		{ID: 2, Name: "Sea View", Location: "Goa"},
	}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertNotCalled(t, "List", mock.Anything)
}

func TestHotelHandler_get_notFound(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewHotelHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	c.Request = httptest.NewRequest("GET", "/hotels/42", nil)

	mockService.On("GetByID", c.Request.Context(), int64(42)).Return(nil, domain.ErrHotelNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHotelHandler_rooms(t *testing.T) {
	mockService := &MockHotelUseCase{}
	handler := NewHotelHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/hotels/1/rooms", nil)

	mockService.On("ListRooms", c.Request.Context(), int64(1)).Return([]domain.Room{
		{ID: 10, Name: "Deluxe Room", RoomNumber: "204", PriceUnits: 1000, Capacity: 2},
	}, nil)

	handler.rooms(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []roomResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "204", response[0].RoomNumber)
}
