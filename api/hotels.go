package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suryastays/hotelbooking/internal/domain"
	"github.com/suryastays/hotelbooking/internal/service/hotels"
)

type HotelHandler struct {
	service hotels.HotelUseCase
}

type hotelResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Address  string  `json:"address"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	Rating   float64 `json:"rating"`
}

type roomResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	RoomNumber string `json:"room_number"`
	PriceUnits int64  `json:"price"`
	Capacity   int    `json:"capacity"`
}

func NewHotelHandler(service hotels.HotelUseCase) *HotelHandler {
	return &HotelHandler{service: service}
}

func (h *HotelHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/rooms", h.rooms)
}

func (h *HotelHandler) list(c *gin.Context) {
	var (
		result []domain.Hotel
		err    error
	)
	if location := c.Query("location"); location != "" {
		result, err = h.service.Search(c.Request.Context(), location)
	} else {
		result, err = h.service.List(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]hotelResponse, 0, len(result))
	for _, hotel := range result {
		out = append(out, toHotelResponse(hotel))
	}
	c.JSON(http.StatusOK, out)
}

func (h *HotelHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
		return
	}

	hotel, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toHotelResponse(*hotel))
}

func (h *HotelHandler) rooms(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
		return
	}

	rooms, err := h.service.ListRooms(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, roomResponse{
			ID:         room.ID,
			Name:       room.Name,
			RoomNumber: room.RoomNumber,
			PriceUnits: room.PriceUnits,
			Capacity:   room.Capacity,
		})
	}
	c.JSON(http.StatusOK, out)
}

func toHotelResponse(h domain.Hotel) hotelResponse {
	return hotelResponse{
		ID:       h.ID,
		Name:     h.Name,
		Location: h.Location,
		Address:  h.Address,
		Phone:    h.Phone,
		Email:    h.Email,
		Rating:   h.Rating,
	}
}
