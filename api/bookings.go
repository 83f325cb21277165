package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suryastays/hotelbooking/internal/domain"
	"github.com/suryastays/hotelbooking/internal/refund"
	"github.com/suryastays/hotelbooking/internal/service/booking"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	service booking.BookingUseCase
}

type stageBookingRequest struct {
	HotelName  string `json:"hotel_name" binding:"required"`
	RoomType   string `json:"room_type" binding:"required"`
	RoomNumber string `json:"room_number" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
	Guests     int    `json:"guests" binding:"required"`
	RoomPrice  int64  `json:"room_price" binding:"required"`
}

type checkoutRequest struct {
	DraftToken      string              `json:"draft_token" binding:"required"`
	GuestDetails    domain.GuestDetails `json:"guest_details"`
	PromoCode       string              `json:"promo_code"`
	PaymentMethod   string              `json:"payment_method" binding:"required"`
	SpecialRequests string              `json:"special_requests"`
	PolicyAccepted  bool                `json:"policy_accepted"`
}

type cancelBookingRequest struct {
	Reason  string `json:"reason" binding:"required"`
	Details string `json:"details"`
}

type draftResponse struct {
	Token      string `json:"token"`
	HotelName  string `json:"hotel_name"`
	RoomType   string `json:"room_type"`
	RoomNumber string `json:"room_number"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Guests     int    `json:"guests"`
	RoomPrice  int64  `json:"room_price"`
	ExpiresAt  string `json:"expires_at"`
}

type bookingResponse struct {
	ID                  string `json:"id"`
	HotelName           string `json:"hotel_name"`
	RoomType            string `json:"room_type"`
	RoomNumber          string `json:"room_number"`
	CheckIn             string `json:"check_in"`
	CheckOut            string `json:"check_out"`
	Guests              int    `json:"guests"`
	Status              string `json:"status"`
	PromoCode           string `json:"promo_code,omitempty"`
	Discount            int64  `json:"discount"`
	TotalAmount         int64  `json:"total_amount"`
	BookingDate         string `json:"booking_date"`
	CancellationReason  string `json:"cancellation_reason,omitempty"`
	CancellationDetails string `json:"cancellation_details,omitempty"`
	RefundAmount        int64  `json:"refund_amount,omitempty"`
	RefundPercentage    int    `json:"refund_percentage,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/stage", h.stage)
	router.POST("/checkout", h.checkout)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/:id/cancel", h.cancel)
}

func (h *BookingHandler) stage(c *gin.Context) {
	var req stageBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be YYYY-MM-DD"})
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be YYYY-MM-DD"})
		return
	}

	draft, err := h.service.StageBooking(c.Request.Context(), booking.StageBookingInput{
		HotelName:  req.HotelName,
		RoomType:   req.RoomType,
		RoomNumber: req.RoomNumber,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
		RoomPrice:  req.RoomPrice,
		UserEmail:  currentUserEmail(c),
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, draftResponse{
		Token:      draft.Token,
		HotelName:  draft.HotelName,
		RoomType:   draft.RoomType,
		RoomNumber: draft.RoomNumber,
		CheckIn:    draft.CheckIn.Format(dateLayout),
		CheckOut:   draft.CheckOut.Format(dateLayout),
		Guests:     draft.Guests,
		RoomPrice:  draft.RoomPrice,
		ExpiresAt:  draft.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *BookingHandler) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Checkout(c.Request.Context(), booking.CheckoutInput{
		DraftToken:      req.DraftToken,
		GuestDetails:    req.GuestDetails,
		PromoCode:       req.PromoCode,
		PaymentMethod:   req.PaymentMethod,
		SpecialRequests: req.SpecialRequests,
		PolicyAccepted:  req.PolicyAccepted,
		UserEmail:       currentUserEmail(c),
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(result))
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context(), currentUserEmail(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	result, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(result))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), booking.CancelBookingInput{
		Reason:  req.Reason,
		Details: req.Details,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(result))
}

// RegisterRefundPolicy exposes the public policy text endpoint.
func RegisterRefundPolicy(router *gin.Engine) {
	router.GET("/refund-policy", func(c *gin.Context) {
		c.String(http.StatusOK, refund.PolicyText())
	})
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:          b.ID,
		HotelName:   b.HotelName,
		RoomType:    b.RoomType,
		RoomNumber:  b.RoomNumber,
		CheckIn:     b.CheckIn.Format(dateLayout),
		CheckOut:    b.CheckOut.Format(dateLayout),
		Guests:      b.Guests,
		Status:      string(b.Status),
		PromoCode:   b.PromoCode,
		Discount:    b.Discount,
		TotalAmount: b.TotalAmount,
		BookingDate: b.BookingDate.Format(time.RFC3339),
	}
	if b.Cancellation != nil {
		resp.CancellationReason = b.Cancellation.Reason
		resp.CancellationDetails = b.Cancellation.Details
		resp.RefundAmount = b.Cancellation.RefundAmount
		resp.RefundPercentage = b.Cancellation.RefundPercentage
	}
	return resp
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrDraftNotFound),
		errors.Is(err, domain.ErrHotelNotFound),
		errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRoomAlreadyBooked),
		errors.Is(err, domain.ErrRoomLocked):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDraftExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
