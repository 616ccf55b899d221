package handlers

import (
	"net/http"

	"stayhub/middleware"
	"stayhub/models"
	"stayhub/services/booking"
	"stayhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// CreateBooking opens a new booking in the pending state.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	var input booking.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Service.CreateBooking(c.Request.Context(), actor, input)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBooking returns a single booking with its derived payment summary.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking":           b,
		"paid_amount":       b.PaidAmount(),
		"effective_total":   b.AuthoritativeTotal(),
		"effective_end":     b.AuthoritativeEndDate(),
		"formatted_total":   utils.FormatVND(b.AuthoritativeTotal()),
		"pending_extension": b.PendingExtensionIndex(),
	})
}

// ListHostBookings returns a host's bookings, newest first. Hosts can only
// read their own list.
func (h *BookingHandler) ListHostBookings(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	hostID := c.Param("hostId")
	if actor.ID != hostID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot read another host's bookings"})
		return
	}
	bookings, err := h.Service.ListForHost(c.Request.Context(), hostID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListCustomerBookings returns a guest's bookings, newest first. Guests can
// only read their own list.
func (h *BookingHandler) ListCustomerBookings(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	userID := c.Param("userId")
	if actor.ID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot read another user's bookings"})
		return
	}
	bookings, err := h.Service.ListForCustomer(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// AcceptBooking moves a pending booking to approved.
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	h.transition(c, func(actor models.Actor) (*models.Booking, error) {
		return h.Service.AcceptBooking(c.Request.Context(), c.Param("id"), actor)
	})
}

// RejectBooking moves a pending booking to rejected with a mandatory reason.
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	var input struct {
		ReasonCode string `json:"reason_code"`
		OtherText  string `json:"other_text"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Service.RejectBooking(c.Request.Context(), c.Param("id"), actor, input.ReasonCode, input.OtherText)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBooking lets the guest cancel a pending or approved booking.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.transition(c, func(actor models.Actor) (*models.Booking, error) {
		return h.Service.CancelBooking(c.Request.Context(), c.Param("id"), actor)
	})
}

// CheckInBooking marks the guest as arrived on or after the start date.
func (h *BookingHandler) CheckInBooking(c *gin.Context) {
	h.transition(c, func(actor models.Actor) (*models.Booking, error) {
		return h.Service.CheckInBooking(c.Request.Context(), c.Param("id"), actor)
	})
}

// RecordPayment records a host-collected cash or bank-transfer payment.
func (h *BookingHandler) RecordPayment(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	var input booking.ManualPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Service.RecordManualPayment(c.Request.Context(), c.Param("id"), actor, input)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// RejectReasons returns the catalogue of host rejection reasons.
func (h *BookingHandler) RejectReasons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reasons": booking.RejectReasons()})
}

func (h *BookingHandler) transition(c *gin.Context, op func(models.Actor) (*models.Booking, error)) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}
	b, err := op(actor)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
