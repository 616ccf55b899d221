package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"stayhub/middleware"
	"stayhub/models"
	"stayhub/services/booking"

	"github.com/gin-gonic/gin"
)

// HistoryHandler exposes the booking-history projection over HTTP.
type HistoryHandler struct {
	Service booking.BookingService
}

func NewHistoryHandler(svc booking.BookingService) *HistoryHandler {
	return &HistoryHandler{Service: svc}
}

// GuestHistory returns a guest's booking history page. Guests can only read
// their own history.
func (h *HistoryHandler) GuestHistory(c *gin.Context) {
	userID, ok := h.ownScope(c)
	if !ok {
		return
	}
	filter, err := parseHistoryFilter(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	result, err := h.Service.GuestHistory(c.Request.Context(), userID, filter)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HostHistory returns a host's booking history page with earnings statistics.
func (h *HistoryHandler) HostHistory(c *gin.Context) {
	hostID, ok := h.ownScope(c)
	if !ok {
		return
	}
	filter, err := parseHistoryFilter(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	result, err := h.Service.HostHistory(c.Request.Context(), hostID, filter)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ownScope resolves the :id path param and rejects reads of someone else's
// history. A false return means the response has been written.
func (h *HistoryHandler) ownScope(c *gin.Context) (string, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return "", false
	}
	id := c.Param("id")
	if actor.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot read another account's history"})
		return "", false
	}
	return id, true
}

// parseHistoryFilter reads ?status=a,b&from=RFC3339&to=RFC3339&page=N&limit=N.
func parseHistoryFilter(c *gin.Context) (models.HistoryFilter, error) {
	var filter models.HistoryFilter

	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			filter.Statuses = append(filter.Statuses, models.BookingStatus(s))
		}
	}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, booking.NewValidationError("invalid from date %q", raw)
		}
		filter.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, booking.NewValidationError("invalid to date %q", raw)
		}
		filter.To = t
	}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, booking.NewValidationError("invalid page %q", raw)
		}
		filter.Page = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, booking.NewValidationError("invalid limit %q", raw)
		}
		filter.Limit = n
	}

	return filter, nil
}
