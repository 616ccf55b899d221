package handlers

import (
	"net/http"
	"strconv"

	"stayhub/middleware"
	"stayhub/services/booking"

	"github.com/gin-gonic/gin"
)

// ExtensionHandler exposes the stay-extension workflow over HTTP.
type ExtensionHandler struct {
	Service booking.BookingService
}

func NewExtensionHandler(svc booking.BookingService) *ExtensionHandler {
	return &ExtensionHandler{Service: svc}
}

// RequestExtension lets the guest ask for additional nights.
func (h *ExtensionHandler) RequestExtension(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	var input booking.ExtensionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Service.RequestExtension(c.Request.Context(), c.Param("id"), actor, input)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// ApproveExtension lets the host approve a pending extension request.
func (h *ExtensionHandler) ApproveExtension(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extension index"})
		return
	}

	b, err := h.Service.ApproveExtension(c.Request.Context(), c.Param("id"), actor, index)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// RejectExtension lets the host reject a pending extension request.
func (h *ExtensionHandler) RejectExtension(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extension index"})
		return
	}

	// The body is optional. With no reason the service stores its default.
	var input struct {
		Reason string `json:"reason"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
	}

	b, err := h.Service.RejectExtension(c.Request.Context(), c.Param("id"), actor, index, input.Reason)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
