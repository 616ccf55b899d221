package handlers

import (
	"net/http"

	"stayhub/services/booking"
	"stayhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondDomainError maps a typed domain error onto the HTTP surface with its
// machine-readable code. Non-domain errors become opaque 500s.
func respondDomainError(c *gin.Context, err error) {
	de, ok := err.(*booking.Error)
	if !ok {
		utils.GetLogger().Error("unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch de.Code {
	case booking.CodeValidation:
		status = http.StatusBadRequest
	case booking.CodeStateConflict:
		status = http.StatusConflict
	case booking.CodeInvalidAmount:
		status = http.StatusUnprocessableEntity
	case booking.CodeNotFound:
		status = http.StatusNotFound
	case booking.CodeUpstreamPayment:
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{"error": de.Message, "code": de.Code})
}
