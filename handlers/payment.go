package handlers

import (
	"net/http"
	"time"

	"stayhub/middleware"
	"stayhub/services/booking"
	"stayhub/services/payment"
	"stayhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// callbackLatchTTL bounds how long a processed transaction number stays
// latched against redelivery. The ledger's own dedupe remains the backstop.
const callbackLatchTTL = 24 * time.Hour

// paymentURLTTL matches the gateway's checkout-session expiry, so a cached
// URL is never handed out after the gateway would refuse it.
const paymentURLTTL = 15 * time.Minute

// PaymentHandler bridges the booking ledger and the external gateway: it
// builds hosted-checkout URLs and ingests the asynchronous result callback.
type PaymentHandler struct {
	Service  booking.BookingService
	Provider payment.PaymentProvider
	Logger   *zap.Logger
}

func NewPaymentHandler(svc booking.BookingService, provider payment.PaymentProvider, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Service: svc, Provider: provider, Logger: logger}
}

// CreatePaymentURL returns a redirect URL for paying a booking online. The
// amount must match what the booking currently owes for the chosen leg; the
// callback path re-validates it against the ledger regardless.
func (h *PaymentHandler) CreatePaymentURL(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing actor"})
		return
	}

	var input struct {
		BookingID string `json:"booking_id"`
		Amount    int64  `json:"amount"`
		OrderInfo string `json:"order_info"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.Amount <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "amount must be a positive integer", "code": booking.CodeInvalidAmount})
		return
	}

	b, err := h.Service.GetBooking(c.Request.Context(), input.BookingID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if b.CustomerID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the booking guest can pay online"})
		return
	}

	ctx := c.Request.Context()
	if cached, cerr := utils.CachedPaymentURL(ctx, b.ID, input.Amount); cerr != nil {
		h.Logger.Warn("payment URL cache unavailable", zap.Error(cerr))
	} else if cached != "" {
		c.JSON(http.StatusOK, gin.H{"payment_url": cached})
		return
	}

	orderInfo := input.OrderInfo
	if orderInfo == "" {
		orderInfo = "Thanh toan dat phong " + b.ID
	}

	payURL, err := h.Provider.CreatePaymentURL(ctx, payment.CreatePaymentURLRequest{
		BookingID: b.ID,
		Amount:    input.Amount,
		OrderInfo: orderInfo,
		ClientIP:  c.ClientIP(),
	})
	if err != nil {
		h.Logger.Error("failed to build payment URL", zap.String("booking_id", b.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to build payment URL", "code": booking.CodeUpstreamPayment})
		return
	}

	if cerr := utils.CachePaymentURL(ctx, b.ID, input.Amount, payURL, paymentURLTTL); cerr != nil {
		h.Logger.Warn("failed to cache payment URL", zap.String("booking_id", b.ID), zap.Error(cerr))
	}
	c.JSON(http.StatusOK, gin.H{"payment_url": payURL})
}

// VNPayReturn ingests the gateway's result callback. Delivery is
// at-least-once, so a redis latch short-circuits redeliveries before the
// ledger-level transaction dedupe even runs.
func (h *PaymentHandler) VNPayReturn(c *gin.Context) {
	callback, err := h.Provider.ParseCallback(c.Request.URL.Query())
	if err != nil {
		h.Logger.Warn("rejected payment callback", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment callback", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	fresh, err := utils.AcquireCallbackLatch(ctx, callback.TransactionNo, callbackLatchTTL)
	if err != nil {
		// Redis being down must not drop a payment; fall through to the
		// idempotent ledger append.
		h.Logger.Warn("callback latch unavailable", zap.Error(err))
	} else if !fresh {
		h.Logger.Info("duplicate payment callback ignored",
			zap.String("booking_id", callback.BookingID),
			zap.String("transaction_no", callback.TransactionNo))
		c.JSON(http.StatusOK, gin.H{"message": "already processed"})
		return
	}

	b, err := h.Service.RecordOnlinePayment(ctx, *callback)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
