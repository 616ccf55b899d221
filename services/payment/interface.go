package payment

import (
	"context"
	"net/url"

	"stayhub/models"
)

// CreatePaymentURLRequest asks the provider for a hosted checkout redirect.
type CreatePaymentURLRequest struct {
	BookingID string
	Amount    int64 // integer VND
	OrderInfo string
	ClientIP  string
}

// PaymentProvider is the boundary to the external payment gateway. The
// gateway's own processing stays outside this repository: we only build the
// redirect URL and verify the asynchronous result callback.
type PaymentProvider interface {
	CreatePaymentURL(ctx context.Context, req CreatePaymentURLRequest) (string, error)
	ParseCallback(query url.Values) (*models.PaymentCallback, error)
}
