package payment

import (
	"context"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider() *VNPayProvider {
	return NewVNPayProvider(
		"STAYHUB1",
		"test-secret",
		"https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		"http://localhost:8080/api/payment/vnpay-return",
	)
}

func TestCreatePaymentURL(t *testing.T) {
	p := newTestProvider()

	raw, err := p.CreatePaymentURL(context.Background(), CreatePaymentURLRequest{
		BookingID: "bk-1",
		Amount:    1_000_000,
		OrderInfo: "Thanh toan dat phong bk-1",
		ClientIP:  "203.0.113.9",
	})
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	query := parsed.Query()

	assert.Equal(t, "2.1.0", query.Get("vnp_Version"))
	assert.Equal(t, "pay", query.Get("vnp_Command"))
	assert.Equal(t, "STAYHUB1", query.Get("vnp_TmnCode"))
	assert.Equal(t, "bk-1", query.Get("vnp_TxnRef"))
	assert.Equal(t, "VND", query.Get("vnp_CurrCode"))
	assert.NotEmpty(t, query.Get("vnp_SecureHash"))

	// VND rides with two implied decimal places.
	assert.Equal(t, strconv.FormatInt(100_000_000, 10), query.Get("vnp_Amount"))
}

func TestCreatePaymentURLValidation(t *testing.T) {
	p := newTestProvider()

	_, err := p.CreatePaymentURL(context.Background(), CreatePaymentURLRequest{Amount: 1000})
	assert.Error(t, err)

	_, err = p.CreatePaymentURL(context.Background(), CreatePaymentURLRequest{BookingID: "bk-1", Amount: 0})
	assert.Error(t, err)
}

// signedCallback builds a callback query signed the way the gateway signs it.
func signedCallback(p *VNPayProvider, params url.Values) url.Values {
	signed := params
	signed.Set("vnp_SecureHash", hashParams(params, p.HashSecret))
	return signed
}

func TestParseCallbackRoundTrip(t *testing.T) {
	p := newTestProvider()

	params := url.Values{}
	params.Set("vnp_TmnCode", "STAYHUB1")
	params.Set("vnp_TxnRef", "bk-1")
	params.Set("vnp_Amount", "100000000")
	params.Set("vnp_TransactionNo", "14422574")
	params.Set("vnp_ResponseCode", "00")

	callback, err := p.ParseCallback(signedCallback(p, params))
	require.NoError(t, err)

	assert.Equal(t, "bk-1", callback.BookingID)
	assert.Equal(t, "14422574", callback.TransactionNo)
	assert.Equal(t, int64(1_000_000), callback.Amount)
	assert.True(t, callback.Success)
	assert.Equal(t, "00", callback.ResponseCode)
}

func TestParseCallbackFailureCode(t *testing.T) {
	p := newTestProvider()

	params := url.Values{}
	params.Set("vnp_TxnRef", "bk-1")
	params.Set("vnp_Amount", "100000000")
	params.Set("vnp_TransactionNo", "14422575")
	params.Set("vnp_ResponseCode", "24")

	callback, err := p.ParseCallback(signedCallback(p, params))
	require.NoError(t, err)
	assert.False(t, callback.Success)
	assert.Equal(t, "24", callback.ResponseCode)
}

func TestParseCallbackRejectsTampering(t *testing.T) {
	p := newTestProvider()

	params := url.Values{}
	params.Set("vnp_TxnRef", "bk-1")
	params.Set("vnp_Amount", "100000000")
	params.Set("vnp_ResponseCode", "00")
	query := signedCallback(p, params)

	// Raising the amount after signing must invalidate the signature.
	query.Set("vnp_Amount", "200000000")
	_, err := p.ParseCallback(query)
	assert.Error(t, err)
}

func TestParseCallbackMissingHash(t *testing.T) {
	p := newTestProvider()

	params := url.Values{}
	params.Set("vnp_TxnRef", "bk-1")
	_, err := p.ParseCallback(params)
	assert.Error(t, err)
}

func TestParseCallbackWrongSecret(t *testing.T) {
	p := newTestProvider()
	other := NewVNPayProvider("STAYHUB1", "different-secret", p.PayURL, p.ReturnURL)

	params := url.Values{}
	params.Set("vnp_TxnRef", "bk-1")
	params.Set("vnp_Amount", "100000000")
	params.Set("vnp_ResponseCode", "00")

	_, err := other.ParseCallback(signedCallback(p, params))
	assert.Error(t, err)
}
