package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"stayhub/models"
)

const vnpSuccessCode = "00"

// VNPayProvider implements PaymentProvider against the VNPay hosted-checkout
// protocol: a signed redirect URL out, a signed result callback back.
type VNPayProvider struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
}

func NewVNPayProvider(tmnCode, hashSecret, payURL, returnURL string) *VNPayProvider {
	return &VNPayProvider{
		TmnCode:    tmnCode,
		HashSecret: hashSecret,
		PayURL:     payURL,
		ReturnURL:  returnURL,
	}
}

// CreatePaymentURL builds the redirect URL for a booking payment. The booking
// ID rides in vnp_TxnRef and comes back on the callback.
func (p *VNPayProvider) CreatePaymentURL(_ context.Context, req CreatePaymentURLRequest) (string, error) {
	if req.BookingID == "" {
		return "", errors.New("booking id is required")
	}
	if req.Amount <= 0 {
		return "", errors.New("amount must be positive")
	}

	now := time.Now()
	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", p.TmnCode)
	// VNPay carries VND with two implied decimal places.
	params.Set("vnp_Amount", strconv.FormatInt(req.Amount*100, 10))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", req.BookingID)
	params.Set("vnp_OrderInfo", req.OrderInfo)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_IpAddr", req.ClientIP)
	params.Set("vnp_ReturnUrl", p.ReturnURL)
	params.Set("vnp_CreateDate", now.Format("20060102150405"))
	params.Set("vnp_ExpireDate", now.Add(15*time.Minute).Format("20060102150405"))

	signed := signedQuery(params, p.HashSecret)
	return p.PayURL + "?" + signed, nil
}

// ParseCallback verifies the provider's signature and maps the result onto
// the domain callback shape.
func (p *VNPayProvider) ParseCallback(query url.Values) (*models.PaymentCallback, error) {
	gotHash := query.Get("vnp_SecureHash")
	if gotHash == "" {
		return nil, errors.New("missing vnp_SecureHash")
	}

	params := url.Values{}
	for key, values := range query {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		if len(values) > 0 {
			params.Set(key, values[0])
		}
	}
	if !hmac.Equal([]byte(hashParams(params, p.HashSecret)), []byte(strings.ToLower(gotHash))) {
		return nil, errors.New("invalid callback signature")
	}

	rawAmount := query.Get("vnp_Amount")
	amount, err := strconv.ParseInt(rawAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid vnp_Amount %q: %w", rawAmount, err)
	}

	code := query.Get("vnp_ResponseCode")
	return &models.PaymentCallback{
		BookingID:     query.Get("vnp_TxnRef"),
		TransactionNo: query.Get("vnp_TransactionNo"),
		Amount:        amount / 100,
		Success:       code == vnpSuccessCode,
		ResponseCode:  code,
	}, nil
}

// signedQuery returns the sorted, encoded query string with the secure hash
// appended.
func signedQuery(params url.Values, secret string) string {
	encoded := sortedEncode(params)
	return encoded + "&vnp_SecureHash=" + hashRaw(encoded, secret)
}

func hashParams(params url.Values, secret string) string {
	return hashRaw(sortedEncode(params), secret)
}

func hashRaw(data, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// sortedEncode encodes params in key order, as the signature scheme requires.
func sortedEncode(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params.Get(k)))
	}
	return sb.String()
}
