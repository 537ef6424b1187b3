package vnpay

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	c := NewClient(Config{
		TmnCode:    "TMN01",
		HashSecret: "SECRET",
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://shop.example/return",
	})
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c
}

func TestPaymentURL(t *testing.T) {
	c := newTestClient()

	raw, err := c.PaymentURL(PaymentRequest{
		TxnRef:    "pay-1",
		Amount:    decimal.RequireFromString("265000"),
		OrderInfo: "Thanh toan don hang o-1",
		ClientIP:  "10.0.0.1",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?"))

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "26500000", q.Get("vnp_Amount"))
	assert.Equal(t, "pay-1", q.Get("vnp_TxnRef"))
	assert.Equal(t, "20260102100405", q.Get("vnp_CreateDate"))
	assert.Equal(t, "20260102101905", q.Get("vnp_ExpireDate"))
	assert.True(t, c.Verify(q), "generated url must verify")
}

func TestPaymentURL_Rejects(t *testing.T) {
	c := newTestClient()

	_, err := c.PaymentURL(PaymentRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrMissingTxnRef)

	_, err = c.PaymentURL(PaymentRequest{TxnRef: "p", Amount: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestVerify(t *testing.T) {
	c := newTestClient()
	params := url.Values{
		"vnp_TxnRef":       {"pay-1"},
		"vnp_Amount":       {"1000000"},
		"vnp_ResponseCode": {"00"},
		"vnp_OrderInfo":    {"hello world & more"},
	}
	params.Set(ParamSecureHash, c.Sign(params))
	params.Set(ParamSecureHashType, "HmacSHA512")

	assert.True(t, c.Verify(params))

	upper := url.Values{}
	for k, v := range params {
		upper[k] = v
	}
	upper.Set(ParamSecureHash, strings.ToUpper(params.Get(ParamSecureHash)))
	assert.True(t, c.Verify(upper))

	params.Set("vnp_Amount", "2000000")
	assert.False(t, c.Verify(params))

	assert.False(t, c.Verify(url.Values{"vnp_TxnRef": {"x"}}))
}

func TestParseResult(t *testing.T) {
	res, err := ParseResult(url.Values{
		"vnp_TxnRef":            {"pay-1"},
		"vnp_Amount":            {"26500000"},
		"vnp_ResponseCode":      {"00"},
		"vnp_TransactionStatus": {"00"},
		"vnp_TransactionNo":     {"1400"},
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("265000").Equal(res.Amount))
	assert.True(t, res.Succeeded())

	res.ResponseCode = "24"
	assert.False(t, res.Succeeded())

	_, err = ParseResult(url.Values{"vnp_Amount": {"100"}})
	assert.ErrorIs(t, err, ErrMissingTxnRef)

	_, err = ParseResult(url.Values{"vnp_TxnRef": {"p"}, "vnp_Amount": {"abc"}})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
