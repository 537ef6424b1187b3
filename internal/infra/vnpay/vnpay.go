package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	version       = "2.1.0"
	commandPay    = "pay"
	currencyVND   = "VND"
	orderType     = "other"
	dateLayout    = "20060102150405"
	paymentWindow = 15 * time.Minute

	ParamSecureHash     = "vnp_SecureHash"
	ParamSecureHashType = "vnp_SecureHashType"
)

// Gateway response codes returned to the IPN caller.
const (
	RspConfirmed        = "00"
	RspOrderNotFound    = "01"
	RspAlreadyConfirmed = "02"
	RspInvalidAmount    = "04"
	RspInvalidSignature = "97"
	RspUnknownError     = "99"
)

// VNPay timestamps are in Vietnam local time.
var gatewayZone = time.FixedZone("ICT", 7*60*60)

var (
	ErrMissingTxnRef = errors.New("vnpay: missing vnp_TxnRef")
	ErrInvalidAmount = errors.New("vnpay: invalid vnp_Amount")
)

type Config struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
	Locale     string
}

type Client struct {
	cfg Config
	now func() time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.Locale == "" {
		cfg.Locale = "vn"
	}
	return &Client{cfg: cfg, now: time.Now}
}

type PaymentRequest struct {
	TxnRef    string
	Amount    decimal.Decimal
	OrderInfo string
	ClientIP  string
}

// PaymentURL returns the signed redirect URL for the hosted payment page.
func (c *Client) PaymentURL(req PaymentRequest) (string, error) {
	if req.TxnRef == "" {
		return "", ErrMissingTxnRef
	}
	if !req.Amount.IsPositive() {
		return "", ErrInvalidAmount
	}

	now := c.now().In(gatewayZone)
	params := url.Values{}
	params.Set("vnp_Version", version)
	params.Set("vnp_Command", commandPay)
	params.Set("vnp_TmnCode", c.cfg.TmnCode)
	params.Set("vnp_Locale", c.cfg.Locale)
	params.Set("vnp_CurrCode", currencyVND)
	params.Set("vnp_TxnRef", req.TxnRef)
	params.Set("vnp_OrderInfo", req.OrderInfo)
	params.Set("vnp_OrderType", orderType)
	params.Set("vnp_Amount", ToGatewayAmount(req.Amount))
	params.Set("vnp_ReturnUrl", c.cfg.ReturnURL)
	params.Set("vnp_IpAddr", req.ClientIP)
	params.Set("vnp_CreateDate", now.Format(dateLayout))
	params.Set("vnp_ExpireDate", now.Add(paymentWindow).Format(dateLayout))

	query := canonicalQuery(params)
	signature := sign(c.cfg.HashSecret, query)
	return fmt.Sprintf("%s?%s&%s=%s", c.cfg.PayURL, query, ParamSecureHash, signature), nil
}

// Verify checks vnp_SecureHash against the remaining vnp_ parameters.
func (c *Client) Verify(params url.Values) bool {
	got := params.Get(ParamSecureHash)
	if got == "" {
		return false
	}
	expected := sign(c.cfg.HashSecret, canonicalQuery(params))
	return hmac.Equal([]byte(strings.ToLower(got)), []byte(expected))
}

// Sign is exported for callers that need to produce gateway-style callbacks.
func (c *Client) Sign(params url.Values) string {
	return sign(c.cfg.HashSecret, canonicalQuery(params))
}

type Result struct {
	TxnRef            string
	Amount            decimal.Decimal
	ResponseCode      string
	TransactionStatus string
	TransactionNo     string
	BankCode          string
}

// Succeeded reports whether the gateway considers the payment settled.
func (r Result) Succeeded() bool {
	if r.ResponseCode != "00" {
		return false
	}
	return r.TransactionStatus == "" || r.TransactionStatus == "00"
}

func ParseResult(params url.Values) (Result, error) {
	ref := params.Get("vnp_TxnRef")
	if ref == "" {
		return Result{}, ErrMissingTxnRef
	}
	raw, err := decimal.NewFromString(params.Get("vnp_Amount"))
	if err != nil || raw.IsNegative() {
		return Result{}, ErrInvalidAmount
	}

	return Result{
		TxnRef:            ref,
		Amount:            raw.Div(decimal.NewFromInt(100)),
		ResponseCode:      params.Get("vnp_ResponseCode"),
		TransactionStatus: params.Get("vnp_TransactionStatus"),
		TransactionNo:     params.Get("vnp_TransactionNo"),
		BankCode:          params.Get("vnp_BankCode"),
	}, nil
}

// ToGatewayAmount encodes an amount in the minor unit VNPay expects (x100).
func ToGatewayAmount(amount decimal.Decimal) string {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).String()
}

// canonicalQuery sorts vnp_ keys and query-escapes values, excluding the
// signature fields.
func canonicalQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == ParamSecureHash || k == ParamSecureHashType || !strings.HasPrefix(k, "vnp_") {
			continue
		}
		if params.Get(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params.Get(k)))
	}
	return b.String()
}

func sign(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
