package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printstore/internal/auth"
	"printstore/internal/domain"
	"printstore/internal/middlewares"
	"printstore/internal/mocks"
	"printstore/internal/pricing"
	"printstore/internal/services"
)

const testSecret = "handler-test-secret"

type testServer struct {
	router  *gin.Engine
	store   *mocks.MockStore
	pub     *mocks.MockPublisher
	gateway *mocks.MockGateway
	parser  *auth.TokenParser
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := mocks.NewMockStore()
	pub := new(mocks.MockPublisher)
	gateway := new(mocks.MockGateway)
	logger := zap.NewNop()
	engine := services.NewOrderTotalEngine(pricing.DefaultPolicy(), services.NewVoucherResolver())

	h := NewHandler(Services{
		Orders:    services.NewOrderService(store, engine, pub, logger, 3),
		Items:     services.NewOrderItemsService(store, engine, pub, logger, 3),
		Payments:  services.NewPaymentService(store, pub, gateway, nil, logger, 3),
		Shipments: services.NewShipmentService(store, pub, logger, 3),
		Vouchers:  services.NewVoucherService(store, logger),
		Catalog:   services.NewCatalogService(store.VariantRepo, nil, time.Minute, logger),
		Carts:     services.NewCartService(store, logger),
	}, logger)

	parser := auth.NewTokenParser(testSecret)
	r := gin.New()
	r.Use(middlewares.RequestID())
	h.RegisterRoutes(r, auth.Middleware(parser))

	return &testServer{router: r, store: store, pub: pub, gateway: gateway, parser: parser}
}

func (s *testServer) do(t *testing.T, method, path string, body any, actor *auth.Actor) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		token, err := s.parser.Sign(*actor, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Message    string          `json:"message"`
	RequestID  string          `json:"requestId"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

var customer = auth.Actor{Subject: "user-1", Role: auth.RoleCustomer}

func TestHandler_RequiresToken(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/order", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_CreateOrderValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/order", map[string]any{"addressId": "address-1", "items": []any{}}, &customer)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "validation_failed", env.Error)
	assert.NotEmpty(t, env.RequestID)
}

func TestHandler_CreateOrder(t *testing.T) {
	s := newTestServer(t)
	s.store.AddressRepo.On("FindByID", mock.Anything, "address-1").Return(&domain.Address{ID: "address-1", UserID: "user-1"}, nil)
	s.store.VariantRepo.On("FindByID", mock.Anything, "variant-1").Return(&domain.Variant{
		ID: "variant-1", Stock: 3, Product: domain.Product{BasePrice: decimal.NewFromInt(20)},
	}, nil)
	s.store.OrderRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	s.pub.On("Publish", mock.Anything, domain.EventOrderCreated, mock.Anything).Return(nil)

	w := s.do(t, http.MethodPost, "/api/v1/order", map[string]any{
		"addressId": "address-1",
		"items":     []map[string]any{{"variantId": "variant-1", "quantity": 2}},
	}, &customer)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusCreated, env.StatusCode)

	var order domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.True(t, decimal.NewFromInt(40).Equal(order.SubTotal))
	assert.Equal(t, domain.StatusPending, order.Status)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*mocks.MockStore)
		status     int
		code       string
	}{
		{
			name: "missing order",
			setupMocks: func(store *mocks.MockStore) {
				store.OrderRepo.On("FindByID", mock.Anything, "order-1").Return(nil, nil)
			},
			status: http.StatusNotFound,
			code:   "not_found",
		},
		{
			name: "order of another user",
			setupMocks: func(store *mocks.MockStore) {
				store.OrderRepo.On("FindByID", mock.Anything, "order-1").Return(&domain.Order{ID: "order-1", UserID: "user-2"}, nil)
			},
			status: http.StatusForbidden,
			code:   "forbidden",
		},
		{
			name: "database failure hides the cause",
			setupMocks: func(store *mocks.MockStore) {
				store.OrderRepo.On("FindByID", mock.Anything, "order-1").Return(nil, errors.New("dial tcp: refused"))
			},
			status: http.StatusInternalServerError,
			code:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			tt.setupMocks(s.store)

			w := s.do(t, http.MethodGet, "/api/v1/order/order-1", nil, &customer)

			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w)
			assert.Equal(t, tt.code, env.Error)
			assert.NotContains(t, env.Message, "dial tcp")
		})
	}
}

func TestHandler_UpdateOrderClearsVoucherOnNull(t *testing.T) {
	s := newTestServer(t)
	voucherID := "voucher-1"
	s.store.OrderRepo.On("FindByID", mock.Anything, "order-1").Return(&domain.Order{
		ID: "order-1", UserID: "user-1", Status: domain.StatusPending, VoucherID: &voucherID,
		DiscountAmount: decimal.NewFromInt(5),
	}, nil)
	s.store.OrderItemRepo.On("ListByOrder", mock.Anything, "order-1").Return([]domain.OrderItem{}, nil)
	s.store.OrderRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	s.pub.On("Publish", mock.Anything, domain.EventOrderTotalsRecomputed, mock.Anything).Return(nil)

	w := s.do(t, http.MethodPatch, "/api/v1/order/order-1", map[string]any{"voucherCode": nil}, &customer)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var order domain.Order
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &order))
	assert.Nil(t, order.VoucherID)
	assert.True(t, order.DiscountAmount.IsZero())
}

func TestHandler_PaymentConflict(t *testing.T) {
	s := newTestServer(t)
	s.store.OrderRepo.On("FindByID", mock.Anything, "order-1").Return(&domain.Order{ID: "order-1", UserID: "user-1", Status: domain.StatusPending}, nil)
	s.store.PaymentRepo.On("FindByOrderID", mock.Anything, "order-1").Return(&domain.Payment{ID: "payment-1", OrderID: "order-1"}, nil)

	w := s.do(t, http.MethodPost, "/api/v1/payment", map[string]any{"orderId": "order-1", "method": "COD"}, &customer)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", decode(t, w).Error)
}

func TestHandler_VNPayIPNUsesGatewayFormat(t *testing.T) {
	s := newTestServer(t)
	s.gateway.On("Verify", mock.Anything).Return(false)

	w := s.do(t, http.MethodGet, "/api/v1/payment/vnpay-ipn?vnp_TxnRef=payment-1&vnp_Amount=100&vnp_SecureHash=bad", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var rsp services.IPNResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, "97", rsp.RspCode)
}

func TestHandler_ListVouchersRejectsBadFlag(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/vouchers?isActive=maybe", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.store.VoucherRepo.On("List", mock.Anything, mock.Anything).Return([]domain.Voucher{}, nil)
	w = s.do(t, http.MethodGet, "/api/v1/vouchers?isActive=false", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_CartDuplicateVariant(t *testing.T) {
	s := newTestServer(t)
	variant := &domain.Variant{ID: "variant-1", Product: domain.Product{BasePrice: decimal.RequireFromString("20")}}
	s.store.CartRepo.On("FindByUser", mock.Anything, "user-1").Return(&domain.Cart{ID: "cart-1", UserID: "user-1"}, nil)
	s.store.VariantRepo.On("FindByID", mock.Anything, "variant-1").Return(variant, nil)
	s.store.CartItemRepo.On("FindByCartAndVariant", mock.Anything, "cart-1", "variant-1").
		Return(&domain.CartItem{ID: "cart-item-1", CartID: "cart-1", VariantID: "variant-1", Quantity: 1}, nil)

	w := s.do(t, http.MethodPost, "/api/v1/carts/items", gin.H{"variantId": "variant-1", "quantity": 2}, &customer)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", decode(t, w).Error)
	s.store.CartItemRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_GetCart(t *testing.T) {
	s := newTestServer(t)
	variant := &domain.Variant{ID: "variant-1", Product: domain.Product{BasePrice: decimal.RequireFromString("20")}}
	s.store.CartRepo.On("FindByUser", mock.Anything, "user-1").Return(&domain.Cart{ID: "cart-1", UserID: "user-1"}, nil)
	s.store.CartItemRepo.On("ListByCart", mock.Anything, "cart-1").Return([]domain.CartItem{
		{ID: "cart-item-1", CartID: "cart-1", VariantID: "variant-1", Quantity: 3, Variant: variant},
	}, nil)

	w := s.do(t, http.MethodGet, "/api/v1/carts", nil, &customer)

	require.Equal(t, http.StatusOK, w.Code)
	var cart services.CartView
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cart))
	require.Len(t, cart.Items, 1)
	assert.True(t, decimal.RequireFromString("60").Equal(cart.SubTotal))
}

func TestOptionalString_VoucherChange(t *testing.T) {
	tests := []struct {
		body    string
		keep    bool
		applied bool
	}{
		{body: `{}`, keep: true},
		{body: `{"voucherCode":null}`},
		{body: `{"voucherCode":""}`},
		{body: `{"voucherCode":"SALE10"}`, applied: true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req UpdateOrderRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			change := req.VoucherCode.VoucherChange()

			assert.Equal(t, tt.keep, change.IsKeep())
			assert.Equal(t, tt.applied, change == services.ApplyVoucher("SALE10"))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrEmptyItems, http.StatusBadRequest},
		{services.ErrOrderTerminal, http.StatusBadRequest},
		{services.ErrOrderAccessDenied, http.StatusForbidden},
		{services.ErrPaymentNotFound, http.StatusNotFound},
		{services.ErrConcurrentUpdate, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", services.ErrVoucherExpired), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, _ := classify(tt.err)
			assert.Equal(t, tt.status, status)
		})
	}
}
