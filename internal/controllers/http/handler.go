package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printstore/internal/auth"
	"printstore/internal/domain"
	"printstore/internal/middlewares"
	"printstore/internal/services"
)

type Services struct {
	Orders    *services.OrderService
	Items     *services.OrderItemsService
	Payments  *services.PaymentService
	Shipments *services.ShipmentService
	Vouchers  *services.VoucherService
	Catalog   *services.CatalogService
	Carts     *services.CartService
}

type Handler struct {
	orders    *services.OrderService
	items     *services.OrderItemsService
	payments  *services.PaymentService
	shipments *services.ShipmentService
	vouchers  *services.VoucherService
	catalog   *services.CatalogService
	carts     *services.CartService
	logger    *zap.Logger
}

func NewHandler(s Services, logger *zap.Logger) *Handler {
	return &Handler{
		orders:    s.Orders,
		items:     s.Items,
		payments:  s.Payments,
		shipments: s.Shipments,
		vouchers:  s.Vouchers,
		catalog:   s.Catalog,
		carts:     s.Carts,
		logger:    logger,
	}
}

// RegisterRoutes mounts the API under /api/v1. requireAuth guards every
// route that acts on behalf of a user.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	v1 := r.Group("/api/v1")

	v1.GET("/payment/vnpay-return", h.VNPayReturn)
	v1.GET("/payment/vnpay-ipn", h.VNPayIPN)
	v1.GET("/vouchers", h.ListVouchers)
	v1.GET("/vouchers/:id", h.GetVoucher)
	v1.GET("/variants/:id/quote", h.QuoteVariant)

	authed := v1.Group("", requireAuth)

	authed.POST("/order", h.CreateOrder)
	authed.GET("/order", h.ListOrders)
	authed.GET("/order/:id", h.GetOrder)
	authed.PATCH("/order/:id", h.UpdateOrder)
	authed.DELETE("/order/:id", h.DeleteOrder)

	authed.POST("/order-items", h.CreateOrderItem)
	authed.GET("/order-items", h.ListOrderItems)
	authed.GET("/order-items/:id", h.GetOrderItem)
	authed.PATCH("/order-items/:id", h.UpdateOrderItem)
	authed.DELETE("/order-items/:id", h.DeleteOrderItem)

	authed.POST("/payment", h.CreatePayment)
	authed.GET("/payment", h.ListPayments)
	authed.GET("/payment/:id", h.GetPayment)
	authed.PATCH("/payment/:id", h.UpdatePayment)
	authed.DELETE("/payment/:id", h.DeletePayment)
	authed.POST("/payment/:id/vnpay-url", h.CreateVNPayURL)

	authed.POST("/shipment", h.CreateShipment)
	authed.GET("/shipment", h.ListShipments)
	authed.GET("/shipment/:id", h.GetShipment)
	authed.PATCH("/shipment/:id", h.UpdateShipment)
	authed.DELETE("/shipment/:id", h.DeleteShipment)

	authed.GET("/carts", h.GetCart)
	authed.DELETE("/carts", h.ClearCart)
	authed.POST("/carts/items", h.AddCartItem)
	authed.PATCH("/carts/items/:id", h.UpdateCartItem)
	authed.DELETE("/carts/items/:id", h.RemoveCartItem)

	authed.POST("/vouchers", h.CreateVoucher)
	authed.PATCH("/vouchers/:id", h.UpdateVoucher)
	authed.DELETE("/vouchers/:id", h.DeleteVoucher)
}

func actorOf(c *gin.Context) auth.Actor {
	actor, _ := auth.ActorFrom(c)
	return actor
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), actorOf(c), req.toInput())
	middlewares.RecordOrderOperation("order.create", err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), actorOf(c), services.OrderListFilter{
		UserID: c.Query("userId"),
		Status: domain.OrderStatus(c.Query("status")),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), actorOf(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	order, err := h.orders.UpdateOrder(c.Request.Context(), actorOf(c), c.Param("id"), req.toInput())
	middlewares.RecordOrderOperation("order.update", err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	order, err := h.orders.DeleteOrder(c.Request.Context(), actorOf(c), c.Param("id"))
	middlewares.RecordOrderOperation("order.delete", err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *Handler) QuoteVariant(c *gin.Context) {
	quote, err := h.catalog.QuoteVariant(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, quote)
}

// parseOptionalBool reads a query flag; an absent or blank value is nil.
func parseOptionalBool(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
