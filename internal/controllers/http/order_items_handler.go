package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"printstore/internal/middlewares"
	"printstore/internal/services"
)

func (h *Handler) CreateOrderItem(c *gin.Context) {
	var req CreateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	item, err := h.items.CreateItem(c.Request.Context(), actorOf(c), services.CreateOrderItemInput{
		OrderID:   req.OrderID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	middlewares.RecordOrderOperation("order_item.create", err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, item)
}

func (h *Handler) ListOrderItems(c *gin.Context) {
	orderID := c.Query("orderId")
	if orderID == "" {
		h.badRequest(c, errors.New("orderId query parameter is required"))
		return
	}
	items, err := h.items.ListByOrder(c.Request.Context(), actorOf(c), orderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, items)
}

func (h *Handler) GetOrderItem(c *gin.Context) {
	item, err := h.items.GetItem(c.Request.Context(), actorOf(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}

func (h *Handler) UpdateOrderItem(c *gin.Context) {
	var req UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	item, err := h.items.UpdateItem(c.Request.Context(), actorOf(c), c.Param("id"), services.UpdateOrderItemInput{
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	middlewares.RecordOrderOperation("order_item.update", err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}

func (h *Handler) DeleteOrderItem(c *gin.Context) {
	item, err := h.items.DeleteItem(c.Request.Context(), actorOf(c), c.Param("id"))
	middlewares.RecordOrderOperation("order_item.delete", err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}
