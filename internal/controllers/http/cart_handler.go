package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"printstore/internal/services"
)

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), actorOf(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, cart)
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.carts.ClearCart(c.Request.Context(), actorOf(c)); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "cart deleted"})
}

func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	line, err := h.carts.AddItem(c.Request.Context(), actorOf(c), services.AddCartItemInput{
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		Note:      req.Note,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, line)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	line, err := h.carts.UpdateItem(c.Request.Context(), actorOf(c), c.Param("id"), services.UpdateCartItemInput{
		Quantity: req.Quantity,
		Note:     req.Note,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, line)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	item, err := h.carts.RemoveItem(c.Request.Context(), actorOf(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}
