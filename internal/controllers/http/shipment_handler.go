package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"printstore/internal/domain"
	"printstore/internal/middlewares"
	"printstore/internal/services"
)

func (h *Handler) CreateShipment(c *gin.Context) {
	var req CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	shipment, err := h.shipments.CreateShipment(c.Request.Context(), actorOf(c), services.CreateShipmentInput{
		OrderID:       req.OrderID,
		ShipmentInput: req.ShipmentRequest.toInput(),
	})
	middlewares.RecordOrderOperation("shipment.create", err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, shipment)
}

func (h *Handler) ListShipments(c *gin.Context) {
	shipments, err := h.shipments.ListShipments(c.Request.Context(), actorOf(c), domain.ShipmentStatus(c.Query("status")))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, shipments)
}

func (h *Handler) GetShipment(c *gin.Context) {
	shipment, err := h.shipments.GetShipment(c.Request.Context(), actorOf(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, shipment)
}

func (h *Handler) UpdateShipment(c *gin.Context) {
	var req ShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	shipment, err := h.shipments.UpdateShipment(c.Request.Context(), actorOf(c), c.Param("id"), req.toInput())
	middlewares.RecordOrderOperation("shipment.update", err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, shipment)
}

func (h *Handler) DeleteShipment(c *gin.Context) {
	shipment, err := h.shipments.DeleteShipment(c.Request.Context(), actorOf(c), c.Param("id"))
	middlewares.RecordOrderOperation("shipment.delete", err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, shipment)
}
