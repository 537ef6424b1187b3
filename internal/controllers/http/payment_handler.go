package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"printstore/internal/domain"
	"printstore/internal/middlewares"
	"printstore/internal/services"
)

func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	payment, err := h.payments.CreatePayment(c.Request.Context(), actorOf(c), services.CreatePaymentInput{
		OrderID:      req.OrderID,
		PaymentInput: req.PaymentRequest.toInput(),
	})
	middlewares.RecordOrderOperation("payment.create", err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, payment)
}

func (h *Handler) ListPayments(c *gin.Context) {
	payments, err := h.payments.ListPayments(c.Request.Context(), actorOf(c),
		domain.PaymentStatus(c.Query("status")),
		domain.PaymentMethod(c.Query("method")))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, payments)
}

func (h *Handler) GetPayment(c *gin.Context) {
	payment, err := h.payments.GetPayment(c.Request.Context(), actorOf(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, payment)
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	payment, err := h.payments.UpdatePayment(c.Request.Context(), actorOf(c), c.Param("id"), req.toInput())
	middlewares.RecordOrderOperation("payment.update", err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, payment)
}

func (h *Handler) DeletePayment(c *gin.Context) {
	payment, err := h.payments.DeletePayment(c.Request.Context(), actorOf(c), c.Param("id"))
	middlewares.RecordOrderOperation("payment.delete", err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, payment)
}

func (h *Handler) CreateVNPayURL(c *gin.Context) {
	link, err := h.payments.CreateVNPayURL(c.Request.Context(), actorOf(c), c.Param("id"), c.ClientIP())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, VNPayURLResponse{PaymentURL: link})
}

func (h *Handler) VNPayReturn(c *gin.Context) {
	res := h.payments.HandleVNPayReturn(c.Request.Context(), c.Request.URL.Query())
	respond(c, http.StatusOK, res)
}

// VNPayIPN answers in the gateway's own format, always with 200.
func (h *Handler) VNPayIPN(c *gin.Context) {
	rsp := h.payments.HandleVNPayIPN(c.Request.Context(), c.Request.URL.Query())
	middlewares.RecordOrderOperation("payment.vnpay_ipn", rsp.RspCode == "00")
	c.JSON(http.StatusOK, rsp)
}
