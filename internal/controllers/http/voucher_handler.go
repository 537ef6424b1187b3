package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"printstore/internal/services"
)

func (h *Handler) CreateVoucher(c *gin.Context) {
	var req CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	voucher, err := h.vouchers.CreateVoucher(c.Request.Context(), actorOf(c), services.CreateVoucherInput{
		Code:      req.Code,
		Discount:  req.Discount,
		ExpiresAt: req.ExpiresAt,
		IsActive:  req.IsActive,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, voucher)
}

func (h *Handler) ListVouchers(c *gin.Context) {
	active, err := parseOptionalBool(c, "isActive")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	vouchers, err := h.vouchers.ListVouchers(c.Request.Context(), active)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, vouchers)
}

func (h *Handler) GetVoucher(c *gin.Context) {
	voucher, err := h.vouchers.GetVoucher(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, voucher)
}

func (h *Handler) UpdateVoucher(c *gin.Context) {
	var req UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	voucher, err := h.vouchers.UpdateVoucher(c.Request.Context(), actorOf(c), c.Param("id"), services.UpdateVoucherInput{
		Code:      req.Code,
		Discount:  req.Discount,
		ExpiresAt: req.ExpiresAt,
		IsActive:  req.IsActive,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, voucher)
}

func (h *Handler) DeleteVoucher(c *gin.Context) {
	voucher, err := h.vouchers.DeleteVoucher(c.Request.Context(), actorOf(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, voucher)
}
