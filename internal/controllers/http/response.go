package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printstore/internal/middlewares"
	"printstore/internal/services"
)

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success":    true,
		"statusCode": status,
		"data":       data,
	})
}

// classify maps a service error kind to its status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, services.ErrInvalidState):
		return http.StatusBadRequest, "invalid_state"
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, "conflict"
	}
	return http.StatusInternalServerError, "internal_error"
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", middlewares.GetRequestID(c)),
			zap.Error(err))
		message = "internal server error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{
		"success":    false,
		"statusCode": status,
		"error":      code,
		"message":    message,
		"requestId":  middlewares.GetRequestID(c),
	})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success":    false,
		"statusCode": http.StatusBadRequest,
		"error":      "validation_failed",
		"message":    err.Error(),
		"requestId":  middlewares.GetRequestID(c),
	})
}
