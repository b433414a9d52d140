package httpt

import (
	"context"
	"errors"
	"net/http"

	"tgstore/internal/entity"

	"github.com/gin-gonic/gin"
)

func (h *OrderHandler) handleServiceError(c *gin.Context, err error, op string) {
	log := h.log.Ctx(c.Request.Context())

	switch {
	case errors.Is(err, entity.ErrOrderNotFound):
		log.Warnw("order not found",
			"op", op,
			"order_id", c.Param("order_id"),
			"client_ip", c.ClientIP(),
		)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Order not found"})
	case errors.Is(err, entity.ErrNotAuthorized):
		log.Warnw("caller is not the order owner",
			"op", op,
			"order_id", c.Param("order_id"),
			"client_ip", c.ClientIP(),
		)
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not authorized"})
	case errors.Is(err, entity.ErrInvalidData):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data"})
	case errors.Is(err, context.DeadlineExceeded):
		log.Warnw("request timeout",
			"op", op,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
		)
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "Request timed out"})
	default:
		log.Errorw("internal server error",
			"op", op,
			"error", err,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal service error"})
	}
}

func (h *OrderHandler) handleBindError(c *gin.Context, op string, err error) {
	h.log.Ctx(c.Request.Context()).Warnw("malformed request body",
		"op", op,
		"error", err,
		"remote_addr", c.ClientIP(),
	)

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Malformed request body"})
}
