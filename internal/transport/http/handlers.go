package httpt

import (
	"net/http"
	"strconv"

	"tgstore/internal/entity"

	"github.com/gin-gonic/gin"
)

const _defaultListLimit = 100

func (h *OrderHandler) submitVerificationHandler(c *gin.Context) {
	const op = "transport.submitVerificationHandler"

	log := h.log.Ctx(c.Request.Context())
	orderID := c.Param("order_id")

	var req SubmitVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, op, err)
		return
	}

	identity := CallerIdentity(c)

	err := h.svc.SubmitVerification(c.Request.Context(), orderID, identity.UserID, req.VideoURL)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	log.Infow("verification accepted",
		"order_id", orderID,
		"caller_id", identity.UserID,
	)

	c.JSON(http.StatusOK, AckResponse{Success: true, Message: "Verification submitted"})
}

func (h *OrderHandler) listOrdersHandler(c *gin.Context) {
	const op = "transport.listOrdersHandler"

	filter := entity.OrderFilter{
		Status:         c.Query("status_filter"),
		DeliveryMethod: c.Query("delivery_filter"),
		Limit:          _defaultListLimit,
	}

	if rawLimit := c.Query("limit"); rawLimit != "" {
		limit, err := strconv.ParseUint(rawLimit, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit"})
			return
		}
		filter.Limit = limit
	}

	orders, err := h.svc.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) getOrderHandler(c *gin.Context) {
	const op = "transport.getOrderHandler"

	orderID := c.Param("order_id")

	order, err := h.svc.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) updateOrderStatusHandler(c *gin.Context) {
	const op = "transport.updateOrderStatusHandler"

	log := h.log.Ctx(c.Request.Context())
	orderID := c.Param("order_id")

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, op, err)
		return
	}

	err := h.svc.UpdateOrderStatus(c.Request.Context(), orderID, entity.StatusUpdate{
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
		Notes:          req.Notes,
	})
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	log.Infow("order status updated",
		"order_id", orderID,
		"status", req.Status,
	)

	c.JSON(http.StatusOK, AckResponse{Success: true, Message: "Status updated"})
}

func (h *OrderHandler) orderStatsHandler(c *gin.Context) {
	const op = "transport.orderStatsHandler"

	stats, err := h.svc.OrderStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, stats)
}
