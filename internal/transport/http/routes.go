package httpt

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *OrderHandler) setupRoutes() {
	h.router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	api := h.router.Group("/api")

	orders := api.Group("/orders")
	{
		orders.POST("/:order_id/verify", h.auth.Middleware(), h.submitVerificationHandler)
	}

	admin := api.Group("/admin/orders")
	{
		admin.GET("", h.listOrdersHandler)
		admin.GET("/stats/summary", h.orderStatsHandler)
		admin.GET("/:order_id", h.getOrderHandler)
		admin.PATCH("/:order_id/status", h.updateOrderStatusHandler)
	}
}
