package httpt

import (
	"tgstore/internal/service"
	"tgstore/pkg/logger"
	"tgstore/pkg/metric"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc     *service.OrderService
	auth    *WebAppAuth
	log     logger.Logger
	metrics metric.HTTP
	router  *gin.Engine
}

func NewOrderHandler(
	svc *service.OrderService,
	auth *WebAppAuth,
	log logger.Logger,
	metrics metric.HTTP,
) *OrderHandler {
	h := &OrderHandler{
		svc:     svc,
		auth:    auth,
		log:     log,
		metrics: metrics,
	}

	router := gin.New()

	router.Use(h.requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(gin.Recovery())

	h.router = router
	h.setupRoutes()

	return h
}

func (h *OrderHandler) Engine() *gin.Engine {
	return h.router
}
