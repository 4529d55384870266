// Package http 订单服务的 HTTP 接口层。
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/ecommerce/internal/order/application"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/internal/order/infrastructure/persistence/mysql"
	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

// OrderHandler HTTP 处理器
type OrderHandler struct {
	commands *application.OrderCommandService
	queries  *application.OrderQueryService
	logger   *slog.Logger
}

// NewOrderHandler 创建 HTTP 处理器
func NewOrderHandler(commands *application.OrderCommandService, queries *application.OrderQueryService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{commands: commands, queries: queries, logger: logger}
}

// RegisterRoutes 注册路由
func (h *OrderHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/orders", h.CreateOrder)
		api.GET("/orders", h.SearchOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.POST("/orders/:id/items", h.AddItem)
		api.DELETE("/orders/:id/items/:productId", h.RemoveItem)
		api.PUT("/orders/:id/items/:productId", h.UpdateItemQuantity)
		api.POST("/orders/:id/payment", h.AttachPayment)
		api.POST("/orders/:id/confirm", h.ConfirmOrder)
		api.POST("/orders/:id/ship", h.ShipOrder)
		api.POST("/orders/:id/deliver", h.DeliverOrder)
		api.POST("/orders/:id/cancel", h.CancelOrder)
		api.GET("/customers/:customerId/orders", h.ListCustomerOrders)
	}
}

// CreateOrder 创建订单
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var cmd application.CreateOrderCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	orderID, err := h.commands.CreateOrder(c.Request.Context(), &cmd)
	if err != nil {
		h.fail(c, "failed to create order", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_id": orderID})
}

// GetOrder 订单详情
func (h *OrderHandler) GetOrder(c *gin.Context) {
	doc, err := h.queries.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "failed to get order", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// SearchOrders 订单检索
func (h *OrderHandler) SearchOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	result, err := h.queries.SearchOrders(c.Request.Context(), &domain.OrderSearchQuery{
		CustomerID: c.Query("customer_id"),
		Status:     c.Query("status"),
		Page:       page,
		Size:       size,
	})
	if err != nil {
		h.fail(c, "failed to search orders", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListCustomerOrders 客户订单列表
func (h *OrderHandler) ListCustomerOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	result, err := h.queries.ListCustomerOrders(c.Request.Context(), c.Param("customerId"), page, size)
	if err != nil {
		h.fail(c, "failed to list customer orders", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AddItem 添加订单行
func (h *OrderHandler) AddItem(c *gin.Context) {
	var req application.OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.AddItem(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.fail(c, "failed to add item", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// RemoveItem 移除订单行
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	if err := h.commands.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("productId")); err != nil {
		h.fail(c, "failed to remove item", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// UpdateItemQuantity 调整订单行数量
func (h *OrderHandler) UpdateItemQuantity(c *gin.Context) {
	var cmd application.UpdateItemQuantityCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.UpdateItemQuantity(c.Request.Context(), c.Param("id"), c.Param("productId"), cmd.Quantity); err != nil {
		h.fail(c, "failed to update item quantity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// AttachPayment 附加支付
func (h *OrderHandler) AttachPayment(c *gin.Context) {
	var cmd application.AttachPaymentCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	paymentID, err := h.commands.AttachPayment(c.Request.Context(), c.Param("id"), &cmd)
	if err != nil {
		h.fail(c, "failed to attach payment", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment_id": paymentID})
}

// ConfirmOrder 确认订单
func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	if err := h.commands.ConfirmOrder(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "failed to confirm order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ShipOrder 发货
func (h *OrderHandler) ShipOrder(c *gin.Context) {
	var cmd application.ShipOrderCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.ShipOrder(c.Request.Context(), c.Param("id"), &cmd); err != nil {
		h.fail(c, "failed to ship order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// DeliverOrder 送达
func (h *OrderHandler) DeliverOrder(c *gin.Context) {
	if err := h.commands.DeliverOrder(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "failed to deliver order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder 取消订单
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.CancelOrder(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		h.fail(c, "failed to cancel order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *OrderHandler) fail(c *gin.Context, msg string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request.Context(), msg, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusOf 领域错误到 HTTP 状态码的映射。
func statusOf(err error) int {
	var stateConflict *domain.StateConflictError
	var paymentMismatch *domain.PaymentMismatchError
	switch {
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.As(err, &stateConflict),
		errors.Is(err, domain.ErrPaymentAlreadyAttached),
		errors.Is(err, mysql.ErrVersionConflict):
		return http.StatusConflict
	case errors.As(err, &paymentMismatch), errors.Is(err, domain.ErrOrderEmpty):
		return http.StatusUnprocessableEntity
	case domain.IsValidation(err),
		errors.Is(err, vo.ErrNegativeAmount),
		errors.Is(err, vo.ErrInvalidCurrency),
		errors.Is(err, vo.ErrCurrencyMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
