// Package http 客户上下文的 HTTP 接口层。
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/ecommerce/internal/customer/application"
	"github.com/wyfcoding/ecommerce/internal/customer/domain"
	"github.com/wyfcoding/ecommerce/internal/customer/infrastructure/persistence/mysql"
	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

// CustomerHandler HTTP 处理器
type CustomerHandler struct {
	commands *application.CustomerCommandService
	queries  *application.CustomerQueryService
	logger   *slog.Logger
}

// NewCustomerHandler 创建 HTTP 处理器
func NewCustomerHandler(commands *application.CustomerCommandService, queries *application.CustomerQueryService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{commands: commands, queries: queries, logger: logger}
}

// RegisterRoutes 注册路由
func (h *CustomerHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/customers", h.Register)
		api.GET("/customers", h.ListCustomers)
		api.GET("/customers/by-email", h.GetByEmail)
		api.GET("/customers/:id", h.GetCustomer)
		api.PUT("/customers/:id/profile", h.UpdateProfile)
		api.PUT("/customers/:id/email", h.ChangeEmail)
		api.POST("/customers/:id/addresses", h.AddAddress)
		api.DELETE("/customers/:id/addresses/:addressId", h.RemoveAddress)
		api.PUT("/customers/:id/addresses/:addressId/primary", h.SetPrimaryAddress)
		api.POST("/customers/:id/loyalty/add", h.AddLoyaltyPoints)
		api.POST("/customers/:id/loyalty/redeem", h.RedeemLoyaltyPoints)
	}
}

// Register 注册客户
func (h *CustomerHandler) Register(c *gin.Context) {
	var cmd application.RegisterCustomerCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customerID, err := h.commands.RegisterCustomer(c.Request.Context(), &cmd)
	if err != nil {
		h.fail(c, "failed to register customer", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer_id": customerID})
}

// GetCustomer 客户详情
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	doc, err := h.queries.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "failed to get customer", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetByEmail 按邮箱查找客户
func (h *CustomerHandler) GetByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	doc, err := h.queries.GetCustomerByEmail(c.Request.Context(), email)
	if err != nil {
		h.fail(c, "failed to get customer by email", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ListCustomers 客户分页列表
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	docs, err := h.queries.ListCustomers(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, "failed to list customers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": docs})
}

// UpdateProfile 更新资料
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	var cmd application.UpdateProfileCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.UpdateProfile(c.Request.Context(), c.Param("id"), &cmd); err != nil {
		h.fail(c, "failed to update profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ChangeEmail 变更邮箱
func (h *CustomerHandler) ChangeEmail(c *gin.Context) {
	var cmd application.ChangeEmailCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.ChangeEmail(c.Request.Context(), c.Param("id"), &cmd); err != nil {
		h.fail(c, "failed to change email", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// AddAddress 新增地址
func (h *CustomerHandler) AddAddress(c *gin.Context) {
	var cmd application.AddAddressCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	addressID, err := h.commands.AddAddress(c.Request.Context(), c.Param("id"), &cmd)
	if err != nil {
		h.fail(c, "failed to add address", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address_id": addressID})
}

// RemoveAddress 移除地址
func (h *CustomerHandler) RemoveAddress(c *gin.Context) {
	if err := h.commands.RemoveAddress(c.Request.Context(), c.Param("id"), c.Param("addressId")); err != nil {
		h.fail(c, "failed to remove address", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// SetPrimaryAddress 切换主地址
func (h *CustomerHandler) SetPrimaryAddress(c *gin.Context) {
	if err := h.commands.SetPrimaryAddress(c.Request.Context(), c.Param("id"), c.Param("addressId")); err != nil {
		h.fail(c, "failed to set primary address", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// AddLoyaltyPoints 增加积分
func (h *CustomerHandler) AddLoyaltyPoints(c *gin.Context) {
	var cmd application.AdjustLoyaltyCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.AddLoyaltyPoints(c.Request.Context(), c.Param("id"), &cmd); err != nil {
		h.fail(c, "failed to add loyalty points", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// RedeemLoyaltyPoints 扣减积分
func (h *CustomerHandler) RedeemLoyaltyPoints(c *gin.Context) {
	var cmd application.AdjustLoyaltyCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.RedeemLoyaltyPoints(c.Request.Context(), c.Param("id"), &cmd); err != nil {
		h.fail(c, "failed to redeem loyalty points", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *CustomerHandler) fail(c *gin.Context, msg string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request.Context(), msg, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusOf 领域错误到 HTTP 状态码的映射。
func statusOf(err error) int {
	var insufficientPoints *domain.InsufficientPointsError
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound), errors.Is(err, domain.ErrAddressNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, mysql.ErrVersionConflict):
		return http.StatusConflict
	case errors.As(err, &insufficientPoints):
		return http.StatusUnprocessableEntity
	case domain.IsValidation(err),
		errors.Is(err, vo.ErrInvalidEmail),
		errors.Is(err, vo.ErrInvalidPhone):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
