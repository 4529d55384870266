// Package http 商品目录的 HTTP 接口层。
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/ecommerce/internal/catalog/application"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/mysql"
	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

// CatalogHandler HTTP 处理器
type CatalogHandler struct {
	commands *application.CatalogCommandService
	queries  *application.CatalogQueryService
	logger   *slog.Logger
}

// NewCatalogHandler 创建 HTTP 处理器
func NewCatalogHandler(commands *application.CatalogCommandService, queries *application.CatalogQueryService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{commands: commands, queries: queries, logger: logger}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/products", h.CreateProduct)
		api.GET("/products", h.SearchProducts)
		api.GET("/products/facets", h.GetFacets)
		api.GET("/products/:id", h.GetProduct)
		api.PUT("/products/:id", h.UpdateProduct)
		api.PUT("/products/:id/price", h.ChangePrice)
		api.POST("/products/:id/stock/increase", h.IncreaseStock)
		api.POST("/products/:id/stock/decrease", h.DecreaseStock)
		api.POST("/products/:id/reviews", h.AddReview)
		api.POST("/products/:id/reviews/:reviewId/approve", h.ApproveReview)
		api.GET("/products/:id/reviews", h.ListReviews)
		api.PUT("/products/:id/featured", h.SetFeatured)
		api.POST("/products/:id/discontinue", h.Discontinue)
	}
}

// CreateProduct 创建商品
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var cmd application.CreateProductCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	productID, err := h.commands.CreateProduct(c.Request.Context(), &cmd)
	if err != nil {
		h.fail(c, "failed to create product", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product_id": productID})
}

// GetProduct 商品详情
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	doc, err := h.queries.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "failed to get product", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// SearchProducts 条件检索
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	query := &domain.ProductSearchQuery{
		Keyword:    c.Query("keyword"),
		CategoryID: c.Query("category_id"),
		PriceMin:   c.Query("price_min"),
		PriceMax:   c.Query("price_max"),
		ActiveOnly: c.DefaultQuery("active_only", "true") == "true",
		SortBy:     c.Query("sort_by"),
		Page:       page,
		Size:       size,
	}

	result, err := h.queries.SearchProducts(c.Request.Context(), query)
	if err != nil {
		h.fail(c, "failed to search products", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFacets 检索聚合统计
func (h *CatalogHandler) GetFacets(c *gin.Context) {
	query := &domain.ProductSearchQuery{
		Keyword:    c.Query("keyword"),
		CategoryID: c.Query("category_id"),
		ActiveOnly: true,
	}
	facets, err := h.queries.GetFacets(c.Request.Context(), query)
	if err != nil {
		h.fail(c, "failed to get facets", err)
		return
	}
	c.JSON(http.StatusOK, facets)
}

// UpdateProduct 更新商品信息
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var cmd application.UpdateProductDetailsCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.UpdateProductDetails(c.Request.Context(), c.Param("id"), &cmd); err != nil {
		h.fail(c, "failed to update product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ChangePrice 调价
func (h *CatalogHandler) ChangePrice(c *gin.Context) {
	var cmd application.ChangePriceCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.ChangePrice(c.Request.Context(), c.Param("id"), &cmd); err != nil {
		h.fail(c, "failed to change price", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// IncreaseStock 增加库存
func (h *CatalogHandler) IncreaseStock(c *gin.Context) {
	var cmd application.AdjustStockCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.IncreaseStock(c.Request.Context(), c.Param("id"), &cmd); err != nil {
		h.fail(c, "failed to increase stock", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// DecreaseStock 扣减库存
func (h *CatalogHandler) DecreaseStock(c *gin.Context) {
	var cmd application.AdjustStockCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.DecreaseStock(c.Request.Context(), c.Param("id"), &cmd); err != nil {
		h.fail(c, "failed to decrease stock", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// AddReview 提交评论
func (h *CatalogHandler) AddReview(c *gin.Context) {
	var cmd application.AddReviewCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reviewID, err := h.commands.AddReview(c.Request.Context(), c.Param("id"), &cmd)
	if err != nil {
		h.fail(c, "failed to add review", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review_id": reviewID})
}

// ApproveReview 审核评论
func (h *CatalogHandler) ApproveReview(c *gin.Context) {
	if err := h.commands.ApproveReview(c.Request.Context(), c.Param("id"), c.Param("reviewId")); err != nil {
		h.fail(c, "failed to approve review", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ListReviews 评论列表
func (h *CatalogHandler) ListReviews(c *gin.Context) {
	reviews, err := h.queries.ListReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "failed to list reviews", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// SetFeaturedRequest 推荐标记请求
type SetFeaturedRequest struct {
	Featured bool `json:"featured"`
}

// SetFeatured 设置推荐标记
func (h *CatalogHandler) SetFeatured(c *gin.Context) {
	var req SetFeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.SetFeatured(c.Request.Context(), c.Param("id"), req.Featured); err != nil {
		h.fail(c, "failed to set featured", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// DiscontinueRequest 下架请求
type DiscontinueRequest struct {
	Reason string `json:"reason"`
}

// Discontinue 下架商品
func (h *CatalogHandler) Discontinue(c *gin.Context) {
	var req DiscontinueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.commands.DiscontinueProduct(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		h.fail(c, "failed to discontinue product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *CatalogHandler) fail(c *gin.Context, msg string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request.Context(), msg, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusOf 领域错误到 HTTP 状态码的映射。
func statusOf(err error) int {
	var insufficientStock *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateSKU),
		errors.Is(err, domain.ErrDuplicateReview),
		errors.Is(err, mysql.ErrVersionConflict):
		return http.StatusConflict
	case errors.As(err, &insufficientStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrProductDiscontinued):
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
