// internal/interfaces/http/handlers/admin_product.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fashion-storefront/internal/domain/order"
	"github.com/your-org/fashion-storefront/internal/domain/product"
	"github.com/your-org/fashion-storefront/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

// AdminHandler handles the admin catalog and dashboard endpoints
type AdminHandler struct {
	productService *product.Service
	catalog        *product.Catalog
	userService    *user.Service
	orderService   *order.Service
	logger         logrus.FieldLogger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(products *product.Service, catalog *product.Catalog, users *user.Service, orders *order.Service, logger logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		productService: products,
		catalog:        catalog,
		userService:    users,
		orderService:   orders,
		logger:         logger,
	}
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var (
		productStats *product.Stats
		orderStats   *order.Stats
		userCount    int64
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		productStats, err = h.productService.GetStats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		orderStats, err = h.orderService.GetStats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		userCount, err = h.userService.Count(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		h.logger.WithError(err).Error("Failed to load dashboard")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load dashboard",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard retrieved successfully",
		"data": gin.H{
			"products":       productStats,
			"orders":         orderStats,
			"users":          userCount,
			"catalog_loaded": h.catalog.Loaded(),
		},
	})
}

// GetProducts handles GET /admin/products
func (h *AdminHandler) GetProducts(c *gin.Context) {
	products, err := h.productService.AdminSearch(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"products": products,
			"total":    len(products),
		},
	})
}

// CreateProduct handles POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req product.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		h.respondProductError(c, err)
		return
	}
	h.catalog.Invalidate(c.Request.Context())

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    p,
	})
}

// UpdateProduct handles PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var req product.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.respondProductError(c, err)
		return
	}
	h.catalog.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    p,
	})
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.respondProductError(c, err)
		return
	}
	h.catalog.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// ExportProducts handles GET /admin/products/export
func (h *AdminHandler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.productService.Export(c.Request.Context(), &buf); err != nil {
		h.logger.WithError(err).Error("Failed to export products")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to export products",
		})
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *AdminHandler) respondProductError(c *gin.Context, err error) {
	var verr *product.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Please correct the highlighted fields",
			"fields": verr.Fields,
		})
	case errors.Is(err, product.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
	default:
		h.logger.WithError(err).Error("Product operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save product",
		})
	}
}
