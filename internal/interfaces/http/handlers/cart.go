// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fashion-storefront/internal/domain/cart"
	"github.com/your-org/fashion-storefront/internal/domain/product"
	"github.com/your-org/fashion-storefront/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	carts          *cart.Manager
	catalog        *product.Catalog
	productService *product.Service
	logger         logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Manager, catalog *product.Catalog, products *product.Service, logger logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		carts:          carts,
		catalog:        catalog,
		productService: products,
		logger:         logger,
	}
}

// AddToCartRequest represents the add item payload
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest represents the quantity update payload
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store, loadErr := h.store(c, "/cart")
	if store == nil {
		return
	}
	h.respondCart(c, http.StatusOK, "Cart retrieved successfully", store, loadErr, nil)
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	if userID == "" {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"count": 0}})
		return
	}

	store, loadErr := h.store(c, "/cart")
	if store == nil {
		return
	}
	body := gin.H{"data": gin.H{"count": store.TotalItems()}}
	if loadErr != nil {
		body["warning"] = cartWarning(loadErr)
	}
	c.JSON(http.StatusOK, body)
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store, loadErr := h.store(c, "/products/"+req.ProductID)
	if store == nil {
		return
	}

	p, err := h.findProduct(c, req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve product",
		})
		return
	}

	in, err := cart.NewItemInput(p, req.Size, req.Color, req.Quantity)
	if err != nil {
		h.respondCartError(c, err, nil)
		return
	}

	item, err := store.AddItem(c.Request.Context(), in)
	if err != nil && !h.respondCartError(c, err, store) {
		return
	}

	h.respondCart(c, http.StatusOK, "Item added to cart successfully", store, firstErr(err, loadErr), gin.H{"item": item})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store, loadErr := h.store(c, "/cart")
	if store == nil {
		return
	}

	err := store.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil && !h.respondCartError(c, err, store) {
		return
	}
	h.respondCart(c, http.StatusOK, "Cart item updated successfully", store, firstErr(err, loadErr), nil)
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	store, loadErr := h.store(c, "/cart")
	if store == nil {
		return
	}

	err := store.RemoveItem(c.Request.Context(), c.Param("id"))
	if err != nil && !h.respondCartError(c, err, store) {
		return
	}
	h.respondCart(c, http.StatusOK, "Item removed from cart successfully", store, firstErr(err, loadErr), nil)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, loadErr := h.store(c, "/cart")
	if store == nil {
		return
	}

	err := store.Clear(c.Request.Context())
	if err != nil && !h.respondCartError(c, err, store) {
		return
	}
	h.respondCart(c, http.StatusOK, "Cart cleared successfully", store, firstErr(err, loadErr), nil)
}

// store resolves the cart of the caller. A nil store means the error
// response has been written. A storage failure comes back with the store
// so the response can carry a warning.
func (h *CartHandler) store(c *gin.Context, resumePath string) (*cart.Store, error) {
	userID, _ := middleware.GetUserIDFromContext(c)

	store, err := h.carts.For(c.Request.Context(), userID, resumePath)
	if err != nil && !h.respondCartError(c, err, store) {
		return nil, err
	}
	return store, err
}

func (h *CartHandler) findProduct(c *gin.Context, id string) (*product.Product, error) {
	if p, ok := h.catalog.Get(id); ok {
		return p, nil
	}
	return h.productService.GetProduct(c.Request.Context(), id)
}

// respondCartError writes the response for err. It returns true only for a
// persistence failure, where the change was applied and the caller should
// still answer with the cart.
func (h *CartHandler) respondCartError(c *gin.Context, err error, store *cart.Store) bool {
	var verr *cart.ValidationError
	var aerr *cart.AuthorizationError
	var perr *cart.PersistenceError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": verr.Message,
			"field": verr.Field,
		})
	case errors.As(err, &aerr):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":       aerr.Message,
			"resume_path": aerr.ResumePath,
		})
	case errors.As(err, &perr) && store != nil:
		h.logger.WithError(err).WithField("user_id", store.UserID()).Warn("Cart is out of sync with storage")
		return true
	default:
		h.logger.WithError(err).Error("Cart operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart",
		})
	}
	return false
}

func (h *CartHandler) respondCart(c *gin.Context, status int, message string, store *cart.Store, storageErr error, extra gin.H) {
	body := gin.H{
		"message": message,
		"data":    store.View(),
	}
	for k, v := range extra {
		body[k] = v
	}
	if storageErr != nil {
		body["warning"] = cartWarning(storageErr)
	}
	c.JSON(status, body)
}

func cartWarning(err error) string {
	var perr *cart.PersistenceError
	if errors.Is(err, cart.ErrCartNotLoaded) || (errors.As(err, &perr) && perr.Op == "load") {
		return "Your saved cart could not be loaded; showing items added since then"
	}
	return "Your cart could not be saved and may be lost when you log out"
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
