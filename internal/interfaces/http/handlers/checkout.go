// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fashion-storefront/internal/domain/cart"
	"github.com/your-org/fashion-storefront/internal/domain/checkout"
	"github.com/your-org/fashion-storefront/internal/domain/user"
	"github.com/your-org/fashion-storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	userService     *user.Service
	carts           *cart.Manager
	logger          logrus.FieldLogger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkouts *checkout.Service, users *user.Service, carts *cart.Manager, logger logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkouts,
		userService:     users,
		carts:           carts,
		logger:          logger,
	}
}

// GetCheckoutSummary handles GET /checkout/summary
func (h *CheckoutHandler) GetCheckoutSummary(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	store, err := h.carts.For(c.Request.Context(), userID, "/checkout")
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout summary calculated successfully",
		"data": gin.H{
			"summary":   h.checkoutService.Summary(store),
			"countries": checkout.Countries,
		},
	})
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	// the verified flag in the token may predate verification, so read it fresh
	var id user.Identity
	var store *cart.Store
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		var err error
		id, err = h.userService.Identity(ctx, userID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "User not found",
				})
				return
			}
			h.respondCheckoutError(c, err)
			return
		}

		store, err = h.carts.For(ctx, userID, "/checkout")
		if err != nil {
			h.respondCheckoutError(c, err)
			return
		}
	}

	o, err := h.checkoutService.Checkout(ctx, id, store, &req)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    o,
	})
}

func (h *CheckoutHandler) respondCheckoutError(c *gin.Context, err error) {
	var aerr *cart.AuthorizationError
	var perr *cart.PersistenceError
	var verr *checkout.ValidationError

	switch {
	case errors.As(err, &aerr):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":       aerr.Message,
			"resume_path": aerr.ResumePath,
		})
	case errors.Is(err, checkout.ErrEmailNotVerified):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Please verify your email address before checking out",
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Your cart is empty",
		})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Please correct the highlighted fields",
			"fields": verr.Fields,
		})
	case errors.Is(err, cart.ErrCheckoutInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Your order is already being placed",
		})
	case errors.Is(err, cart.ErrCartNotLoaded), errors.As(err, &perr):
		h.logger.WithError(err).Warn("Checkout refused while the saved cart is unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Your saved cart could not be loaded, please try again",
		})
	default:
		h.logger.WithError(err).Error("Checkout failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to place order",
		})
	}
}
