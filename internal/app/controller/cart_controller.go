package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/internal/app/service"
	apierrors "github.com/shopzone/shopzone-backend/internal/errors"
	"github.com/shopzone/shopzone-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

func respondCartError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apierrors.NotFound(c, apierrors.ProductNotFound, "product not found")
	case errors.Is(err, service.ErrProductUnavailable):
		apierrors.BadRequest(c, apierrors.ProductNotFound, "product is not available")
	case errors.Is(err, service.ErrInsufficientStock):
		apierrors.BadRequest(c, apierrors.InsufficientStock, "insufficient stock")
	case errors.Is(err, service.ErrCartItemNotFound):
		apierrors.NotFound(c, apierrors.CartItemNotFound, "cart item not found")
	case errors.Is(err, service.ErrInvalidQuantity):
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "quantity must be at least 1")
	default:
		return false
	}
	return true
}

// GetCart returns the caller's cart with totals
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	summary, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apierrors.InternalError(c, "failed to fetch cart")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// AddItem puts a product in the cart
// POST /api/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid cart data")
		return
	}

	summary, err := ctrl.cartService.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		if !respondCartError(c, err) {
			log.Error("Failed to add cart item", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apierrors.InternalError(c, "failed to add item to cart")
		}
		return
	}

	c.JSON(http.StatusCreated, summary)
}

// UpdateItem changes a line's quantity
// PUT /api/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid cart item ID")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid cart data")
		return
	}

	summary, err := ctrl.cartService.UpdateItem(userID, itemID, req.Quantity)
	if err != nil {
		if !respondCartError(c, err) {
			log.Error("Failed to update cart item", err, map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": itemID,
			})
			apierrors.InternalError(c, "failed to update cart item")
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RemoveItem deletes one line
// DELETE /api/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid cart item ID")
		return
	}

	summary, err := ctrl.cartService.RemoveItem(userID, itemID)
	if err != nil {
		if !respondCartError(c, err) {
			log.Error("Failed to remove cart item", err, map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": itemID,
			})
			apierrors.InternalError(c, "failed to remove cart item")
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Clear empties the cart
// DELETE /api/cart
func (ctrl *CartController) Clear(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	if err := ctrl.cartService.Clear(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apierrors.InternalError(c, "failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "cart cleared",
	})
}
