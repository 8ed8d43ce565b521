package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/internal/app/service"
	apierrors "github.com/shopzone/shopzone-backend/internal/errors"
	"github.com/shopzone/shopzone-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type ShippingInfoRequest struct {
	Name         string `json:"name" binding:"required"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code" binding:"required"`
	Country      string `json:"country" binding:"required"`
	Phone        string `json:"phone"`
}

type PlaceOrderRequest struct {
	PaymentMethod string              `json:"payment_method" binding:"required"`
	PaymentInfo   string              `json:"payment_info"`
	Notes         string              `json:"notes"`
	ShippingInfo  ShippingInfoRequest `json:"shipping_info" binding:"required"`
}

// PlaceOrder turns the cart into an order
// POST /api/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid order data")
		return
	}

	order, err := ctrl.orderService.PlaceOrder(userID, service.PlaceOrderInput{
		PaymentMethod: req.PaymentMethod,
		PaymentInfo:   req.PaymentInfo,
		Notes:         req.Notes,
		Shipping: service.ShippingInfo{
			Name:         req.ShippingInfo.Name,
			AddressLine1: req.ShippingInfo.AddressLine1,
			AddressLine2: req.ShippingInfo.AddressLine2,
			City:         req.ShippingInfo.City,
			State:        req.ShippingInfo.State,
			PostalCode:   req.ShippingInfo.PostalCode,
			Country:      req.ShippingInfo.Country,
			Phone:        req.ShippingInfo.Phone,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apierrors.BadRequest(c, apierrors.EmptyCart, "cart is empty")
		case errors.Is(err, service.ErrInsufficientStock):
			apierrors.BadRequest(c, apierrors.InsufficientStock, "insufficient stock for one or more items")
		case errors.Is(err, service.ErrProductNotFound):
			apierrors.NotFound(c, apierrors.ProductNotFound, "product no longer exists")
		case errors.Is(err, service.ErrProductUnavailable):
			apierrors.BadRequest(c, apierrors.ProductNotFound, "product is not available")
		default:
			log.Error("Order placement failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apierrors.RespondWithError(c, http.StatusInternalServerError, apierrors.OrderCreationFailed, "failed to place order")
		}
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
		"total":    order.TotalAmount,
	})
	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// ListMyOrders returns the caller's order history
// GET /api/orders
func (ctrl *OrderController) ListMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to list orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apierrors.InternalError(c, "failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one order owned by the caller
// GET /api/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apierrors.NotFound(c, apierrors.OrderNotFound, "order not found")
			return
		}
		apierrors.InternalError(c, "failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// CancelOrder cancels a pending order
// POST /api/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid order ID")
		return
	}

	order, err := ctrl.orderService.CancelOrder(userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apierrors.NotFound(c, apierrors.OrderNotFound, "order not found")
		case errors.Is(err, service.ErrOrderNotCancellable):
			apierrors.Conflict(c, apierrors.OrderInvalidStatus, "order can no longer be cancelled")
		default:
			log.Error("Order cancellation failed", err, map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			apierrors.ParseAndRespond(c, err, "update order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}
