package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/internal/app/service"
	apierrors "github.com/shopzone/shopzone-backend/internal/errors"
	"github.com/shopzone/shopzone-backend/internal/middleware"
)

type AdminController struct {
	adminService    service.AdminService
	userService     service.UserService
	orderService    service.OrderService
	activityService service.ActivityService
}

func NewAdminController(
	adminService service.AdminService,
	userService service.UserService,
	orderService service.OrderService,
	activityService service.ActivityService,
) *AdminController {
	return &AdminController{
		adminService:    adminService,
		userService:     userService,
		orderService:    orderService,
		activityService: activityService,
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SetUserActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// Dashboard returns aggregate store stats
// GET /api/admin/dashboard
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.adminService.GetDashboardStats()
	if err != nil {
		log.Error("Failed to build dashboard", err)
		apierrors.InternalError(c, "failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListUsers returns all accounts with search and pagination
// GET /api/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	params := parsePageParams(c)
	filter := repository.UserFilter{
		Search: c.Query("search"),
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if raw := c.Query("role"); raw != "" {
		role := model.UserRole(raw)
		filter.Role = &role
	}

	users, total, err := ctrl.userService.ListUsers(filter)
	if err != nil {
		log.Error("Failed to list users", err)
		apierrors.InternalError(c, "failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": paginate(params, total),
	})
}

// SetUserActive deactivates or reactivates an account
// PUT /api/admin/users/:id/active
func (ctrl *AdminController) SetUserActive(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, _ := middleware.GetUserID(c)

	userID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid user ID")
		return
	}

	var req SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid request data")
		return
	}

	user, err := ctrl.userService.SetActive(userID, *req.IsActive, adminID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apierrors.NotFound(c, apierrors.ResourceNotFound, "user not found")
			return
		}
		log.Error("Failed to change user active state", err, map[string]interface{}{
			"user_id": userID,
		})
		apierrors.InternalError(c, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

func parseOrderFilter(c *gin.Context, params pageParams) (repository.OrderFilter, error) {
	filter := repository.OrderFilter{
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if raw := c.Query("status"); raw != "" {
		status := model.OrderStatus(raw)
		if !model.ValidOrderStatus(status) {
			return filter, service.ErrInvalidOrderStatus
		}
		filter.Status = &status
	}
	if raw := c.Query("user_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			userID := uint(id)
			filter.UserID = &userID
		}
	}
	return filter, nil
}

// ListOrders returns every order with filters and pagination
// GET /api/admin/orders
func (ctrl *AdminController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	params := parsePageParams(c)
	filter, err := parseOrderFilter(c, params)
	if err != nil {
		apierrors.BadRequest(c, apierrors.OrderInvalidStatus, "unknown order status")
		return
	}

	orders, total, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		log.Error("Failed to list orders", err)
		apierrors.InternalError(c, "failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"pagination": paginate(params, total),
	})
}

// UpdateOrderStatus advances an order through its lifecycle
// PUT /api/admin/orders/:id/status
func (ctrl *AdminController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, _ := middleware.GetUserID(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid request data")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(orderID, model.OrderStatus(req.Status), adminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apierrors.NotFound(c, apierrors.OrderNotFound, "order not found")
		case errors.Is(err, service.ErrInvalidOrderStatus):
			apierrors.BadRequest(c, apierrors.OrderInvalidStatus, "unknown order status")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": orderID,
				"status":   req.Status,
			})
			apierrors.ParseAndRespond(c, err, "update order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// ExportOrders streams the order book as an XLSX download
// GET /api/admin/orders/export
func (ctrl *AdminController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter, err := parseOrderFilter(c, pageParams{})
	if err != nil {
		apierrors.BadRequest(c, apierrors.OrderInvalidStatus, "unknown order status")
		return
	}

	data, err := ctrl.adminService.ExportOrders(filter)
	if err != nil {
		log.Error("Failed to export orders", err)
		apierrors.InternalError(c, "failed to export orders")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ListActivityLogs returns the audit trail
// GET /api/admin/activity-logs
func (ctrl *AdminController) ListActivityLogs(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	params := parsePageParams(c)
	filter := repository.ActivityLogFilter{
		Action: c.Query("action"),
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if raw := c.Query("user_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			userID := uint(id)
			filter.UserID = &userID
		}
	}

	entries, total, err := ctrl.activityService.List(filter)
	if err != nil {
		log.Error("Failed to list activity logs", err)
		apierrors.InternalError(c, "failed to fetch activity logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity_logs": entries,
		"pagination":    paginate(params, total),
	})
}
