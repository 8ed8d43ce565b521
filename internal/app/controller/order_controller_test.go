package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/internal/app/service"
	"github.com/shopzone/shopzone-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderControllerTest(t *testing.T) (*OrderController, *gorm.DB, *model.User, *model.Product) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	activityRepo := repository.NewActivityLogRepository(testDB)
	activitySvc := service.NewSyncActivityService(activityRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, activitySvc, nil, testDB)

	user := &model.User{
		Username:     "buyer",
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:          "Lamp",
		Price:         12.0,
		StockQuantity: 10,
		IsAvailable:   true,
	}
	testDB.Create(product)

	return NewOrderController(orderService), testDB, user, product
}

func orderRouter(ctrl *OrderController, userID uint) *gin.Engine {
	router := gin.New()
	auth := func(c *gin.Context) {
		setUserIDInContext(c, userID)
	}
	router.POST("/orders", auth, ctrl.PlaceOrder)
	router.GET("/orders", auth, ctrl.ListMyOrders)
	router.GET("/orders/:id", auth, ctrl.GetOrder)
	router.POST("/orders/:id/cancel", auth, ctrl.CancelOrder)
	return router
}

func fillCart(t *testing.T, testDB *gorm.DB, userID, productID uint, quantity int) {
	cartRepo := repository.NewCartRepository(testDB)
	cart, err := cartRepo.FindOrCreateByUserID(userID)
	require.NoError(t, err)
	require.NoError(t, cartRepo.CreateItem(&model.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	}))
}

func placeOrderBody() gin.H {
	return gin.H{
		"payment_method": "card",
		"shipping_info": gin.H{
			"name":          "Home",
			"address_line1": "1 Main St",
			"city":          "Springfield",
			"postal_code":   "12345",
			"country":       "US",
		},
	}
}

func TestOrderController_PlaceOrder_Success(t *testing.T) {
	ctrl, testDB, user, product := setupOrderControllerTest(t)
	router := orderRouter(ctrl, user.ID)

	fillCart(t, testDB, user.ID, product.ID, 2)

	w := postJSON(t, router, "/orders", placeOrderBody())
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	order := resp["order"].(map[string]interface{})
	assert.Equal(t, float64(24), order["total_amount"])
	assert.Equal(t, "pending", order["status"])
}

func TestOrderController_PlaceOrder_EmptyCart(t *testing.T) {
	ctrl, _, user, _ := setupOrderControllerTest(t)
	router := orderRouter(ctrl, user.ID)

	w := postJSON(t, router, "/orders", placeOrderBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_PlaceOrder_InsufficientStock(t *testing.T) {
	ctrl, testDB, user, product := setupOrderControllerTest(t)
	router := orderRouter(ctrl, user.ID)

	fillCart(t, testDB, user.ID, product.ID, 100)

	w := postJSON(t, router, "/orders", placeOrderBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INSUFFICIENT_STOCK", resp["error"])
}

func TestOrderController_PlaceOrder_MissingShipping(t *testing.T) {
	ctrl, testDB, user, product := setupOrderControllerTest(t)
	router := orderRouter(ctrl, user.ID)

	fillCart(t, testDB, user.ID, product.ID, 1)

	w := postJSON(t, router, "/orders", gin.H{"payment_method": "card"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_GetOrder_NotOwned(t *testing.T) {
	ctrl, testDB, user, product := setupOrderControllerTest(t)

	fillCart(t, testDB, user.ID, product.ID, 1)
	w := postJSON(t, orderRouter(ctrl, user.ID), "/orders", placeOrderBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orderID := uint(resp["order"].(map[string]interface{})["id"].(float64))

	other := &model.User{
		Username:     "other",
		Email:        "other@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	testDB.Create(other)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil)
	rec := httptest.NewRecorder()
	orderRouter(ctrl, other.ID).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderController_ListMyOrders(t *testing.T) {
	ctrl, testDB, user, product := setupOrderControllerTest(t)
	router := orderRouter(ctrl, user.ID)

	fillCart(t, testDB, user.ID, product.ID, 1)
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/orders", placeOrderBody()).Code)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["count"])
}

func TestOrderController_CancelOrder_Twice(t *testing.T) {
	ctrl, testDB, user, product := setupOrderControllerTest(t)
	router := orderRouter(ctrl, user.ID)

	fillCart(t, testDB, user.ID, product.ID, 1)
	w := postJSON(t, router, "/orders", placeOrderBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orderID := uint(resp["order"].(map[string]interface{})["id"].(float64))

	cancel := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/orders/%d/cancel", orderID), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, cancel().Code)
	// Cancelled orders cannot be cancelled again
	assert.Equal(t, http.StatusConflict, cancel().Code)
}
