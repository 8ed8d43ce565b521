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

func setupProductControllerTest(t *testing.T) (*ProductController, *gorm.DB, *model.Category) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	activityRepo := repository.NewActivityLogRepository(testDB)
	productService := service.NewProductService(productRepo, categoryRepo, service.NewSyncActivityService(activityRepo))

	category := &model.Category{Name: "Electronics"}
	testDB.Create(category)

	return NewProductController(productService), testDB, category
}

func productRouter(ctrl *ProductController, adminID uint) *gin.Engine {
	router := gin.New()
	router.GET("/products", ctrl.List)
	router.GET("/products/:id", ctrl.Get)
	admin := func(c *gin.Context) {
		setUserIDInContext(c, adminID)
	}
	router.POST("/products", admin, ctrl.Create)
	router.PUT("/products/:id", admin, ctrl.Update)
	router.DELETE("/products/:id", admin, ctrl.Delete)
	return router
}

func seedProducts(t *testing.T, testDB *gorm.DB, categoryID uint) {
	products := []model.Product{
		{Name: "Keyboard", Price: 49.90, StockQuantity: 10, IsAvailable: true, CategoryID: &categoryID},
		{Name: "Mouse", Price: 19.90, StockQuantity: 4, IsAvailable: true, CategoryID: &categoryID},
		{Name: "Monitor", Price: 199.00, StockQuantity: 3, IsAvailable: false, CategoryID: &categoryID},
	}
	require.NoError(t, testDB.Create(&products).Error)
}

func TestProductController_List_Pagination(t *testing.T) {
	ctrl, testDB, category := setupProductControllerTest(t)
	seedProducts(t, testDB, category.ID)
	router := productRouter(ctrl, 1)

	req := httptest.NewRequest(http.MethodGet, "/products?page=1&limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["products"], 2)

	pagination := resp["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["total"])
	assert.Equal(t, float64(2), pagination["pages"])
}

func TestProductController_List_Filters(t *testing.T) {
	ctrl, testDB, category := setupProductControllerTest(t)
	seedProducts(t, testDB, category.ID)
	router := productRouter(ctrl, 1)

	req := httptest.NewRequest(http.MethodGet, "/products?available=true&max_price=60", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	products := resp["products"].([]interface{})
	require.Len(t, products, 2)
	for _, p := range products {
		product := p.(map[string]interface{})
		assert.True(t, product["is_available"].(bool))
		assert.LessOrEqual(t, product["price"].(float64), 60.0)
	}
}

func TestProductController_List_SortByPrice(t *testing.T) {
	ctrl, testDB, category := setupProductControllerTest(t)
	seedProducts(t, testDB, category.ID)
	router := productRouter(ctrl, 1)

	req := httptest.NewRequest(http.MethodGet, "/products?sort=price&order=asc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	products := resp["products"].([]interface{})
	require.Len(t, products, 3)

	var prev float64
	for _, p := range products {
		price := p.(map[string]interface{})["price"].(float64)
		assert.GreaterOrEqual(t, price, prev)
		prev = price
	}
}

func TestProductController_Get_NotFound(t *testing.T) {
	ctrl, _, _ := setupProductControllerTest(t)
	router := productRouter(ctrl, 1)

	req := httptest.NewRequest(http.MethodGet, "/products/99999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_Create_Success(t *testing.T) {
	ctrl, _, category := setupProductControllerTest(t)
	router := productRouter(ctrl, 1)

	w := postJSON(t, router, "/products", gin.H{
		"name":           "Webcam",
		"price":          39.90,
		"stock_quantity": 5,
		"category_id":    category.ID,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	product := resp["product"].(map[string]interface{})
	assert.Equal(t, "Webcam", product["name"])
	// Availability defaults to true when omitted
	assert.Equal(t, true, product["is_available"])
}

func TestProductController_Create_NegativePrice(t *testing.T) {
	ctrl, _, _ := setupProductControllerTest(t)
	router := productRouter(ctrl, 1)

	w := postJSON(t, router, "/products", gin.H{
		"name":  "Broken",
		"price": -5,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_Delete(t *testing.T) {
	ctrl, testDB, category := setupProductControllerTest(t)
	seedProducts(t, testDB, category.ID)
	router := productRouter(ctrl, 1)

	var product model.Product
	require.NoError(t, testDB.First(&product).Error)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/products/%d", product.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	testDB.Model(&model.Product{}).Where("id = ?", product.ID).Count(&count)
	assert.Zero(t, count)
}
