package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/internal/app/service"
	apierrors "github.com/shopzone/shopzone-backend/internal/errors"
	"github.com/shopzone/shopzone-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductRequest struct {
	Name          string  `json:"name" binding:"required,max=200"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gte=0"`
	StockQuantity int     `json:"stock_quantity" binding:"gte=0"`
	ImageURL      string  `json:"image_url"`
	IsAvailable   *bool   `json:"is_available"`
	CategoryID    *uint   `json:"category_id"`
}

func (req *ProductRequest) toModel() *model.Product {
	product := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		IsAvailable:   true,
		CategoryID:    req.CategoryID,
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	return product
}

func parseProductFilter(c *gin.Context, params pageParams) repository.ProductFilter {
	filter := repository.ProductFilter{
		Search: c.Query("search"),
		Limit:  params.Limit,
		Offset: params.Offset,
	}

	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			categoryID := uint(id)
			filter.CategoryID = &categoryID
		}
	}
	if raw := c.Query("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &v
		}
	}
	if c.Query("available") == "true" {
		filter.AvailableOnly = true
	}

	switch c.Query("sort") {
	case "price":
		filter.SortBy = repository.ProductSortPrice
	case "name":
		filter.SortBy = repository.ProductSortName
	default:
		filter.SortBy = repository.ProductSortCreatedAt
	}
	filter.SortAscending = c.Query("order") == "asc"

	return filter
}

// List returns the catalog with filters and pagination
// GET /api/products
func (ctrl *ProductController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	params := parsePageParams(c)
	filter := parseProductFilter(c, params)

	products, total, err := ctrl.productService.List(filter)
	if err != nil {
		log.Error("Failed to list products", err)
		apierrors.InternalError(c, "failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"pagination": paginate(params, total),
	})
}

// Get returns one product
// GET /api/products/:id
func (ctrl *ProductController) Get(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid product ID")
		return
	}

	product, err := ctrl.productService.Get(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apierrors.NotFound(c, apierrors.ProductNotFound, "product not found")
			return
		}
		apierrors.InternalError(c, "failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// Create adds a product (admin)
// POST /api/products
func (ctrl *ProductController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, _ := middleware.GetUserID(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid product data")
		return
	}

	product, err := ctrl.productService.Create(req.toModel(), adminID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apierrors.BadRequest(c, apierrors.CategoryNotFound, "category does not exist")
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		apierrors.ParseAndRespond(c, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// Update edits a product (admin)
// PUT /api/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, _ := middleware.GetUserID(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid product ID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid product data")
		return
	}

	product, err := ctrl.productService.Update(productID, req.toModel(), adminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apierrors.NotFound(c, apierrors.ProductNotFound, "product not found")
		case errors.Is(err, service.ErrCategoryNotFound):
			apierrors.BadRequest(c, apierrors.CategoryNotFound, "category does not exist")
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": productID,
			})
			apierrors.ParseAndRespond(c, err, "update product")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// Delete removes a product (admin)
// DELETE /api/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, _ := middleware.GetUserID(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid product ID")
		return
	}

	if err := ctrl.productService.Delete(productID, adminID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apierrors.NotFound(c, apierrors.ProductNotFound, "product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": productID,
		})
		apierrors.ParseAndRespond(c, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "product deleted",
	})
}
