package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/service"
	apierrors "github.com/shopzone/shopzone-backend/internal/errors"
	"github.com/shopzone/shopzone-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

type CategoryRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

// List returns all categories
// GET /api/categories
func (ctrl *CategoryController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.categoryService.List()
	if err != nil {
		log.Error("Failed to list categories", err)
		apierrors.InternalError(c, "failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// Get returns one category
// GET /api/categories/:id
func (ctrl *CategoryController) Get(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid category ID")
		return
	}

	category, err := ctrl.categoryService.Get(categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apierrors.NotFound(c, apierrors.CategoryNotFound, "category not found")
			return
		}
		apierrors.InternalError(c, "failed to fetch category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// Create adds a category (admin)
// POST /api/categories
func (ctrl *CategoryController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid category request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid category data")
		return
	}

	category, err := ctrl.categoryService.Create(&model.Category{
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		log.Error("Failed to create category", err, map[string]interface{}{
			"name": req.Name,
		})
		apierrors.ParseAndRespond(c, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"category": category,
	})
}

// Update edits a category (admin)
// PUT /api/categories/:id
func (ctrl *CategoryController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid category ID")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid category data")
		return
	}

	category, err := ctrl.categoryService.Update(categoryID, &model.Category{
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apierrors.NotFound(c, apierrors.CategoryNotFound, "category not found")
			return
		}
		log.Error("Failed to update category", err, map[string]interface{}{
			"category_id": categoryID,
		})
		apierrors.ParseAndRespond(c, err, "update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// Delete removes an empty category (admin)
// DELETE /api/categories/:id
func (ctrl *CategoryController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid category ID")
		return
	}

	if err := ctrl.categoryService.Delete(categoryID); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apierrors.NotFound(c, apierrors.CategoryNotFound, "category not found")
			return
		}
		if errors.Is(err, service.ErrCategoryHasProducts) {
			apierrors.Conflict(c, apierrors.CategoryHasProducts, "category still has products")
			return
		}
		log.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": categoryID,
		})
		apierrors.ParseAndRespond(c, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "category deleted",
	})
}
