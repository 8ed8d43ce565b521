package service

import (
	"errors"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryHasProducts = errors.New("category still has products")
)

type CategoryService interface {
	Create(category *model.Category) (*model.Category, error)
	List() ([]model.Category, error)
	Get(id uint) (*model.Category, error)
	Update(id uint, updated *model.Category) (*model.Category, error)
	Delete(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(category *model.Category) (*model.Category, error) {
	logger.Info("Creating category", map[string]interface{}{
		"name": category.Name,
	})

	if err := s.categoryRepo.Create(category); err != nil {
		logger.Error("Failed to create category", err, map[string]interface{}{
			"name": category.Name,
		})
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) Get(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(id uint, updated *model.Category) (*model.Category, error) {
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	category.Name = updated.Name
	category.Description = updated.Description
	category.DisplayOrder = updated.DisplayOrder

	if err := s.categoryRepo.Update(category); err != nil {
		logger.Error("Failed to update category", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}

	logger.Info("Category updated", map[string]interface{}{
		"category_id": id,
		"name":        category.Name,
	})
	return category, nil
}

// Delete refuses to remove a category that still has products so
// catalog rows never point at a missing parent.
func (s *categoryService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Category deletion blocked: products attached", map[string]interface{}{
			"category_id":   id,
			"product_count": count,
		})
		return ErrCategoryHasProducts
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		logger.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}

	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})
	return nil
}
