package service

import (
	"errors"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStock    = errors.New("stock quantity must not be negative")
)

type ProductService interface {
	Create(product *model.Product, adminID uint) (*model.Product, error)
	List(filter repository.ProductFilter) ([]model.Product, int64, error)
	Get(id uint) (*model.Product, error)
	Update(id uint, updated *model.Product, adminID uint) (*model.Product, error)
	Delete(id uint, adminID uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	activitySvc  ActivityService
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	activitySvc ActivityService,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		activitySvc:  activitySvc,
	}
}

func (s *productService) validate(product *model.Product) error {
	if product.Price < 0 {
		return ErrInvalidPrice
	}
	if product.StockQuantity < 0 {
		return ErrInvalidStock
	}
	if product.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*product.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
	}
	return nil
}

func (s *productService) Create(product *model.Product, adminID uint) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
		"price":       product.Price,
	})

	if err := s.validate(product); err != nil {
		logger.Warn("Product creation rejected", map[string]interface{}{
			"name":   product.Name,
			"reason": err.Error(),
		})
		return nil, err
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
		})
		return nil, err
	}

	s.activitySvc.Record(adminID, model.ActionCreateProduct, "product", product.ID, map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
	}, "")

	return s.productRepo.FindByID(product.ID)
}

func (s *productService) List(filter repository.ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category_id": filter.CategoryID,
		"search":      filter.Search,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) Get(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) Update(id uint, updated *model.Product, adminID uint) (*model.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.validate(updated); err != nil {
		logger.Warn("Product update rejected", map[string]interface{}{
			"product_id": id,
			"reason":     err.Error(),
		})
		return nil, err
	}

	product.Name = updated.Name
	product.Description = updated.Description
	product.Price = updated.Price
	product.StockQuantity = updated.StockQuantity
	product.ImageURL = updated.ImageURL
	product.IsAvailable = updated.IsAvailable
	product.CategoryID = updated.CategoryID
	product.Category = nil

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	s.activitySvc.Record(adminID, model.ActionUpdateProduct, "product", id, map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
	}, "")

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
		"name":       product.Name,
	})
	return s.productRepo.FindByID(id)
}

func (s *productService) Delete(id uint, adminID uint) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	s.activitySvc.Record(adminID, model.ActionDeleteProduct, "product", id, map[string]interface{}{
		"name": product.Name,
	}, "")

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
		"name":       product.Name,
	})
	return nil
}
