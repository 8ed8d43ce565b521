package service

import (
	"errors"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductUnavailable = errors.New("product is not available")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
)

// CartSummary is the cart with its derived totals. Totals are computed
// from current product prices and are not stored.
type CartSummary struct {
	Cart       *model.Cart `json:"cart"`
	ItemCount  int         `json:"item_count"`
	TotalItems int         `json:"total_items"`
	Subtotal   float64     `json:"subtotal"`
}

type CartService interface {
	GetCart(userID uint) (*CartSummary, error)
	AddItem(userID, productID uint, quantity int) (*CartSummary, error)
	UpdateItem(userID, itemID uint, quantity int) (*CartSummary, error)
	RemoveItem(userID, itemID uint) (*CartSummary, error)
	Clear(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	activitySvc ActivityService
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	activitySvc ActivityService,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		activitySvc: activitySvc,
	}
}

func (s *cartService) summarize(userID uint) (*CartSummary, error) {
	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{Cart: cart, ItemCount: len(cart.Items)}
	for _, item := range cart.Items {
		summary.TotalItems += item.Quantity
		summary.Subtotal += item.Product.Price * float64(item.Quantity)
	}
	return summary, nil
}

func (s *cartService) GetCart(userID uint) (*CartSummary, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"user_id": userID,
	})
	return s.summarize(userID)
}

// AddItem merges with an existing line for the same product. The
// combined quantity is checked against current stock; it may still be
// outbid by a concurrent checkout, which order placement re-validates.
func (s *cartService) AddItem(userID, productID uint, quantity int) (*CartSummary, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsAvailable {
		logger.Warn("Add to cart rejected: product unavailable", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, ErrProductUnavailable
	}

	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.FindItemByCartAndProduct(cart.ID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	requested := quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if requested > product.StockQuantity {
		logger.Warn("Add to cart rejected: insufficient stock", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"requested":  requested,
			"available":  product.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}

	if existing != nil {
		existing.Quantity = requested
		if err := s.cartRepo.UpdateItem(existing); err != nil {
			return nil, err
		}
	} else {
		item := &model.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	}

	s.activitySvc.Record(userID, model.ActionAddToCart, "product", productID, map[string]interface{}{
		"quantity": quantity,
	}, "")

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   requested,
	})
	return s.summarize(userID)
}

func (s *cartService) findOwnedItem(userID, itemID uint) (*model.CartItem, error) {
	item, err := s.cartRepo.FindItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if item.Cart.UserID != userID {
		logger.Warn("Cart item access denied", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": itemID,
			"owner_id":     item.Cart.UserID,
		})
		return nil, ErrCartItemNotFound
	}
	return item, nil
}

func (s *cartService) UpdateItem(userID, itemID uint, quantity int) (*CartSummary, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(item.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if quantity > product.StockQuantity {
		logger.Warn("Cart item update rejected: insufficient stock", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": itemID,
			"requested":    quantity,
			"available":    product.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(item); err != nil {
		return nil, err
	}
	return s.summarize(userID)
}

func (s *cartService) RemoveItem(userID, itemID uint) (*CartSummary, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
	})

	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteItem(item.ID); err != nil {
		return nil, err
	}
	return s.summarize(userID)
}

func (s *cartService) Clear(userID uint) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return err
	}
	return s.cartRepo.DeleteItemsByCartID(cart.ID)
}
