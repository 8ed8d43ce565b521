package service

import (
	"errors"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
)

// ShippingInfo is the destination snapshot captured at checkout. It is
// stored as a fresh non-default Address so later edits to the user's
// address book never rewrite a placed order.
type ShippingInfo struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	Phone        string
}

type PlaceOrderInput struct {
	PaymentMethod string
	PaymentInfo   string
	Notes         string
	Shipping      ShippingInfo
}

// OrderNotifier pushes order status events to connected clients.
type OrderNotifier interface {
	NotifyOrderStatus(userID, orderID uint, status model.OrderStatus, totalAmount float64)
}

type OrderService interface {
	PlaceOrder(userID uint, input PlaceOrderInput) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	CancelOrder(userID, orderID uint) (*model.Order, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus, adminID uint) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	activitySvc ActivityService
	notifier    OrderNotifier
	db          *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	activitySvc ActivityService,
	notifier OrderNotifier,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		activitySvc: activitySvc,
		notifier:    notifier,
		db:          db,
	}
}

// PlaceOrder converts the user's cart into an order in one transaction.
// Stock is re-read under a row lock so two checkouts racing for the
// last units cannot both succeed; the loser fails before anything is
// written.
func (s *orderService) PlaceOrder(userID uint, input PlaceOrderInput) (*model.Order, error) {
	logger.Info("Placing order", map[string]interface{}{
		"user_id":        userID,
		"payment_method": input.PaymentMethod,
	})

	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		logger.Error("Failed to load cart for order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if len(cart.Items) == 0 {
		logger.Warn("Order rejected: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	var order *model.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		address := &model.Address{
			UserID:       userID,
			Name:         input.Shipping.Name,
			AddressLine1: input.Shipping.AddressLine1,
			AddressLine2: input.Shipping.AddressLine2,
			City:         input.Shipping.City,
			State:        input.Shipping.State,
			PostalCode:   input.Shipping.PostalCode,
			Country:      input.Shipping.Country,
			Phone:        input.Shipping.Phone,
			IsDefault:    false,
		}
		if err := tx.Create(address).Error; err != nil {
			logger.Error("Failed to create shipping address", err, map[string]interface{}{
				"user_id": userID,
			})
			return err
		}

		var (
			totalAmount float64
			orderItems  []model.OrderItem
		)
		for _, cartItem := range cart.Items {
			var product model.Product
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, cartItem.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					logger.Warn("Product vanished during order placement", map[string]interface{}{
						"user_id":    userID,
						"product_id": cartItem.ProductID,
					})
					return ErrProductNotFound
				}
				logger.Error("Failed to lock product during order placement", err, map[string]interface{}{
					"user_id":    userID,
					"product_id": cartItem.ProductID,
				})
				return err
			}

			if !product.IsAvailable {
				logger.Warn("Order rejected: product unavailable", map[string]interface{}{
					"user_id":    userID,
					"product_id": product.ID,
				})
				return ErrProductUnavailable
			}
			if product.StockQuantity < cartItem.Quantity {
				logger.Warn("Order rejected: insufficient stock", map[string]interface{}{
					"user_id":    userID,
					"product_id": product.ID,
					"requested":  cartItem.Quantity,
					"available":  product.StockQuantity,
				})
				return ErrInsufficientStock
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID: product.ID,
				Quantity:  cartItem.Quantity,
				Price:     product.Price,
			})
			totalAmount += product.Price * float64(cartItem.Quantity)

			if err := tx.Model(&model.Product{}).
				Where("id = ?", product.ID).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", cartItem.Quantity)).Error; err != nil {
				logger.Error("Failed to decrement stock", err, map[string]interface{}{
					"user_id":    userID,
					"product_id": product.ID,
				})
				return err
			}
		}

		order = &model.Order{
			UserID:        userID,
			AddressID:     address.ID,
			TotalAmount:   totalAmount,
			Status:        model.OrderStatusPending,
			PaymentMethod: input.PaymentMethod,
			PaymentInfo:   input.PaymentInfo,
			Notes:         input.Notes,
			Items:         orderItems,
		}
		if err := tx.Create(order).Error; err != nil {
			logger.Error("Failed to create order", err, map[string]interface{}{
				"user_id":      userID,
				"total_amount": totalAmount,
			})
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			logger.Error("Failed to clear cart after order", err, map[string]interface{}{
				"user_id": userID,
				"cart_id": cart.ID,
			})
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activitySvc.Record(userID, model.ActionCreateOrder, "order", order.ID, map[string]interface{}{
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.Items),
	}, "")
	if s.notifier != nil {
		s.notifier.NotifyOrderStatus(userID, order.ID, order.Status, order.TotalAmount)
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.Items),
	})
	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	logger.Debug("Fetching order", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		logger.Warn("Order access denied", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CancelOrder lets the owner cancel while the order is still pending.
// Stock reserved by the order is returned in the same transaction.
func (s *orderService) CancelOrder(userID, orderID uint) (*model.Order, error) {
	logger.Info("Cancelling order", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPending {
		logger.Warn("Order cancellation rejected", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"status":   order.Status,
		})
		return nil, ErrOrderNotCancellable
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Order{}).
			Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
			Update("status", model.OrderStatusCancelled).Error; err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := tx.Model(&model.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to cancel order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, err
	}

	s.activitySvc.Record(userID, model.ActionCancelOrder, "order", orderID, nil, "")
	if s.notifier != nil {
		s.notifier.NotifyOrderStatus(userID, orderID, model.OrderStatusCancelled, order.TotalAmount)
	}

	logger.Info("Order cancelled", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})
	return s.orderRepo.FindByID(orderID)
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error) {
	logger.Debug("Listing orders", map[string]interface{}{
		"user_id": filter.UserID,
		"status":  filter.Status,
	})
	return s.orderRepo.FindWithFilter(filter)
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus, adminID uint) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return nil, err
	}

	s.activitySvc.Record(adminID, model.ActionUpdateOrder, "order", orderID, map[string]interface{}{
		"from": order.Status,
		"to":   status,
	}, "")
	if s.notifier != nil {
		s.notifier.NotifyOrderStatus(order.UserID, orderID, status, order.TotalAmount)
	}

	return s.orderRepo.FindByID(orderID)
}
