package repository

import (
	"time"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderFilter struct {
	UserID *uint
	Status *model.OrderStatus
	Limit  int
	Offset int
}

// DailyPurchase is one row of the dashboard purchase series, grouped
// by calendar date.
type DailyPurchase struct {
	Date        string  `json:"date"`
	OrderCount  int64   `json:"order_count"`
	TotalAmount float64 `json:"total_amount"`
}

type TopProduct struct {
	ProductID    uint    `json:"product_id"`
	Name         string  `json:"name"`
	QuantitySold int64   `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

type TopCustomer struct {
	UserID     uint    `json:"user_id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	OrderCount int64   `json:"order_count"`
	TotalSpent float64 `json:"total_spent"`
}

type OrderRepository interface {
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindWithFilter(filter OrderFilter) ([]model.Order, int64, error)
	UpdateStatus(id uint, status model.OrderStatus) error
	DailyPurchases(since time.Time) ([]DailyPurchase, error)
	TopProducts(limit int) ([]TopProduct, error)
	TopCustomers(limit int) ([]TopCustomer, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Preload("Product")
	}).Preload("Address")
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
	})
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var orders []model.Order
	if err := r.preloadOrder().Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindWithFilter(filter OrderFilter) ([]model.Order, int64, error) {
	logger.Debug("Finding orders with filter in database", map[string]interface{}{
		"user_id": filter.UserID,
		"status":  filter.Status,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})

	query := r.db.Model(&model.Order{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count orders in database", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var orders []model.Order
	err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Preload("Product")
	}).Preload("Address").Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders with filter in database", err)
		return nil, 0, err
	}

	logger.Debug("Orders found with filter in database", map[string]interface{}{
		"count": len(orders),
		"total": total,
	})
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update order status in database", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return err
	}

	logger.Debug("Order status updated in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})
	return nil
}

func (r *orderRepository) DailyPurchases(since time.Time) ([]DailyPurchase, error) {
	logger.Debug("Aggregating daily purchases in database", map[string]interface{}{
		"since": since,
	})

	var rows []DailyPurchase
	err := r.db.Model(&model.Order{}).
		Select("DATE(created_at) AS date, COUNT(*) AS order_count, SUM(total_amount) AS total_amount").
		Where("created_at >= ? AND status <> ?", since, model.OrderStatusCancelled).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate daily purchases in database", err, map[string]interface{}{
			"since": since,
		})
		return nil, err
	}
	return rows, nil
}

func (r *orderRepository) TopProducts(limit int) ([]TopProduct, error) {
	logger.Debug("Aggregating top products in database", map[string]interface{}{
		"limit": limit,
	})

	var rows []TopProduct
	err := r.db.Model(&model.OrderItem{}).
		Select("order_items.product_id AS product_id, products.name AS name, " +
			"SUM(order_items.quantity) AS quantity_sold, " +
			"SUM(order_items.quantity * order_items.price) AS revenue").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", model.OrderStatusCancelled).
		Group("order_items.product_id, products.name").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate top products in database", err)
		return nil, err
	}
	return rows, nil
}

func (r *orderRepository) TopCustomers(limit int) ([]TopCustomer, error) {
	logger.Debug("Aggregating top customers in database", map[string]interface{}{
		"limit": limit,
	})

	var rows []TopCustomer
	err := r.db.Model(&model.Order{}).
		Select("orders.user_id AS user_id, users.username AS username, users.email AS email, "+
			"COUNT(*) AS order_count, SUM(orders.total_amount) AS total_spent").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("orders.status <> ?", model.OrderStatusCancelled).
		Group("orders.user_id, users.username, users.email").
		Order("total_spent DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate top customers in database", err)
		return nil, err
	}
	return rows, nil
}
