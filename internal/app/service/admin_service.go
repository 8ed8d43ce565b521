package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// DashboardStats is the admin landing page payload.
type DashboardStats struct {
	TotalUsers     int64                      `json:"total_users"`
	TotalProducts  int64                      `json:"total_products"`
	DailyPurchases []repository.DailyPurchase `json:"daily_purchases"`
	TopProducts    []repository.TopProduct    `json:"top_products"`
	TopCustomers   []repository.TopCustomer   `json:"top_customers"`
}

type AdminService interface {
	GetDashboardStats() (*DashboardStats, error)
	ExportOrders(filter repository.OrderFilter) ([]byte, error)
}

type adminService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func (s *adminService) GetDashboardStats() (*DashboardStats, error) {
	logger.Debug("Building dashboard stats")

	stats := &DashboardStats{}

	var err error
	if stats.TotalUsers, err = s.userRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalProducts, err = s.productRepo.Count(); err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -30)
	if stats.DailyPurchases, err = s.orderRepo.DailyPurchases(since); err != nil {
		return nil, err
	}
	if stats.TopProducts, err = s.orderRepo.TopProducts(10); err != nil {
		return nil, err
	}
	if stats.TopCustomers, err = s.orderRepo.TopCustomers(10); err != nil {
		return nil, err
	}

	logger.Info("Dashboard stats built", map[string]interface{}{
		"total_users":    stats.TotalUsers,
		"total_products": stats.TotalProducts,
		"daily_rows":     len(stats.DailyPurchases),
	})
	return stats, nil
}

// ExportOrders renders the matching orders as an XLSX workbook, one
// row per order item so spreadsheets can pivot on product.
func (s *adminService) ExportOrders(filter repository.OrderFilter) ([]byte, error) {
	logger.Info("Exporting orders to XLSX", map[string]interface{}{
		"status": filter.Status,
	})

	orders, _, err := s.orderRepo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{
		"Order ID", "Placed At", "Status", "Customer", "Email",
		"Product", "Quantity", "Unit Price", "Line Total", "Order Total",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, order := range orders {
		for _, item := range order.Items {
			values := []interface{}{
				order.ID,
				order.CreatedAt.Format("2006-01-02 15:04:05"),
				string(order.Status),
				order.User.Username,
				order.User.Email,
				item.Product.Name,
				item.Quantity,
				item.Price,
				item.Price * float64(item.Quantity),
				order.TotalAmount,
			}
			for i, v := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Orders exported", map[string]interface{}{
		"order_count": len(orders),
		"row_count":   row - 2,
	})
	return buf.Bytes(), nil
}
