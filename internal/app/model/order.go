package model

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known status codes.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusProcessing,
		OrderStatusDelivering, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID            uint        `gorm:"primarykey" json:"id"`
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	AddressID     uint        `gorm:"not null" json:"address_id"`
	TotalAmount   float64     `gorm:"not null" json:"total_amount"`
	Status        OrderStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentMethod string      `gorm:"type:varchar(50)" json:"payment_method,omitempty"` // opaque, recorded as received
	PaymentInfo   string      `gorm:"type:text" json:"payment_info,omitempty"`          // opaque, recorded as received
	Notes         string      `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	User    User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Address Address     `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Items   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"` // snapshot at order time, never recomputed
	CreatedAt time.Time `json:"created_at"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
