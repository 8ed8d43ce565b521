package model

import (
	"time"
)

type Product struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"not null;index" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Price         float64   `gorm:"not null" json:"price"`
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"` // must never go negative
	ImageURL      string    `json:"image_url"`
	// no column default: GORM would omit an explicit false on insert
	IsAvailable   bool      `gorm:"not null" json:"is_available"`
	CategoryID    *uint     `gorm:"index" json:"category_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Category   *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
