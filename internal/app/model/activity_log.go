package model

import (
	"time"
)

// Known activity actions. Action is a plain string column so new
// actions do not require a migration.
const (
	ActionRegister       = "register"
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionUpdateProfile  = "update_profile"
	ActionAddToCart      = "add_to_cart"
	ActionCreateOrder    = "create_order"
	ActionCancelOrder    = "cancel_order"
	ActionUpdateOrder    = "update_order_status"
	ActionCreateProduct  = "create_product"
	ActionUpdateProduct  = "update_product"
	ActionDeleteProduct  = "delete_product"
	ActionDeactivateUser = "deactivate_user"
	ActionReactivateUser = "reactivate_user"
)

// ActivityLog is an append-only audit record. Rows are never updated
// or deleted by normal flows.
type ActivityLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Action     string    `gorm:"not null;index" json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   uint      `json:"entity_id"`
	Details    string    `gorm:"type:text" json:"details,omitempty"` // JSON payload
	IPAddress  string    `gorm:"size:45" json:"ip_address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
