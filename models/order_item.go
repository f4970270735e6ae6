package models

import "time"

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order      Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID *uint     `json:"menu_item_id,omitempty"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"menu_item,omitempty"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	UnitPrice  float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Modifiers  string    `gorm:"type:text" json:"modifiers"` // JSON array of modifier labels
	LineTotal  float64   `gorm:"type:decimal(10,2);not null" json:"line_total"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
