package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BusinessID  uint      `gorm:"not null;index" json:"business_id"`
	OrderNumber string    `gorm:"type:varchar(20);unique;not null" json:"order_number"`
	OrderType   OrderType `gorm:"type:varchar(20);not null;default:'dine_in'" json:"order_type"`

	CustomerName  string  `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail *string `gorm:"type:varchar(255)" json:"customer_email,omitempty"`
	CustomerPhone *string `gorm:"type:varchar(50)" json:"customer_phone,omitempty"`

	TableID *uint  `gorm:"index" json:"table_id,omitempty"`
	Table   *Table `gorm:"foreignKey:TableID" json:"table,omitempty"`

	Subtotal float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"subtotal"`
	Tax      float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"tax"`
	Tip      float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"tip"`
	Discount float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"discount"`
	Total    float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`

	Status        OrderStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentRef    *string       `gorm:"type:varchar(100)" json:"payment_ref,omitempty"`

	Source              string  `gorm:"type:varchar(20);not null;default:'pos'" json:"source"` // pos, online
	SpecialInstructions string  `gorm:"type:text" json:"special_instructions"`
	CancellationReason  *string `gorm:"type:varchar(255)" json:"cancellation_reason,omitempty"`

	CreatedAt  time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"not null" json:"updated_at"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}

// NewOrderNumber returns a short human-readable order number.
func NewOrderNumber() string {
	return fmt.Sprintf("ORD-%s", uuid.NewString()[:8])
}

// ComputeTotal applies the monetary invariant: total = subtotal + tax + tip - discount.
func (o *Order) ComputeTotal() float64 {
	return o.Subtotal + o.Tax + o.Tip - o.Discount
}
