package models

import "time"

// Customer is a CRM record, not a login. Loyalty points are adjusted by
// staff through the customer endpoints and never go negative.
type Customer struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	BusinessID    uint       `gorm:"not null;index" json:"business_id"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Email         *string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone         *string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	LoyaltyPoints int        `gorm:"not null;default:0" json:"loyalty_points"`
	VisitCount    int        `gorm:"not null;default:0" json:"visit_count"`
	LastVisitAt   *time.Time `json:"last_visit_at,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}
