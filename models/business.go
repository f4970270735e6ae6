package models

import "time"

// Business is the tenant root. Every customer-facing resource is scoped
// to exactly one business through business_id.
type Business struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(100);unique;not null" json:"slug"`
	Timezone  string    `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	Currency  string    `gorm:"type:varchar(8);not null;default:'USD'" json:"currency"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Hours []BusinessHour `gorm:"foreignKey:BusinessID" json:"hours,omitempty"`
}

// BusinessHour is one bookable service window (e.g. lunch 11:00-14:30).
// Open and Close are "HH:MM" strings in the business timezone.
type BusinessHour struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BusinessID uint   `gorm:"not null;index" json:"business_id"`
	Label      string `gorm:"type:varchar(50)" json:"label"`
	Open       string `gorm:"type:varchar(5);not null" json:"open"`
	Close      string `gorm:"type:varchar(5);not null" json:"close"`
}
