package models

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Role     string `gorm:"type:varchar(50);not null" json:"role"` // admin, staff, chef, cleaner

	// Suspension fields. Unsuspending clears all four.
	IsSuspended     bool       `gorm:"not null;default:false" json:"is_suspended"`
	SuspendedAt     *time.Time `json:"suspended_at,omitempty"`
	SuspendedReason *string    `gorm:"type:varchar(255)" json:"suspended_reason,omitempty"`
	SuspendedUntil  *time.Time `json:"suspended_until,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
