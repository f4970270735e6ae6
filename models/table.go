package models

import "time"

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BusinessID  uint      `gorm:"not null;index" json:"business_id"`
	Label       string    `gorm:"type:varchar(50);not null" json:"label"`
	Section     string    `gorm:"type:varchar(50)" json:"section"`
	MinCapacity int       `gorm:"not null;default:1" json:"min_capacity"`
	MaxCapacity int       `gorm:"not null" json:"max_capacity"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	Status      string    `gorm:"type:varchar(50);not null;default:'available'" json:"status"` // available, occupied, dirty
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
