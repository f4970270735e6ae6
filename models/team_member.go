package models

import "time"

type TeamMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BusinessID  uint      `gorm:"not null;index" json:"business_id"`
	UserID      *uint     `gorm:"index" json:"user_id,omitempty"`
	User        *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"user,omitempty"`
	Email       string    `gorm:"type:varchar(255);not null" json:"email"`
	Role        string    `gorm:"type:varchar(50);not null;default:'staff'" json:"role"`
	Status      string    `gorm:"type:varchar(20);not null;default:'invited'" json:"status"` // invited, active, revoked
	InviteToken string    `gorm:"type:varchar(64)" json:"-"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
